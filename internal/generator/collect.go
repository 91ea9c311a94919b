package generator

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// errTruncated is returned by a Stream whose connection closed before the
// provider signalled the end of the completion.
var errTruncated = fmt.Errorf("stream ended before completion: %w", io.ErrUnexpectedEOF)

// Collect concatenates fragments in arrival order with no separator.
// Any error other than io.EOF discards what was received.
func Collect(s Stream, onFragment func(string)) (string, error) {
	var b strings.Builder
	for {
		frag, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}

		b.WriteString(frag)
		if onFragment != nil {
			onFragment(frag)
		}
	}
}
