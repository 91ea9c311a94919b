package audio

import "fmt"

// UnsupportedFormatError reports an upload that is not wav/mp3 or cannot be decoded.
type UnsupportedFormatError struct {
	Name   string
	Reason string
	Err    error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported audio %q: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("unsupported audio %q: %s", e.Name, e.Reason)
}

func (e *UnsupportedFormatError) Unwrap() error { return e.Err }

// LimitError reports an upload exceeding the configured size or duration bound.
type LimitError struct {
	Name   string
	Limit  string
	Actual string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("audio %q too large: %s exceeds limit %s", e.Name, e.Actual, e.Limit)
}
