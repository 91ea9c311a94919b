// Package shell is the line-oriented terminal front end of notebolt.
package shell

import "context"

// Shell reads commands until quit, EOF or ctx is done.
type Shell interface {
	Run(ctx context.Context) error
}
