// Package fileio reads content and template files as UTF-8 text.
package fileio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"unicode/utf8"
)

// IOError reports a failure to open or read a file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ErrNotUTF8 is wrapped by IOError when a file is not valid UTF-8.
var ErrNotUTF8 = errors.New("file is not valid UTF-8")

// ReadText reads the whole file name from fsys. The context is checked
// before the read so a cancelled request does not touch the disk.
func ReadText(ctx context.Context, fsys fs.FS, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &IOError{Path: name, Err: err}
	}
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", &IOError{Path: name, Err: err}
	}
	if !utf8.Valid(b) {
		return "", &IOError{Path: name, Err: ErrNotUTF8}
	}
	return string(b), nil
}
