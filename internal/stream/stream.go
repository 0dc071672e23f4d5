// Package stream bridges clipboard payloads and the process's standard
// streams: it resolves where a set's content comes from (argument versus
// stdin) and writes get results out as raw bytes.
package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/labi-le/ttybox/pkg/clip"
)

// ErrNoInput means there is nothing to set: no argument was given and stdin
// is an interactive terminal. Callers treat it as a usage error.
var ErrNoInput = errors.New("no content: pass an argument or pipe data on stdin")

// Source locates the content for one set operation.
type Source struct {
	// Arg is the positional argument; "-" forces reading stdin, "" means no
	// argument was given.
	Arg string

	// Stdin is the process input stream.
	Stdin io.Reader

	// TTY reports whether Stdin is an interactive terminal; a terminal is
	// never read implicitly.
	TTY bool

	// MaxSize caps the payload in bytes. Zero means unlimited.
	MaxSize uint64
}

// Payload resolves the source into a payload. The argument wins over stdin
// when both are present.
func (s Source) Payload() (clip.Payload, error) {
	if s.Arg != "" && s.Arg != "-" {
		return s.build([]byte(s.Arg))
	}

	if s.Arg == "" && s.TTY {
		return clip.Payload{}, ErrNoInput
	}

	in := s.Stdin
	if s.MaxSize > 0 {
		// one byte past the cap distinguishes "exactly at" from "over"
		in = io.LimitReader(in, int64(s.MaxSize)+1)
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return clip.Payload{}, fmt.Errorf("read stdin: %w", err)
	}
	return s.build(data)
}

func (s Source) build(data []byte) (clip.Payload, error) {
	// Empty input is almost always an upstream mistake (a pipeline that
	// produced nothing); emptying the clipboard is what clear is for.
	if len(data) == 0 {
		return clip.Payload{}, fmt.Errorf("%w: empty content, use clear to empty the clipboard", clip.ErrInvalidPayload)
	}
	if s.MaxSize > 0 && uint64(len(data)) > s.MaxSize {
		return clip.Payload{}, fmt.Errorf("%w: content exceeds %d bytes", clip.ErrPayloadTooLarge, s.MaxSize)
	}
	return clip.NewPayload(data)
}

// Write emits the payload's raw bytes. An empty payload writes nothing.
func Write(w io.Writer, p clip.Payload) error {
	if p.Empty() || p.Len() == 0 {
		return nil
	}
	if _, err := w.Write(p.Bytes()); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// WriteLine emits the payload followed by a newline; watch output is
// line-oriented so consumers can split records.
func WriteLine(w io.Writer, p clip.Payload) error {
	if err := Write(w, p); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}
