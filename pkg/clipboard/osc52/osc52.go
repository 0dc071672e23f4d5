//go:build unix

// Package osc52 talks to the terminal emulator's clipboard through OSC 52
// escape sequences on the controlling terminal. The terminal buffers the
// payload itself, so the process may exit right after a set. Works across
// SSH sessions, which no display-server backend can do.
package osc52

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/labi-le/ttybox/pkg/clip"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

const Name = "osc52"

// The controlling terminal of the process group. Usable no matter how
// stdin/stdout have been redirected.
const ttyDevice = "/dev/tty"

// Buffer size for draining the paste response. Trade-off between memory and
// syscall frequency.
const readBufferSize = 8192

// Maximum wait for the terminal emulator to push the clipboard content. If
// nothing arrives within this window the terminal most likely does not
// support OSC 52. Small enough to stay smooth on unsupported terminals,
// large enough for slow ones.
const responseWait = 500 * time.Millisecond

type Clipboard struct {
	logger zerolog.Logger
	sel    byte
}

func New(logger zerolog.Logger, selection clip.Selection) *Clipboard {
	sel := byte('c')
	if selection == clip.SelectionPrimary {
		sel = 'p'
	}
	return &Clipboard{
		logger: logger.With().Str("component", Name).Logger(),
		sel:    sel,
	}
}

// Available reports whether a controlling terminal can be opened.
func Available() bool {
	tty, err := os.OpenFile(ttyDevice, os.O_RDWR, 0)
	if err != nil {
		return false
	}
	defer tty.Close()
	return isatty.IsTerminal(tty.Fd())
}

func (c *Clipboard) Name() string      { return Name }
func (c *Clipboard) Model() clip.Model { return clip.ModelBuffered }

func (c *Clipboard) Set(_ context.Context, p clip.Payload) error {
	if err := c.writeTTY(encodeSet(c.sel, p.Bytes())); err != nil {
		return fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
	}
	return nil
}

func (c *Clipboard) Clear(context.Context) error {
	if err := c.writeTTY(encodeSet(c.sel, nil)); err != nil {
		return fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
	}
	return nil
}

func (c *Clipboard) Get(ctx context.Context) (clip.Payload, error) {
	tty, err := os.OpenFile(ttyDevice, os.O_RDWR, 0)
	if err != nil {
		return clip.Payload{}, fmt.Errorf("%w: open %s: %w", clip.ErrBackendUnavailable, ttyDevice, err)
	}
	defer tty.Close()

	// The query response (escape codes + base64 content) would be echoed
	// to the screen unless the terminal is switched to noecho/cbreak mode
	// before requesting.
	restore, err := rawMode(tty.Fd())
	if err != nil {
		return clip.Payload{}, fmt.Errorf("%w: raw mode: %w", clip.ErrBackendUnavailable, err)
	}
	defer restore()

	if _, err := tty.Write(encodeQuery(c.sel)); err != nil {
		return clip.Payload{}, fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
	}

	if err := unix.SetNonblock(int(tty.Fd()), true); err != nil {
		return clip.Payload{}, fmt.Errorf("%w: %w", clip.ErrBackendUnavailable, err)
	}

	raw, err := c.readResponse(ctx, tty)
	if err != nil {
		return clip.Payload{}, err
	}

	data, err := decodeResponse(raw)
	if err != nil {
		return clip.Payload{}, err
	}
	if len(data) == 0 {
		return clip.Payload{}, nil
	}
	return clip.NewPayload(data)
}

func (c *Clipboard) Watch(context.Context, chan<- clip.Update) error {
	return clip.ErrUnsupported
}

func (c *Clipboard) writeTTY(seq []byte) error {
	tty, err := os.OpenFile(ttyDevice, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", ttyDevice, err)
	}
	defer tty.Close()

	_, err = tty.Write(seq)
	return err
}

// readResponse drains the paste response until a terminator arrives. No data
// at all within the wait budget means the terminal does not answer OSC 52
// queries (or is too sluggish to be usable).
func (c *Clipboard) readResponse(ctx context.Context, tty *os.File) ([]byte, error) {
	fd := int(tty.Fd())
	buf := make([]byte, readBufferSize)
	var content []byte

	deadline := time.Now().Add(responseWait)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if len(content) > 0 {
				return nil, fmt.Errorf("%w: truncated OSC 52 response", clip.ErrTimeout)
			}
			return nil, fmt.Errorf("%w: terminal did not answer the OSC 52 query", clip.ErrUnsupported)
		}

		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, int(remaining.Milliseconds()))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return nil, fmt.Errorf("%w: %w", clip.ErrBackendLost, err)
		}
		if n == 0 {
			continue
		}

		for {
			nr, err := unix.Read(fd, buf)
			if err != nil {
				if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
					break
				}
				return nil, fmt.Errorf("%w: %w", clip.ErrBackendLost, err)
			}
			if nr == 0 {
				return nil, fmt.Errorf("%w: terminal closed", clip.ErrBackendLost)
			}
			content = append(content, buf[:nr]...)
			if nr < len(buf) {
				break
			}
		}

		if terminated(content) {
			return content, nil
		}
	}
}

// encodeSet builds `ESC ] 52 ; <sel> ; <base64> BEL`. An empty payload
// clears the selection.
func encodeSet(sel byte, data []byte) []byte {
	seq := append([]byte("\x1b]52;"), sel, ';')
	seq = append(seq, base64.StdEncoding.AppendEncode(nil, data)...)
	return append(seq, '\a')
}

// encodeQuery builds the paste request `ESC ] 52 ; <sel> ; ? BEL`.
func encodeQuery(sel byte) []byte {
	return []byte{0x1b, ']', '5', '2', ';', sel, ';', '?', '\a'}
}

// terminated reports whether resp carries a full response: terminals end it
// with either BEL or ST (ESC \).
func terminated(resp []byte) bool {
	if len(resp) == 0 {
		return false
	}
	if resp[len(resp)-1] == '\a' {
		return true
	}
	n := len(resp)
	return n >= 2 && resp[n-2] == 0x1b && resp[n-1] == '\\'
}

// decodeResponse extracts and decodes the base64 content from a full OSC 52
// response, `ESC ] 52 ; <sel> ; <base64> (BEL | ESC \)`.
func decodeResponse(resp []byte) ([]byte, error) {
	if !terminated(resp) {
		return nil, errors.New("osc52: response has no terminating character")
	}
	if resp[len(resp)-1] == '\a' {
		resp = resp[:len(resp)-1]
	} else {
		resp = resp[:len(resp)-2]
	}

	idx := -1
	for i := len(resp) - 1; i >= 0; i-- {
		if resp[i] == ';' {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, errors.New("osc52: cannot parse response")
	}

	data, err := base64.StdEncoding.AppendDecode(nil, resp[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("osc52: response is not valid base64: %w", err)
	}
	return data, nil
}
