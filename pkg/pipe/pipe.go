//go:build unix

// Package pipe moves clipboard transfer data across the pipes used by
// Wayland-style protocols, with polling so a vanished peer cannot block a
// read forever.
package pipe

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

var (
	ErrNilPipe      = errors.New("pipe: nil pipe provided")
	ErrFailedCreate = errors.New("pipe: failed to create pipe")
)

// Transfer is a pipe pair for one clipboard transfer. The write end is
// handed to the compositor; the read end stays local.
type Transfer struct {
	rfd *os.File
	wfd *os.File
}

func New() (*Transfer, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, errors.Join(ErrFailedCreate, err)
	}
	return &Transfer{rfd: r, wfd: w}, nil
}

// WriteEnd returns the descriptor whose ownership is transferred to the peer.
func (p *Transfer) WriteEnd() *os.File { return p.wfd }

// ReadEnd returns the local read descriptor.
func (p *Transfer) ReadEnd() *os.File { return p.rfd }

// Close closes the read end; the write end belongs to the peer once sent.
func (p *Transfer) Close() error { return p.rfd.Close() }

// Drain reads everything the peer writes into the pipe. It returns once the
// peer closes its end or once no more data arrives within the read timeout
// after at least one chunk was seen.
func Drain(fd uintptr) ([]byte, error) {
	if fd == 0 {
		return nil, ErrNilPipe
	}

	const (
		readChunkSize = 64 * 1024
		readTimeout   = 100 * time.Millisecond
		dataDelay     = 10 * time.Millisecond
	)

	var dest bytes.Buffer
	readBuf := make([]byte, readChunkSize)

	lastRead := time.Now()
	hasData := false

	for {
		timeout, err := waitForData(fd, lastRead, hasData, readTimeout, dataDelay)
		if err != nil {
			return nil, err
		}
		if timeout {
			break
		}

		n, err := syscall.Read(int(fd), readBuf)
		if err != nil && !needWait(err) {
			return nil, err
		}
		if n == 0 {
			break
		}
		if n > 0 {
			dest.Write(readBuf[:n])
		}

		lastRead = time.Now()
		hasData = true
	}

	return dest.Bytes(), nil
}

func needWait(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && (errors.Is(errno, syscall.EAGAIN) || errors.Is(errno, syscall.EINTR))
}

func waitForData(fd uintptr, lastRead time.Time, hasData bool, readTimeout, dataDelay time.Duration) (bool, error) {
	if hasData && time.Since(lastRead) >= dataDelay {
		return true, nil
	}

	fds := []unix.PollFd{{
		Fd:     int32(fd),
		Events: unix.POLLIN | unix.POLLERR | unix.POLLHUP | unix.POLLNVAL,
	}}

	timeout := -1
	if hasData {
		timeout = int(readTimeout.Milliseconds())
	}

	for {
		n, err := unix.Poll(fds, timeout)
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			return false, fmt.Errorf("poll error: %w", err)
		}

		if n == 0 {
			return true, nil
		}

		re := fds[0].Revents
		if re&(unix.POLLERR|unix.POLLNVAL) != 0 {
			return true, fmt.Errorf("poll error revents=%v", re)
		}
		if re&unix.POLLHUP != 0 {
			return true, nil
		}
		if re&unix.POLLIN != 0 {
			return false, nil
		}
	}
}
