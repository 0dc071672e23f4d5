//go:build unix

package osc52

import "golang.org/x/sys/unix"

// rawMode switches the terminal to noecho/cbreak so the paste response does
// not hit the screen, and returns a function restoring the previous state.
func rawMode(fd uintptr) (func(), error) {
	old, err := unix.IoctlGetTermios(int(fd), ioctlReadTermios)
	if err != nil {
		return nil, err
	}

	raw := *old
	raw.Lflag &^= unix.ECHO | unix.ICANON
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(int(fd), ioctlWriteTermios, &raw); err != nil {
		return nil, err
	}

	return func() {
		_ = unix.IoctlSetTermios(int(fd), ioctlWriteTermios, old)
	}, nil
}
