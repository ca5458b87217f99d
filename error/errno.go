package error

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// FromErrno tags an OS call failure with the taxonomy. The cause is kept
// verbatim; errors that are already tagged pass through unchanged.
func FromErrno(op, resource string, err error) error {
	if err == nil {
		return nil
	}

	var te *Error
	if errors.As(err, &te) {
		return err
	}

	return Wrap(errnoKind(err), op, resource, err)
}

func errnoKind(err error) Kind {
	if errors.Is(err, os.ErrClosed) {
		return KindResourceUnavailable
	}

	var errno unix.Errno
	if !errors.As(err, &errno) {
		return KindIO
	}

	switch errno {
	case unix.ENOENT, unix.ENOTDIR:
		return KindNotFound
	case unix.EPERM, unix.EACCES, unix.EROFS:
		return KindPermissionDenied
	case unix.ESRCH, unix.EBADF:
		return KindResourceUnavailable
	case unix.EFAULT, unix.EINVAL, unix.EIO, unix.ENXIO, unix.EOVERFLOW:
		return KindOutOfRange
	default:
		return KindIO
	}
}
