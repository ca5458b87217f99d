package resource

import (
	"io"
	"math"

	e "byteaccess/error"
	"golang.org/x/sys/unix"
)

// File is a read/write descriptor on a regular file.
type File struct {
	path   string
	fd     int
	closed bool
}

// OpenFile opens path for reading and writing. The file is never created,
// truncated or grown.
func OpenFile(path string) (*File, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, e.FromErrno("open", path, err)
	}

	return &File{path: path, fd: fd}, nil
}

func (f *File) Name() string {
	return f.path
}

func (f *File) Read(offset uint64, length int) ([]byte, error) {
	if f.closed {
		return nil, e.Closed("read", f.path)
	}
	if offset > math.MaxInt64 || length < 0 {
		return nil, e.New(e.KindOutOfRange, "read", f.path, "%d bytes at %#x", length, offset)
	}

	buf := make([]byte, length)
	for n := 0; n < length; {
		m, err := unix.Pread(f.fd, buf[n:], int64(offset)+int64(n))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, e.FromErrno("read", f.path, err)
		}
		if m == 0 {
			return nil, e.New(e.KindOutOfRange, "read", f.path,
				"end of file at %d, wanted %d bytes at %d", offset+uint64(n), length, offset)
		}
		n += m
	}

	return buf, nil
}

func (f *File) Write(offset uint64, data []byte) error {
	if f.closed {
		return e.Closed("write", f.path)
	}

	size, _, err := f.Extent()
	if err != nil {
		return err
	}
	if offset > size || uint64(len(data)) > size-offset {
		return e.New(e.KindOutOfRange, "write", f.path,
			"%d bytes at %d past end of file (%d)", len(data), offset, size)
	}

	return f.writeFull(unix.Pwrite, offset, data)
}

func (f *File) writeFull(write func(fd int, p []byte, offset int64) (int, error), offset uint64, data []byte) error {
	for n := 0; n < len(data); {
		m, err := write(f.fd, data[n:], int64(offset)+int64(n))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return e.FromErrno("write", f.path, err)
		}
		if m == 0 {
			return e.Wrap(e.KindIO, "write", f.path, io.ErrShortWrite)
		}
		n += m
	}

	return nil
}

// Extent returns the current file length.
func (f *File) Extent() (uint64, bool, error) {
	if f.closed {
		return 0, true, e.Closed("stat", f.path)
	}

	var st unix.Stat_t
	if err := unix.Fstat(f.fd, &st); err != nil {
		return 0, true, e.FromErrno("stat", f.path, err)
	}

	return uint64(st.Size), true, nil
}

func (f *File) Close() error {
	if f.closed {
		return e.Closed("close", f.path)
	}
	f.closed = true

	return e.FromErrno("close", f.path, unix.Close(f.fd))
}
