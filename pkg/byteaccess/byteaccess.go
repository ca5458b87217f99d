package byteaccess

import (
	"io"
	"math"

	e "byteaccess/error"
	"byteaccess/pkg/logflags"
	"byteaccess/pkg/resource"
)

// ByteAccess is a fixed window of size bytes at an absolute offset of a
// resource. It does not own the resource and is invalid once its Context is
// closed.
type ByteAccess struct {
	rw     resource.ReadWriter
	name   string
	offset uint64
	size   uint64
	logger logflags.Logger
}

// Offset is the absolute offset of the view within the resource.
func (b *ByteAccess) Offset() uint64 {
	return b.offset
}

func (b *ByteAccess) Size() uint64 {
	return b.size
}

func (b *ByteAccess) check(op string, offset, length uint64) error {
	if offset > b.size || length > b.size-offset || length > math.MaxInt {
		return e.Bounds(op, b.name, offset, length, b.size)
	}
	return nil
}

// ReadBytes returns length bytes at the relative offset.
func (b *ByteAccess) ReadBytes(offset, length uint64) ([]byte, error) {
	if err := b.check("read", offset, length); err != nil {
		return nil, err
	}

	data, err := b.rw.Read(b.offset+offset, int(length))
	if err != nil {
		b.logger.Debugf("read %s %#x+%d len %d: %v", b.name, b.offset, offset, length, err)
		return nil, err
	}

	b.logger.Debugf("read %s %#x+%d len %d", b.name, b.offset, offset, length)
	return data, nil
}

// ReadAll reads the whole view.
func (b *ByteAccess) ReadAll() ([]byte, error) {
	return b.ReadBytes(0, b.size)
}

// WriteBytes stores data at the relative offset. Nothing is written unless
// all of data fits in the view.
func (b *ByteAccess) WriteBytes(offset uint64, data []byte) error {
	if err := b.check("write", offset, uint64(len(data))); err != nil {
		return err
	}

	if err := b.rw.Write(b.offset+offset, data); err != nil {
		b.logger.Debugf("write %s %#x+%d len %d: %v", b.name, b.offset, offset, len(data), err)
		return err
	}

	b.logger.Debugf("write %s %#x+%d len %d", b.name, b.offset, offset, len(data))
	return nil
}

// ReadAt implements io.ReaderAt relative to the view. Reads running past the
// end of the view are short and return io.EOF.
func (b *ByteAccess) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, e.New(e.KindOutOfBounds, "read", b.name, "negative offset %d", off)
	}
	if uint64(off) >= b.size {
		if uint64(off) == b.size && len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}

	n := uint64(len(p))
	if rest := b.size - uint64(off); n > rest {
		n = rest
	}

	data, err := b.ReadBytes(uint64(off), n)
	if err != nil {
		return 0, err
	}
	copy(p, data)

	if int(n) < len(p) {
		return int(n), io.EOF
	}
	return int(n), nil
}

// WriteAt implements io.WriterAt relative to the view. It never writes
// partially.
func (b *ByteAccess) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, e.New(e.KindOutOfBounds, "write", b.name, "negative offset %d", off)
	}
	if err := b.WriteBytes(uint64(off), p); err != nil {
		return 0, err
	}
	return len(p), nil
}
