package resource

import (
	e "byteaccess/error"
)

// LocalMemory is a Handle over a byte slice owned by the caller. Writes are
// visible in the slice immediately.
type LocalMemory struct {
	name   string
	data   []byte
	closed bool
}

func NewLocalMemory(name string, data []byte) *LocalMemory {
	return &LocalMemory{
		name: name,
		data: data,
	}
}

func (m *LocalMemory) Name() string {
	return m.name
}

func (m *LocalMemory) check(op string, offset uint64, length int) error {
	if m.closed {
		return e.Closed(op, m.name)
	}

	size := uint64(len(m.data))
	if offset > size || uint64(length) > size-offset {
		return e.New(e.KindOutOfRange, op, m.name, "%d bytes at %d, extent %d", length, offset, size)
	}

	return nil
}

func (m *LocalMemory) Read(offset uint64, length int) ([]byte, error) {
	if err := m.check("read", offset, length); err != nil {
		return nil, err
	}

	buf := make([]byte, length)
	copy(buf, m.data[offset:])
	return buf, nil
}

func (m *LocalMemory) Write(offset uint64, data []byte) error {
	if err := m.check("write", offset, len(data)); err != nil {
		return err
	}

	copy(m.data[offset:], data)
	return nil
}

func (m *LocalMemory) Extent() (uint64, bool, error) {
	if m.closed {
		return 0, true, e.Closed("stat", m.name)
	}
	return uint64(len(m.data)), true, nil
}

func (m *LocalMemory) Close() error {
	if m.closed {
		return e.Closed("close", m.name)
	}
	m.closed = true
	return nil
}
