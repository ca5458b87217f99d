package byteaccess

import (
	e "byteaccess/error"
	"byteaccess/pkg/resource"
)

// FileContext creates views into one file. The file is opened for reading
// and writing and is never resized.
type FileContext struct {
	owner
}

// Open opens path. It fails with NotFound or PermissionDenied.
func Open(path string, opts ...Option) (*FileContext, error) {
	o := newOptions(opts)

	f, err := resource.OpenFile(path)
	if err != nil {
		o.logger.Debugf("open %s: %v", path, err)
		return nil, err
	}

	o.logger.Debugf("opened %s", path)
	return &FileContext{
		owner: owner{
			name:   path,
			h:      f,
			logger: o.logger,
			access: o.access,
		},
	}, nil
}

// Size returns the current file length.
func (c *FileContext) Size() (uint64, error) {
	if c.closed {
		return 0, e.Closed("stat", c.name)
	}
	size, _, err := c.h.Extent()
	return size, err
}

// ByteAccess fails with OutOfBounds when the view would extend past the
// current end of the file.
func (c *FileContext) ByteAccess(offset, size uint64) (*ByteAccess, error) {
	b, err := c.view(offset, size)
	if err != nil {
		return nil, err
	}

	extent, _, err := c.h.Extent()
	if err != nil {
		return nil, err
	}
	if offset+size > extent {
		return nil, e.New(e.KindOutOfBounds, "view", c.name,
			"offset:%d size:%d past end of file (%d)", offset, size, extent)
	}

	return b, nil
}
