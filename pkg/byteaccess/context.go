package byteaccess

import (
	"math"

	e "byteaccess/error"
	"byteaccess/pkg/logflags"
	"byteaccess/pkg/prowler"
	"byteaccess/pkg/resource"
)

// Context owns one open resource and creates views into it.
type Context interface {
	// ByteAccess returns a view of size bytes at the absolute offset.
	ByteAccess(offset, size uint64) (*ByteAccess, error)
	// Name is the identifier the Context was opened with.
	Name() string
	// Close releases the resource. Every view derived from the Context
	// fails with ResourceUnavailable afterwards.
	Close() error
}

var (
	_ Context = (*FileContext)(nil)
	_ Context = (*MemContext)(nil)
)

type Option func(*options)

type options struct {
	logger logflags.Logger
	access logflags.Logger
	policy AttachPolicy
	finder func(name string) ([]prowler.Process, error)
	lookup func(pid int) (prowler.Process, error)
	opener func(p prowler.Process) (resource.Handle, error)
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: logflags.AttachLogger(),
		access: logflags.AccessLogger(),
		policy: PolicyError,
		finder: prowler.FindProcess,
		lookup: prowler.LookupPid,
		opener: attachProwler,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func attachProwler(p prowler.Process) (resource.Handle, error) {
	pr, err := prowler.Attach(p)
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// WithLogger replaces both the attach and the access logger.
func WithLogger(l logflags.Logger) Option {
	return func(o *options) {
		o.logger = l
		o.access = l
	}
}

// WithPolicy selects how Attach resolves a name matching several processes.
func WithPolicy(p AttachPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithFinder replaces process discovery by name.
func WithFinder(f func(name string) ([]prowler.Process, error)) Option {
	return func(o *options) {
		o.finder = f
	}
}

// WithOpener replaces how a resolved process is opened.
func WithOpener(f func(p prowler.Process) (resource.Handle, error)) Option {
	return func(o *options) {
		o.opener = f
	}
}

// owner holds what both Context variants share: the handle and its lifetime.
type owner struct {
	name   string
	h      resource.Handle
	closed bool
	logger logflags.Logger
	access logflags.Logger
}

func (o *owner) Name() string {
	return o.name
}

// view validates what every resource kind has in common: use after close
// and ranges that wrap the 64-bit offset space.
func (o *owner) view(offset, size uint64) (*ByteAccess, error) {
	if o.closed {
		return nil, e.Closed("view", o.name)
	}
	if size > math.MaxUint64-offset {
		return nil, e.New(e.KindOutOfBounds, "view", o.name, "offset:%#x size:%d overflows", offset, size)
	}

	return &ByteAccess{
		rw:     o.h,
		name:   o.h.Name(),
		offset: offset,
		size:   size,
		logger: o.access,
	}, nil
}

func (o *owner) Close() error {
	if o.closed {
		return e.Closed("close", o.name)
	}
	o.closed = true

	err := o.h.Close()
	o.logger.Debugf("closed %s: %v", o.name, err)
	return err
}
