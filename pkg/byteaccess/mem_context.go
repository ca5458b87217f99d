package byteaccess

import (
	"errors"
	"strconv"

	e "byteaccess/error"
	"byteaccess/pkg/prowler"
)

// MemContext creates views into the memory of a running process. View
// offsets are virtual addresses in the target.
type MemContext struct {
	owner
	proc prowler.Process
}

// Attach locates a running process by executable name and opens its memory.
// A name made only of decimal digits is taken as a PID.
//
// When several processes match, the outcome is decided by the policy given
// with WithPolicy; the default, PolicyError, fails with Ambiguous.
func Attach(name string, opts ...Option) (*MemContext, error) {
	o := newOptions(opts)

	if pid, err := strconv.Atoi(name); err == nil {
		return attachPID(name, pid, o)
	}

	candidates, err := o.finder(name)
	if err != nil {
		o.logger.Debugf("find %s: %v", name, err)
		return nil, err
	}

	p, err := o.policy.choose(name, candidates)
	if err != nil {
		o.logger.Debugf("resolve %s with policy %s: %v", name, o.policy, err)
		return nil, err
	}

	return attach(name, p, len(candidates), o)
}

// AttachPID opens the memory of the process with the given PID.
func AttachPID(pid int, opts ...Option) (*MemContext, error) {
	return attachPID(strconv.Itoa(pid), pid, newOptions(opts))
}

func attachPID(name string, pid int, o *options) (*MemContext, error) {
	p, err := o.lookup(pid)
	if err != nil {
		return nil, err
	}
	return attach(name, p, 1, o)
}

func attach(name string, p prowler.Process, candidates int, o *options) (*MemContext, error) {
	h, err := o.opener(p)
	if err != nil {
		o.logger.Debugf("attach %s to %v: %v", name, p, err)
		return nil, err
	}

	o.logger.Debugw("attached",
		"name", name,
		"pid", p.Pid,
		"candidates", candidates,
		"policy", o.policy.String(),
	)

	return &MemContext{
		owner: owner{
			name:   name,
			h:      h,
			logger: o.logger,
			access: o.access,
		},
		proc: p,
	}, nil
}

// Process is the process the context is attached to.
func (c *MemContext) Process() prowler.Process {
	return c.proc
}

// Regions lists the target's current memory mappings.
func (c *MemContext) Regions() ([]prowler.MemoryRegion, error) {
	if c.closed {
		return nil, e.Closed("maps", c.name)
	}
	if _, _, err := c.h.Extent(); err != nil {
		return nil, err
	}

	regions, err := prowler.Regions(c.proc.Pid)
	if errors.Is(err, e.NotFound) {
		return nil, e.Wrap(e.KindResourceUnavailable, "maps", c.name, err)
	}
	return regions, err
}

// ByteAccess never checks the range against the target's address space.
// A bad address surfaces on each read or write instead.
func (c *MemContext) ByteAccess(offset, size uint64) (*ByteAccess, error) {
	return c.view(offset, size)
}
