// Package prowler attaches to running processes and reads and writes their
// memory at absolute virtual addresses.
package prowler

import (
	"slices"
	"strconv"

	e "byteaccess/error"
)

// Prowler is an attached process. It implements resource.Handle; offsets
// are virtual addresses in the target.
type Prowler struct {
	proc   Process
	name   string
	pidfd  int
	closed bool
}

// Attach opens a handle on p and fails fast when the caller lacks the
// rights to read its memory.
func Attach(p Process) (*Prowler, error) {
	name := p.String()

	pidfd, err := openPidfd(p.Pid)
	if err != nil {
		return nil, gone(e.FromErrno("attach", name, err))
	}

	pr := &Prowler{
		proc:  p,
		name:  name,
		pidfd: pidfd,
	}

	if err := pr.probe(); err != nil {
		pr.Close()
		return nil, gone(err)
	}

	return pr, nil
}

// gone reports a process that exited before attach completed as not found.
func gone(err error) error {
	switch e.KindOf(err) {
	case e.KindResourceUnavailable, e.KindNotFound:
		return &e.Error{Kind: e.KindNotFound, Op: "attach", Detail: "process is not running", Cause: err}
	}
	return err
}

// probe reads one byte of the first ordinary readable mapping. A process
// whose memory cannot be read at all is reported at attach time rather
// than on first use.
func (p *Prowler) probe() error {
	regions, err := Regions(p.proc.Pid)
	if err != nil {
		return err
	}

	for _, r := range regions {
		if !r.Readable() || r.special() || r.Size() == 0 {
			continue
		}

		_, err := p.Read(r.Start, 1)
		switch e.KindOf(err) {
		case e.KindPermissionDenied, e.KindResourceUnavailable:
			return err
		}
		return nil
	}

	return nil
}

func (p *Prowler) Process() Process {
	return p.proc
}

func (p *Prowler) Name() string {
	return p.name
}

func (p *Prowler) alive(op string) error {
	if p.closed {
		return e.Closed(op, p.name)
	}
	if p.pidfd >= 0 && !pidfdAlive(p.pidfd) {
		return e.New(e.KindResourceUnavailable, op, p.name, "process exited")
	}
	return nil
}

func (p *Prowler) address(op string, offset uint64) (uintptr, error) {
	addr := uintptr(offset)
	if uint64(addr) != offset {
		return 0, e.New(e.KindOutOfRange, op, p.name, "address %#x", offset)
	}
	return addr, nil
}

// readChunk bounds each process_vm_readv call; the result grows only as
// bytes arrive.
const readChunk = 1 << 20

func (p *Prowler) Read(offset uint64, length int) ([]byte, error) {
	if err := p.alive("read"); err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, e.New(e.KindOutOfRange, "read", p.name, "negative length %d", length)
	}
	if length == 0 {
		return []byte{}, nil
	}

	buf := make([]byte, 0, min(length, readChunk))
	for len(buf) < length {
		at := offset + uint64(len(buf))
		addr, err := p.address("read", at)
		if err != nil {
			return nil, err
		}

		c := min(length-len(buf), readChunk)
		buf = slices.Grow(buf, c)
		n, err := readMemory(p.proc.Pid, buf[len(buf):len(buf)+c], addr)
		if err != nil {
			return nil, e.FromErrno("read", p.name, err)
		}
		buf = buf[:len(buf)+n]
		if n != c {
			return nil, e.New(e.KindOutOfRange, "read", p.name,
				"cannot read %#x, got %d of %d bytes at %#x", offset+uint64(len(buf)), len(buf), length, offset)
		}
	}

	return buf, nil
}

func (p *Prowler) Write(offset uint64, data []byte) error {
	if err := p.alive("write"); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	addr, err := p.address("write", offset)
	if err != nil {
		return err
	}

	n, err := writeMemory(p.proc.Pid, data, addr)
	if err != nil {
		return e.FromErrno("write", p.name, err)
	}
	if n != len(data) {
		return e.New(e.KindOutOfRange, "write", p.name,
			"cannot write %#x, wrote %d of %d bytes at %#x", offset+uint64(n), n, len(data), offset)
	}

	return nil
}

// Extent is unbounded: the address space is only validated per call.
func (p *Prowler) Extent() (uint64, bool, error) {
	if err := p.alive("stat"); err != nil {
		return 0, false, err
	}
	return 0, false, nil
}

func (p *Prowler) Close() error {
	if p.closed {
		return e.Closed("close", p.name)
	}
	p.closed = true

	if p.pidfd < 0 {
		return nil
	}
	return e.FromErrno("close", strconv.Itoa(p.proc.Pid), closeFd(p.pidfd))
}
