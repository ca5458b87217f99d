package byteaccess

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	e "byteaccess/error"
	"byteaccess/pkg/logflags"
	"byteaccess/pkg/prowler"
	"byteaccess/pkg/resource"
)

// countingHandle records every call that reaches the resource.
type countingHandle struct {
	*resource.LocalMemory
	reads  int
	writes int
}

func (c *countingHandle) Read(offset uint64, length int) ([]byte, error) {
	c.reads++
	return c.LocalMemory.Read(offset, length)
}

func (c *countingHandle) Write(offset uint64, data []byte) error {
	c.writes++
	return c.LocalMemory.Write(offset, data)
}

// memContext attaches to a fake process whose memory is data.
func memContext(t *testing.T, data []byte) (*MemContext, *countingHandle) {
	t.Helper()

	h := &countingHandle{LocalMemory: resource.NewLocalMemory("fake", data)}
	ctx, err := Attach("fake",
		WithLogger(logflags.Nop()),
		WithFinder(func(name string) ([]prowler.Process, error) {
			return []prowler.Process{{Pid: 100, Comm: name}}, nil
		}),
		WithOpener(func(p prowler.Process) (resource.Handle, error) {
			return h, nil
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	return ctx, h
}

func TestByteAccess_RoundTrip(t *testing.T) {
	contexts := map[string]func(t *testing.T) Context{
		"file": func(t *testing.T) Context {
			ctx, err := Open(tempFile(t, "0123456789abcdef"), WithLogger(logflags.Nop()))
			if err != nil {
				t.Fatal(err)
			}
			return ctx
		},
		"mem": func(t *testing.T) Context {
			ctx, _ := memContext(t, []byte("0123456789abcdef"))
			return ctx
		},
	}

	tests := []struct {
		offset uint64
		data   string
	}{
		{0, "A"},
		{0, "ABCDEFGH"},
		{3, "xyz"},
		{7, "0"},
		{8, ""},
	}

	for kind, newContext := range contexts {
		t.Run(kind, func(t *testing.T) {
			ctx := newContext(t)
			defer ctx.Close()

			view, err := ctx.ByteAccess(4, 8)
			if err != nil {
				t.Fatal(err)
			}

			for _, tt := range tests {
				if err := view.WriteBytes(tt.offset, []byte(tt.data)); err != nil {
					t.Fatalf("WriteBytes(%d, %q): %v", tt.offset, tt.data, err)
				}
				got, err := view.ReadBytes(tt.offset, uint64(len(tt.data)))
				if err != nil {
					t.Fatalf("ReadBytes(%d, %d): %v", tt.offset, len(tt.data), err)
				}
				if string(got) != tt.data {
					t.Fatalf("ReadBytes(%d, %d) = %q, want %q", tt.offset, len(tt.data), got, tt.data)
				}
			}
		})
	}
}

func TestByteAccess_OutOfBoundsIssuesNoCall(t *testing.T) {
	data := []byte("0123456789")
	ctx, h := memContext(t, data)
	defer ctx.Close()

	view, err := ctx.ByteAccess(2, 4)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		offset uint64
		length uint64
	}{
		{2, 4},
		{0, 5},
		{4, 1},
		{5, 0},
		{1 << 63, 1 << 63},
		{^uint64(0), 2},
	}

	for _, tt := range tests {
		if _, err := view.ReadBytes(tt.offset, tt.length); !errors.Is(err, e.OutOfBounds) {
			t.Errorf("ReadBytes(%d, %d): expected OutOfBounds, got %v", tt.offset, tt.length, err)
		}
		if err := view.WriteBytes(tt.offset, make([]byte, tt.length%64)); tt.length%64 != 0 && !errors.Is(err, e.OutOfBounds) {
			t.Errorf("WriteBytes(%d, %d): expected OutOfBounds, got %v", tt.offset, tt.length%64, err)
		}
	}

	if err := view.WriteBytes(1, []byte("XYZW")); !errors.Is(err, e.OutOfBounds) {
		t.Fatalf("expected OutOfBounds, got %v", err)
	}

	if h.reads != 0 || h.writes != 0 {
		t.Fatalf("bounds failures reached the resource: %d reads, %d writes", h.reads, h.writes)
	}
	if string(data) != "0123456789" {
		t.Fatalf("resource mutated: %q", data)
	}
}

func TestByteAccess_OverlappingViews(t *testing.T) {
	ctx, err := Open(tempFile(t, "0123456789"), WithLogger(logflags.Nop()))
	if err != nil {
		t.Fatal(err)
	}
	defer ctx.Close()

	foo, err := ctx.ByteAccess(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	bar, err := ctx.ByteAccess(6, 4)
	if err != nil {
		t.Fatal(err)
	}

	if err := bar.WriteBytes(0, []byte("asdf")); err != nil {
		t.Fatal(err)
	}
	got, err := foo.ReadBytes(6, 4)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "asdf" {
		t.Fatalf("write through bar not visible through foo: %q", got)
	}

	if err := foo.WriteBytes(7, []byte("Z")); err != nil {
		t.Fatal(err)
	}
	all, err := bar.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if string(all) != "aZdf" {
		t.Fatalf("write through foo not visible through bar: %q", all)
	}
}

func TestByteAccess_ReaderAtWriterAt(t *testing.T) {
	ctx, _ := memContext(t, make([]byte, 32))
	defer ctx.Close()

	view, err := ctx.ByteAccess(8, 16)
	if err != nil {
		t.Fatal(err)
	}

	sw := io.NewOffsetWriter(view, 4)
	if err := binary.Write(sw, binary.LittleEndian, uint32(0xdeadbeef)); err != nil {
		t.Fatal(err)
	}

	var v uint32
	if err := binary.Read(io.NewSectionReader(view, 4, 4), binary.LittleEndian, &v); err != nil {
		t.Fatal(err)
	}
	if v != 0xdeadbeef {
		t.Fatalf("read back %#x", v)
	}

	p := make([]byte, 8)
	n, err := view.ReadAt(p, 12)
	if n != 4 || err != io.EOF {
		t.Fatalf("short ReadAt = %d, %v", n, err)
	}
	if n, err := view.ReadAt(p, 16); n != 0 || err != io.EOF {
		t.Fatalf("ReadAt at end = %d, %v", n, err)
	}

	if n, err := view.WriteAt(p, 12); n != 0 || !errors.Is(err, e.OutOfBounds) {
		t.Fatalf("WriteAt past end = %d, %v", n, err)
	}
	if _, err := view.ReadAt(p, -1); !errors.Is(err, e.OutOfBounds) {
		t.Fatalf("negative ReadAt offset: %v", err)
	}
}

func TestByteAccess_Attributes(t *testing.T) {
	ctx, _ := memContext(t, make([]byte, 4))
	defer ctx.Close()

	view, err := ctx.ByteAccess(0x6A8154, 4)
	if err != nil {
		t.Fatal(err)
	}
	if view.Offset() != 0x6A8154 || view.Size() != 4 {
		t.Fatalf("view = %#x/%d", view.Offset(), view.Size())
	}

	if _, err := ctx.ByteAccess(^uint64(0), 2); !errors.Is(err, e.OutOfBounds) {
		t.Fatalf("wrapping view: expected OutOfBounds, got %v", err)
	}
}

func TestContext_UseAfterClose(t *testing.T) {
	ctx, _ := memContext(t, []byte("daeh"))

	view, err := ctx.ByteAccess(0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got, err := view.ReadAll(); err != nil || !bytes.Equal(got, []byte("daeh")) {
		t.Fatalf("ReadAll = %q, %v", got, err)
	}

	if err := ctx.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := view.ReadAll(); !errors.Is(err, e.ResourceUnavailable) {
		t.Fatalf("read after close: %v", err)
	}
	if err := view.WriteBytes(0, []byte("toof")); !errors.Is(err, e.ResourceUnavailable) {
		t.Fatalf("write after close: %v", err)
	}
	if _, err := ctx.ByteAccess(0, 1); !errors.Is(err, e.ResourceUnavailable) {
		t.Fatalf("view after close: %v", err)
	}
	if err := ctx.Close(); !errors.Is(err, e.ResourceUnavailable) {
		t.Fatalf("double close: %v", err)
	}
}
