package resource

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	e "byteaccess/error"
)

func tempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "testfile.bin")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFile_ReadWrite(t *testing.T) {
	path := tempFile(t, "0123456789")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := f.Write(2, []byte("ABCDEF")); err != nil {
		t.Fatal(err)
	}

	got, err := f.Read(6, 4)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "EF89" {
		t.Fatalf("Read(6, 4) = %q", got)
	}

	disk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(disk, []byte("01ABCDEF89")) {
		t.Fatalf("file content = %q", disk)
	}

	size, bounded, err := f.Extent()
	if err != nil || !bounded || size != 10 {
		t.Fatalf("Extent() = %d, %v, %v", size, bounded, err)
	}
}

func TestFile_OutOfRange(t *testing.T) {
	path := tempFile(t, "0123456789")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.Read(8, 4); !errors.Is(err, e.OutOfRange) {
		t.Fatalf("read past EOF: expected OutOfRange, got %v", err)
	}

	if err := f.Write(8, []byte("xyz")); !errors.Is(err, e.OutOfRange) {
		t.Fatalf("write past EOF: expected OutOfRange, got %v", err)
	}

	disk, _ := os.ReadFile(path)
	if string(disk) != "0123456789" {
		t.Fatalf("file must not grow or change, got %q", disk)
	}
}

func TestFile_OpenErrors(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.bin"))
	if !errors.Is(err, e.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}

	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}

	path := tempFile(t, "ro")
	if err := os.Chmod(path, 0o444); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path); !errors.Is(err, e.PermissionDenied) {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}
}

func TestFile_Close(t *testing.T) {
	f, err := OpenFile(tempFile(t, "abcd"))
	if err != nil {
		t.Fatal(err)
	}

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := f.Read(0, 1); !errors.Is(err, e.ResourceUnavailable) {
		t.Fatalf("read after close: %v", err)
	}
	if err := f.Write(0, []byte("x")); !errors.Is(err, e.ResourceUnavailable) {
		t.Fatalf("write after close: %v", err)
	}
	if err := f.Close(); !errors.Is(err, e.ResourceUnavailable) {
		t.Fatalf("double close: %v", err)
	}
}

func TestFile_WriteStalls(t *testing.T) {
	path := tempFile(t, "0123456789")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	calls := 0
	stall := func(fd int, p []byte, offset int64) (int, error) {
		calls++
		if calls == 1 {
			return 2, nil
		}
		return 0, nil
	}

	err = f.writeFull(stall, 0, []byte("ABCD"))
	if !errors.Is(err, io.ErrShortWrite) || e.KindOf(err) != e.KindIO {
		t.Fatalf("expected a short write io error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("write called %d times", calls)
	}
}
