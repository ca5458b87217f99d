package terminal

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	e "byteaccess/error"
	"byteaccess/pkg/byteaccess"
	"byteaccess/pkg/logflags"
)

func fileTerm(t *testing.T, content string) (*Term, *bytes.Buffer, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "testfile.bin")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, err := byteaccess.Open(path, byteaccess.WithLogger(logflags.Nop()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ctx.Close() })

	var out bytes.Buffer
	return newTerm(ctx, &out), &out, path
}

func TestTerm_Session(t *testing.T) {
	term, out, path := fileTerm(t, "0123456789")

	steps := []string{
		"view v 2 6",
		"write v 0 ABCDEF",
		`write v 4 "E "`,
		"writehex v 0 0x6162",
		"read v",
		"views",
	}
	for _, step := range steps {
		if err := term.cmds.Call(step, term); err != nil {
			t.Fatalf("%q: %v", step, err)
		}
	}

	disk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(disk) != "01abCDE 89" {
		t.Fatalf("file = %q", disk)
	}

	for _, want := range []string{"v: 0x2-0x8 (6 bytes)", "wrote 2 bytes at 0x2", "|abCDE |", "v\t0x2-0x8"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q does not contain %q", out.String(), want)
		}
	}
}

func TestTerm_Errors(t *testing.T) {
	term, _, _ := fileTerm(t, "0123456789")

	if err := term.cmds.Call("view v 0 4", term); err != nil {
		t.Fatal(err)
	}

	if err := term.cmds.Call("read v 2 4", term); !errors.Is(err, e.OutOfBounds) {
		t.Fatalf("expected OutOfBounds, got %v", err)
	}
	if err := term.cmds.Call("view big 0 11", term); !errors.Is(err, e.OutOfBounds) {
		t.Fatalf("expected OutOfBounds for view past EOF, got %v", err)
	}
	if err := term.cmds.Call("read nope", term); err == nil {
		t.Fatal("expected error for unknown view")
	}
	if err := term.cmds.Call("read v 1", term); err == nil {
		t.Fatal("expected argument count error")
	}
	if err := term.cmds.Call("maps", term); err != errNotProcess {
		t.Fatalf("expected errNotProcess, got %v", err)
	}
	if err := term.cmds.Call("frobnicate", term); err != errNoCmd {
		t.Fatalf("expected errNoCmd, got %v", err)
	}
	if err := term.cmds.Call("", term); err != nil {
		t.Fatalf("empty line: %v", err)
	}
	if _, ok := term.cmds.Call("quit", term).(ExitRequestError); !ok {
		t.Fatal("quit must request exit")
	}
}

func TestTerm_Complete(t *testing.T) {
	term, _, _ := fileTerm(t, "0123456789")

	for _, step := range []string{"view header 0 4", "view body 4 6"} {
		if err := term.cmds.Call(step, term); err != nil {
			t.Fatal(err)
		}
	}

	got := term.complete("write")
	if !contains(got, "write") || !contains(got, "writehex") {
		t.Fatalf("complete(write) = %v", got)
	}

	got = term.complete("read he")
	if len(got) != 1 || got[0] != "read header" {
		t.Fatalf("complete(read he) = %v", got)
	}

	if got := term.complete(""); got != nil {
		t.Fatalf("complete() = %v", got)
	}
}

func TestTerm_Help(t *testing.T) {
	term, out, _ := fileTerm(t, "x")

	if err := term.cmds.Call("help", term); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"view <name> <offset> <size>", "writehex", "alias: r | dump"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
