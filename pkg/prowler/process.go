package prowler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	e "byteaccess/error"
)

// commLen is the kernel's limit on /proc/<pid>/comm, excluding the NUL.
const commLen = 15

var procRoot = "/proc"

// Process describes one running process as seen under /proc.
type Process struct {
	Pid       int
	Comm      string
	Exe       string // empty when the link is unreadable
	Args      []string
	State     byte
	StartTime uint64 // clock ticks after boot
}

func (p Process) String() string {
	name := p.Exe
	if name == "" && len(p.Args) > 0 {
		name = p.Args[0]
	}
	if name == "" {
		name = p.Comm
	}
	return fmt.Sprintf("%d (%s)", p.Pid, name)
}

// Matches reports whether name identifies p by executable basename, argv[0]
// basename, or comm. comm is only compared for names short enough not to
// have been truncated by the kernel.
func (p Process) Matches(name string) bool {
	if p.Exe != "" && filepath.Base(p.Exe) == name {
		return true
	}
	if len(p.Args) > 0 && filepath.Base(p.Args[0]) == name {
		return true
	}
	return len(name) <= commLen && p.Comm == name
}

// FindProcess returns every live process matching name, sorted by PID.
func FindProcess(name string) ([]Process, error) {
	entries, err := os.ReadDir(procRoot)
	if err != nil {
		return nil, e.FromErrno("find", name, err)
	}

	var found []Process
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || !entry.IsDir() {
			continue
		}

		p, err := loadProcess(pid)
		if err != nil || p.State == 'Z' {
			// exited while scanning, or nothing left to attach to
			continue
		}

		if p.Matches(name) {
			found = append(found, p)
		}
	}

	if len(found) == 0 {
		return nil, e.New(e.KindNotFound, "find", name, "no running process matches")
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Pid < found[j].Pid
	})

	return found, nil
}

// LookupPid returns the process with the given PID.
func LookupPid(pid int) (Process, error) {
	resource := strconv.Itoa(pid)
	if pid <= 0 {
		return Process{}, e.New(e.KindNotFound, "lookup", resource, "invalid pid")
	}

	p, err := loadProcess(pid)
	if err != nil {
		return Process{}, e.FromErrno("lookup", resource, err)
	}
	if p.State == 'Z' {
		return Process{}, e.New(e.KindNotFound, "lookup", resource, "process is a zombie")
	}

	return p, nil
}

func loadProcess(pid int) (Process, error) {
	dir := filepath.Join(procRoot, strconv.Itoa(pid))

	stat, err := os.ReadFile(filepath.Join(dir, "stat"))
	if err != nil {
		return Process{}, err
	}

	p, err := parseStat(stat)
	if err != nil {
		return Process{}, err
	}
	p.Pid = pid

	if cmdline, err := os.ReadFile(filepath.Join(dir, "cmdline")); err == nil {
		p.Args = parseCmdline(cmdline)
	}

	if exe, err := os.Readlink(filepath.Join(dir, "exe")); err == nil {
		p.Exe = strings.TrimSuffix(exe, " (deleted)")
	}

	return p, nil
}

// parseStat reads comm, state and starttime out of /proc/<pid>/stat. comm
// may itself contain spaces and parentheses, so it runs to the last ')'.
func parseStat(stat []byte) (Process, error) {
	open := bytes.IndexByte(stat, '(')
	end := bytes.LastIndexByte(stat, ')')
	if open < 0 || end < open {
		return Process{}, fmt.Errorf("malformed stat: %q", stat)
	}

	fields := strings.Fields(string(stat[end+1:]))
	// state is field 3 of stat, starttime field 22
	if len(fields) < 20 || len(fields[0]) != 1 {
		return Process{}, fmt.Errorf("malformed stat: %q", stat)
	}

	start, err := strconv.ParseUint(fields[19], 10, 64)
	if err != nil {
		return Process{}, fmt.Errorf("malformed starttime: %v", err)
	}

	return Process{
		Comm:      string(stat[open+1 : end]),
		State:     fields[0][0],
		StartTime: start,
	}, nil
}

func parseCmdline(cmdline []byte) []string {
	cmdline = bytes.TrimRight(cmdline, "\x00")
	if len(cmdline) == 0 {
		return nil
	}
	return strings.Split(string(cmdline), "\x00")
}
