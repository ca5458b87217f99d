package prowler

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	e "byteaccess/error"
)

type MemoryRegion struct {
	Start  uint64
	End    uint64
	Perms  string
	Offset uint64
	Device string
	Inode  uint64
	Path   string
}

func (r MemoryRegion) Size() uint64 {
	return r.End - r.Start
}

func (r MemoryRegion) Readable() bool {
	return strings.HasPrefix(r.Perms, "r")
}

func (r MemoryRegion) Writable() bool {
	return len(r.Perms) > 1 && r.Perms[1] == 'w'
}

// special reports kernel provided mappings that process_vm_readv refuses.
func (r MemoryRegion) special() bool {
	switch r.Path {
	case "[vvar]", "[vvar_vclock]", "[vsyscall]":
		return true
	}
	return false
}

func (r MemoryRegion) String() string {
	return fmt.Sprintf("%016x-%016x %s %8x %s %d %s", r.Start, r.End, r.Perms, r.Offset, r.Device, r.Inode, r.Path)
}

// Regions lists the mappings of pid from /proc/<pid>/maps.
func Regions(pid int) ([]MemoryRegion, error) {
	data, err := os.ReadFile(fmt.Sprintf("%s/%d/maps", procRoot, pid))
	if err != nil {
		return nil, e.FromErrno("maps", strconv.Itoa(pid), err)
	}

	return parseProcMaps(string(data)), nil
}

// 解析 /proc/[pid]/maps
func parseProcMaps(data string) []MemoryRegion {
	var regions []MemoryRegion
	for _, line := range strings.Split(data, "\n") {
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		// 解析地址范围
		addrs := strings.Split(fields[0], "-")
		if len(addrs) != 2 {
			continue
		}
		start, err := strconv.ParseUint(addrs[0], 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(addrs[1], 16, 64)
		if err != nil {
			continue
		}

		region := MemoryRegion{
			Start:  start,
			End:    end,
			Perms:  fields[1],
			Offset: parseHex(fields[2]),
			Device: fields[3],
			Inode:  parseUint(fields[4]),
		}
		if len(fields) > 5 {
			region.Path = strings.Join(fields[5:], " ")
		}
		regions = append(regions, region)
	}
	return regions
}

func parseHex(s string) uint64 {
	if s == "0" {
		return 0
	}
	val, _ := strconv.ParseUint(s, 16, 64)
	return val
}

func parseUint(s string) uint64 {
	val, _ := strconv.ParseUint(s, 10, 64)
	return val
}
