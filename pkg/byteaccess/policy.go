package byteaccess

import (
	"fmt"
	"sort"
	"strings"

	e "byteaccess/error"
	"byteaccess/pkg/prowler"
)

// AttachPolicy decides which process Attach uses when a name matches more
// than one. Whatever the policy, the same candidate set always yields the
// same result.
type AttachPolicy int

const (
	// PolicyError refuses to choose and fails with Ambiguous.
	PolicyError AttachPolicy = iota
	// PolicyLowestPID picks the candidate with the lowest PID.
	PolicyLowestPID
	// PolicyNewest picks the most recently started candidate, breaking ties
	// by the highest PID.
	PolicyNewest
)

var policyNames = map[AttachPolicy]string{
	PolicyError:     "error",
	PolicyLowestPID: "lowest-pid",
	PolicyNewest:    "newest",
}

func (p AttachPolicy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("AttachPolicy(%d)", int(p))
}

func ParsePolicy(s string) (AttachPolicy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown attach policy %q, expected one of error, lowest-pid, newest", s)
}

func (p AttachPolicy) choose(name string, candidates []prowler.Process) (prowler.Process, error) {
	switch len(candidates) {
	case 0:
		return prowler.Process{}, e.New(e.KindNotFound, "attach", name, "no running process matches")
	case 1:
		return candidates[0], nil
	}

	sorted := make([]prowler.Process, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Pid < sorted[j].Pid
	})

	switch p {
	case PolicyLowestPID:
		return sorted[0], nil
	case PolicyNewest:
		newest := sorted[0]
		for _, c := range sorted[1:] {
			if c.StartTime >= newest.StartTime {
				newest = c
			}
		}
		return newest, nil
	default:
		pids := make([]string, len(sorted))
		for i, c := range sorted {
			pids[i] = fmt.Sprint(c.Pid)
		}
		return prowler.Process{}, e.New(e.KindAmbiguous, "attach", name,
			"%d processes match (pids %s)", len(sorted), strings.Join(pids, ", "))
	}
}
