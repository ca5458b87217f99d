package prowler

import (
	"golang.org/x/sys/unix"
)

func readMemory(pid int, data []byte, ptr uintptr) (int, error) {
	localIov := []unix.Iovec{
		{
			Base: &data[0],
			Len:  uint64(len(data)),
		},
	}

	remoteIov := []unix.RemoteIovec{
		{
			Base: ptr,
			Len:  len(data),
		},
	}

	return unix.ProcessVMReadv(pid, localIov, remoteIov, 0)
}

func writeMemory(pid int, data []byte, ptr uintptr) (int, error) {
	localIov := []unix.Iovec{
		{
			Base: &data[0],
			Len:  uint64(len(data)),
		},
	}

	remoteIov := []unix.RemoteIovec{
		{
			Base: ptr,
			Len:  len(data),
		},
	}

	return unix.ProcessVMWritev(pid, localIov, remoteIov, 0)
}

// openPidfd returns -1 on kernels without pidfd_open; liveness is then
// left to the memory syscalls themselves.
func openPidfd(pid int) (int, error) {
	fd, err := unix.PidfdOpen(pid, 0)
	if err == unix.ENOSYS {
		return -1, nil
	}
	return fd, err
}

// pidfdAlive is false once the process behind pidfd has exited, even if
// its PID has since been reused.
func pidfdAlive(pidfd int) bool {
	return unix.PidfdSendSignal(pidfd, 0, nil, 0) != unix.ESRCH
}

func closeFd(fd int) error {
	return unix.Close(fd)
}
