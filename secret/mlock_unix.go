//go:build linux || darwin

package secret

import "golang.org/x/sys/unix"

func checkMlockLimit() (bool, int64) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &rlimit); err != nil {
		return true, -1
	}
	if rlimit.Cur == unix.RLIM_INFINITY {
		return true, -1
	}
	kib := int64(rlimit.Cur / 1024)
	return kib >= MinMlockLimitKiB, kib
}
