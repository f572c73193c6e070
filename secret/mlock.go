package secret

import (
	"os"
	"sync"
)

// MinMlockLimitKiB is the RLIMIT_MEMLOCK below which memguard enclaves are
// not used. The enclave key and every concurrently opened buffer need locked
// pages.
const MinMlockLimitKiB = 512

// InsecureEnv, when set to "1" or "true", forces the plain-heap fallback.
const InsecureEnv = "GREATWALL_INSECURE_MEMORY"

var (
	modeOnce   sync.Once
	secureMode bool
	limitKiB   int64
)

// Secure reports whether boxes are backed by memguard enclaves.
func Secure() bool {
	modeOnce.Do(func() {
		if v := os.Getenv(InsecureEnv); v == "1" || v == "true" {
			secureMode, limitKiB = false, -1
			return
		}
		secureMode, limitKiB = checkMlockLimit()
	})
	return secureMode
}

// MlockLimitKiB returns the detected memory-lock limit, or -1 when unlimited
// or unknown.
func MlockLimitKiB() int64 {
	Secure()
	return limitKiB
}
