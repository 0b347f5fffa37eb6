package app

import (
	"os"
	"sync"
	"sync/atomic"
)

// TestModeEnv set to "1" makes the binaries exit before touching Postgres or Redis.
const TestModeEnv = "VRINV_TEST_MODE"

var (
	testMode     atomic.Bool
	testModeOnce sync.Once
)

// InTestMode reports whether the binaries should skip runtime side effects.
func InTestMode() bool {
	testModeOnce.Do(RefreshTestMode)
	return testMode.Load()
}

// RefreshTestMode re-reads TestModeEnv.
func RefreshTestMode() {
	testMode.Store(os.Getenv(TestModeEnv) == "1")
}
