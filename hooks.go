package skiptree

// Test hooks (kept separate so instrumentation doesn't clutter logic).
// Concurrency tests set these to inject delays or observe internal timing
// at the exact points where a CAS can race with another goroutine; they
// are nil in normal operation, so each call site costs only a nil check.
var (
	afterSearchHook   func(target int, idx int)
	beforeInstallHook func(level int, old, update any)
	afterCleaningHook func(node any)
	beforeSlideHook   func(node any)
)
