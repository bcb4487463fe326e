package treesync

// ProgressReporter receives (processed, total) after every file decision:
// copy, skip, or ignore. It is invoked synchronously and may block the caller
// (for example a UI repaint); the engine tolerates this without timeouts.
// processed is monotonically non-decreasing within one destination's run and
// resets to zero at the start of each destination. When the total is zero the
// reporter is never invoked. Implementations must not panic; any internal
// failure is the caller's responsibility, not the engine's.
type ProgressReporter interface {
	Report(processed, total int)
}

// ProgressReporterFunc adapts a plain function to the ProgressReporter interface.
type ProgressReporterFunc func(processed, total int)

func (f ProgressReporterFunc) Report(processed, total int) {
	f(processed, total)
}

// NopReporter discards all progress reports.
type NopReporter struct{}

func (NopReporter) Report(processed, total int) {}

var _ ProgressReporter = (ProgressReporterFunc)(nil)
var _ ProgressReporter = NopReporter{}
