package greatwall

import "time"

// Bootstrap outcomes passed to Recorder.Bootstrapped.
const (
	OutcomeCompleted = "completed"
	OutcomeCanceled  = "canceled"
	OutcomeFailed    = "failed"
)

// Recorder receives engine measurements. metrics.Metrics implements it.
type Recorder interface {
	CacheLookup(hit bool)
	OptionsListed(n int)
	Bootstrapped(outcome string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(bool)                   {}
func (nopRecorder) OptionsListed(int)                  {}
func (nopRecorder) Bootstrapped(string, time.Duration) {}
