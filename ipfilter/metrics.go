package ipfilter

// Metrics records guard decisions.
//
// Implementations should be safe for concurrent use.
type Metrics interface {
	// RecordDecision is called once per evaluated request with the decision
	// and one of the Reason* constants.
	RecordDecision(decision Decision, reason string)
}

type noopMetrics struct{}

func (noopMetrics) RecordDecision(Decision, string) {}
