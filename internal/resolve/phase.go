package resolve

// Phase is the step a resolution attempt is in.
type Phase string

const (
	PhaseCheckingCache   Phase = "checking-cache"
	PhaseQueryingExact   Phase = "querying-exact"
	PhaseQueryingSearch  Phase = "querying-search"
	PhaseVerifyingDirect Phase = "verifying-direct"
	PhaseResolved        Phase = "resolved"
	PhaseFailed          Phase = "failed"
)

func (p Phase) Terminal() bool {
	return p == PhaseResolved || p == PhaseFailed
}

// Source tells where a resolved URL came from.
type Source string

const (
	SourceNone     Source = ""
	SourceCache    Source = "cache"
	SourceMetadata Source = "metadata"
	SourceDirect   Source = "direct"
)

// Result is a snapshot of an attempt. URL is set only when Phase is
// PhaseResolved.
type Result struct {
	ContentID string
	Phase     Phase
	URL       string
	Source    Source
}

func (r Result) Resolved() bool {
	return r.Phase == PhaseResolved && r.URL != ""
}
