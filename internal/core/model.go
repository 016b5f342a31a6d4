package core

// EmailSubmission is one suspect email as handed over by a client
// (browser extension, CLI, or mail intake). It is never mutated by the
// pipeline; sanitized copies are derived where needed.
type EmailSubmission struct {
	Subject     string
	Sender      string // display name as shown to the receiver
	SenderEmail string // may be empty when the client could not extract it
	Text        string
	HTML        string // carried but unused by scoring, reserved
	Links       []string
}

// LinkState describes the outcome of resolving one link's reputation.
type LinkState string

const (
	// LinkResolved means the reputation service returned a verdict
	// (possibly with zero counts in every category).
	LinkResolved LinkState = "resolved"
	// LinkSubmitted means the link was unknown, was submitted for
	// analysis, and no verdict was available within the poll window.
	LinkSubmitted LinkState = "submitted"
	// LinkError means lookup or submission failed.
	LinkError LinkState = "error"
)

// LinkRecord is the reputation outcome for one unique link.
// Records are immutable once the resolver has produced them.
type LinkRecord struct {
	Link             string // original URL string
	NormalizedDomain string // lower-cased host, empty if unparseable
	State            LinkState
	Stats            map[string]int // vendor category -> count, only when Resolved
	ErrorDetail      string         // only when State == LinkError
}

// Hits returns the malicious+suspicious count for a record, treating a
// missing category as zero. Non-resolved records contribute nothing.
func (r *LinkRecord) Hits() int {
	if r.State != LinkResolved {
		return 0
	}
	return r.Stats["malicious"] + r.Stats["suspicious"]
}

// ReputationBatch is the resolver's output: one record per unique input
// link, in normalized input order.
type ReputationBatch struct {
	Records []*LinkRecord
	// ServiceAvailable is false when the reputation service was not
	// configured or reachable at all. Records are then resolved-empty
	// rather than errors, and scoring must not read the empty stats as
	// evidence of safety.
	ServiceAvailable bool
}

// TotalHits sums malicious+suspicious counts across all resolved records.
func (b *ReputationBatch) TotalHits() int {
	total := 0
	for _, rec := range b.Records {
		total += rec.Hits()
	}
	return total
}

// NarrativeResult is the parsed reply of the narrative service.
type NarrativeResult struct {
	// Score is nil when the reply contained no parseable score. Nil is
	// distinct from zero: zero means the service judged the email safe,
	// nil means the heuristic scorer must decide.
	Score   *int
	Digest  string
	Reasons []string
}

// Diagnostics records which scoring inputs were live for one scan.
type Diagnostics struct {
	ReputationAvailable bool `json:"reputation_available"`
	NarrativeAvailable  bool `json:"narrative_available"`
	LinksChecked        int  `json:"links_checked"`
}

// Verdict is the final output of one triage request.
type Verdict struct {
	Digest      string      `json:"digest"`
	Score       int         `json:"score"`
	Reasons     []string    `json:"reasons"`
	Explain     string      `json:"explain"`
	Diagnostics Diagnostics `json:"-"`
}

// clampScore bounds a score to [0,100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
