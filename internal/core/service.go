package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/utils"
)

// ScanService orchestrates one triage request: sanitize the input,
// resolve link reputation, attempt narrative scoring and fall back to
// the heuristic scorer when the narrative result is unusable. It holds
// no state across requests.
//
// There is no failure path visible to the caller: every branch
// terminates in a well-formed verdict with degraded-coverage
// diagnostics where needed.
type ScanService struct {
	resolver      *ReputationResolver
	narrative     *NarrativeAdapter
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewScanService creates a new scan service.
func NewScanService(
	resolver *ReputationResolver,
	narrative *NarrativeAdapter,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *ScanService {
	return &ScanService{
		resolver:      resolver,
		narrative:     narrative,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// Scan triages one submission and always produces a verdict.
func (s *ScanService) Scan(ctx context.Context, sub *EmailSubmission) *Verdict {
	// Work on a sanitized copy; the submission itself stays untouched.
	clean := *sub
	clean.Text = s.textProcessor.StripTransferArtifacts(sub.Text)

	batch := s.resolver.Resolve(ctx, clean.Links)

	narrativeResult, narrativeOK := s.narrative.Analyze(ctx, &clean, batch)

	var score int
	var reasons []string
	digest := narrativeResult.Digest

	if narrativeResult.Score != nil {
		score = clampScore(*narrativeResult.Score)
		reasons = narrativeResult.Reasons
		if len(reasons) == 0 {
			// The narrative gave a score but no reasons; cross-check
			// with the deterministic indicators instead of inventing.
			_, reasons = HeuristicScore(clean.Text, clean.SenderEmail, batch)
		}
		// A reply of just a score line parses to an empty digest; the
		// verdict still needs one.
		if digest == "" {
			digest = "Narrative analysis returned a score without a summary."
		}
	} else {
		score, reasons = HeuristicScore(clean.Text, clean.SenderEmail, batch)
		if digest == "" {
			digest = "Automated heuristic assessment; narrative analysis was not available."
		}
	}

	diag := Diagnostics{
		ReputationAvailable: batch.ServiceAvailable,
		NarrativeAvailable:  narrativeOK,
		LinksChecked:        len(batch.Records),
	}

	verdict := &Verdict{
		Digest:      digest,
		Score:       score,
		Reasons:     reasons,
		Explain:     explainLine(diag),
		Diagnostics: diag,
	}

	s.logger.Info("Scan complete",
		zap.Int("score", verdict.Score),
		zap.Int("links_checked", diag.LinksChecked),
		zap.Bool("reputation_available", diag.ReputationAvailable),
		zap.Bool("narrative_available", diag.NarrativeAvailable))

	return verdict
}

func explainLine(diag Diagnostics) string {
	return fmt.Sprintf("Checked %d links; reputation service: %s; narrative service: %s",
		diag.LinksChecked,
		availability(diag.ReputationAvailable),
		availability(diag.NarrativeAvailable))
}

func availability(ok bool) string {
	if ok {
		return "ok"
	}
	return "unavailable"
}
