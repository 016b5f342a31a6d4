package core

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/phishhook/phishhook/internal/utils"
)

// NarrativeAdapter builds the analysis prompt, invokes the narrative
// service and defensively parses its reply. The reply is untrusted
// text: a score is extracted by pattern, never assumed.
type NarrativeAdapter struct {
	client        NarrativeClient
	enabled       bool // capability flag: client configured and usable
	maxBodySize   int
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	promptFormat  string
}

const narrativePromptFormat = `You are an email security assistant. The receiver of the email is "%s".
Using the email subject, the email text and the link reputation summary below, assess the likelihood that this email is a phishing attempt. Keep in mind that the sender could be an automated account of a legitimate website.

Reply in exactly this layout and nothing else:
SCORE: <integer 0-100, 0 = no phishing attempt, 100 = definite threat>
DIGEST: <one concise paragraph of 3-5 sentences>
REASONS:
- <short indicator>
- <short indicator>

Subject: %q
Email text:
%s

Link reputation:
%s`

// NewNarrativeAdapter creates a new adapter. When enabled is false the
// adapter never calls out and immediately reports an absent score.
func NewNarrativeAdapter(client NarrativeClient, enabled bool, maxBodySize int, textProcessor *utils.TextProcessor, logger *zap.Logger) *NarrativeAdapter {
	return &NarrativeAdapter{
		client:        client,
		enabled:       enabled && client != nil,
		maxBodySize:   maxBodySize,
		textProcessor: textProcessor,
		logger:        logger,
		promptFormat:  narrativePromptFormat,
	}
}

// Enabled reports whether the narrative service is configured.
func (a *NarrativeAdapter) Enabled() bool {
	return a.enabled
}

// Analyze invokes the narrative service for a submission and its
// resolved reputation batch. The second return value reports whether
// the service produced a reply at all; it feeds diagnostics only.
// A remote failure yields an absent score and a generic digest, never
// the raw provider error.
func (a *NarrativeAdapter) Analyze(ctx context.Context, sub *EmailSubmission, batch *ReputationBatch) (*NarrativeResult, bool) {
	if !a.enabled {
		return &NarrativeResult{
			Digest: "Narrative service not configured; heuristic analysis applied.",
		}, false
	}

	receiver := sub.SenderEmail
	if receiver == "" {
		receiver = sub.Sender
	}
	prompt := fmt.Sprintf(a.promptFormat,
		receiver,
		sub.Subject,
		a.textProcessor.ProcessText(sub.Text, a.maxBodySize),
		serializeBatch(batch),
	)

	reply, err := a.client.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("Narrative service call failed", zap.Error(err))
		return &NarrativeResult{
			Digest: "Narrative service unavailable; heuristic analysis applied.",
		}, false
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		a.logger.Warn("Narrative service returned an empty reply")
		return &NarrativeResult{
			Digest: "Narrative service returned no analysis; heuristic analysis applied.",
		}, false
	}

	result := parseNarrativeReply(reply)
	if result.Score == nil {
		a.logger.Warn("Narrative reply contained no parseable score",
			zap.Int("reply_length", len(reply)))
	}
	return result, true
}

// serializeBatch renders the reputation batch as a compact line-based
// summary for prompt embedding.
func serializeBatch(batch *ReputationBatch) string {
	if len(batch.Records) == 0 {
		return "(no links)"
	}
	var b strings.Builder
	for _, rec := range batch.Records {
		switch rec.State {
		case LinkResolved:
			fmt.Fprintf(&b, "- %s: malicious=%d suspicious=%d harmless=%d undetected=%d\n",
				rec.Link,
				rec.Stats["malicious"], rec.Stats["suspicious"],
				rec.Stats["harmless"], rec.Stats["undetected"])
		case LinkSubmitted:
			fmt.Fprintf(&b, "- %s: submitted for analysis, verdict pending\n", rec.Link)
		case LinkError:
			fmt.Fprintf(&b, "- %s: reputation check failed\n", rec.Link)
		}
	}
	if !batch.ServiceAvailable {
		b.WriteString("(reputation service unavailable; counts above carry no signal)\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

var (
	// First integer following a recognizable score marker.
	scoreMarkerRe = regexp.MustCompile(`(?i)\bscore\b\s*[:=]?\s*(\d{1,3})`)
	// "87/100" style, for replies that ignore the requested layout.
	scoreOutOfRe = regexp.MustCompile(`\b(\d{1,3})\s*/\s*100\b`)
	scoreLineRe  = regexp.MustCompile(`(?im)^\s*score\b.*$`)
	digestLineRe = regexp.MustCompile(`(?im)^\s*digest\s*[:=]\s*`)
	reasonsCutRe = regexp.MustCompile(`(?im)^\s*reasons\s*[:=]?\s*$`)
)

// parseNarrativeReply extracts score, digest and reasons from a reply.
// No parseable score yields a nil Score, not zero: the orchestrator
// must be able to tell "service said zero" from "could not parse".
func parseNarrativeReply(reply string) *NarrativeResult {
	result := &NarrativeResult{}

	match := scoreMarkerRe.FindStringSubmatch(reply)
	if match == nil {
		match = scoreOutOfRe.FindStringSubmatch(reply)
	}
	if match != nil {
		if value, err := strconv.Atoi(match[1]); err == nil {
			clamped := clampScore(value)
			result.Score = &clamped
		}
	}

	digest := scoreLineRe.ReplaceAllString(reply, "")
	digest = digestLineRe.ReplaceAllString(digest, "")

	// Reasons: bulleted lines after a REASONS marker. A reply without
	// the block simply produces none; the orchestrator substitutes.
	if loc := reasonsCutRe.FindStringIndex(digest); loc != nil {
		block := digest[loc[1]:]
		digest = digest[:loc[0]]
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
				reason := strings.TrimSpace(strings.TrimLeft(line, "-* "))
				if reason != "" {
					result.Reasons = append(result.Reasons, reason)
				}
			}
		}
	}

	result.Digest = strings.TrimSpace(digest)
	return result
}
