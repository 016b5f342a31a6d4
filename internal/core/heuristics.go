package core

import (
	"strings"
)

// Wording that phishing emails use to push the receiver toward handing
// over credentials or acting in a hurry. Matched case-insensitively as
// substrings, the same way the reasons describe them.
var suspiciousWords = []string{
	"verify",
	"password",
	"account",
	"login",
	"urgent",
	"confirm",
}

const (
	reasonNoHits       = "no reputation-service malicious hits"
	reasonSomeHits     = "some reputation engines flagged links"
	reasonManyHits     = "multiple reputation engines flagged links"
	reasonWording      = "suspicious wording (request for credentials / urgent action)"
	reasonMismatch     = "sender domain does not match link domain(s)"
	reasonNoIndicators = "heuristic: no obvious indicators detected"
)

// HeuristicScore produces a deterministic score and reasons from the
// reputation batch and simple textual signals. It is the sole scorer
// when the narrative service cannot produce a usable result.
//
// Thresholds are a fixed contract: 0 hits -> 15, 1-2 hits -> 60,
// 3 or more -> 90.
func HeuristicScore(body, senderEmail string, batch *ReputationBatch) (int, []string) {
	var score int
	var reasons []string

	hits := batch.TotalHits()
	switch {
	case hits == 0:
		score = 15
		// "No hits" is only evidence when the service actually looked.
		if batch.ServiceAvailable {
			reasons = append(reasons, reasonNoHits)
		}
	case hits < 3:
		score = 60
		reasons = append(reasons, reasonSomeHits)
	default:
		score = 90
		reasons = append(reasons, reasonManyHits)
	}

	lowerBody := strings.ToLower(body)
	for _, word := range suspiciousWords {
		if strings.Contains(lowerBody, word) {
			reasons = append(reasons, reasonWording)
			break
		}
	}

	if senderDomain := SenderDomain(senderEmail); senderDomain != "" {
		for _, rec := range batch.Records {
			if rec.NormalizedDomain != "" && rec.NormalizedDomain != senderDomain {
				reasons = append(reasons, reasonMismatch)
				break
			}
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, reasonNoIndicators)
	}

	return score, reasons
}
