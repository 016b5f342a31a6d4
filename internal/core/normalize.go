package core

import (
	"net/url"
	"strings"
)

// NormalizeLinks deduplicates raw link strings, preserving first-seen
// order. Entries without a scheme and host are dropped: they cannot be
// looked up against the reputation service. Comparison is on the full
// URL string; the host is lower-cased only for the domain heuristics.
func NormalizeLinks(rawLinks []string) []string {
	seen := make(map[string]struct{}, len(rawLinks))
	unique := make([]string, 0, len(rawLinks))

	for _, raw := range rawLinks {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		parsed, err := url.Parse(trimmed)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		unique = append(unique, trimmed)
	}

	return unique
}

// LinkDomain extracts the lower-cased host of a URL for comparison
// purposes. Returns "" when the URL cannot be parsed.
func LinkDomain(link string) string {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// SenderDomain extracts the lower-cased domain part of an email
// address. Returns "" for addresses without exactly one "@".
func SenderDomain(address string) string {
	parts := strings.Split(strings.TrimSpace(address), "@")
	if len(parts) != 2 || parts[1] == "" {
		return ""
	}
	return strings.ToLower(parts[1])
}
