package utils

import (
	"regexp"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Quoted-printable escape remnants (=3D, =E2 and friends) that survive
// client-side extraction of forwarded emails. They carry no content and
// confuse both the heuristics and the narrative prompt.
var transferArtifactRe = regexp.MustCompile(`=\w{1,2}`)

// TextProcessor provides utilities for cleaning email text before it
// reaches scoring or prompts.
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor.
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// StripTransferArtifacts removes quoted-printable escape remnants from
// text that was extracted from a forwarded email.
func (tp *TextProcessor) StripTransferArtifacts(text string) string {
	cleaned := transferArtifactRe.ReplaceAllString(text, "")
	if len(cleaned) != len(text) {
		tp.logger.Debug("Stripped transfer-encoding artifacts",
			zap.Int("original_size", len(text)),
			zap.Int("cleaned_size", len(cleaned)))
	}
	return cleaned
}

// TruncateText safely truncates text to the specified maximum size and
// ensures the result is valid UTF-8.
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + "\n[... Content truncated due to size limits ...]"
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters.
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	return string(result)
}

// ProcessText strips artifacts, truncates and sanitizes in one pass.
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	cleaned := tp.StripTransferArtifacts(text)
	truncated := tp.TruncateText(cleaned, maxSize)
	return tp.SanitizeUTF8(truncated)
}
