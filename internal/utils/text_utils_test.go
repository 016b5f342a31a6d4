package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestStripTransferArtifacts(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "quoted-printable remnants removed",
			input: "Dear =E2 customer, click =20 here",
			want:  "Dear  customer, click  here",
		},
		{
			name:  "soft line break untouched",
			input: "acc=\nount",
			want:  "acc=\nount",
		},
		{
			name:  "clean text untouched",
			input: "Meeting moved to 3pm",
			want:  "Meeting moved to 3pm",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tp.StripTransferArtifacts(tt.input); got != tt.want {
				t.Errorf("StripTransferArtifacts(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	short := "short text"
	if got := tp.TruncateText(short, 100); got != short {
		t.Errorf("TruncateText(short) = %q, want unchanged", got)
	}

	long := strings.Repeat("a", 200)
	got := tp.TruncateText(long, 50)
	if !strings.Contains(got, "Content truncated") {
		t.Error("truncated text missing marker")
	}
	if !strings.HasPrefix(got, strings.Repeat("a", 50)) {
		t.Error("truncated text does not keep the leading content")
	}

	// Truncation must never split a multi-byte rune.
	multibyte := strings.Repeat("é", 30)
	got = tp.TruncateText(multibyte, 31)
	if !utf8.ValidString(got) {
		t.Error("truncation produced invalid UTF-8")
	}

	if got := tp.TruncateText(long, 0); got != long {
		t.Error("maxSize 0 must disable truncation")
	}
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	valid := "héllo wörld"
	if got := tp.SanitizeUTF8(valid); got != valid {
		t.Errorf("SanitizeUTF8(valid) = %q, want unchanged", got)
	}

	invalid := "hello\xff\xfeworld"
	got := tp.SanitizeUTF8(invalid)
	if !utf8.ValidString(got) {
		t.Errorf("SanitizeUTF8 produced invalid UTF-8: %q", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Errorf("SanitizeUTF8 dropped valid content: %q", got)
	}
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	input := "Dear =E2 customer " + strings.Repeat("x", 100)
	got := tp.ProcessText(input, 40)

	if strings.Contains(got, "=E2") {
		t.Error("artifacts survived ProcessText")
	}
	if !strings.Contains(got, "Content truncated") {
		t.Error("oversized text not truncated by ProcessText")
	}
	if !utf8.ValidString(got) {
		t.Error("ProcessText produced invalid UTF-8")
	}
}
