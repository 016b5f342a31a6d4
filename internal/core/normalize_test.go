package core

import (
	"reflect"
	"testing"
)

func TestNormalizeLinks(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "empty input",
			input: nil,
			want:  []string{},
		},
		{
			name:  "duplicates collapsed, order stable",
			input: []string{"http://a.com/x", "http://b.com/y", "http://a.com/x"},
			want:  []string{"http://a.com/x", "http://b.com/y"},
		},
		{
			name: "comparison is on the full URL, not the host",
			input: []string{
				"http://a.com/x",
				"http://a.com/y",
				"http://A.COM/z",
			},
			want: []string{"http://a.com/x", "http://a.com/y", "http://A.COM/z"},
		},
		{
			name:  "malformed entries dropped silently",
			input: []string{"not a url", "ptth//:broken", "", "   ", "/relative/path", "http://ok.com/"},
			want:  []string{"http://ok.com/"},
		},
		{
			name:  "scheme without host dropped",
			input: []string{"mailto:someone@example.com", "https://example.com/login"},
			want:  []string{"https://example.com/login"},
		},
		{
			name:  "surrounding whitespace trimmed before comparison",
			input: []string{" http://a.com/x", "http://a.com/x "},
			want:  []string{"http://a.com/x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLinks(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeLinks(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLinkDomain(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://EvIl.Example/login", "evil.example"},
		{"http://a.com:8080/x", "a.com"},
		{"not a url", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := LinkDomain(tt.link); got != tt.want {
			t.Errorf("LinkDomain(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestSenderDomain(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"user@Legit.com", "legit.com"},
		{"no-at-sign", ""},
		{"two@@signs", ""},
		{"trailing@", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SenderDomain(tt.address); got != tt.want {
			t.Errorf("SenderDomain(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}
