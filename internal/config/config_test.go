package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	if got := cfg.GetString("narrative.provider"); got != "gemini" {
		t.Errorf("narrative.provider = %q, want gemini", got)
	}
	if got := cfg.GetInt("virustotal.max_workers"); got != 4 {
		t.Errorf("virustotal.max_workers = %d, want 4", got)
	}
	if got := cfg.GetString("cache.type"); got != "memory" {
		t.Errorf("cache.type = %q, want memory", got)
	}
	if !cfg.GetBool("cache.enabled") {
		t.Error("cache.enabled = false, want true by default")
	}
	if cfg.GetBool("intake.enabled") {
		t.Error("intake.enabled = true, want false by default")
	}
	if got := cfg.GetStringSlice("server.allowed_origins"); len(got) != 0 {
		t.Errorf("server.allowed_origins = %v, want empty by default", got)
	}
}

func TestGetDuration(t *testing.T) {
	v := NewEmptyViper()
	v.Set("virustotal.poll_delay", "30s")
	cfg := NewFromViper(v)

	d, err := cfg.GetDuration("virustotal.poll_delay")
	if err != nil {
		t.Fatalf("GetDuration returned error: %v", err)
	}
	if d != 30*time.Second {
		t.Errorf("duration = %v, want 30s", d)
	}

	v.Set("virustotal.poll_delay", "not-a-duration")
	if _, err := cfg.GetDuration("virustotal.poll_delay"); err == nil {
		t.Error("GetDuration = nil error for invalid input, want error")
	}
}
