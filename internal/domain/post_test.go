package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validPost() *Post {
	return &Post{
		Content:     "hello world",
		Platforms:   []Platform{PlatformTwitter},
		ScheduledAt: time.Now().Add(time.Hour),
		Status:      StatusScheduled,
	}
}

// --- Validate ---

func TestPost_Validate_OK(t *testing.T) {
	p := validPost()
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPost_Validate_EmptyContent(t *testing.T) {
	p := validPost()
	p.Content = ""
	if err := p.Validate(); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestPost_Validate_ContentTooLong(t *testing.T) {
	p := validPost()
	p.Content = strings.Repeat("a", MaxContentLength+1)
	if err := p.Validate(); err == nil {
		t.Error("expected error for content over limit")
	}

	// Limit is in runes, not bytes: 500 multibyte chars are fine
	p.Content = strings.Repeat("ё", MaxContentLength)
	if err := p.Validate(); err != nil {
		t.Errorf("500 multibyte runes should pass: %v", err)
	}
}

func TestPost_Validate_Platforms(t *testing.T) {
	p := validPost()
	p.Platforms = nil
	if err := p.Validate(); err == nil {
		t.Error("expected error for empty platforms")
	}

	p.Platforms = []Platform{"myspace"}
	if err := p.Validate(); err == nil {
		t.Error("expected error for unknown platform")
	}
}

func TestPost_Validate_DedupesPlatforms(t *testing.T) {
	p := validPost()
	p.Platforms = []Platform{PlatformTwitter, PlatformFacebook, PlatformTwitter}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Platforms) != 2 {
		t.Errorf("expected 2 platforms after dedup, got %d", len(p.Platforms))
	}
	if p.Platforms[0] != PlatformTwitter || p.Platforms[1] != PlatformFacebook {
		t.Errorf("dedup should preserve first-seen order, got %v", p.Platforms)
	}
}

func TestNormalizePlatforms_Empty(t *testing.T) {
	if _, err := NormalizePlatforms(nil); err == nil {
		t.Error("expected error for empty list")
	}
}

// --- ValidateSchedule ---

func TestValidateSchedule(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	// Future time for scheduled: ok
	if err := ValidateSchedule(StatusScheduled, now.Add(time.Minute), now); err != nil {
		t.Errorf("future schedule should pass: %v", err)
	}

	// Past and exactly-now are rejected
	if err := ValidateSchedule(StatusScheduled, now.Add(-time.Minute), now); !errors.Is(err, ErrPastSchedule) {
		t.Errorf("expected ErrPastSchedule, got %v", err)
	}
	if err := ValidateSchedule(StatusScheduled, now, now); !errors.Is(err, ErrPastSchedule) {
		t.Errorf("expected ErrPastSchedule for scheduled_at == now, got %v", err)
	}

	// Drafts can keep any time
	if err := ValidateSchedule(StatusDraft, now.Add(-time.Hour), now); err != nil {
		t.Errorf("draft with past time should pass: %v", err)
	}
}

// --- IsDue ---

func TestPost_IsDue(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	p := validPost()
	p.ScheduledAt = now.Add(-time.Minute)
	if !p.IsDue(now) {
		t.Error("past scheduled post should be due")
	}

	p.ScheduledAt = now
	if !p.IsDue(now) {
		t.Error("scheduled_at == now should be due")
	}

	p.ScheduledAt = now.Add(time.Minute)
	if p.IsDue(now) {
		t.Error("future post should not be due")
	}

	p.ScheduledAt = now.Add(-time.Minute)
	p.Status = StatusDraft
	if p.IsDue(now) {
		t.Error("draft is never due")
	}
}
