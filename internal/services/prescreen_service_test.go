package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrescreenScreen(t *testing.T) {
	ps := NewPrescreenService()

	tests := []struct {
		name    string
		text    string
		ok      bool
		wantHit string
	}{
		{name: "clean text", text: "The dining hall pasta is underrated.", ok: true},
		{name: "empty text", text: "", ok: true},
		{name: "banned word", text: "this class is bullshit", ok: false, wantHit: "inappropriate_language"},
		{name: "banned word is word-bounded", text: "I study classical music", ok: true},
		{name: "url", text: "vote for me at https://example.com/poll", ok: false, wantHit: "url_not_allowed"},
		{name: "bare www url", text: "see www.example.com for details", ok: false, wantHit: "url_not_allowed"},
		{name: "email address", text: "dm me at someone@example.com", ok: false, wantHit: "contact_info_not_allowed"},
		{name: "phone number", text: "call 555-123-4567 tonight", ok: false, wantHit: "contact_info_not_allowed"},
		{name: "repeated characters", text: "soooooo bored right now", ok: false, wantHit: "spam_detected"},
		{name: "shouting", text: "EVERYONE LISTEN UP THIS MATTERS TODAY RIGHT NOW", ok: false, wantHit: "excessive_caps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, hit := ps.Screen(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wantHit, hit)
		})
	}
}

func TestPrescreenRationale(t *testing.T) {
	ps := NewPrescreenService()

	assert.Contains(t, ps.Rationale("url_not_allowed"), "URLs")
	assert.NotEmpty(t, ps.Rationale("something_unmapped"))
}
