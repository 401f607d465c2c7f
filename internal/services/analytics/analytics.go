// Package analytics reports user actions to an optional collector.
//
// Analytics must never break the transcript workflow: Track never blocks,
// never returns an error, and SafeTrack recovers from a panicking tracker.
package analytics

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"
)

// Event names.
const (
	EventURLSubmission   = "url_submission"
	EventTranscriptFetch = "transcript_fetch"
	EventLanguageChange  = "language_change"
	EventCopy            = "copy"
	EventDownload        = "download"
	EventFontSizeChange  = "font_size_change"
)

// Event is one reported action.
type Event struct {
	Name      string    `json:"event"`
	VideoID   string    `json:"video_id,omitempty"`
	Language  string    `json:"language,omitempty"`
	Success   *bool     `json:"success,omitempty"`
	Error     string    `json:"error,omitempty"`
	Value     string    `json:"value,omitempty"` // e.g. the new font size
	Visitor   string    `json:"visitor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Outcome returns a copy of e with Success set, and Error when err is non-nil.
func (e Event) Outcome(err error) Event {
	ok := err == nil
	e.Success = &ok
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// Tracker accepts events.
type Tracker interface {
	Track(e Event)
}

// Nop discards every event.
type Nop struct{}

// Track does nothing.
func (Nop) Track(Event) {}

// SafeTrack hands e to t, tolerating a nil tracker and recovering a panic.
func SafeTrack(t Tracker, e Event) {
	if t == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️  Analytics tracker panicked on %s: %v", e.Name, r)
		}
	}()
	t.Track(e)
}

// SignPayload creates an HMAC-SHA256 signature for a payload.
func SignPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
