// Package workflow orchestrates a transcript lookup: validate the link,
// discover languages, fetch the transcript, and keep the view state that
// both the web page and the CLI render from.
//
// Go Pattern: The controller returns data and never renders anything. Views
// call Submit/SwitchLanguage and draw the Snapshot they get back.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/analytics"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/export"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/transcript"
)

// State is where the controller is in a lookup.
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateDisplaying State = "displaying"
	StateError      State = "error"
)

// ErrNoTranscript is returned by actions that need a displayed transcript.
var ErrNoTranscript = errors.New("no transcript is loaded")

// ErrUnknownLanguage is returned when switching to a code discovery did not offer.
var ErrUnknownLanguage = errors.New("language is not available for this video")

// ErrStale is returned when a newer request superseded this one.
var ErrStale = errors.New("superseded by a newer request")

// ErrEmptyTranscript is returned when the backend reports success with no text.
var ErrEmptyTranscript = errors.New(transcript.MsgEmptyTranscript)

// API is the backend the controller talks to. *transcript.Client satisfies it.
type API interface {
	FetchLanguages(ctx context.Context, videoURL string) transcript.Discovery
	FetchTranscript(ctx context.Context, videoURL, language string) (*transcript.Result, error)
}

// Snapshot is an immutable copy of the view state.
type Snapshot struct {
	State           State                   `json:"state"`
	RequestID       uint64                  `json:"request_id"`
	URL             string                  `json:"url,omitempty"`
	VideoID         string                  `json:"video_id,omitempty"`
	Transcript      string                  `json:"transcript,omitempty"`
	Paragraphs      []transcript.Paragraph  `json:"paragraphs,omitempty"`
	CurrentLanguage string                  `json:"current_language,omitempty"`
	Languages       []models.LanguageOption `json:"languages,omitempty"`        // default-selection order
	SelectorOptions []models.LanguageOption `json:"selector_options,omitempty"` // dropdown order, by name
	ShowSelector    bool                    `json:"show_selector"`              // more than one language
	ShowSwitch      bool                    `json:"show_switch"`                // any language found
	Error           string                  `json:"error,omitempty"`
	Notice          string                  `json:"notice,omitempty"`
}

// HasTranscript reports whether there is text to copy or download.
func (s Snapshot) HasTranscript() bool {
	return s.VideoID != "" && s.Transcript != ""
}

// Controller runs lookups for one viewer.
//
// Go Pattern: The mutex guards state but is never held across network I/O.
// Each Submit or SwitchLanguage takes a new token under the lock; when its
// response comes back with an older token than the current one, it is
// discarded instead of overwriting newer state.
type Controller struct {
	api     API
	tracker analytics.Tracker
	visitor string

	mu         sync.Mutex
	token      uint64
	state      State
	session    *models.TranscriptSession
	paragraphs []transcript.Paragraph
	errMsg     string
	notice     string
	preferred  string // last language the viewer ended up on, kept across submissions
}

// New creates an idle controller. A nil tracker disables analytics.
func New(api API, tracker analytics.Tracker, visitorID string) *Controller {
	if tracker == nil {
		tracker = analytics.Nop{}
	}
	return &Controller{
		api:     api,
		tracker: tracker,
		visitor: visitorID,
		state:   StateIdle,
	}
}

// Submit starts a lookup for rawURL. Validation failures make no network call.
func (c *Controller) Submit(ctx context.Context, rawURL string) (Snapshot, error) {
	videoURL := strings.TrimSpace(rawURL)

	c.mu.Lock()
	c.token++
	tok := c.token

	if videoURL == "" || !transcript.IsValidURL(videoURL) {
		msg := transcript.MsgInvalidURL
		if videoURL == "" {
			msg = transcript.MsgEmptyURL
		}
		// An error hides whatever was displayed before.
		c.state = StateError
		c.errMsg = msg
		c.notice = ""
		c.session = nil
		c.paragraphs = nil
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, &transcript.ValidationError{Message: msg}
	}

	videoID := transcript.ExtractVideoID(videoURL)
	c.state = StateLoading
	c.errMsg = ""
	c.notice = ""
	c.session = &models.TranscriptSession{VideoID: videoID, URL: videoURL}
	c.paragraphs = nil
	preferred := c.preferred
	c.mu.Unlock()

	c.track(analytics.Event{Name: analytics.EventURLSubmission, VideoID: videoID})
	log.Printf("🔍 Looking up transcript for %s", videoID)

	discovery := c.api.FetchLanguages(ctx, videoURL)
	if discovery.Err != nil {
		log.Printf("⚠️  Language discovery degraded for %s: %v", videoID, discovery.Err)
	}
	langs := models.SortLanguages(discovery.Languages)
	language := selectLanguage(langs, preferred)

	c.mu.Lock()
	if tok != c.token {
		c.mu.Unlock()
		return c.Snapshot(), ErrStale
	}
	c.session.AvailableLanguages = langs
	if discovery.NoTranscripts() {
		c.notice = discovery.Note
	}
	c.mu.Unlock()

	res, err := c.api.FetchTranscript(ctx, videoURL, language)
	if err == nil && strings.TrimSpace(res.Transcript) == "" {
		err = ErrEmptyTranscript
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if tok != c.token {
		log.Printf("ℹ️  Discarding stale transcript response for %s", videoID)
		return c.snapshotLocked(), ErrStale
	}

	c.track(analytics.Event{Name: analytics.EventTranscriptFetch, VideoID: videoID, Language: language}.Outcome(err))

	if err != nil {
		c.state = StateError
		c.errMsg = transcript.UserMessage(err, transcript.MsgDefaultFailure)
		log.Printf("❌ Transcript fetch failed for %s: %v", videoID, err)
		return c.snapshotLocked(), err
	}

	if res.VideoID != "" && c.session.VideoID == transcript.UnknownVideoID {
		c.session.VideoID = res.VideoID
	}
	c.session.RawTranscript = res.Transcript
	c.session.CurrentLanguage = language
	if language != "" {
		c.preferred = language
	}
	c.paragraphs = transcript.Format(res.Transcript)
	c.state = StateDisplaying
	log.Printf("✅ Transcript loaded for %s (%d paragraphs, language %q)", c.session.VideoID, len(c.paragraphs), language)
	return c.snapshotLocked(), nil
}

// SwitchLanguage re-fetches the current video's transcript in code.
// Discovery is not repeated, so code must be one of the discovered
// languages. On failure the previous text and language stay.
func (c *Controller) SwitchLanguage(ctx context.Context, code string) (Snapshot, error) {
	code = strings.TrimSpace(code)

	c.mu.Lock()
	if c.session == nil {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrNoTranscript
	}
	// The current language must stay within the discovered list.
	if !models.HasLanguage(c.session.AvailableLanguages, code) {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}

	c.token++
	tok := c.token
	videoURL := c.session.URL
	videoID := c.session.VideoID
	c.state = StateLoading
	c.errMsg = ""
	c.mu.Unlock()

	c.track(analytics.Event{Name: analytics.EventLanguageChange, VideoID: videoID, Language: code})

	res, err := c.api.FetchTranscript(ctx, videoURL, code)
	if err == nil && strings.TrimSpace(res.Transcript) == "" {
		err = ErrEmptyTranscript
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if tok != c.token {
		log.Printf("ℹ️  Discarding stale language switch to %q", code)
		return c.snapshotLocked(), ErrStale
	}

	c.track(analytics.Event{Name: analytics.EventTranscriptFetch, VideoID: videoID, Language: code}.Outcome(err))

	if err != nil {
		c.state = StateError
		c.errMsg = transcript.UserMessage(err, transcript.MsgLanguageFailure)
		log.Printf("❌ Language switch to %q failed for %s: %v", code, videoID, err)
		return c.snapshotLocked(), err
	}

	c.session.RawTranscript = res.Transcript
	c.session.CurrentLanguage = code
	c.preferred = code
	c.paragraphs = transcript.Format(res.Transcript)
	c.state = StateDisplaying
	log.Printf("✅ Switched %s to language %q", videoID, code)
	return c.snapshotLocked(), nil
}

// Copy writes the displayed transcript to cb. Failures are logged and
// returned, but never change the view state.
func (c *Controller) Copy(cb export.Clipboard) error {
	snap := c.Snapshot()
	if !snap.HasTranscript() {
		return ErrNoTranscript
	}

	err := export.Copy(cb, snap.Transcript)
	if err != nil {
		log.Printf("⚠️  Copy failed: %v", err)
	}
	c.track(analytics.Event{Name: analytics.EventCopy, VideoID: snap.VideoID, Language: snap.CurrentLanguage}.Outcome(err))
	return err
}

// Download packages the displayed transcript as a file.
func (c *Controller) Download() (export.File, error) {
	snap := c.Snapshot()
	if !snap.HasTranscript() {
		return export.File{}, ErrNoTranscript
	}

	c.track(analytics.Event{Name: analytics.EventDownload, VideoID: snap.VideoID, Language: snap.CurrentLanguage})
	return export.Download(snap.VideoID, snap.CurrentLanguage, snap.Transcript), nil
}

// Reset drops the session and returns to Idle. In-flight requests become stale.
func (c *Controller) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token++
	c.state = StateIdle
	c.session = nil
	c.paragraphs = nil
	c.errMsg = ""
	c.notice = ""
	return c.snapshotLocked()
}

// Prefer sets the language the next Submit picks when discovery offers it.
func (c *Controller) Prefer(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preferred = strings.TrimSpace(code)
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:     c.state,
		RequestID: c.token,
		Error:     c.errMsg,
		Notice:    c.notice,
	}
	if c.session == nil {
		return snap
	}

	langs := append([]models.LanguageOption(nil), c.session.AvailableLanguages...)
	snap.URL = c.session.URL
	snap.VideoID = c.session.VideoID
	snap.Transcript = c.session.RawTranscript
	snap.Paragraphs = append([]transcript.Paragraph(nil), c.paragraphs...)
	snap.CurrentLanguage = c.session.CurrentLanguage
	snap.Languages = langs
	snap.SelectorOptions = models.SortLanguagesByName(langs)
	snap.ShowSelector = len(langs) > 1
	snap.ShowSwitch = len(langs) > 0 && c.session.RawTranscript != ""
	return snap
}

func (c *Controller) track(e analytics.Event) {
	e.Visitor = c.visitor
	analytics.SafeTrack(c.tracker, e)
}

// selectLanguage keeps preferred when the new list still offers it and
// otherwise falls back to the first sorted entry. An empty list selects
// nothing.
func selectLanguage(sorted []models.LanguageOption, preferred string) string {
	if len(sorted) == 0 {
		return ""
	}
	if preferred != "" && models.HasLanguage(sorted, preferred) {
		return preferred
	}
	return sorted[0].Code
}
