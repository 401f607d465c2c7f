// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// The wire DTOs for the transcript backend live here too, next to the
// domain types they are converted into, so the contract is visible in one file.
package models

import (
	"sort"
	"strings"
	"time"
)

// Configuration is the per-session view of where the backend lives.
// It is derived once from the page origin (see config.Resolve) and never mutated.
type Configuration struct {
	TranscriptEndpoint string   `json:"transcript_endpoint"`
	LanguagesEndpoint  string   `json:"languages_endpoint"`
	APIKey             string   `json:"-"`
	Debug              bool     `json:"debug"`
	DefaultFontSize    FontSize `json:"default_font_size"`
	Local              bool     `json:"local"` // file:// or localhost origin
}

// FontSize is the transcript font-size preference.
// Go Pattern: string constants instead of enums, same as TranscriptStatus did.
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

// DefaultFontSize is used when no preference is stored or the stored one is invalid.
const DefaultFontSize = FontMedium

// FontSizePreferenceKey is the key the font size is persisted under.
const FontSizePreferenceKey = "transcriptFontSize"

// ParseFontSize returns the matching FontSize, or DefaultFontSize for anything else.
func ParseFontSize(s string) FontSize {
	if f := FontSize(strings.TrimSpace(strings.ToLower(s))); f.Valid() {
		return f
	}
	return DefaultFontSize
}

// Valid reports whether f is one of the known sizes.
func (f FontSize) Valid() bool {
	return f == FontSmall || f == FontMedium || f == FontLarge
}

// FontSizes lists the sizes in display order.
func FontSizes() []FontSize {
	return []FontSize{FontSmall, FontMedium, FontLarge}
}

// LanguageOption is one caption track offered by the languages endpoint.
type LanguageOption struct {
	Code        string `json:"code"`
	DisplayName string `json:"name"`
	IsManual    bool   `json:"is_manual"` // authored by a human, not auto-generated
}

// Label is the text shown in a selector; manual tracks are starred.
func (l LanguageOption) Label() string {
	if l.IsManual {
		return l.DisplayName + " ★"
	}
	return l.DisplayName
}

// SortLanguages orders languages for default selection: manual entries first,
// then alphabetically by display name. The input slice is not modified.
func SortLanguages(langs []LanguageOption) []LanguageOption {
	out := append([]LanguageOption(nil), langs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsManual != out[j].IsManual {
			return out[i].IsManual
		}
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out
}

// SortLanguagesByName orders languages alphabetically by display name only.
// This is the order of the pre-fetch selector.
func SortLanguagesByName(langs []LanguageOption) []LanguageOption {
	out := append([]LanguageOption(nil), langs...)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out
}

// HasLanguage reports whether code is one of langs.
func HasLanguage(langs []LanguageOption, code string) bool {
	for _, l := range langs {
		if l.Code == code {
			return true
		}
	}
	return false
}

// TranscriptSession is the in-memory state of one video lookup.
// It is replaced wholesale on each new submission and never persisted.
type TranscriptSession struct {
	VideoID            string           `json:"video_id"`
	URL                string           `json:"url"`
	RawTranscript      string           `json:"transcript"`
	CurrentLanguage    string           `json:"current_language,omitempty"`
	AvailableLanguages []LanguageOption `json:"available_languages"`
}

// --- Backend wire contract ---

// Backend status values shared by both endpoints.
const (
	APIStatusSuccess       = "success"
	APIStatusFallback      = "fallback"
	APIStatusNoTranscripts = "no_transcripts"
	APIStatusError         = "error"
)

// LanguageEntry is one element of the languages endpoint's "languages" array.
type LanguageEntry struct {
	LanguageCode   string `json:"language_code"`
	Language       string `json:"language"`
	IsGenerated    bool   `json:"is_generated"`
	IsTranslatable bool   `json:"is_translatable,omitempty"`
}

// Option converts the wire entry into a LanguageOption.
func (e LanguageEntry) Option() LanguageOption {
	name := e.Language
	if name == "" {
		name = e.LanguageCode
	}
	return LanguageOption{Code: e.LanguageCode, DisplayName: name, IsManual: !e.IsGenerated}
}

// LanguagesResponse is the body of GET <languagesEndpoint>?url=...
type LanguagesResponse struct {
	Status    string          `json:"status"`
	Languages []LanguageEntry `json:"languages,omitempty"`
	VideoID   string          `json:"video_id,omitempty"`
	Note      string          `json:"note,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// TranscriptRequest is the JSON body for POST <transcriptEndpoint>.
// The language field is omitted entirely when no language is selected.
type TranscriptRequest struct {
	URL      string `json:"url"`
	Language string `json:"language,omitempty"`
}

// TranscriptResponse is the body returned by the transcript endpoint,
// for both success and failure.
type TranscriptResponse struct {
	Status     string `json:"status"`
	Transcript string `json:"transcript,omitempty"`
	VideoID    string `json:"video_id,omitempty"`
	Language   string `json:"language,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
	Note       string `json:"note,omitempty"`
	Error      string `json:"error,omitempty"`
}

// --- View server DTOs ---

// Preference is one stored key/value pair for a visitor.
type Preference struct {
	VisitorID string    `json:"visitor_id" db:"visitor_id"`
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LookupRequest is the JSON body for POST /api/v1/lookup.
type LookupRequest struct {
	URL string `json:"url" form:"url"`
}

// LanguageRequest is the JSON body for POST /api/v1/language.
type LanguageRequest struct {
	Language string `json:"language" form:"language" binding:"required"`
}

// PreferencesRequest is the JSON body for PUT /api/v1/preferences.
type PreferencesRequest struct {
	FontSize string `json:"font_size" form:"font_size" binding:"required"`
}

// PreferencesResponse is returned by the preferences endpoints.
type PreferencesResponse struct {
	FontSize FontSize `json:"font_size"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Preferences string `json:"preferences"`
	Sessions    int    `json:"sessions"`
}
