// origin.go derives backend endpoints and the API key from the page origin.
package config

import (
	"net"
	"net/http"
	"strings"

	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
)

// Backend locations and placeholder keys.
const (
	LocalBackendURL = "http://127.0.0.1:3002"
	TranscriptPath  = "/api/transcript_v2"
	LanguagesPath   = "/api/languages_v4"

	ProductionAPIKey  = "vercel-production-key"
	DevelopmentAPIKey = "dev_api_key_1234567890"
)

// Origin is how the viewer was reached: the access protocol and hostname.
type Origin struct {
	Protocol string // "file", "http", "https" (a trailing ':' is accepted)
	Hostname string // without port
}

// IsFile reports whether the viewer was opened from a local file.
func (o Origin) IsFile() bool {
	return strings.EqualFold(strings.TrimSuffix(o.Protocol, ":"), "file")
}

// IsLoopback reports whether the hostname is localhost or the loopback address.
func (o Origin) IsLoopback() bool {
	h := strings.ToLower(o.Hostname)
	return h == "localhost" || h == "127.0.0.1"
}

// IsLocal is true for file and loopback origins.
func (o Origin) IsLocal() bool {
	return o.IsFile() || o.IsLoopback()
}

// String renders the origin as scheme://host, or "file://" for local files.
func (o Origin) String() string {
	scheme := strings.TrimSuffix(strings.ToLower(o.Protocol), ":")
	if scheme == "" {
		scheme = "http"
	}
	if o.IsFile() {
		return "file://"
	}
	return scheme + "://" + o.Hostname
}

// Resolve returns the session configuration for an origin. It never fails:
// local file and loopback origins talk to the local backend with the
// development key, everything else uses same-origin relative paths and the
// production key.
func Resolve(o Origin) models.Configuration {
	cfg := models.Configuration{
		DefaultFontSize: models.DefaultFontSize,
	}

	if o.IsLocal() {
		cfg.TranscriptEndpoint = LocalBackendURL + TranscriptPath
		cfg.LanguagesEndpoint = LocalBackendURL + LanguagesPath
		cfg.APIKey = DevelopmentAPIKey
		cfg.Debug = true
		cfg.Local = true
		return cfg
	}

	cfg.TranscriptEndpoint = TranscriptPath
	cfg.LanguagesEndpoint = LanguagesPath
	cfg.APIKey = ProductionAPIKey
	return cfg
}

// ParseOrigin accepts "file://...", "http://host:port/..." or a bare hostname.
func ParseOrigin(raw string) Origin {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Origin{Protocol: "http", Hostname: "localhost"}
	}

	scheme := "http"
	rest := raw
	if i := strings.Index(raw, "://"); i >= 0 {
		scheme = strings.ToLower(raw[:i])
		rest = raw[i+3:]
	} else if strings.HasPrefix(strings.ToLower(raw), "file:") {
		return Origin{Protocol: "file"}
	}
	if scheme == "file" {
		return Origin{Protocol: "file"}
	}

	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return Origin{Protocol: scheme, Hostname: stripPort(rest)}
}

// OriginFromRequest derives the origin a browser used to reach the view server.
// X-Forwarded-Proto wins over the TLS state so the server works behind a proxy.
func OriginFromRequest(r *http.Request) Origin {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(fwd, ",")[0]))
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return Origin{Protocol: scheme, Hostname: stripPort(host)}
}

func stripPort(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return strings.Trim(h, "[]")
	}
	return strings.Trim(hostport, "[]")
}
