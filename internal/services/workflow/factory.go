package workflow

import (
	"fmt"
	"time"

	"github.com/Shimizu-Technology/transcript-viewer/internal/config"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/analytics"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/transcript"
)

// Build resolves the session configuration for origin and wires a controller
// to a transcript client. apiOrigin, when set, is where relative endpoints
// point; otherwise they resolve against origin itself.
func Build(origin config.Origin, apiOrigin string, timeout time.Duration, tracker analytics.Tracker, visitorID string) (*Controller, error) {
	client, err := NewClient(origin, apiOrigin, timeout)
	if err != nil {
		return nil, err
	}
	return New(client, tracker, visitorID), nil
}

// NewClient resolves the session configuration for origin and returns a
// transcript client for it.
func NewClient(origin config.Origin, apiOrigin string, timeout time.Duration) (*transcript.Client, error) {
	base := apiOrigin
	if base == "" && !origin.IsFile() {
		base = origin.String()
	}

	client, err := transcript.NewClient(config.Resolve(origin), base, transcript.WithTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript client: %w", err)
	}
	return client, nil
}

// NewFactory returns a registry Factory that builds controllers with Build.
func NewFactory(apiOrigin string, timeout time.Duration, tracker analytics.Tracker) Factory {
	return func(visitorID string, origin config.Origin) (*Controller, error) {
		return Build(origin, apiOrigin, timeout, tracker, visitorID)
	}
}
