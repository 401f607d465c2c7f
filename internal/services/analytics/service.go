package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// DefaultRetryDelays are waited before each delivery attempt.
var DefaultRetryDelays = []time.Duration{0, 1 * time.Second, 5 * time.Second}

// Service delivers events to a collector URL from a small worker pool.
//
// Go Pattern: A buffered channel is the queue, N goroutines drain it, and
// Track uses select/default so a full queue drops the event instead of
// blocking the request that produced it.
type Service struct {
	url     string
	secret  string
	client  *http.Client
	delays  []time.Duration
	events  chan Event
	workers int

	mu     sync.RWMutex // guards closed against sends racing Stop
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// Options tunes a Service. Zero values pick defaults.
type Options struct {
	Workers     int
	QueueSize   int
	RetryDelays []time.Duration
	HTTPClient  *http.Client
}

// New creates a Service posting to url. Call Start before Track.
func New(url, secret string, opts Options) *Service {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.RetryDelays == nil {
		opts.RetryDelays = DefaultRetryDelays
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		url:     url,
		secret:  secret,
		client:  opts.HTTPClient,
		delays:  opts.RetryDelays,
		events:  make(chan Event, opts.QueueSize),
		workers: opts.Workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the delivery goroutines.
func (s *Service) Start() {
	log.Printf("📊 Starting %d analytics workers → %s", s.workers, s.url)
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

// Stop aborts pending retries and waits for the workers to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	close(s.events)
	s.mu.Unlock()

	s.wg.Wait()
	log.Println("✅ Analytics workers stopped")
}

// Track queues e for delivery. A full queue drops the event.
func (s *Service) Track(e Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.events <- e:
	default:
		log.Printf("⚠️  Analytics queue full, dropping %s", e.Name)
	}
}

func (s *Service) worker() {
	defer s.wg.Done()
	for e := range s.events {
		s.deliverWithRetry(e)
	}
}

// deliverWithRetry tries each delay in turn and gives up quietly.
func (s *Service) deliverWithRetry(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		log.Printf("⚠️  Failed to marshal analytics event: %v", err)
		return
	}

	var lastErr error
	for attempt, delay := range s.delays {
		if delay > 0 {
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(delay):
			}
		}

		lastErr = s.deliver(payload)
		if lastErr == nil {
			return
		}
		log.Printf("⚠️  Analytics delivery failed (attempt %d/%d): %s: %v",
			attempt+1, len(s.delays), e.Name, lastErr)
	}
	log.Printf("❌ Analytics event dropped after %d attempts: %s", len(s.delays), e.Name)
}

func (s *Service) deliver(payload []byte) error {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "TranscriptViewer-Analytics/1.0")
	if s.secret != "" {
		req.Header.Set("X-Analytics-Signature", SignPayload(payload, s.secret))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}
