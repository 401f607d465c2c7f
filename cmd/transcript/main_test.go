package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Shimizu-Technology/transcript-viewer/internal/config"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/transcript"
)

const videoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type memClipboard struct {
	text string
}

func (m *memClipboard) WriteAll(text string) error {
	m.text = text
	return nil
}

// newBackend serves two languages; German is manual.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(config.LanguagesPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","languages":[
			{"language_code":"en","language":"English","is_generated":true},
			{"language_code":"de","language":"German","is_generated":false}]}`))
	})
	mux.HandleFunc(config.TranscriptPath, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Language string `json:"language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		text := "[00:01] Anna: Hello world\n[00:04] Goodbye"
		if req.Language == "de" {
			text = "[00:01] Anna: Hallo Welt"
		}
		json.NewEncoder(w).Encode(map[string]string{
			"status":     "success",
			"video_id":   "dQw4w9WgXcQ",
			"language":   req.Language,
			"transcript": text,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, cb *memClipboard, backend string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommandWith(cb)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--origin", "https://viewer.example.com", "--api-origin", backend}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestGetCommand_DefaultLanguage(t *testing.T) {
	srv := newBackend(t)

	out, errOut, err := runCLI(t, &memClipboard{}, srv.URL, "get", videoURL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// Manual tracks sort first, so German is the default.
	requireContains(t, out, "Anna: Hallo Welt")
	requireContains(t, errOut, "Language: German ★")
}

func TestGetCommand_PreferredLanguageCopyAndDownload(t *testing.T) {
	srv := newBackend(t)
	dir := t.TempDir()
	cb := &memClipboard{}

	out, errOut, err := runCLI(t, cb, srv.URL, "get", videoURL, "--language", "en", "--copy", "--download", dir)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != "Anna: Hello world\nGoodbye\n" {
		t.Fatalf("unexpected output %q", out)
	}
	requireContains(t, errOut, "Copied transcript to clipboard")

	raw := "[00:01] Anna: Hello world\n[00:04] Goodbye"
	if cb.text != raw {
		t.Fatalf("clipboard = %q, want %q", cb.text, raw)
	}

	data, err := os.ReadFile(filepath.Join(dir, "transcript_dQw4w9WgXcQ_en.txt"))
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(data) != raw {
		t.Fatalf("download = %q, want %q", data, raw)
	}
}

func TestGetCommand_UnavailableLanguageFallsBack(t *testing.T) {
	srv := newBackend(t)

	_, errOut, err := runCLI(t, &memClipboard{}, srv.URL, "get", videoURL, "--language", "fr")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	requireContains(t, errOut, `Language "fr" is not available`)
}

func TestGetCommand_Raw(t *testing.T) {
	srv := newBackend(t)

	out, _, err := runCLI(t, &memClipboard{}, srv.URL, "get", videoURL, "-l", "en", "--raw")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	requireContains(t, out, "[00:04] Goodbye")
}

func TestGetCommand_InvalidURL(t *testing.T) {
	_, _, err := runCLI(t, &memClipboard{}, "http://127.0.0.1:1", "get", "https://example.com/video")
	if err == nil || err.Error() != "Please enter a valid YouTube URL" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLanguagesCommand(t *testing.T) {
	srv := newBackend(t)

	out, _, err := runCLI(t, &memClipboard{}, srv.URL, "languages", videoURL)
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	requireContains(t, out, "German")
	requireContains(t, out, "manual")
	requireContains(t, out, "auto-generated")
	if strings.Index(out, "German") > strings.Index(out, "English") {
		t.Fatalf("manual languages should be listed first:\n%s", out)
	}
}

func TestRenderParagraphs_Colorize(t *testing.T) {
	var buf bytes.Buffer
	renderParagraphs(&buf, []transcript.Paragraph{{Label: "Anna:", Text: "Hi"}, {Text: "Bye"}}, true)
	want := ansiBold + "Anna:" + ansiReset + " Hi\nBye\n"
	if buf.String() != want {
		t.Fatalf("renderParagraphs = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	paragraphs := transcript.Format("[00:01] Anna: Hi\n[00:02] Bye")
	renderParagraphs(&buf, paragraphs, false)
	if buf.String() != transcript.Plain(paragraphs)+"\n" {
		t.Fatalf("uncolored output %q should match Plain", buf.String())
	}
}
