// Package export implements the copy and download actions for a transcript.
//
// Go Pattern: The clipboard is an interface so tests (and headless servers)
// can substitute their own. The default implementation is atotto/clipboard.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
)

// ContentType is the MIME type of every downloaded transcript.
const ContentType = "text/plain; charset=utf-8"

// Clipboard writes text to some clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard is the operating system clipboard.
type SystemClipboard struct{}

// WriteAll copies text to the system clipboard.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available on this system")
	}
	return clipboard.WriteAll(text)
}

// Copy writes text to cb verbatim.
func Copy(cb Clipboard, text string) error {
	if cb == nil {
		return fmt.Errorf("no clipboard configured")
	}
	if err := cb.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy transcript: %w", err)
	}
	return nil
}

// File is a transcript ready to be saved.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Download packages text as transcript_<videoID>[_<language>].txt.
// The language segment is omitted when language is empty.
func Download(videoID, language, text string) File {
	return File{
		Name:        Filename(videoID, language),
		ContentType: ContentType,
		Data:        []byte(text),
	}
}

// Filename builds the download name for a transcript.
func Filename(videoID, language string) string {
	name := "transcript_" + sanitize(videoID)
	if lang := sanitize(language); lang != "" {
		name += "_" + lang
	}
	return name + ".txt"
}

// ContentDisposition is the header value that makes browsers save the file.
func (f File) ContentDisposition() string {
	return fmt.Sprintf(`attachment; filename="%s"`, f.Name)
}

// SaveTo saves the file into dir and returns the full path.
func (f File) SaveTo(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, f.Name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// sanitize keeps a filename segment free of path separators and characters
// that break a quoted Content-Disposition value.
func sanitize(segment string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-",
		"|", "-", "\n", "", "\r", "", " ", "-",
	)
	segment = strings.TrimSpace(replacer.Replace(segment))
	if len(segment) > 64 {
		segment = segment[:64]
	}
	return segment
}
