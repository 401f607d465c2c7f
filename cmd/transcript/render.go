package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/transcript"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
)

// renderParagraphs prints one paragraph per line. Speaker labels are bold on
// a terminal; otherwise the output is exactly transcript.Plain.
func renderParagraphs(w io.Writer, paragraphs []transcript.Paragraph, colorize bool) {
	if len(paragraphs) == 0 {
		return
	}
	if !colorize {
		fmt.Fprintln(w, transcript.Plain(paragraphs))
		return
	}
	for _, p := range paragraphs {
		if p.Label == "" {
			fmt.Fprintln(w, p.Text)
			continue
		}
		fmt.Fprintf(w, "%s%s%s %s\n", ansiBold, p.Label, ansiReset, p.Text)
	}
}

// languageLabel names code the way the selector would.
func languageLabel(langs []models.LanguageOption, code string) string {
	for _, l := range langs {
		if l.Code == code {
			return l.Label()
		}
	}
	if code == "" {
		return "default"
	}
	return code
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
