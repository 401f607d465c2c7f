package transcript

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxLabelLength bounds how long a "Speaker:" prefix may be before the line
// is treated as plain text.
const maxLabelLength = 30

// Leading timestamp markers: [MM:SS], [H:MM:SS] and the backend's [12s].
var timestampRegex = regexp.MustCompile(`^\[(?:\d+:)?\d+:\d+\]|^\[\d+(?:\.\d+)?s\]`)

// Paragraph is one rendered transcript line.
type Paragraph struct {
	Label string `json:"label,omitempty"` // speaker prefix including the colon, e.g. "Alice:"
	Text  string `json:"text"`
}

// Format splits raw transcript text into paragraphs. Blank lines are dropped,
// timestamp markers are discarded, and short "Name:" prefixes become labels.
// Order is preserved and nothing is deduplicated.
func Format(raw string) []Paragraph {
	lines := strings.Split(raw, "\n")
	paragraphs := make([]Paragraph, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		content := line
		if loc := timestampRegex.FindStringIndex(content); loc != nil {
			content = content[loc[1]:]
		}
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}

		paragraphs = append(paragraphs, splitLabel(content))
	}
	return paragraphs
}

func splitLabel(content string) Paragraph {
	speaker, rest, found := strings.Cut(content, ":")
	if !found || utf8.RuneCountInString(speaker) >= maxLabelLength {
		return Paragraph{Text: content}
	}
	return Paragraph{Label: speaker + ":", Text: strings.TrimSpace(rest)}
}

// Plain renders paragraphs back to text, one per line.
func Plain(paragraphs []Paragraph) string {
	var b strings.Builder
	for i, p := range paragraphs {
		if i > 0 {
			b.WriteByte('\n')
		}
		if p.Label != "" {
			b.WriteString(p.Label)
			if p.Text != "" {
				b.WriteByte(' ')
			}
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
