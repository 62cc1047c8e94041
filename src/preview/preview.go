package preview

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhakseshr/tds-project1/src/staging"
)

const (
	csvPreviewLines  = 3
	textPreviewLimit = 1000
)

// lineBreak is the literal two-character escape used between entries and
// inside previews. The summary stays a single display line; real newlines
// never appear in it.
const lineBreak = `\n`

var textExtensions = []string{".md", ".txt", ".json", ".csv"}

// Summarize renders one entry per staged attachment: a short content
// preview for text-like files, a byte count for opaque ones, an inline
// error note for anything unreadable. Entries are joined by the literal
// newline escape.
func Summarize(staged []staging.StagedFile) string {
	lines := make([]string, 0, len(staged))
	for _, att := range staged {
		lines = append(lines, describe(att))
	}
	return strings.Join(lines, lineBreak)
}

func describe(att staging.StagedFile) string {
	if !isTextLike(att.Name, att.MIME) {
		return fmt.Sprintf("- %s (%s): %d bytes", att.Name, att.MIME, att.Size)
	}
	var text string
	var err error
	if strings.HasSuffix(att.Name, ".csv") {
		text, err = csvPreview(att.Path)
	} else {
		text, err = textPreview(att.Path)
	}
	if err != nil {
		return fmt.Sprintf("- %s (%s): (could not read: %v)", att.Name, att.MIME, err)
	}
	return fmt.Sprintf("- %s (%s): preview: %s", att.Name, att.MIME, text)
}

// isTextLike treats anything with a text media type or a well-known text
// extension as previewable.
func isTextLike(name, mime string) bool {
	if strings.HasPrefix(mime, "text") {
		return true
	}
	for _, ext := range textExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// csvPreview reads up to the first few physical lines, trimmed, joined by
// the literal escape. It stops early at end of file and makes no attempt
// to respect quoted multi-line records.
func csvPreview(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var lines []string
	reader := bufio.NewReader(f)
	for len(lines) < csvPreviewLines {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimSpace(strings.ToValidUTF8(line, "")))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.Join(lines, lineBreak), nil
}

// textPreview reads up to the first 1000 characters, drops invalid UTF-8,
// flattens real newlines to the literal escape and re-truncates, so the
// escape expansion cannot push the preview past the cap.
func textPreview(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 4*textPreviewLimit)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	content := strings.ToValidUTF8(string(buf[:n]), "")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = truncateRunes(content, textPreviewLimit)
	content = strings.ReplaceAll(content, "\n", lineBreak)
	return truncateRunes(content, textPreviewLimit), nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
