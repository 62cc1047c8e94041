package helpers

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dhakseshr/tds-project1/src/staging"
)

// ParseCSVList splits a comma-separated flag value, trimming blanks.
func ParseCSVList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DetectMIME resolves a media type for a local file, preferring the
// extension and falling back to content sniffing. Parameters like
// charset are stripped so the result slots into a data URI header.
func DetectMIME(name string, data []byte) string {
	mt := mime.TypeByExtension(filepath.Ext(name))
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}

// ProblemNames renders staging problems for log output.
func ProblemNames(problems []staging.Problem) string {
	if len(problems) == 0 {
		return "<none>"
	}
	names := make([]string, len(problems))
	for i, p := range problems {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
