package staging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const dataURIPrefix = "data:"

// Attachment is an inbound file reference. URL is expected to be a
// self-describing data URI of the form data:<mime>;base64,<payload>.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StagedFile describes one decoded attachment written to the staging
// directory.
type StagedFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	MIME string `json:"mime"`
	Size int    `json:"size"`
}

// Problem records an attachment that looked like a data URI but could not
// be decoded or written.
type Problem struct {
	Name string
	Err  error
}

func (p Problem) String() string { return p.Name + ": " + p.Err.Error() }

// DefaultDir is the staging location used when none is configured.
func DefaultDir() string { return filepath.Join(os.TempDir(), "llm_attachments") }

// Stager decodes data-URI attachments into a fixed staging directory. The
// directory is created once at construction and never cleaned up here;
// staged files live for callers to inspect.
type Stager struct {
	dir string
}

// NewStager ensures the staging directory exists. An empty dir selects
// DefaultDir.
func NewStager(dir string) (*Stager, error) {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir %s: %w", dir, err)
	}
	return &Stager{dir: dir}, nil
}

// Dir returns the staging directory path.
func (s *Stager) Dir() string { return s.dir }

// Stage decodes and writes every attachment it can. Entries whose URL is
// not a data URI are skipped outright. A decode or write failure is logged
// and reported as a Problem without stopping the rest of the batch, so a
// partial result is the normal outcome, not an error.
func (s *Stager) Stage(attachments []Attachment) ([]StagedFile, []Problem) {
	var staged []StagedFile
	var problems []Problem
	for _, att := range attachments {
		name := strings.TrimSpace(att.Name)
		if name == "" {
			name = "attachment"
		}
		if !strings.HasPrefix(att.URL, dataURIPrefix) {
			continue
		}
		raw, mime, err := decodeDataURI(att.URL)
		if err != nil {
			log.Printf("[Stager] failed to decode attachment %q: %v", name, err)
			problems = append(problems, Problem{Name: name, Err: err})
			continue
		}
		path := filepath.Join(s.dir, filepath.Base(name))
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			log.Printf("[Stager] failed to write attachment %q: %v", name, err)
			problems = append(problems, Problem{Name: name, Err: err})
			continue
		}
		staged = append(staged, StagedFile{Name: name, Path: path, MIME: mime, Size: len(raw)})
	}
	return staged, problems
}

// decodeDataURI splits a data URI at its first comma and decodes the
// base64 payload. The media type is the header segment before the first
// semicolon, minus the scheme prefix.
func decodeDataURI(url string) ([]byte, string, error) {
	parts := strings.SplitN(url, ",", 2)
	if len(parts) != 2 {
		return nil, "", errors.New("missing payload separator")
	}
	mime := strings.TrimPrefix(strings.SplitN(parts[0], ";", 2)[0], dataURIPrefix)
	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, "", fmt.Errorf("decode base64 payload: %w", err)
	}
	return raw, mime, nil
}

// DataURI renders raw bytes as a base64 data URI, the inverse of what
// Stage decodes.
func DataURI(mime string, data []byte) string {
	return dataURIPrefix + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
