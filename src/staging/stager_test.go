package staging

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func silenceLogs(t *testing.T) {
	t.Helper()
	prev := log.Writer()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(prev) })
}

func newTestStager(t *testing.T) *Stager {
	t.Helper()
	s, err := NewStager(t.TempDir())
	if err != nil {
		t.Fatalf("NewStager returned error: %v", err)
	}
	return s
}

func TestNewStagerCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "stage")
	s, err := NewStager(dir)
	if err != nil {
		t.Fatalf("NewStager returned error: %v", err)
	}
	if s.Dir() != dir {
		t.Fatalf("Dir() = %q, want %q", s.Dir(), dir)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("staging dir not created: %v", err)
	}
}

func TestStageDecodesDataURI(t *testing.T) {
	s := newTestStager(t)
	payload := []byte("id,name\n1,alpha\n2,beta\n")

	staged, problems := s.Stage([]Attachment{
		{Name: "rows.csv", URL: DataURI("text/csv", payload)},
	})
	if len(problems) != 0 {
		t.Fatalf("Stage reported problems: %v", problems)
	}
	if len(staged) != 1 {
		t.Fatalf("Stage returned %d files, want 1", len(staged))
	}
	got := staged[0]
	if got.Name != "rows.csv" || got.MIME != "text/csv" {
		t.Fatalf("staged metadata = %+v", got)
	}
	if got.Size != len(payload) {
		t.Fatalf("Size = %d, want %d", got.Size, len(payload))
	}
	onDisk, err := os.ReadFile(got.Path)
	if err != nil {
		t.Fatalf("reading staged file: %v", err)
	}
	if !bytes.Equal(onDisk, payload) {
		t.Fatalf("staged content = %q, want %q", onDisk, payload)
	}
}

func TestStageSkipsNonDataURLs(t *testing.T) {
	s := newTestStager(t)

	staged, problems := s.Stage([]Attachment{
		{Name: "remote.png", URL: "https://example.com/remote.png"},
		{Name: "blank", URL: ""},
	})
	if len(staged) != 0 || len(problems) != 0 {
		t.Fatalf("Stage = %d staged, %d problems, want 0 and 0", len(staged), len(problems))
	}
}

func TestStageContinuesPastFailures(t *testing.T) {
	silenceLogs(t)
	s := newTestStager(t)

	staged, problems := s.Stage([]Attachment{
		{Name: "broken.bin", URL: "data:application/octet-stream;base64,!!!not-base64!!!"},
		{Name: "headeronly", URL: "data:text/plain;base64"},
		{Name: "ok.txt", URL: DataURI("text/plain", []byte("still here"))},
	})
	if len(staged) != 1 || staged[0].Name != "ok.txt" {
		t.Fatalf("Stage staged %v, want just ok.txt", staged)
	}
	if len(problems) != 2 {
		t.Fatalf("Stage reported %d problems, want 2: %v", len(problems), problems)
	}
	if problems[0].Name != "broken.bin" || problems[1].Name != "headeronly" {
		t.Fatalf("problem names = %q, %q", problems[0].Name, problems[1].Name)
	}
}

func TestStageDefaultsEmptyName(t *testing.T) {
	s := newTestStager(t)

	staged, _ := s.Stage([]Attachment{
		{Name: "   ", URL: DataURI("text/plain", []byte("x"))},
	})
	if len(staged) != 1 {
		t.Fatalf("Stage returned %d files, want 1", len(staged))
	}
	if staged[0].Name != "attachment" {
		t.Fatalf("Name = %q, want %q", staged[0].Name, "attachment")
	}
}

func TestStageConfinesWritesToDir(t *testing.T) {
	s := newTestStager(t)

	staged, problems := s.Stage([]Attachment{
		{Name: "../../escape.txt", URL: DataURI("text/plain", []byte("contained"))},
	})
	if len(problems) != 0 || len(staged) != 1 {
		t.Fatalf("Stage = %d staged, %d problems", len(staged), len(problems))
	}
	if filepath.Dir(staged[0].Path) != s.Dir() {
		t.Fatalf("staged path %q escapes %q", staged[0].Path, s.Dir())
	}
}

func TestDecodeDataURIMediaTypes(t *testing.T) {
	cases := []struct {
		name string
		url  string
		mime string
		body string
	}{
		{"plain", DataURI("text/plain", []byte("hi")), "text/plain", "hi"},
		{"charset param", "data:text/plain;charset=utf-8;base64,aGk=", "text/plain", "hi"},
		{"empty media type", "data:;base64,aGk=", "", "hi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, mime, err := decodeDataURI(tc.url)
			if err != nil {
				t.Fatalf("decodeDataURI(%q) error: %v", tc.url, err)
			}
			if mime != tc.mime {
				t.Fatalf("mime = %q, want %q", mime, tc.mime)
			}
			if string(raw) != tc.body {
				t.Fatalf("payload = %q, want %q", raw, tc.body)
			}
		})
	}
}
