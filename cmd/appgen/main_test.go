package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	generator "github.com/dhakseshr/tds-project1"
)

func TestGetBrief(t *testing.T) {
	got, err := getBrief("build a todo app", false, strings.NewReader("ignored"))
	if err != nil {
		t.Fatalf("getBrief() error = %v", err)
	}
	if got != "build a todo app" {
		t.Fatalf("getBrief() = %q, want %q", got, "build a todo app")
	}

	got, err = getBrief("", true, strings.NewReader("line one\nline two\n"))
	if err != nil {
		t.Fatalf("getBrief(stdin) error = %v", err)
	}
	if got != "line one\nline two" {
		t.Fatalf("getBrief(stdin) = %q, want %q", got, "line one\nline two")
	}
}

func TestLoadAttachments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("<p>hi</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	atts, err := loadAttachments(path, "", "  ")
	if err != nil {
		t.Fatalf("loadAttachments() error = %v", err)
	}
	if len(atts) != 1 {
		t.Fatalf("loadAttachments() returned %d attachments, want 1", len(atts))
	}
	if atts[0].Name != "page.html" {
		t.Errorf("attachment name = %q, want %q", atts[0].Name, "page.html")
	}
	if !strings.HasPrefix(atts[0].URL, "data:text/html") {
		t.Errorf("attachment URL = %q, want data:text/html prefix", atts[0].URL)
	}

	if _, err := loadAttachments(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("loadAttachments() with a missing file should error")
	}
}

func TestBuildRound(t *testing.T) {
	r, err := buildRound(1, "", "")
	if err != nil {
		t.Fatalf("buildRound(1) error = %v", err)
	}
	if _, ok := r.(generator.FirstRound); !ok {
		t.Fatalf("buildRound(1) = %T, want generator.FirstRound", r)
	}

	prev := filepath.Join(t.TempDir(), "README.md")
	if err := os.WriteFile(prev, []byte("# Old readme"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err = buildRound(2, prev, "seed ignored")
	if err != nil {
		t.Fatalf("buildRound(2) error = %v", err)
	}
	rev, ok := r.(generator.RevisionRound)
	if !ok {
		t.Fatalf("buildRound(2) = %T, want generator.RevisionRound", r)
	}
	if rev.Prior != "# Old readme" {
		t.Errorf("prior = %q, want %q", rev.Prior, "# Old readme")
	}

	r, err = buildRound(2, "", "# From request")
	if err != nil {
		t.Fatalf("buildRound(2, seed) error = %v", err)
	}
	if rev := r.(generator.RevisionRound); rev.Prior != "# From request" {
		t.Errorf("seeded prior = %q, want %q", rev.Prior, "# From request")
	}

	if _, err := buildRound(2, filepath.Join(t.TempDir(), "absent.md"), ""); err == nil {
		t.Fatal("buildRound(2) with an unreadable prior should error")
	}
	if _, err := buildRound(3, "", ""); err == nil {
		t.Fatal("buildRound(3) should error")
	}
}

func TestLoadRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	body := `{
  "brief": "todo app",
  "attachments": [{"name": "rows.csv", "url": "data:text/csv;base64,aWQ="}],
  "checks": ["has add button"],
  "round": 2,
  "prev_readme": "# Old"
}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	req, err := loadRequest(path)
	if err != nil {
		t.Fatalf("loadRequest() error = %v", err)
	}
	if req.Brief != "todo app" {
		t.Errorf("brief = %q, want %q", req.Brief, "todo app")
	}
	if len(req.Attachments) != 1 || req.Attachments[0].Name != "rows.csv" {
		t.Errorf("attachments = %+v, want one named rows.csv", req.Attachments)
	}
	if len(req.Checks) != 1 || req.Checks[0] != "has add button" {
		t.Errorf("checks = %v, want [has add button]", req.Checks)
	}
	if req.Round != 2 || req.PrevReadme != "# Old" {
		t.Errorf("round/prev = %d/%q, want 2/%q", req.Round, req.PrevReadme, "# Old")
	}
}

func TestLoadRequestNoPath(t *testing.T) {
	req, err := loadRequest("")
	if err != nil {
		t.Fatalf("loadRequest(\"\") error = %v", err)
	}
	if req != nil {
		t.Fatalf("loadRequest(\"\") = %+v, want nil", req)
	}
}

func TestLoadRequestRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadRequest(path); err == nil {
		t.Fatal("loadRequest() with invalid JSON should error")
	}
}

func TestApplyConfigFillsUnsetFlags(t *testing.T) {
	oldModel, oldStage, oldOut, oldTimeout := *flagModel, *flagStage, *flagOut, *flagTimeout
	t.Cleanup(func() {
		*flagModel, *flagStage, *flagOut, *flagTimeout = oldModel, oldStage, oldOut, oldTimeout
	})

	path := filepath.Join(t.TempDir(), "appgen.yaml")
	cfg := "model: gemini-1.5-pro\nstage_dir: /tmp/stage\nout_dir: out\ntimeout_seconds: 30\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := applyConfig(path); err != nil {
		t.Fatalf("applyConfig() error = %v", err)
	}
	if *flagModel != "gemini-1.5-pro" {
		t.Errorf("model = %q, want %q", *flagModel, "gemini-1.5-pro")
	}
	if *flagStage != "/tmp/stage" {
		t.Errorf("stage dir = %q, want %q", *flagStage, "/tmp/stage")
	}
	if *flagOut != "out" {
		t.Errorf("out dir = %q, want %q", *flagOut, "out")
	}
	if *flagTimeout != 30*time.Second {
		t.Errorf("timeout = %v, want %v", *flagTimeout, 30*time.Second)
	}
}

func TestApplyConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("model: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := applyConfig(path); err == nil {
		t.Fatal("applyConfig() with invalid YAML should error")
	}
}

func TestApplyConfigNoPath(t *testing.T) {
	if err := applyConfig(""); err != nil {
		t.Fatalf("applyConfig(\"\") error = %v", err)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	res := generator.Result{IndexHTML: "<html></html>", Readme: "# App"}

	indexPath, readmePath, err := writeArtifacts(dir, res)
	if err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}
	html, err := os.ReadFile(indexPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(html) != "<html></html>" {
		t.Errorf("index.html = %q, want %q", html, "<html></html>")
	}
	readme, err := os.ReadFile(readmePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(readme) != "# App" {
		t.Errorf("README.md = %q, want %q", readme, "# App")
	}
}
