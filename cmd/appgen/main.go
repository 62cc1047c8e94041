// main.go — application generator CLI
// Turns a project brief plus optional attachments into index.html and README.md.
// - Round 1 builds from scratch; round 2 revises a prior README against a new brief.
// - Trailing CLI args are local files, lifted into data-URI attachments.
// - Failures never abort generation: fallback artifacts are written instead.
//
// Examples:
//
//	export GEMINI_API_KEY=...   # or GOOGLE_API_KEY, or a .env file
//	go run ./cmd/appgen -brief "todo app" -checks "has add button" data/products.csv
//
//	go run ./cmd/appgen -round 2 -prev out/README.md -brief "add dark mode" -out out
//
//	cat brief.txt | go run ./cmd/appgen -stdin -dry-run -json
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/alpkeskin/gotoon"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	generator "github.com/dhakseshr/tds-project1"
	"github.com/dhakseshr/tds-project1/src/helpers"
	"github.com/dhakseshr/tds-project1/src/models"
	"github.com/dhakseshr/tds-project1/src/staging"
)

var (
	flagBrief   = flag.String("brief", "", "Project brief")
	flagStdin   = flag.Bool("stdin", false, "Read the brief from STDIN instead of -brief")
	flagChecks  = flag.String("checks", "", "Comma-separated evaluation checks")
	flagRound   = flag.Int("round", 1, "Generation round: 1 builds, 2 revises a prior README")
	flagPrev    = flag.String("prev", "", "Path to the prior README.md (round 2 only)")
	flagOut     = flag.String("out", ".", "Directory to write index.html and README.md into")
	flagModel   = flag.String("model", models.DefaultModel, "Gemini model ID")
	flagStage   = flag.String("stage-dir", "", "Attachment staging directory (default: system temp)")
	flagTimeout = flag.Duration("timeout", 2*time.Minute, "Overall generation timeout")
	flagJSON    = flag.Bool("json", false, "Print run metadata as JSON")
	flagDryRun  = flag.Bool("dry-run", false, "Use the offline dummy model (no API key needed)")
	flagConfig  = flag.String("config", "", "Optional YAML config file")
	flagRequest = flag.String("request", "", "JSON request file (brief, attachments, checks, round, prev_readme)")
)

// fileConfig mirrors a subset of the flags for callers that prefer a
// config file. Explicitly set flags always win over config values.
type fileConfig struct {
	Model          string `yaml:"model"`
	StageDir       string `yaml:"stage_dir"`
	OutDir         string `yaml:"out_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// requestFile is the JSON body a hosted caller would post: the brief,
// data-URI attachments, checks, round and the prior README for round 2.
type requestFile struct {
	Brief       string               `json:"brief"`
	Attachments []staging.Attachment `json:"attachments"`
	Checks      []string             `json:"checks"`
	Round       int                  `json:"round"`
	PrevReadme  string               `json:"prev_readme"`
}

func main() {
	flag.Parse()

	if err := applyConfig(*flagConfig); err != nil {
		fail(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()

	// 1) Optional request file: the JSON body a hosted caller would post.
	reqFile, err := loadRequest(*flagRequest)
	if err != nil {
		fail(err)
	}

	// 2) Resolve the brief: flag, STDIN, then the request file.
	brief, err := getBrief(*flagBrief, *flagStdin, os.Stdin)
	if err != nil {
		fail(err)
	}
	if strings.TrimSpace(brief) == "" && reqFile != nil {
		brief = reqFile.Brief
	}
	if strings.TrimSpace(brief) == "" {
		fail(errors.New("no brief provided: use -brief, -request, or pipe one via -stdin"))
	}

	// 3) Attachments: request-file ones first, then trailing file args.
	attachments, err := loadAttachments(flag.Args()...)
	if err != nil {
		fail(err)
	}
	if reqFile != nil {
		attachments = append(reqFile.Attachments, attachments...)
	}

	// 4) Build the model: .env, then environment, then Gemini.
	model, err := buildModel(ctx)
	if err != nil {
		fail(err)
	}

	gen, err := generator.New(generator.Options{
		Model:      model,
		ModelName:  *flagModel,
		StagingDir: *flagStage,
	})
	if err != nil {
		fail(err)
	}

	// 5) Round and checks, with request-file values behind unset flags.
	checks := helpers.ParseCSVList(*flagChecks)
	roundNum := *flagRound
	prior := ""
	if reqFile != nil {
		if len(checks) == 0 {
			checks = reqFile.Checks
		}
		if reqFile.Round != 0 && !flagWasSet("round") {
			roundNum = reqFile.Round
		}
		prior = reqFile.PrevReadme
	}
	round, err := buildRound(roundNum, *flagPrev, prior)
	if err != nil {
		fail(err)
	}

	// 6) Generate. Failures surface as fallback artifacts, never errors.
	res := gen.Generate(ctx, generator.Request{
		Brief:       brief,
		Attachments: attachments,
		Checks:      checks,
		Round:       round,
	})

	// 7) Persist both artifacts.
	indexPath, readmePath, err := writeArtifacts(*flagOut, res)
	if err != nil {
		fail(err)
	}

	if *flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"index_html":  indexPath,
			"readme":      readmePath,
			"model":       *flagModel,
			"round":       roundNum,
			"attachments": res.Staged,
			"problems":    helpers.ProblemNames(res.Problems),
		}); err != nil {
			fail(err)
		}
		return
	}

	fmt.Println("index.html →", indexPath)
	fmt.Println("README.md  →", readmePath)
	fmt.Printf("staged %d attachment(s), problems: %s\n", len(res.Staged), helpers.ProblemNames(res.Problems))
}

// applyConfig loads the YAML file at path and fills in any flags the
// user did not set on the command line.
func applyConfig(path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Model != "" && !flagWasSet("model") {
		*flagModel = cfg.Model
	}
	if cfg.StageDir != "" && !flagWasSet("stage-dir") {
		*flagStage = cfg.StageDir
	}
	if cfg.OutDir != "" && !flagWasSet("out") {
		*flagOut = cfg.OutDir
	}
	if cfg.TimeoutSeconds > 0 && !flagWasSet("timeout") {
		*flagTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return nil
}

// loadRequest decodes the JSON request file at path, if any.
func loadRequest(path string) (*requestFile, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request %s: %w", path, err)
	}
	var req requestFile
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("parse request %s: %w", path, err)
	}
	return &req, nil
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// getBrief returns the brief from the flag, or reads all of r when
// useStdin is set.
func getBrief(flagBrief string, useStdin bool, r io.Reader) (string, error) {
	if !useStdin {
		return flagBrief, nil
	}
	var b strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read STDIN: %w", err)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// loadAttachments converts local paths into data-URI attachments, the
// same shape a remote caller would post.
func loadAttachments(paths ...string) ([]staging.Attachment, error) {
	var out []staging.Attachment
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", p, err)
		}
		out = append(out, staging.Attachment{
			Name: filepath.Base(p),
			URL:  staging.DataURI(helpers.DetectMIME(p, data), data),
		})
	}
	return out, nil
}

// buildModel resolves the API key (.env first, then the environment)
// and constructs the Gemini agent, optionally wrapped by the response
// cache. -dry-run swaps in the offline dummy so no key is needed.
func buildModel(ctx context.Context) (models.Agent, error) {
	if *flagDryRun {
		return models.NewDummyLLM("", generator.ReadmeSentinel), nil
	}
	_ = godotenv.Load()
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY or GEMINI_API_KEY (set one, or use -dry-run)")
	}
	llm, err := models.NewGeminiLLM(ctx, *flagModel, apiKey)
	if err != nil {
		return nil, err
	}
	return models.TryCreateCachedAgent(llm), nil
}

// buildRound validates the round number. prior seeds the revision
// baseline; prevPath, when set, replaces it with that file's contents.
func buildRound(round int, prevPath, prior string) (generator.Round, error) {
	switch round {
	case 1:
		return generator.FirstRound{}, nil
	case 2:
		if prevPath != "" {
			raw, err := os.ReadFile(prevPath)
			if err != nil {
				return nil, fmt.Errorf("read prior README %s: %w", prevPath, err)
			}
			prior = string(raw)
		}
		return generator.RevisionRound{Prior: prior}, nil
	default:
		return nil, fmt.Errorf("round must be 1 or 2, got %d", round)
	}
}

// writeArtifacts persists both artifacts under dir, creating it first.
func writeArtifacts(dir string, res generator.Result) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir %s: %w", dir, err)
	}
	indexPath := filepath.Join(dir, "index.html")
	if err := os.WriteFile(indexPath, []byte(res.IndexHTML), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", indexPath, err)
	}
	readmePath := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readmePath, []byte(res.Readme), 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", readmePath, err)
	}
	return indexPath, readmePath, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
