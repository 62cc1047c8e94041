package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dhakseshr/tds-project1/src/models"
	"github.com/dhakseshr/tds-project1/src/preview"
	"github.com/dhakseshr/tds-project1/src/staging"
)

// Result is the sole output of a generation run. Both artifact strings
// are always non-empty, whether the model call succeeded or not.
type Result struct {
	IndexHTML string
	Readme    string
	Staged    []staging.StagedFile
	Problems  []staging.Problem
}

// Options configures a Generator.
type Options struct {
	// Model is the remote text service. Required.
	Model models.Agent
	// ModelName identifies the model in logs. Defaults to models.DefaultModel.
	ModelName string
	// StagingDir is where attachments are decoded. Empty selects the default.
	StagingDir string
}

// Generator runs the pipeline: stage attachments, summarize them, compose
// the prompt, call the model once, parse the response or fall back.
type Generator struct {
	model     models.Agent
	modelName string
	stager    *staging.Stager
}

// New validates Options and prepares the staging directory. All
// configuration problems surface here, once; Generate itself never fails.
func New(opts Options) (*Generator, error) {
	if opts.Model == nil {
		return nil, errors.New("generator requires a language model")
	}
	name := strings.TrimSpace(opts.ModelName)
	if name == "" {
		name = models.DefaultModel
	}
	stager, err := staging.NewStager(opts.StagingDir)
	if err != nil {
		return nil, err
	}
	return &Generator{model: opts.Model, modelName: name, stager: stager}, nil
}

// Stager exposes the staging area, mainly so callers can report its path.
func (g *Generator) Stager() *staging.Stager { return g.stager }

// Generate runs one request start to finish on the calling goroutine.
// Per-request failures of any kind degrade to fallback content; the
// returned Result is always usable.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	staged, problems := g.stager.Stage(req.Attachments)
	summary := preview.Summarize(staged)

	prompt := Compose(req, summary)
	text := g.callModel(ctx, prompt, req, summary)

	fallbackDocs := func() string {
		return FallbackReadme(req.Brief, req.Checks, summary, req.round().roundNumber())
	}
	code, readme := SplitArtifacts(text, fallbackDocs)

	// A degenerate response (say, a bare sentinel) can split into empty
	// parts; both artifacts must still come back usable.
	if code == "" {
		code = fallbackHTML(req.Brief)
	}
	if readme == "" {
		readme = fallbackDocs()
	}

	return Result{IndexHTML: code, Readme: readme, Staged: staged, Problems: problems}
}

// callModel performs the single blocking service call. A failure, or an
// effectively empty reply, yields synthetic two-part fallback text that
// rides the normal parsing path.
func (g *Generator) callModel(ctx context.Context, prompt string, req Request, summary string) string {
	completion, err := g.model.Generate(ctx, prompt)
	if err == nil {
		text := fmt.Sprint(completion)
		if strings.TrimSpace(text) != "" {
			log.Printf("[Generator] ✅ %s returned %d bytes", g.modelName, len(text))
			return text
		}
		err = errors.New("empty completion")
	}
	log.Printf("[Generator] ⚠ %s failed, using fallback HTML instead: %v", g.modelName, err)

	round := req.round().roundNumber()
	return fmt.Sprintf("\n%s\n\n%s\n%s\n",
		fallbackHTML(req.Brief), ReadmeSentinel,
		FallbackReadme(req.Brief, req.Checks, summary, round))
}
