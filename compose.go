package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dhakseshr/tds-project1/src/staging"
)

// ReadmeSentinel separates the application part from the documentation
// part in a model response. The first occurrence is authoritative.
const ReadmeSentinel = "---README.md---"

// Round selects the generation pass. The variant is closed: FirstRound
// builds from scratch, RevisionRound revises prior documentation under a
// new brief.
type Round interface {
	roundNumber() int
}

// FirstRound is the initial build pass.
type FirstRound struct{}

func (FirstRound) roundNumber() int { return 1 }

// RevisionRound is the second pass. Prior carries the previous
// documentation artifact; when empty, the revision context is omitted
// from the prompt while the round number stays 2.
type RevisionRound struct {
	Prior string
}

func (RevisionRound) roundNumber() int { return 2 }

// Request is the immutable input to one generation run.
type Request struct {
	Brief       string
	Attachments []staging.Attachment
	Checks      []string
	Round       Round
}

func (r Request) round() Round {
	if r.Round == nil {
		return FirstRound{}
	}
	return r.Round
}

const outputFormatRules = `1. Produce a complete web app (HTML/JS/CSS inline if needed) satisfying the brief.
2. Output must contain **two parts only**:
   - index.html (main code)
   - README.md (starts after a line containing exactly: ---README.md---)
3. README.md must include:
   - Overview
   - Setup
   - Usage
   - If Round 2, describe improvements made from previous version.
4. Do not include any commentary outside code or README.
`

// Compose assembles the outbound prompt in fixed order: role framing,
// round number, brief, revision context for round 2, attachment summary,
// evaluation checks, output format rules. Pure string assembly, no I/O.
func Compose(req Request, attachmentSummary string) string {
	round := req.round()

	contextNote := ""
	if rev, ok := round.(RevisionRound); ok && rev.Prior != "" {
		contextNote = fmt.Sprintf("\n### Previous README.md:\n%s\n\nRevise and enhance this project according to the new brief below.\n", rev.Prior)
	}

	var sb strings.Builder
	sb.Grow(len(req.Brief) + len(contextNote) + len(attachmentSummary) + len(outputFormatRules) + 256)
	sb.WriteString("\nYou are a professional web developer assistant.\n\n")
	sb.WriteString("### Round\n")
	sb.WriteString(strconv.Itoa(round.roundNumber()))
	sb.WriteString("\n\n### Task\n")
	sb.WriteString(req.Brief)
	sb.WriteString("\n\n")
	sb.WriteString(contextNote)
	sb.WriteString("\n\n### Attachments (if any)\n")
	sb.WriteString(attachmentSummary)
	sb.WriteString("\n\n### Evaluation checks\n")
	sb.WriteString(fmt.Sprintf("%q", req.Checks))
	sb.WriteString("\n\n### Output format rules:\n")
	sb.WriteString(outputFormatRules)
	return sb.String()
}
