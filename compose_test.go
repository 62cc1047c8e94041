package generator

import (
	"strings"
	"testing"
)

func containsAll(haystack string, needles []string) bool {
	for _, n := range needles {
		if !strings.Contains(haystack, n) {
			return false
		}
	}
	return true
}

func TestComposeFirstRound(t *testing.T) {
	req := Request{Brief: "todo app", Checks: []string{"has add button"}}
	prompt := Compose(req, "")

	if !strings.HasPrefix(prompt, "\nYou are a professional web developer assistant.") {
		t.Fatalf("prompt missing role framing:\n%s", prompt)
	}
	wanted := []string{
		"### Round\n1",
		"### Task\ntodo app",
		"### Attachments (if any)",
		"### Evaluation checks\n[\"has add button\"]",
		"### Output format rules:",
		ReadmeSentinel,
	}
	if !containsAll(prompt, wanted) {
		t.Fatalf("prompt missing sections:\n%s", prompt)
	}
	if strings.Contains(prompt, "Previous README.md") {
		t.Fatalf("first round must not carry revision context:\n%s", prompt)
	}
}

func TestComposeRevisionRoundCarriesPrior(t *testing.T) {
	req := Request{Brief: "new brief", Round: RevisionRound{Prior: "# Old"}}
	prompt := Compose(req, "")

	wanted := []string{
		"### Round\n2",
		"### Previous README.md:\n# Old",
		"Revise and enhance this project according to the new brief below.",
		"### Task\nnew brief",
	}
	if !containsAll(prompt, wanted) {
		t.Fatalf("revision prompt missing sections:\n%s", prompt)
	}
}

func TestComposeRevisionRoundWithoutPrior(t *testing.T) {
	prompt := Compose(Request{Brief: "b", Round: RevisionRound{}}, "")

	if strings.Contains(prompt, "Previous README.md") {
		t.Fatalf("empty prior must omit the revision context:\n%s", prompt)
	}
	if !strings.Contains(prompt, "### Round\n2") {
		t.Fatalf("revision round must still read 2:\n%s", prompt)
	}
}

func TestComposeNilRoundDefaultsToFirst(t *testing.T) {
	prompt := Compose(Request{Brief: "b"}, "")
	if !strings.Contains(prompt, "### Round\n1") {
		t.Fatalf("nil round must compose as round 1:\n%s", prompt)
	}
}

func TestComposeRendersEmptyChecks(t *testing.T) {
	prompt := Compose(Request{Brief: "b"}, "")
	if !strings.Contains(prompt, "### Evaluation checks\n[]") {
		t.Fatalf("empty checks must render as []:\n%s", prompt)
	}
}

func TestComposeEmbedsAttachmentSummary(t *testing.T) {
	summary := `- data.csv (text/csv): preview: a,b\n1,2`
	prompt := Compose(Request{Brief: "b"}, summary)
	if !strings.Contains(prompt, "### Attachments (if any)\n"+summary) {
		t.Fatalf("prompt missing attachment summary:\n%s", prompt)
	}
}
