package models

import (
	"context"
	"fmt"
	"strings"
)

// DummyLLM is a lightweight model implementation useful for local runs
// without API calls. With a Marker set it answers with a small two-part
// document (application, marker line, documentation) so the response
// still flows through the normal parsing path; without one it simply
// echoes the last non-empty prompt line.
type DummyLLM struct {
	Prefix string
	Marker string
}

func NewDummyLLM(prefix, marker string) *DummyLLM {
	if strings.TrimSpace(prefix) == "" {
		prefix = "Dummy response:"
	}
	return &DummyLLM{Prefix: prefix, Marker: marker}
}

func (d *DummyLLM) Generate(_ context.Context, prompt string) (any, error) {
	last := lastNonEmptyLine(prompt)
	if d.Marker == "" {
		return fmt.Sprintf("%s %s", d.Prefix, last), nil
	}

	var sb strings.Builder
	sb.WriteString("<html>\n  <body>\n    <h1>Offline preview</h1>\n    <p>")
	sb.WriteString(last)
	sb.WriteString("</p>\n  </body>\n</html>\n")
	sb.WriteString(d.Marker)
	sb.WriteString("\n# Offline preview\n\nProduced without a remote model call.\n\n## Setup\nOpen `index.html` in a browser.\n")
	return sb.String(), nil
}

func lastNonEmptyLine(prompt string) string {
	lines := strings.Split(prompt, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if candidate := strings.TrimSpace(lines[i]); candidate != "" {
			return candidate
		}
	}
	return "<empty prompt>"
}

var _ Agent = (*DummyLLM)(nil)
