package generator

import (
	"fmt"
	"strings"
)

// FallbackReadme renders the documentation artifact used when the model
// response carries no sentinel or the call fails outright. Deterministic,
// pure function of its inputs. The checks are joined by the literal
// newline escape, matching the attachment summary convention.
func FallbackReadme(brief string, checks []string, attachmentSummary string, round int) string {
	return fmt.Sprintf(`# Auto-generated README (Round %d)

**Project brief:** %s

**Attachments:**
%s

**Checks to meet:**
%s

## Setup
1. Open `+"`index.html`"+` in a browser.
2. No build steps required.

## Notes
This README was generated as a fallback (Gemini did not return an explicit README).
`, round, brief, attachmentSummary, strings.Join(checks, `\n`))
}

// fallbackHTML is the minimal application returned when the model call
// fails. It embeds the brief so the output still reflects the request.
func fallbackHTML(brief string) string {
	return fmt.Sprintf(`<html>
  <head><title>Fallback App</title></head>
  <body>
    <h1>Hello (fallback)</h1>
    <p>This is fallback because Gemini failed. Brief: %s</p>
  </body>
</html>`, brief)
}
