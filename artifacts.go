package generator

import "strings"

// SplitArtifacts separates a raw model response into the application part
// and the documentation part, splitting at the first sentinel occurrence.
// Both sides pass through code-fence stripping. Without a sentinel the
// whole response becomes the application part and the documentation comes
// from the fallback producer, unmodified.
func SplitArtifacts(text string, fallback func() string) (code, readme string) {
	if strings.Contains(text, ReadmeSentinel) {
		parts := strings.SplitN(text, ReadmeSentinel, 2)
		return stripCodeBlock(parts[0]), stripCodeBlock(parts[1])
	}
	return stripCodeBlock(text), fallback()
}

// stripCodeBlock unwraps the first triple-backtick fence: the content
// between the first and second markers wins and anything after a second
// marker is dropped. Text without a fence is returned trimmed.
func stripCodeBlock(text string) string {
	parts := strings.Split(text, "```")
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(text)
}
