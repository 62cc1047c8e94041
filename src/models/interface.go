package models

import "context"

// Agent is the one capability the pipeline needs from a language model:
// a composed prompt in, free-form text out, or an error. Attachment
// content travels inside the prompt as previews, so there is no file
// upload surface.
type Agent interface {
	Generate(context.Context, string) (any, error)
}
