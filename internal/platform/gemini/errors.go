package gemini

import "errors"

// ErrEmptyPrompt is returned when a rendered prompt is empty.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")
