package terminal

import "github.com/okian/scoutdb/pkg/logger"

// DefaultPrompt is printed before each line read interactively.
const DefaultPrompt = ">> "

// Option configures a REPL.
type Option func(*REPL)

// WithJSON renders results as JSON documents instead of tables.
func WithJSON(enabled bool) Option {
	return func(r *REPL) {
		r.json = enabled
	}
}

// WithMaxResults caps how many rows a table shows; 0 shows every row.
func WithMaxResults(n int) Option {
	return func(r *REPL) {
		if n >= 0 {
			r.maxResults = n
		}
	}
}

// WithPrompt sets the prompt; an empty prompt disables it, which suits piped
// input.
func WithPrompt(prompt string) Option {
	return func(r *REPL) {
		r.prompt = prompt
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *REPL) {
		r.logger = l
	}
}
