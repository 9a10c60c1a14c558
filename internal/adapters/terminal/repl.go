// Package terminal is the interactive front end: it reads query lines,
// runs them and renders the results.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	service "github.com/okian/scoutdb/internal/app"
	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/internal/domain/query"
	"github.com/okian/scoutdb/internal/domain/types"
	"github.com/okian/scoutdb/pkg/logger"
	"github.com/okian/scoutdb/pkg/metrics"
)

const maxLineSize = 1 << 20

const helpText = `Queries:
  player <name or prefix>     players whose name starts with the text
  user <id>                   ratings given by a user
  top<N> '<POS>'              best N players at a position
  tags '<tag>' '<tag>' ...    players carrying every tag

Commands:
  \stats     dataset statistics
  \metrics   metrics in Prometheus text format
  \help      this text
  \quit      leave (also: quit, exit, q)`

// Backend answers queries for the REPL.
type Backend interface {
	Query(ctx context.Context, text string) (types.Result, error)
	Player(id uint32) (model.Player, error)
	GetStats() service.Stats
}

// REPL reads one query per line and writes rendered results.
type REPL struct {
	backend    Backend
	out        io.Writer
	json       bool
	maxResults int
	prompt     string
	logger     logger.Logger
}

// New constructs a REPL writing to out.
func New(backend Backend, out io.Writer, opts ...Option) *REPL {
	r := &REPL{
		backend: backend,
		out:     out,
		prompt:  DefaultPrompt,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("terminal")
	}
	if r.json {
		r.prompt = ""
	}
	return r
}

// Run reads lines from in until EOF, a quit command or ctx is done.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	r.logger.Debug(ctx, "repl started")
	defer r.logger.Debug(ctx, "repl stopped")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if r.prompt != "" {
			if _, err := fmt.Fprint(r.out, promptStyle.Render(r.prompt)); err != nil {
				return err
			}
		}
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}
		quit, err := r.handle(ctx, sc.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// handle runs one input line. Query failures are rendered, not returned;
// the returned error is an output failure.
func (r *REPL) handle(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return false, nil
	case `\q`, `\quit`, "quit", "exit", "q":
		return true, nil
	case `\help`, "help":
		return false, r.println(helpText)
	case `\stats`:
		if r.json {
			return false, writeJSON(r.out, r.backend.GetStats())
		}
		return false, r.println(RenderStats(r.backend.GetStats()))
	case `\metrics`:
		return false, metrics.WriteText(r.out)
	}
	if strings.HasPrefix(line, `\`) {
		return false, r.println(RenderError("unknown command", errors.New(line)))
	}

	err := r.Execute(ctx, line)
	var output *outputError
	if errors.As(err, &output) {
		return false, output.err
	}
	return false, nil
}

// outputError marks a failure to write, as opposed to a failed query.
type outputError struct{ err error }

func (e *outputError) Error() string { return e.err.Error() }
func (e *outputError) Unwrap() error { return e.err }

// Execute runs one query and renders the outcome. It returns the query error
// after rendering it.
func (r *REPL) Execute(ctx context.Context, text string) error {
	start := time.Now()
	res, err := r.backend.Query(ctx, text)
	elapsed := time.Since(start)

	if werr := r.render(text, res, err, elapsed); werr != nil {
		return &outputError{err: werr}
	}
	return err
}

func (r *REPL) render(text string, res types.Result, qerr error, elapsed time.Duration) error { //nolint:gocritic // hugeParam: read-only
	if r.json {
		doc := response{Query: text, ElapsedMs: float64(elapsed.Microseconds()) / 1000}
		if qerr != nil {
			doc.Error = qerr.Error()
		} else {
			doc.Result = &res
		}
		return writeJSON(r.out, doc)
	}

	if qerr != nil {
		prefix := "query failed"
		if errors.Is(qerr, query.ErrInvalidQuery) {
			prefix = "invalid query"
		}
		if err := r.println(RenderError(prefix, qerr)); err != nil {
			return err
		}
		return r.println(RenderElapsed(elapsed))
	}
	if err := r.println(RenderResult(res, r.maxResults, r.backend.Player)); err != nil {
		return err
	}
	return r.println(RenderElapsed(elapsed))
}

func (r *REPL) println(s string) error {
	_, err := fmt.Fprintln(r.out, s)
	return err
}
