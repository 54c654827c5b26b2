package assistant

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// DefaultConcurrency is the number of per-line requests in flight at once.
const DefaultConcurrency = 4

// AnnotatorOption configures an Annotator.
type AnnotatorOption func(*Annotator)

// WithConcurrency bounds in-flight requests. Values below 1 mean 1, which
// issues the requests strictly one after another.
func WithConcurrency(n int) AnnotatorOption {
	return func(a *Annotator) {
		if n < 1 {
			n = 1
		}
		a.concurrency = n
	}
}

// Annotator appends a short explanatory comment to every line of a code
// block, using the comment token of the target language.
type Annotator struct {
	backend     *Backend
	concurrency int
	log         *logger.Logger
}

// NewAnnotator creates an Annotator on the given backend.
func NewAnnotator(backend *Backend, log *logger.Logger, opts ...AnnotatorOption) *Annotator {
	a := &Annotator{
		backend:     backend,
		concurrency: DefaultConcurrency,
		log:         log,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Annotate requests one comment per input line and returns the lines,
// in input order, joined with "\n". A line whose request failed or came
// back empty is kept byte-identical, so the output always has exactly as
// many lines as the input.
func (a *Annotator) Annotate(ctx context.Context, code, language string) Result {
	if !a.backend.Configured() {
		return failure(a.backend.notConfiguredText(), domain.ErrNotConfigured)
	}

	lines := SplitLines(code)
	records := make([]domain.LineRecord, len(lines))
	for i, l := range lines {
		records[i] = domain.LineRecord{Text: l, Index: i}
	}

	a.fill(ctx, records, language)

	delim := domain.CommentDelimiter(language)
	out := make([]string, len(records))
	for _, r := range records {
		out[r.Index] = render(r, delim)
	}
	return success(strings.Join(out, "\n"))
}

// fill fetches comments for all records on a bounded pool. Each worker
// writes only its own slot. Failures are logged and leave Comment empty.
func (a *Annotator) fill(ctx context.Context, records []domain.LineRecord, language string) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	s := a.backend.comment
	for i := range records {
		rec := &records[i]
		g.Go(func() error {
			reply, err := a.backend.gen.GenerateContent(gctx, promptComment(rec.Text, language), s.MaxTokens, s.Temperature)
			if err != nil {
				a.log.Warn("assistant: comment for line %d failed: %v", rec.Index+1, err)
				return nil
			}
			rec.Comment = sanitizeFragment(reply)
			return nil
		})
	}
	_ = g.Wait()

	a.log.Debug("assistant: annotated %d lines (concurrency %d)", len(records), a.concurrency)
}

func render(r domain.LineRecord, delim string) string {
	if r.Comment == "" {
		return r.Text
	}
	return r.Text + " " + delim + " " + r.Comment
}
