package assistant

// Result is the outcome of Generate or Annotate. Text is always displayable:
// the generated output on success, a fixed message otherwise. Err is nil on
// success and wraps a domain sentinel on failure.
type Result struct {
	Text string
	Err  error
}

// OK reports whether the action succeeded.
func (r Result) OK() bool { return r.Err == nil }

// String returns the displayable text.
func (r Result) String() string { return r.Text }

func success(text string) Result { return Result{Text: text} }

func failure(text string, err error) Result { return Result{Text: text, Err: err} }
