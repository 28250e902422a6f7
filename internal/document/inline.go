package document

// Resolver maps inline markdown to styled runs.
type Resolver struct {
	tokenizer *Tokenizer
}

// NewResolver creates a Resolver backed by the goldmark inline tokenizer.
func NewResolver() *Resolver {
	return &Resolver{tokenizer: NewTokenizer()}
}

// Resolve returns the styled runs for one block's raw text.
// Each token maps to exactly one style flag; unrecognized tokens become plain
// runs holding their source text. Adjacent runs with identical flags merge.
func (r *Resolver) Resolve(raw string) []Run {
	if raw == "" {
		return nil
	}
	tokens := r.tokenizer.Tokenize(raw)
	runs := make([]Run, 0, len(tokens))
	for _, tok := range tokens {
		runs = appendRun(runs, runFor(tok))
	}
	return runs
}

// runFor maps a token to its run.
func runFor(tok Token) Run {
	run := Run{Text: tok.Text}
	switch tok.Kind {
	case TokenStrong:
		run.Bold = true
	case TokenEmphasis:
		run.Italic = true
	case TokenStrike:
		run.Strikethrough = true
	case TokenCodeSpan:
		run.Code = true
	case TokenText, TokenRaw:
	}
	return run
}

// appendRun appends r, merging it into the previous run when styles match.
func appendRun(runs []Run, r Run) []Run {
	if r.Text == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].sameStyle(r) {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}
