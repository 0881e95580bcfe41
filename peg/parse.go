package peg

// Match is the result of a successful parse.
type Match struct {
	Value    Result      // value produced by the start rule
	Bindings Bindings    // bindings visible at the top level of the start rule
	End      int         // position after the consumed input
	Farthest Expectation // deepest failure encountered while parsing
	Stats    Stats       // cache statistics of the session
}

// Parse parses a prefix of input with rule start.
func Parse(g *Grammar, start string, input string, opts ...Option) (*Match, error) {
	s := NewState(g, input, opts...)
	out, err := s.ParseRule(0, start)
	return s.finish(out, err)
}

// ParseFullInput parses input with rule start, which has to consume all of
// the input.
func ParseFullInput(g *Grammar, start string, input string, opts ...Option) (*Match, error) {
	s := NewState(g, input, opts...)
	out, err := s.ParseFullInput(start)
	return s.finish(out, err)
}

// Diagnose creates a diagnostic for a failed outcome of this session.
func (s *State) Diagnose(out Outcome) Diagnostic {
	return diagnose(s.input, out)
}

func (s *State) finish(out Outcome, err error) (*Match, error) {
	if err != nil {
		return nil, err
	}
	if !out.ok {
		d := s.Diagnose(out)
		tracer().Infof("parse failed at %s: %s", d.Span, d.Message())
		return nil, &ParseError{Diagnostic: d}
	}
	if bad, found := out.product.firstError(); found {
		d := Diagnostic{Kind: NameUndefined, Span: bad.Span, Name: bad.Text}
		tracer().Infof("parse result contains unbound name %q at %s", bad.Text, bad.Span)
		return nil, &ParseError{Diagnostic: d}
	}
	return &Match{
		Value:    out.product.Value,
		Bindings: out.product.Bindings,
		End:      out.pos,
		Farthest: out.farthest,
		Stats:    s.Stats(),
	}, nil
}
