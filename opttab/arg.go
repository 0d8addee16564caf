package opttab

// Arg is one argument record produced by matching: the descriptor that won,
// the exact spelling matched, the source token position, and the consumed
// values. Records are immutable once appended; values live in the owning
// list's arena and are exposed read-only.
type Arg struct {
	list     *ArgList
	id       ID
	spelling string
	index    int
	valStart int32
	valEnd   int32
}

// Option returns the ID of the matched descriptor. For sentinel records
// this is InputID or UnknownID.
func (a *Arg) Option() ID {
	return a.id
}

// Kind returns the matched descriptor's kind.
func (a *Arg) Kind() Kind {
	switch a.id {
	case InputID:
		return KindInput
	case UnknownID:
		return KindUnknown
	}
	if o := a.list.table.Option(a.id); o != nil {
		return o.Kind
	}
	return KindUnknown
}

// Spelling returns the exact spelling the matcher consumed. Input records
// have no spelling; Unknown records carry the full offending token.
func (a *Arg) Spelling() string {
	return a.spelling
}

// Index returns the source position of the record's first token in the
// original argument vector, for diagnostics.
func (a *Arg) Index() int {
	return a.index
}

// NumValues returns the number of consumed values.
func (a *Arg) NumValues() int {
	return int(a.valEnd - a.valStart)
}

// Values returns the consumed raw values in order. The slice aliases the
// list's arena; callers must not modify it.
func (a *Arg) Values() []string {
	return a.list.values[a.valStart:a.valEnd]
}

// Value returns the first consumed value, or "" when the record has none.
func (a *Arg) Value() string {
	if a.valStart == a.valEnd {
		return ""
	}
	return a.list.values[a.valStart]
}

// ContainsValue reports whether v is among the consumed values.
func (a *Arg) ContainsValue(v string) bool {
	for _, have := range a.Values() {
		if have == v {
			return true
		}
	}
	return false
}

// IsSentinel reports whether the record was produced by a fallback sentinel
// rather than a declared descriptor.
func (a *Arg) IsSentinel() bool {
	return a.id == InputID || a.id == UnknownID
}

// render appends the record's argument form to out, honoring the
// descriptor's render flags. Matching behavior is never affected by these
// flags; they exist purely for re-serialization.
func (a *Arg) render(out []string) []string {
	switch a.id {
	case InputID:
		return append(out, a.Values()...)
	case UnknownID:
		return append(out, a.spelling)
	}

	o := a.list.table.Option(a.id)
	if o == nil {
		return append(out, a.spelling)
	}
	return renderOption(out, o, a.spelling, a.Values())
}

// renderOption appends one option occurrence to out: the given spelling
// plus its value tokens, shaped by the render flags or the kind's natural
// form.
func renderOption(out []string, o *Option, spelling string, values []string) []string {
	switch {
	case o.Flags.Has(RenderAsInput):
		return append(out, values...)
	case o.Flags.Has(RenderJoined):
		joined := spelling
		if len(values) > 0 {
			joined += values[0]
		}
		out = append(out, joined)
		return append(out, values[1:]...)
	case o.Flags.Has(RenderSeparate):
		out = append(out, spelling)
		return append(out, values...)
	}

	// Kind-natural rendering.
	switch o.Kind.arity() {
	case arityNone:
		return append(out, spelling)
	case arityJoined:
		joined := spelling
		if len(values) > 0 {
			joined += values[0]
		}
		return append(out, joined)
	case arityCommaList:
		return append(out, spelling+joinComma(values))
	case arityJoinedOrNext, arityJoinedAndNext, arityJoinedAndRest:
		joined := spelling
		if len(values) > 0 {
			joined += values[0]
		}
		out = append(out, joined)
		return append(out, values[1:]...)
	case arityNext, arityFixed, arityRest:
		out = append(out, spelling)
		return append(out, values...)
	}
	return out
}

func joinComma(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	}
	n := len(values) - 1
	for _, v := range values {
		n += len(v)
	}
	b := make([]byte, 0, n)
	b = append(b, values[0]...)
	for _, v := range values[1:] {
		b = append(b, ',')
		b = append(b, v...)
	}
	return string(b)
}
