package opttab

// ArgList is the ordered result of matching one argument vector: an
// append-only sequence of records in token order, plus the diagnostics the
// parse produced. A list belongs to a single parse; the shared table it
// references stays read-only.
type ArgList struct {
	table   *Table
	tokens  []string
	records []Arg
	values  []string // arena backing every record's value slice
	diags   DiagnosticList
}

func newArgList(t *Table, tokens []string) *ArgList {
	return &ArgList{
		table:  t,
		tokens: tokens,
	}
}

// append adds one record whose values are copied into the arena. Records
// are immutable from this point on.
func (l *ArgList) append(id ID, spelling string, index int, values ...string) *Arg {
	start := int32(len(l.values))
	l.values = append(l.values, values...)
	l.records = append(l.records, Arg{
		list:     l,
		id:       id,
		spelling: spelling,
		index:    index,
		valStart: start,
		valEnd:   int32(len(l.values)),
	})
	return &l.records[len(l.records)-1]
}

// Len returns the number of records.
func (l *ArgList) Len() int {
	return len(l.records)
}

// At returns the i-th record in token order.
func (l *ArgList) At(i int) *Arg {
	return &l.records[i]
}

// Records returns all records in token order. Read-only.
func (l *ArgList) Records() []Arg {
	return l.records
}

// Tokens returns the raw argument vector the list was parsed from.
func (l *ArgList) Tokens() []string {
	return l.tokens
}

// Has reports whether any record matched one of the given descriptors
// (after alias resolution).
func (l *ArgList) Has(ids ...ID) bool {
	for i := range l.records {
		for _, id := range ids {
			if l.records[i].id == id {
				return true
			}
		}
	}
	return false
}

// Last returns the latest record for any of the given descriptors, or nil.
// This is the retrieval primitive behind last-wins semantics.
func (l *ArgList) Last(ids ...ID) *Arg {
	for i := len(l.records) - 1; i >= 0; i-- {
		for _, id := range ids {
			if l.records[i].id == id {
				return &l.records[i]
			}
		}
	}
	return nil
}

// LastValue returns the first value of the latest record for id, or
// fallback when the option never occurred.
func (l *ArgList) LastValue(id ID, fallback string) string {
	if a := l.Last(id); a != nil {
		return a.Value()
	}
	return fallback
}

// All returns every record for the given descriptors in token order. This
// is the retrieval primitive behind accumulate semantics.
func (l *ArgList) All(ids ...ID) []*Arg {
	var out []*Arg
	for i := range l.records {
		for _, id := range ids {
			if l.records[i].id == id {
				out = append(out, &l.records[i])
				break
			}
		}
	}
	return out
}

// AllValues returns the concatenated values of every record for the given
// descriptors, in token order.
func (l *ArgList) AllValues(ids ...ID) []string {
	var out []string
	for _, a := range l.All(ids...) {
		out = append(out, a.Values()...)
	}
	return out
}

// FilteredByGroup returns every record whose descriptor belongs to gid or a
// group nested under it, in token order. Sentinel records never belong to a
// group.
func (l *ArgList) FilteredByGroup(gid GroupID) []*Arg {
	var out []*Arg
	for i := range l.records {
		a := &l.records[i]
		if a.IsSentinel() {
			continue
		}
		o := l.table.Option(a.id)
		if o != nil && l.table.groupWithin(o.Group, gid) {
			out = append(out, a)
		}
	}
	return out
}

// Inputs returns the positional-input sentinel records in token order.
func (l *ArgList) Inputs() []*Arg {
	return l.All(InputID)
}

// Unknowns returns the unknown-option sentinel records in token order.
func (l *ArgList) Unknowns() []*Arg {
	return l.All(UnknownID)
}

// Render reconstructs an argument vector from the records, honoring each
// descriptor's render flags. The result parses back to an equivalent list.
func (l *ArgList) Render() []string {
	out := make([]string, 0, len(l.tokens))
	for i := range l.records {
		out = l.records[i].render(out)
	}
	return out
}

// Diagnostics returns the diagnostics attached to this parse, in emission
// order.
func (l *ArgList) Diagnostics() []Diagnostic {
	return l.diags.All()
}

// HasErrors reports whether the parse produced any error-severity
// diagnostic.
func (l *ArgList) HasErrors() bool {
	return l.diags.HasErrors()
}
