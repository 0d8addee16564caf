package opttab

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agilira/go-errors"

	"github.com/dzonerzy/go-opttab/internal/intern"
)

// Table is the immutable option descriptor catalogue. It is built once by
// NewTable, validated in full (a failed build yields no table), and is then
// safe to share across any number of concurrent parses.
type Table struct {
	options []Option
	groups  []Group

	index map[ID]int // descriptor ID -> options slice position

	// candidates holds one matcher entry per (option, prefix) pair, sorted
	// by (kind precedence asc, spelling length desc, ID asc). The order is
	// total and fixed here, which is what makes an ambiguous match at parse
	// time structurally impossible.
	candidates []candidate

	// exactFlags maps interned full spellings of Flag-kind options for the
	// O(1) fast path; Flag precedence is minimal and an exact match has
	// maximal length, so the fast path can never shadow a better candidate.
	exactFlags map[string]ID

	prefixes  map[string]struct{} // canonical prefix set for this table
	spellings []string            // all declared spellings, for suggestions
}

// candidate is one declared spelling in matcher order.
type candidate struct {
	id       ID
	spelling string
	kind     Kind
	numArgs  int
	flags    OptionFlags
}

// NewTable validates the descriptor and group declarations and freezes them
// into a table. All structural defects (duplicate or reserved IDs, dangling
// or cyclic alias chains, cyclic group parents, bad MultiArg arity,
// duplicate spellings of the same kind) are build-time errors; nothing is
// ever validated again per parse.
func NewTable(groups []Group, options []Option) (*Table, error) {
	t := &Table{
		options:    options,
		groups:     groups,
		index:      make(map[ID]int, len(options)),
		exactFlags: make(map[string]ID),
		prefixes:   make(map[string]struct{}, 4),
	}

	if err := t.buildIndex(); err != nil {
		return nil, err
	}
	if err := t.validateGroups(); err != nil {
		return nil, err
	}
	if err := t.validateOptions(); err != nil {
		return nil, err
	}
	if err := t.validateAliases(); err != nil {
		return nil, err
	}
	if err := t.buildCandidates(); err != nil {
		return nil, err
	}

	return t, nil
}

// MustTable is NewTable panicking on error, for static catalogue literals.
func MustTable(groups []Group, options []Option) *Table {
	t, err := NewTable(groups, options)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) buildIndex() error {
	for i := range t.options {
		o := &t.options[i]
		if o.ID < FirstDeclaredID {
			return errors.New(ErrCodeInvalidTable,
				fmt.Sprintf("option %q uses reserved ID %d", o.Name, o.ID))
		}
		if _, dup := t.index[o.ID]; dup {
			return errors.New(ErrCodeInvalidTable,
				fmt.Sprintf("duplicate option ID %d (%q)", o.ID, o.Name))
		}
		t.index[o.ID] = i
	}
	return nil
}

func (t *Table) validateGroups() error {
	for i := range t.groups {
		g := &t.groups[i]
		if g.Parent > GroupID(len(t.groups)) {
			return errors.New(ErrCodeInvalidTable,
				fmt.Sprintf("group %q references undefined parent %d", g.Name, g.Parent))
		}
	}

	// Parent chains must terminate: walk each group with a visited set
	// sized to the arena.
	visited := make([]bool, len(t.groups)+1)
	for i := range t.groups {
		for j := range visited {
			visited[j] = false
		}
		gid := GroupID(i + 1)
		for gid != NoGroup {
			if visited[gid] {
				return errors.New(ErrCodeInvalidTable,
					fmt.Sprintf("group %q is part of a parent cycle", t.groups[i].Name))
			}
			visited[gid] = true
			gid = t.groups[gid-1].Parent
		}
	}
	return nil
}

func (t *Table) validateOptions() error {
	for i := range t.options {
		o := &t.options[i]

		if !o.Kind.valid() || o.Kind.Sentinel() {
			return errors.New(ErrCodeInvalidTable,
				fmt.Sprintf("option %q declares non-declarable kind %s", o.Name, o.Kind))
		}
		if o.Name == "" {
			return errors.New(ErrCodeInvalidTable,
				fmt.Sprintf("option %d has an empty name", o.ID))
		}
		if len(o.Prefixes) == 0 {
			return errors.New(ErrCodeInvalidTable,
				fmt.Sprintf("option %q declares no spelling prefixes", o.Name))
		}
		for _, p := range o.Prefixes {
			if p == "" {
				return errors.New(ErrCodeInvalidTable,
					fmt.Sprintf("option %q declares an empty prefix", o.Name))
			}
		}

		if o.Kind == KindMultiArg && o.NumArgs <= 0 {
			return errors.New(ErrCodeInvalidTable,
				fmt.Sprintf("multiarg option %q declares argument count %d", o.Name, o.NumArgs))
		}
		if o.Kind != KindMultiArg && o.NumArgs != 0 {
			return errors.New(ErrCodeInvalidTable,
				fmt.Sprintf("option %q declares an argument count but is not multiarg", o.Name))
		}

		if o.Group != NoGroup && o.Group > GroupID(len(t.groups)) {
			return errors.New(ErrCodeInvalidTable,
				fmt.Sprintf("option %q references undefined group %d", o.Name, o.Group))
		}

		if len(o.AliasArgs) > 0 && o.Alias == InvalidID {
			return errors.New(ErrCodeInvalidTable,
				fmt.Sprintf("option %q declares alias arguments without an alias target", o.Name))
		}

		if o.Marshal != nil {
			if err := o.Marshal.validate(o); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateAliases checks that every alias target exists and every alias
// chain terminates. Cycle detection is a visited-index walk over the
// descriptor arena, run once here so resolution at parse time is a plain
// bounded loop.
func (t *Table) validateAliases() error {
	for i := range t.options {
		o := &t.options[i]
		if o.Alias == InvalidID {
			continue
		}

		visited := make(map[ID]bool, 4)
		visited[o.ID] = true
		cur := o.Alias
		for cur != InvalidID {
			pos, ok := t.index[cur]
			if !ok {
				return errors.New(ErrCodeInvalidTable,
					fmt.Sprintf("option %q aliases undefined option %d", o.Name, cur))
			}
			if visited[cur] {
				return errors.New(ErrCodeAliasCycle,
					fmt.Sprintf("alias cycle through option %q", o.Name))
			}
			visited[cur] = true
			cur = t.options[pos].Alias
		}
	}
	return nil
}

// buildCandidates fixes the total matching order and the exact-spelling
// fast path. Spellings are interned so per-token comparisons reuse
// canonical instances.
func (t *Table) buildCandidates() error {
	type spellingKind struct {
		spelling string
		kind     Kind
	}
	seen := make(map[spellingKind]bool) // ambiguity detection

	for i := range t.options {
		o := &t.options[i]
		for pi := range o.Prefixes {
			spelling := intern.Intern(o.spelling(pi))

			key := spellingKind{spelling, o.Kind}
			if seen[key] {
				return errors.New(ErrCodeAmbiguousMatch,
					fmt.Sprintf("spelling %q declared twice with kind %s", spelling, o.Kind))
			}
			seen[key] = true

			t.candidates = append(t.candidates, candidate{
				id:       o.ID,
				spelling: spelling,
				kind:     o.Kind,
				numArgs:  o.NumArgs,
				flags:    o.Flags,
			})
			t.spellings = append(t.spellings, spelling)
			t.prefixes[intern.Intern(o.Prefixes[pi])] = struct{}{}

			if o.Kind == KindFlag {
				t.exactFlags[spelling] = o.ID
			}
		}
	}

	sort.SliceStable(t.candidates, func(i, j int) bool {
		a, b := &t.candidates[i], &t.candidates[j]
		if a.kind.Precedence() != b.kind.Precedence() {
			return a.kind.Precedence() < b.kind.Precedence()
		}
		if len(a.spelling) != len(b.spelling) {
			return len(a.spelling) > len(b.spelling)
		}
		return a.id < b.id
	})

	return nil
}

// Option returns the descriptor for id, or nil for sentinels and unknown
// IDs.
func (t *Table) Option(id ID) *Option {
	pos, ok := t.index[id]
	if !ok {
		return nil
	}
	return &t.options[pos]
}

// Group returns the group for gid, or nil for NoGroup and out-of-range IDs.
func (t *Table) Group(gid GroupID) *Group {
	if gid == NoGroup || gid > GroupID(len(t.groups)) {
		return nil
	}
	return &t.groups[gid-1]
}

// NumOptions returns the number of declared descriptors.
func (t *Table) NumOptions() int {
	return len(t.options)
}

// Options returns the declared descriptors in declaration order. The slice
// is the table's own storage; callers must treat it as read-only.
func (t *Table) Options() []Option {
	return t.options
}

// Spellings returns every declared spelling (prefix+name), used for
// unknown-option suggestions. Read-only.
func (t *Table) Spellings() []string {
	return t.spellings
}

// OptionsInGroup returns the IDs of descriptors belonging to gid or any
// group nested under it, in declaration order.
func (t *Table) OptionsInGroup(gid GroupID) []ID {
	var ids []ID
	for i := range t.options {
		if t.groupWithin(t.options[i].Group, gid) {
			ids = append(ids, t.options[i].ID)
		}
	}
	return ids
}

// groupWithin reports whether group g is gid or nested under gid.
func (t *Table) groupWithin(g, gid GroupID) bool {
	for g != NoGroup {
		if g == gid {
			return true
		}
		g = t.groups[g-1].Parent
	}
	return false
}

// Unalias returns the final alias target for id, or id itself when the
// descriptor is not an alias. Resolution is idempotent: applying it to an
// already-resolved ID returns that ID unchanged.
func (t *Table) Unalias(id ID) ID {
	for {
		o := t.Option(id)
		if o == nil || o.Alias == InvalidID {
			return id
		}
		id = o.Alias
	}
}

// hasDeclaredPrefix reports whether the token starts with one of the
// table's canonical prefixes and carries a name beyond it. A token that is
// exactly a bare prefix ("-", "--") is positional input.
func (t *Table) hasDeclaredPrefix(token string) bool {
	for p := range t.prefixes {
		if token == p {
			// A bare "-" or "--" carries no name: positional input.
			return false
		}
	}
	for p := range t.prefixes {
		if len(token) > len(p) && strings.HasPrefix(token, p) {
			return true
		}
	}
	return false
}

// Parse matches tokens against the table with default parser settings. Use
// NewParser for diagnostics sinks, suggestions, or continue-on-error mode.
func (t *Table) Parse(tokens []string) (*ArgList, error) {
	return NewParser(t).Parse(tokens)
}
