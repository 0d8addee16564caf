package opttab

// ID identifies one option descriptor within a table. IDs are declared by
// the caller (typically as an iota block starting at FirstDeclaredID) and
// resolved to dense array indices at table construction, so alias and group
// references are index walks rather than pointer graphs.
type ID uint32

const (
	// InvalidID is the zero ID; it never refers to a descriptor.
	InvalidID ID = 0

	// InputID is the reserved ID of the positional-input sentinel.
	InputID ID = 1

	// UnknownID is the reserved ID of the unknown-option sentinel.
	UnknownID ID = 2

	// FirstDeclaredID is the lowest ID a declared descriptor may use.
	FirstDeclaredID ID = 3
)

// GroupID identifies an option group within a table. Group IDs are the
// 1-based position of the group in the slice handed to NewTable.
type GroupID uint32

// NoGroup marks an option that belongs to no group.
const NoGroup GroupID = 0

// OptionFlags carry per-descriptor behavior toggles.
type OptionFlags uint32

const (
	// HelpHidden excludes the option from help-oriented iteration. It has
	// no effect on matching.
	HelpHidden OptionFlags = 1 << iota

	// RenderAsInput renders only the option's values, dropping the
	// spelling, when re-serializing.
	RenderAsInput

	// RenderJoined forces spelling+value joined rendering regardless of the
	// kind's natural form. Affects re-serialization only, never matching.
	RenderJoined

	// RenderSeparate forces spelling-then-value rendering regardless of the
	// kind's natural form. Affects re-serialization only, never matching.
	RenderSeparate

	// AllowEmptyValue lets a Joined option match a token that is exactly
	// its spelling, producing an empty value. Without it the candidate is
	// skipped and matching falls through.
	AllowEmptyValue
)

// Has reports whether all bits in mask are set.
func (f OptionFlags) Has(mask OptionFlags) bool {
	return f&mask == mask
}

// Option is one descriptor in the catalogue: the spelling(s) of an accepted
// option, how it consumes tokens, and optionally how its matched values feed
// a configuration object. Descriptors are plain data; the table validates
// and freezes them at construction.
type Option struct {
	// ID is the caller-declared identity, unique per table and at least
	// FirstDeclaredID.
	ID ID

	// Name is the option name without any prefix ("verbose", "O").
	Name string

	// Prefixes are the accepted spelling prefixes ("-", "--"). The first
	// entry is the primary spelling used when rendering.
	Prefixes []string

	// Kind determines the argument-consumption arity rule.
	Kind Kind

	// Group is the owning group, or NoGroup.
	Group GroupID

	// Alias, when set, rewrites a match of this option into the target
	// option. AliasArgs are fixed tokens fed to the target ahead of
	// whatever the original token supplied; tokens the target does not
	// consume are matched again in place.
	Alias     ID
	AliasArgs []string

	// NumArgs is the fixed token count for KindMultiArg, zero otherwise.
	NumArgs int

	// Flags toggle rendering and matching edge behavior.
	Flags OptionFlags

	// Help is the one-line description surfaced to external help renderers.
	Help string

	// Marshal, when non-nil, connects matched values to a configuration
	// key path through the marshalling pipeline.
	Marshal *MarshalSpec
}

// spelling returns prefix+name for the option's i-th prefix.
func (o *Option) spelling(i int) string {
	return o.Prefixes[i] + o.Name
}

// PrimarySpelling returns the spelling used when rendering the option back
// to argument form.
func (o *Option) PrimarySpelling() string {
	if len(o.Prefixes) == 0 {
		return o.Name
	}
	return o.Prefixes[0] + o.Name
}

// Group is a named organizational node for help filtering. Groups form a
// forest via Parent; membership has no effect on matching.
type Group struct {
	Name   string
	Parent GroupID
	Flags  OptionFlags
	Help   string
}
