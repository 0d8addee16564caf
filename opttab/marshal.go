package opttab

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/agilira/go-errors"
)

// Values is the destination of the marshalling pipeline: an opaque object
// with named fields addressed by key path. The pipeline only ever touches
// it through this interface, never through its layout.
type Values interface {
	Value(key string) (any, bool)
	SetValue(key string, v any)
}

// ValueSet is the provided map-backed Values implementation.
type ValueSet struct {
	m map[string]any
}

// NewValueSet creates an empty value set.
func NewValueSet() *ValueSet {
	return &ValueSet{m: make(map[string]any, 8)}
}

// Value returns the stored value for key.
func (s *ValueSet) Value(key string) (any, bool) {
	v, ok := s.m[key]
	return v, ok
}

// SetValue stores v under key, replacing any prior value.
func (s *ValueSet) SetValue(key string, v any) {
	s.m[key] = v
}

// Keys returns the populated key paths in sorted order.
func (s *ValueSet) Keys() []string {
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of populated key paths.
func (s *ValueSet) Len() int {
	return len(s.m)
}

// Normalizer converts the raw consumed values of one record into the
// descriptor's value type.
type Normalizer func(values []string) (any, error)

// Merger combines a normalized value into the field's current value.
// current is nil on first contribution.
type Merger func(current, incoming any) any

// Extractor inspects a stored field and reports the value this descriptor
// would contribute, or ok=false when the descriptor has nothing to emit.
type Extractor func(stored any) (any, bool)

// Denormalizer turns an extracted value back into raw value tokens. A nil
// result means the option's spelling alone carries the information.
type Denormalizer func(v any) []string

// MarshalSpec connects one descriptor to a configuration key path. All
// four pipeline functions are optional: kind-appropriate combinators are
// substituted at run time, and a non-zero Mask selects the bitfield
// combinators.
type MarshalSpec struct {
	// Key is the destination key path.
	Key string

	// Default is the value the field takes when no contributing record
	// occurred and the destination holds no externally supplied value.
	Default any

	// ImpliedBy lists descriptors whose presence activates the default
	// instead: when any of them occurred, the field defaults to
	// ImpliedValue (true when nil) rather than Default. CombineImplied,
	// when set, replaces the boolean-OR combination entirely and receives
	// the subset of ImpliedBy options that occurred.
	ImpliedBy      []ID
	ImpliedValue   any
	CombineImplied func(present []ID) any

	// ShouldAlwaysEmit forces denormalization to emit the option even when
	// the stored value equals Default.
	ShouldAlwaysEmit bool

	// Mask is the bitfield contribution of this descriptor. Non-zero Mask
	// selects mask combinators for every unset pipeline function.
	Mask uint64

	Normalize   Normalizer
	Merge       Merger
	Extract     Extractor
	Denormalize Denormalizer
}

// validate runs build-time sanity checks at table construction.
func (spec *MarshalSpec) validate(o *Option) error {
	if spec.Key == "" {
		return errors.New(ErrCodeInvalidTable,
			fmt.Sprintf("option %q declares a marshal spec without a key path", o.Name))
	}
	if spec.CombineImplied != nil && len(spec.ImpliedBy) == 0 {
		return errors.New(ErrCodeInvalidTable,
			fmt.Sprintf("option %q declares an implied-default combinator without implying options", o.Name))
	}
	return nil
}

// normalize applies the configured or kind-default normalizer.
func (spec *MarshalSpec) normalize(o *Option, values []string) (any, error) {
	switch {
	case spec.Normalize != nil:
		return spec.Normalize(values)
	case spec.Mask != 0:
		return spec.Mask, nil
	}

	// Kind defaults: presence for value-less kinds, the raw string for
	// single values, a copy for multi-value kinds.
	if o.Kind.arity() == arityNone {
		return true, nil
	}
	if len(values) == 1 {
		return values[0], nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out, nil
}

// merge applies the configured merger, defaulting to last-wins overwrite or
// to bitwise OR for mask specs.
func (spec *MarshalSpec) merge(current, incoming any) any {
	switch {
	case spec.Merge != nil:
		return spec.Merge(current, incoming)
	case spec.Mask != 0:
		return MergeMask(current, incoming)
	}
	return MergeOverwrite(current, incoming)
}

// extract applies the configured extractor, defaulting to the mask check
// for mask specs and to non-zero extraction otherwise.
func (spec *MarshalSpec) extract(stored any) (any, bool) {
	switch {
	case spec.Extract != nil:
		return spec.Extract(stored)
	case spec.Mask != 0:
		return MaskExtractor(spec.Mask)(stored)
	}
	return ExtractValue(stored)
}

// denormalize applies the configured denormalizer or a type-directed
// default. Mask specs contribute no value tokens: their spelling is the
// information.
func (spec *MarshalSpec) denormalize(v any) []string {
	switch {
	case spec.Denormalize != nil:
		return spec.Denormalize(v)
	case spec.Mask != 0:
		return nil
	}
	switch tv := v.(type) {
	case bool:
		return nil
	case string:
		return []string{tv}
	case int:
		return []string{strconv.Itoa(tv)}
	case []string:
		out := make([]string, len(tv))
		copy(out, tv)
		return out
	}
	return []string{fmt.Sprint(v)}
}

// defaultValue computes the field's default for one parse, honoring the
// implied-by set.
func (spec *MarshalSpec) defaultValue(list *ArgList) any {
	if len(spec.ImpliedBy) == 0 {
		return spec.Default
	}

	var present []ID
	for _, id := range spec.ImpliedBy {
		if list.Has(id) {
			present = append(present, id)
		}
	}

	if spec.CombineImplied != nil {
		return spec.CombineImplied(present)
	}
	if len(present) > 0 {
		if spec.ImpliedValue != nil {
			return spec.ImpliedValue
		}
		return true
	}
	return spec.Default
}

// Marshal runs the forward pipeline: for every record whose descriptor
// carries a marshal spec, normalize the consumed values and merge them into
// dst, then apply defaults for untouched key paths. Normalizer failures are
// recorded as ValueParseError diagnostics tied to the originating record
// and do not stop the pass; the first of them is returned once the whole
// pass has run.
func (t *Table) Marshal(list *ArgList, dst Values) error {
	touched := make(map[string]bool, 8)
	var firstErr *ParseError

	for i := range list.records {
		a := &list.records[i]
		if a.IsSentinel() {
			continue
		}
		o := t.Option(a.id)
		if o == nil || o.Marshal == nil {
			continue
		}
		spec := o.Marshal

		v, err := spec.normalize(o, a.Values())
		if err != nil {
			pe := &ParseError{
				Type:       ErrorTypeValueParse,
				Message:    fmt.Sprintf("invalid value for %q at index %d: %v", a.spelling, a.index, err),
				TokenIndex: a.index,
				Option:     a.id,
			}
			list.diags.Report(Diagnostic{
				Severity:   SeverityError,
				Type:       pe.Type,
				TokenIndex: pe.TokenIndex,
				Option:     pe.Option,
				Message:    pe.Message,
			})
			if firstErr == nil {
				firstErr = pe
			}
			continue
		}

		current, _ := dst.Value(spec.Key)
		dst.SetValue(spec.Key, spec.merge(current, v))
		touched[spec.Key] = true
	}

	// Defaults, in declaration order for determinism. A key path some
	// record already contributed to, or that the caller pre-populated,
	// keeps its value.
	for i := range t.options {
		o := &t.options[i]
		if o.Marshal == nil || touched[o.Marshal.Key] {
			continue
		}
		if _, exists := dst.Value(o.Marshal.Key); exists {
			continue
		}
		if def := o.Marshal.defaultValue(list); def != nil {
			dst.SetValue(o.Marshal.Key, def)
			touched[o.Marshal.Key] = true
		}
	}

	if firstErr != nil {
		return firstErr.coded()
	}
	return nil
}

// Marshal runs the table's forward pipeline into dst.
func (l *ArgList) Marshal(dst Values) error {
	return l.table.Marshal(l, dst)
}

// Render runs the inverse pipeline: reconstruct the argument spellings that
// would produce src. Descriptors are visited in declaration order; aliases
// never render (their targets do).
func (t *Table) Render(src Values) []string {
	var out []string
	for i := range t.options {
		o := &t.options[i]
		spec := o.Marshal
		if spec == nil || o.Alias != InvalidID {
			continue
		}

		stored, ok := src.Value(spec.Key)
		if !ok {
			continue
		}
		v, ok := spec.extract(stored)
		if !ok {
			continue
		}
		if !spec.ShouldAlwaysEmit && reflect.DeepEqual(v, spec.Default) {
			continue
		}

		out = renderOption(out, o, o.PrimarySpelling(), spec.denormalize(v))
	}
	return out
}

// Built-in combinator library. Per-descriptor pipeline functions are typed
// closures selected from these (or supplied by the caller); nothing is ever
// interpreted from text.

// NormalizeString takes the record's single raw value as-is.
func NormalizeString(values []string) (any, error) {
	if len(values) == 0 {
		return "", nil
	}
	return values[0], nil
}

// NormalizeBool records presence.
func NormalizeBool([]string) (any, error) {
	return true, nil
}

// NormalizeInt parses the record's value as a decimal integer.
func NormalizeInt(values []string) (any, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("missing integer value")
	}
	n, err := strconv.Atoi(values[0])
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", values[0])
	}
	return n, nil
}

// NormalizeStringList copies all raw values.
func NormalizeStringList(values []string) (any, error) {
	out := make([]string, len(values))
	copy(out, values)
	return out, nil
}

// NormalizeEnum maps the raw value through a closed spelling table.
func NormalizeEnum(mapping map[string]any) Normalizer {
	return func(values []string) (any, error) {
		if len(values) == 0 {
			return nil, fmt.Errorf("missing enum value")
		}
		v, ok := mapping[values[0]]
		if !ok {
			return nil, fmt.Errorf("invalid value %q", values[0])
		}
		return v, nil
	}
}

// MaskNormalizer contributes a fixed bit mask regardless of raw values.
func MaskNormalizer(mask uint64) Normalizer {
	return func([]string) (any, error) {
		return mask, nil
	}
}

// MergeOverwrite is last-occurrence-wins.
func MergeOverwrite(_, incoming any) any {
	return incoming
}

// MergeMask ORs a mask contribution into an unsigned field. Order of
// contributions does not matter.
func MergeMask(current, incoming any) any {
	var cur uint64
	if current != nil {
		cur = current.(uint64)
	}
	return cur | incoming.(uint64)
}

// MergeAppend accumulates values into a string slice. Both single strings
// and slices are accepted as contributions.
func MergeAppend(current, incoming any) any {
	var out []string
	if current != nil {
		out = current.([]string)
	}
	switch iv := incoming.(type) {
	case string:
		return append(out, iv)
	case []string:
		return append(out, iv...)
	}
	return append(out, fmt.Sprint(incoming))
}

// ExtractValue is the default extractor: the stored value itself, with
// zero values (false, "", 0, nil, empty slice) reported as nothing to
// emit.
func ExtractValue(stored any) (any, bool) {
	switch sv := stored.(type) {
	case nil:
		return nil, false
	case bool:
		return sv, sv
	case string:
		return sv, sv != ""
	case int:
		return sv, sv != 0
	case uint64:
		return sv, sv != 0
	case []string:
		return sv, len(sv) > 0
	}
	return stored, true
}

// MaskExtractor reports the descriptor's mask when all of its bits are set
// in the stored field.
func MaskExtractor(mask uint64) Extractor {
	return func(stored any) (any, bool) {
		var cur uint64
		switch sv := stored.(type) {
		case uint64:
			cur = sv
		case nil:
			return nil, false
		default:
			return nil, false
		}
		if cur&mask == mask {
			return mask, true
		}
		return nil, false
	}
}

// DenormalizeString emits the stored string as the single value token.
func DenormalizeString(v any) []string {
	return []string{v.(string)}
}

// DenormalizeInt emits the stored integer in decimal.
func DenormalizeInt(v any) []string {
	return []string{strconv.Itoa(v.(int))}
}

// DenormalizeBool emits no value tokens; the option's spelling alone
// carries the information.
func DenormalizeBool(any) []string {
	return nil
}

// DenormalizeStringList emits one value token per stored element.
func DenormalizeStringList(v any) []string {
	sv := v.([]string)
	out := make([]string, len(sv))
	copy(out, sv)
	return out
}

// DenormalizeEnum inverts a NormalizeEnum mapping back into spelling text.
func DenormalizeEnum(mapping map[string]any) Denormalizer {
	return func(v any) []string {
		for spelling, mapped := range mapping {
			if reflect.DeepEqual(mapped, v) {
				return []string{spelling}
			}
		}
		return []string{fmt.Sprint(v)}
	}
}
