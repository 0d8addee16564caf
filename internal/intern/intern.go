// Package intern provides string interning for go-opttab.
// Option spellings, prefixes and key paths repeat across every parse of the
// same table, so the table canonicalizes them once and the matcher compares
// interned instances instead of allocating new strings per token.
package intern

import (
	"sync"
)

// Interner provides thread-safe string interning.
type Interner struct {
	strings map[string]string
	mutex   sync.RWMutex
}

// New creates an interner with optional pre-allocated capacity.
func New(capacity int) *Interner {
	if capacity <= 0 {
		capacity = 64
	}
	return &Interner{
		strings: make(map[string]string, capacity),
	}
}

// Intern returns the canonical instance of s, storing it on first sight.
// Thread-safe; read-locked on the hot path.
func (in *Interner) Intern(s string) string {
	in.mutex.RLock()
	if canonical, ok := in.strings[s]; ok {
		in.mutex.RUnlock()
		return canonical
	}
	in.mutex.RUnlock()

	in.mutex.Lock()
	defer in.mutex.Unlock()

	// Double-check after acquiring the write lock.
	if canonical, ok := in.strings[s]; ok {
		return canonical
	}

	in.strings[s] = s
	return s
}

// PreIntern seeds the interner, typically with a table's full spelling set
// at construction time.
func (in *Interner) PreIntern(spellings []string) {
	in.mutex.Lock()
	defer in.mutex.Unlock()

	for _, s := range spellings {
		in.strings[s] = s
	}
}

// Stats returns the number of interned strings for monitoring.
func (in *Interner) Stats() int {
	in.mutex.RLock()
	defer in.mutex.RUnlock()
	return len(in.strings)
}

// Clear removes all interned strings (useful for testing).
func (in *Interner) Clear() {
	in.mutex.Lock()
	defer in.mutex.Unlock()

	for k := range in.strings {
		delete(in.strings, k)
	}
}

// CanonicalPrefixes are the option prefixes every table recognizes spellings
// under. Pre-interned so prefix-family checks never allocate.
var CanonicalPrefixes = []string{"-", "--", "/"}

// CommonSpellings are option spellings frequent enough across real tables to
// be worth seeding into the global interner.
var CommonSpellings = []string{
	"-h", "--help", "-v", "--version", "--verbose", "-o", "--output",
	"-i", "--input", "-c", "--config", "-O", "-I", "-D", "-L", "-W",
	"-g", "--debug", "-q", "--quiet", "-f", "--force",
}

// Global is the process-wide interner shared by all tables. Seeded once at
// init and only ever appended to afterwards.
var Global *Interner

//nolint:gochecknoinits // process-wide interner needs seeding before first use
func init() {
	Global = New(128)
	Global.PreIntern(CanonicalPrefixes)
	Global.PreIntern(CommonSpellings)
}

// Intern interns a string using the global interner.
func Intern(s string) string {
	return Global.Intern(s)
}
