package winjector

import (
	"sort"
	"strings"
	"unicode/utf16"
)

// Env models a child process's environment block. Keys are compared
// case-insensitively; the caller-supplied key is upper-cased on insertion
// (spec.md §6). Per original_source/src/process.rs, a later Set for a key
// that differs only in case overwrites the earlier one (last-write-wins);
// the stored key is always the upper-cased form.
type Env struct {
	values map[string]string // key: upper-cased, value: as given
}

// NewEnv creates an empty environment map.
func NewEnv() *Env {
	return &Env{values: make(map[string]string)}
}

// Set inserts or overwrites key (compared case-insensitively, stored
// upper-cased), with value kept exactly as given.
func (e *Env) Set(key, value string) *Env {
	e.values[strings.ToUpper(key)] = value
	return e
}

// Inherit copies entries from a KEY=VALUE environment slice (e.g. os.Environ())
// as a starting point; later Set calls still override by upper-cased key.
func (e *Env) Inherit(environ []string) *Env {
	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i > 0 {
			e.Set(kv[:i], kv[i+1:])
		}
	}
	return e
}

// Len reports the number of distinct (upper-cased) keys.
func (e *Env) Len() int { return len(e.values) }

// encode renders the double-null-terminated wide KEY=VALUE block (spec.md §6).
// Keys are emitted in sorted order for a deterministic, diffable wire image.
func (e *Env) encode() []uint16 {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) == 0 {
		// An empty block still needs two consecutive NULs: one for the
		// (absent) empty string, one for the block terminator.
		return []uint16{0, 0}
	}

	var out []uint16
	for _, k := range keys {
		line := k + "=" + e.values[k]
		out = append(out, utf16.Encode([]rune(line))...)
		out = append(out, 0)
	}
	out = append(out, 0)
	return out
}
