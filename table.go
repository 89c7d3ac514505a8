package multialloc

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
)

// Registration binds a name to a backend. The position of a
// Registration in the list passed to NewTable is its Tag.
type Registration struct {
	Name    string
	Backend Allocator
}

// Table maps tags to backends. It is immutable once built and safe for
// concurrent use.
type Table struct {
	names    []string
	backends []Allocator
	index    map[string]Tag
}

// NewTable builds a dispatch table from an ordered registration list.
// Every problem with the list is reported in the returned error.
func NewTable(regs ...Registration) (*Table, error) {
	var result *multierror.Error

	if len(regs) == 0 {
		result = multierror.Append(result, ErrNoBackends)
	}
	if len(regs) > MaxBackends {
		result = multierror.Append(result, fmt.Errorf("%w: %d registered, limit is %d", ErrTooManyBackends, len(regs), MaxBackends))
	}
	for i, r := range regs {
		if r.Name == "" {
			result = multierror.Append(result, fmt.Errorf("%w at position %d", ErrEmptyName, i))
		}
		if r.Backend == nil {
			result = multierror.Append(result, fmt.Errorf("%w: %q", ErrNilBackend, r.Name))
		}
	}
	names := lo.Map(regs, func(r Registration, _ int) string { return r.Name })
	for _, dup := range lo.FindDuplicates(lo.Compact(names)) {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrDuplicateName, dup))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	t := &Table{
		names:    names,
		backends: make([]Allocator, len(regs)),
		index:    make(map[string]Tag, len(regs)),
	}
	for i, r := range regs {
		t.backends[i] = r.Backend
		t.index[r.Name] = Tag(i)
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
func MustTable(regs ...Registration) *Table {
	t, err := NewTable(regs...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of registered backends.
func (t *Table) Len() int {
	return len(t.backends)
}

// End returns the sentinel tag equal to the number of backends. It is
// never a valid tag and exists only for range checks.
func (t *Table) End() Tag {
	return Tag(len(t.backends))
}

// Tag converts a raw header byte into a Tag. It panics if raw does not
// name a registered backend; dispatching on such a value has no meaning.
func (t *Table) Tag(raw uint8) Tag {
	if int(raw) >= len(t.backends) {
		panic(fmt.Sprintf("multialloc: invalid tag %d (table has %d backends)", raw, len(t.backends)))
	}
	return Tag(raw)
}

// Backend returns the backend registered under tag.
func (t *Table) Backend(tag Tag) Allocator {
	if int(tag) >= len(t.backends) {
		panic(fmt.Sprintf("multialloc: dispatch on out-of-range %v (table has %d backends)", tag, len(t.backends)))
	}
	return t.backends[tag]
}

// Lookup returns the tag registered under name.
func (t *Table) Lookup(name string) (Tag, bool) {
	tag, ok := t.index[name]
	return tag, ok
}

// MustTag returns the tag registered under name and panics if there is none.
func (t *Table) MustTag(name string) Tag {
	tag, ok := t.index[name]
	if !ok {
		panic(fmt.Sprintf("multialloc: no backend named %q", name))
	}
	return tag
}

// Name returns the name registered under tag.
func (t *Table) Name(tag Tag) string {
	if int(tag) >= len(t.names) {
		return tag.String()
	}
	return t.names[tag]
}

// Names returns the registered names in tag order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}
