package testsupport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-directory-cache/directory"
	"github.com/goliatone/go-directory-cache/dn"
	"github.com/goliatone/go-directory-cache/filter"
)

// make sure FakeDirectory implements the directory interfaces.
var (
	_ directory.Directory     = (*FakeDirectory)(nil)
	_ directory.Authenticator = (*FakeDirectory)(nil)
)

// ErrEntryExists is returned by Add for a name already present.
var ErrEntryExists = errors.New("entry already exists")

// ErrNoSuchEntry is returned by Modify and Delete for unknown names.
var ErrNoSuchEntry = errors.New("no such entry")

// SearchCall records one Search invocation.
type SearchCall struct {
	Base       string
	Filter     string
	Attributes []string
}

// FakeDirectory is an in-memory directory. Filters are parsed with
// filter.Parse and evaluated with Filter.Match, and searches return only the
// requested attributes, like a real server.
type FakeDirectory struct {
	mu        sync.Mutex
	entries   map[string]*directory.Entry
	order     []string
	passwords map[string]string

	// Offline makes IsConnected report false.
	Offline bool
	// Errors fails the named operation ("search", "add", "modify",
	// "delete", "authenticate") with the given error.
	Errors map[string]error

	Searches      []SearchCall
	Modifications map[string][][]directory.Modification
	ConnectChecks int
}

// NewFakeDirectory returns a directory holding copies of entries.
func NewFakeDirectory(entries ...*directory.Entry) *FakeDirectory {
	f := &FakeDirectory{
		entries:       map[string]*directory.Entry{},
		passwords:     map[string]string{},
		Errors:        map[string]error{},
		Modifications: map[string][][]directory.Modification{},
	}
	for _, e := range entries {
		f.Put(e)
	}
	return f
}

// Put stores a copy of entry, replacing any entry with the same name.
func (f *FakeDirectory) Put(entry *directory.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := dn.Normalize(entry.DN)
	if _, ok := f.entries[key]; !ok {
		f.order = append(f.order, key)
	}
	f.entries[key] = entry.Clone()
}

// Entry returns a copy of the stored entry.
func (f *FakeDirectory) Entry(name string) (*directory.Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[dn.Normalize(name)]
	return e.Clone(), ok
}

// SetPassword sets the password accepted by Authenticate for name.
func (f *FakeDirectory) SetPassword(name, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords[dn.Normalize(name)] = password
}

// SearchCount returns the number of Search calls so far.
func (f *FakeDirectory) SearchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Searches)
}

// LastSearch returns the most recent Search call.
func (f *FakeDirectory) LastSearch() SearchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Searches) == 0 {
		return SearchCall{}
	}
	return f.Searches[len(f.Searches)-1]
}

// IsConnected implements directory.Directory.
func (f *FakeDirectory) IsConnected(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ConnectChecks++
	return !f.Offline
}

// Search implements directory.Directory.
func (f *FakeDirectory) Search(_ context.Context, base, filterString string, attributes []string) ([]*directory.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Searches = append(f.Searches, SearchCall{
		Base:       base,
		Filter:     filterString,
		Attributes: append([]string(nil), attributes...),
	})
	if err := f.Errors["search"]; err != nil {
		return nil, err
	}

	match, err := filter.Parse(filterString)
	if err != nil {
		return nil, err
	}

	normalizedBase := dn.Normalize(base)
	var out []*directory.Entry
	for _, key := range f.order {
		e, ok := f.entries[key]
		if !ok {
			continue
		}
		if normalizedBase != "" && key != normalizedBase && !strings.HasSuffix(key, ","+normalizedBase) {
			continue
		}
		if !match.Match(e) {
			continue
		}
		out = append(out, project(e, attributes))
	}
	return out, nil
}

func project(e *directory.Entry, attributes []string) *directory.Entry {
	if len(attributes) == 0 {
		return e.Clone()
	}
	attrs := map[string][]string{}
	for _, want := range attributes {
		for name, values := range e.Attributes {
			if strings.EqualFold(name, want) {
				attrs[name] = append([]string(nil), values...)
			}
		}
	}
	return directory.NewEntry(e.DN, attrs)
}

// Add implements directory.Directory.
func (f *FakeDirectory) Add(_ context.Context, name string, attributes map[string][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.Errors["add"]; err != nil {
		return err
	}
	key := dn.Normalize(name)
	if _, ok := f.entries[key]; ok {
		return fmt.Errorf("%w: %s", ErrEntryExists, name)
	}

	f.order = append(f.order, key)
	f.entries[key] = directory.NewEntry(name, attributes).Clone()
	return nil
}

// Modify implements directory.Directory.
func (f *FakeDirectory) Modify(_ context.Context, name string, mods []directory.Modification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.Errors["modify"]; err != nil {
		return err
	}
	key := dn.Normalize(name)
	e, ok := f.entries[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchEntry, name)
	}

	f.Modifications[key] = append(f.Modifications[key], mods)
	for _, m := range mods {
		applyModification(e, m)
	}
	return nil
}

func applyModification(e *directory.Entry, m directory.Modification) {
	existing := ""
	for name := range e.Attributes {
		if strings.EqualFold(name, m.Attribute) {
			existing = name
		}
	}

	switch m.Op {
	case directory.OpReplace:
		if existing != "" {
			delete(e.Attributes, existing)
		}
		if len(m.Values) > 0 {
			e.Attributes[m.Attribute] = append([]string(nil), m.Values...)
		}
	case directory.OpAdd:
		if existing == "" {
			existing = m.Attribute
		}
		e.Attributes[existing] = append(e.Attributes[existing], m.Values...)
	case directory.OpDelete:
		if existing == "" {
			return
		}
		if len(m.Values) == 0 {
			delete(e.Attributes, existing)
			return
		}
		kept := e.Attributes[existing][:0]
		for _, v := range e.Attributes[existing] {
			if !containsFold(m.Values, v) {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			delete(e.Attributes, existing)
			return
		}
		e.Attributes[existing] = kept
	}
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

// Delete implements directory.Directory.
func (f *FakeDirectory) Delete(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.Errors["delete"]; err != nil {
		return err
	}
	key := dn.Normalize(name)
	if _, ok := f.entries[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchEntry, name)
	}
	delete(f.entries, key)
	for i, k := range f.order {
		if k == key {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// Authenticate implements directory.Authenticator against the passwords
// set with SetPassword.
func (f *FakeDirectory) Authenticate(_ context.Context, filterString, password string) (*directory.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.Errors["authenticate"]; err != nil {
		return nil, err
	}
	match, err := filter.Parse(filterString)
	if err != nil {
		return nil, err
	}

	var found *directory.Entry
	for _, key := range f.order {
		if e := f.entries[key]; match.Match(e) {
			if found != nil {
				return nil, directory.ErrInvalidCredentials
			}
			found = e
		}
	}
	if found == nil {
		return nil, directory.ErrInvalidCredentials
	}

	want, ok := f.passwords[dn.Normalize(found.DN)]
	if !ok || want != password {
		return nil, directory.ErrInvalidCredentials
	}
	return directory.NewEntry(found.DN, map[string][]string{"distinguishedName": {found.DN}}), nil
}
