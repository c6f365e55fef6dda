package directorycache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-directory-cache/codec"
	"github.com/goliatone/go-directory-cache/directory"
	"github.com/goliatone/go-directory-cache/dn"
	"github.com/goliatone/go-directory-cache/filter"
)

// make sure Record implements the codec.Identified interface.
var _ codec.Identified = (*Record)(nil)

type pendingValue struct {
	name  string
	value any
}

// Record is one directory entry of a given Type. A persisted record wraps
// the raw entry returned by the directory plus any pending local changes;
// a new record holds pending values only. Pending values are kept in wire
// form and decoded on read.
type Record struct {
	repo    *Repository
	entry   *directory.Entry
	pending map[string]pendingValue
}

func newRecord(repo *Repository, entry *directory.Entry) *Record {
	return &Record{
		repo:    repo,
		entry:   entry,
		pending: map[string]pendingValue{},
	}
}

// Type returns the record type.
func (r *Record) Type() Type { return r.repo.typ }

// Entry returns the raw entry backing the record, nil for new records.
func (r *Record) Entry() *directory.Entry { return r.entry }

// DN returns the distinguished name.
func (r *Record) DN() string {
	if r.entry != nil && r.entry.DN != "" {
		return r.entry.DN
	}
	if v, ok := r.pending[strings.ToLower(distinguishedName)]; ok {
		return filter.ValueString(v.value)
	}
	return r.Value(distinguishedName)
}

// CN returns the common name.
func (r *Record) CN() string {
	if cn := r.Value("cn"); cn != "" {
		return cn
	}
	return dn.ParseCN(r.DN())
}

func (r *Record) String() string { return r.CN() }

// Has reports whether the record carries the attribute, pending or stored.
func (r *Record) Has(name string) bool {
	if _, ok := r.pending[strings.ToLower(name)]; ok {
		return true
	}
	return r.entry.Has(name)
}

// Values returns the raw wire values of an attribute. Pending values take
// precedence over stored ones.
func (r *Record) Values(name string) []string {
	if v, ok := r.pending[strings.ToLower(name)]; ok {
		return wireValues(v.value)
	}
	values, _ := r.entry.Values(name)
	return values
}

// Value returns the first raw wire value of an attribute, or "".
func (r *Record) Value(name string) string {
	values := r.Values(name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Get returns the decoded value of an attribute. Single values are returned
// as a scalar and missing values as "". Attributes the record does not carry
// return ErrUnknownAttribute.
func (r *Record) Get(ctx context.Context, name string) (any, error) {
	registry := r.repo.manager.registry
	typeName := r.repo.typ.Name

	if v, ok := r.pending[strings.ToLower(name)]; ok {
		return registry.Decode(ctx, typeName, name, v.value)
	}

	values, ok := r.entry.Values(name)
	if !ok {
		return nil, withDetail(ErrUnknownAttribute, "%s has no attribute %s", typeName, name)
	}
	return registry.Decode(ctx, typeName, name, collapse(values))
}

// Set encodes value and records it as a pending change.
func (r *Record) Set(ctx context.Context, name string, value any) error {
	encoded, err := r.repo.manager.registry.Encode(ctx, r.repo.typ.Name, name, value)
	if err != nil {
		return err
	}
	r.pending[strings.ToLower(name)] = pendingValue{name: name, value: encoded}
	return nil
}

// GetString returns the decoded value rendered as a string. Lists return
// their first element.
func (r *Record) GetString(ctx context.Context, name string) (string, error) {
	v, err := r.Get(ctx, name)
	if err != nil {
		return "", err
	}
	switch val := v.(type) {
	case []string:
		if len(val) == 0 {
			return "", nil
		}
		return val[0], nil
	case []any:
		if len(val) == 0 {
			return "", nil
		}
		return filter.ValueString(val[0]), nil
	default:
		return filter.ValueString(val), nil
	}
}

// GetStrings returns the decoded values as strings.
func (r *Record) GetStrings(ctx context.Context, name string) ([]string, error) {
	v, err := r.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		if val == "" {
			return []string{}, nil
		}
		return []string{val}, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, filter.ValueString(item))
		}
		return out, nil
	case []codec.Identified:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, item.DN())
		}
		return out, nil
	default:
		return []string{filter.ValueString(val)}, nil
	}
}

// GetTime returns a Date or Timestamp attribute.
func (r *Record) GetTime(ctx context.Context, name string) (time.Time, error) {
	v, err := r.Get(ctx, name)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("%s is %T, not a time", name, v)
	}
	return t, nil
}

// GetRecords returns a distinguished name array attribute resolved into
// records.
func (r *Record) GetRecords(ctx context.Context, name string) ([]*Record, error) {
	v, err := r.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]codec.Identified)
	if !ok {
		return nil, fmt.Errorf("%s is %T, not a record list", name, v)
	}
	out := make([]*Record, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(*Record); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ObjectGUID returns the objectGUID attribute as a UUID. Active Directory
// stores the first three groups little-endian.
func (r *Record) ObjectGUID() (uuid.UUID, error) {
	raw := []byte(r.Value("objectGUID"))
	if len(raw) != 16 {
		return uuid.Nil, withDetail(ErrUnknownAttribute, "objectGUID has %d bytes", len(raw))
	}
	b := make([]byte, 16)
	copy(b, raw)
	b[0], b[1], b[2], b[3] = raw[3], raw[2], raw[1], raw[0]
	b[4], b[5] = raw[5], raw[4]
	b[6], b[7] = raw[7], raw[6]
	return uuid.FromBytes(b)
}

// WhenCreated returns the creation time.
func (r *Record) WhenCreated() (time.Time, error) {
	return codec.ParseDate(r.Value("whenCreated"))
}

// WhenChanged returns the last modification time.
func (r *Record) WhenChanged() (time.Time, error) {
	return codec.ParseDate(r.Value("whenChanged"))
}

// Equal compares records by objectGUID, falling back to the normalized
// distinguished name when either side has no GUID.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if a, b := r.Value("objectGUID"), other.Value("objectGUID"); a != "" && b != "" {
		return a == b
	}
	if r.DN() == "" || other.DN() == "" {
		return r == other
	}
	return dn.Equal(r.DN(), other.DN())
}

// Changed reports whether there are pending changes.
func (r *Record) Changed() bool { return len(r.pending) > 0 }

// IsNew reports whether the record has not been created in the directory.
func (r *Record) IsNew() bool { return r.entry == nil }

// Pending returns the names of attributes with pending changes, sorted.
func (r *Record) Pending() []string {
	names := make([]string, 0, len(r.pending))
	for _, v := range r.pending {
		names = append(names, v.name)
	}
	sort.Strings(names)
	return names
}

// Save writes pending changes. A new record is created under the pending
// distinguishedName. On failure the pending changes are kept.
func (r *Record) Save(ctx context.Context) error {
	if r.IsNew() {
		return r.create(ctx)
	}
	if !r.Changed() {
		return nil
	}

	changes := make(map[string]any, len(r.pending))
	for _, v := range r.pending {
		changes[v.name] = v.value
	}
	if err := r.modify(ctx, changes); err != nil {
		return err
	}
	r.pending = map[string]pendingValue{}
	return r.Reload(ctx)
}

func (r *Record) create(ctx context.Context) error {
	target := r.DN()
	if target == "" {
		return validationError("save: new record has no distinguishedName")
	}

	attrs := make(map[string]any, len(r.pending))
	for key, v := range r.pending {
		if key == strings.ToLower(distinguishedName) {
			continue
		}
		attrs[v.name] = v.value
	}

	wire := make(map[string][]string, len(attrs))
	for name, value := range attrs {
		if values := wireValues(value); len(values) > 0 {
			wire[name] = values
		}
	}
	for name, values := range r.repo.typ.RequiredAttributes {
		deleteFold(wire, name)
		wire[name] = append([]string(nil), values...)
	}

	m := r.repo.manager
	err := m.dir.Add(ctx, target, wire)
	m.metrics.RecordWrite(r.repo.typ.Name, "add", err)
	if err != nil {
		m.logger.Warnf("create %s %s failed: %v", r.repo.typ.Name, target, err)
		return remoteFailure(err, "add", target)
	}

	r.entry = directory.NewEntry(target, wire)
	r.pending = map[string]pendingValue{}
	return r.Reload(ctx)
}

// UpdateAttribute writes a single attribute immediately.
func (r *Record) UpdateAttribute(ctx context.Context, name string, value any) error {
	return r.UpdateAttributes(ctx, map[string]any{name: value})
}

// UpdateAttributes writes attributes immediately and reloads the record.
// Empty values delete the attribute, attributes the entry lacks are added
// and the rest are replaced.
func (r *Record) UpdateAttributes(ctx context.Context, attributes map[string]any) error {
	if len(attributes) == 0 {
		return nil
	}
	if r.IsNew() {
		return ErrNewRecord
	}

	encoded := make(map[string]any, len(attributes))
	for name, value := range attributes {
		if isEmptyValue(value) {
			encoded[name] = nil
			continue
		}
		v, err := r.repo.manager.registry.Encode(ctx, r.repo.typ.Name, name, value)
		if err != nil {
			return err
		}
		encoded[name] = v
	}

	if err := r.modify(ctx, encoded); err != nil {
		return err
	}
	return r.Reload(ctx)
}

func (r *Record) modify(ctx context.Context, encoded map[string]any) error {
	mods := make([]directory.Modification, 0, len(encoded))
	for _, name := range sortedKeys(encoded) {
		mods = append(mods, r.modification(name, encoded[name]))
	}
	return r.apply(ctx, "modify", mods)
}

func (r *Record) modification(name string, value any) directory.Modification {
	values := wireValues(value)
	switch {
	case len(values) == 0:
		return directory.Modification{Op: directory.OpDelete, Attribute: name}
	case !r.entry.Has(name):
		return directory.Modification{Op: directory.OpAdd, Attribute: name, Values: values}
	default:
		return directory.Modification{Op: directory.OpReplace, Attribute: name, Values: values}
	}
}

// apply sends raw modifications for the record and keeps the cached copy in
// sync.
func (r *Record) apply(ctx context.Context, op string, mods []directory.Modification) error {
	if r.IsNew() {
		return ErrNewRecord
	}
	m := r.repo.manager
	target := r.DN()

	err := m.dir.Modify(ctx, target, mods)
	m.metrics.RecordWrite(r.repo.typ.Name, op, err)
	if err != nil {
		m.logger.Warnf("%s %s failed: %v", op, target, err)
		return remoteFailure(err, op, target)
	}
	return nil
}

// Reload replaces the stored entry with a fresh copy from the directory.
// The search starts at the entry itself, so records found outside the
// configured base reload too. Pending changes are kept.
func (r *Record) Reload(ctx context.Context) error {
	if r.IsNew() {
		return ErrNewRecord
	}
	m := r.repo.manager
	target := r.DN()

	if !m.dir.IsConnected(ctx) {
		return remoteFailure(errNotConnected, "reload", target)
	}
	entries, err := m.dir.Search(ctx, target, filter.Eq(distinguishedName, target).String(), nil)
	if err != nil {
		return remoteFailure(err, "reload", target)
	}
	if len(entries) == 0 {
		return withDetail(ErrNotFound, "%s", target)
	}

	r.entry = entries[0]
	r.repo.remember(r)
	return nil
}

// Destroy deletes the entry and drops it from the cache.
func (r *Record) Destroy(ctx context.Context) error {
	if r.IsNew() {
		return ErrNewRecord
	}
	m := r.repo.manager
	target := r.DN()

	err := m.dir.Delete(ctx, target)
	m.metrics.RecordWrite(r.repo.typ.Name, "delete", err)
	if err != nil {
		m.logger.Warnf("delete %s failed: %v", target, err)
		return remoteFailure(err, "delete", target)
	}

	r.repo.forget(target)
	r.entry = nil
	r.pending = map[string]pendingValue{}
	return nil
}

// Move would rename the entry under a new RDN. Renames are not supported.
func (r *Record) Move(context.Context, string) error {
	return ErrNotSupported
}

// collapse turns stored values into what Get returns: a single value as a
// scalar, nothing as "", several values as a slice.
func collapse(values []string) any {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return append([]string(nil), values...)
	}
}

// wireValues renders an encoded value as attribute values.
func wireValues(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, filter.ValueString(item))
		}
		return out
	case []codec.Identified:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, item.DN())
		}
		return out
	default:
		return []string{filter.ValueString(val)}
	}
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
