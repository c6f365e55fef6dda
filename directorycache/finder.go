package directorycache

import (
	"context"
	"strings"

	"github.com/goliatone/go-directory-cache/directory"
	"github.com/goliatone/go-directory-cache/filter"
)

// finder holds the state of one search: cache check, remote search, record
// construction and cache population.
type finder struct {
	repo       *Repository
	base       string
	where      filter.Where
	attributes []string
	only       bool
}

func (f *finder) perform(ctx context.Context, spec Specifier) ([]*Record, error) {
	typeName := f.repo.typ.Name

	if records, ok := f.fromCache(); ok {
		f.repo.manager.logger.Debugf("%s cache hit for %d record(s)", typeName, len(records))
		f.repo.manager.metrics.RecordCacheHit(typeName)
		if spec == First && len(records) > 1 {
			records = records[:1]
		}
		return records, nil
	}

	compiled, err := filter.Compile(f.where, f.repo.manager.registry.Encoder(ctx, typeName))
	if err != nil {
		return nil, err
	}
	search := filter.WithRequired(compiled, f.repo.typ.requiredFilter())

	entries, ok := f.search(ctx, search.String(), f.attributeList())
	if !ok || len(entries) == 0 {
		return []*Record{}, nil
	}
	if spec == First {
		entries = entries[:1]
	}

	records := make([]*Record, 0, len(entries))
	for _, e := range entries {
		rec := newRecord(f.repo, e)
		f.repo.remember(rec)
		records = append(records, rec)
	}
	return records, nil
}

// fromCache answers lookups by distinguished name only. Every requested
// name must hit for the cache to answer.
func (f *finder) fromCache() ([]*Record, bool) {
	if !f.repo.Caching() || len(f.where) != 1 {
		return nil, false
	}

	var value any
	for k, v := range f.where {
		if !strings.EqualFold(k, distinguishedName) {
			return nil, false
		}
		value = v
	}

	dns, isList := dnList(value)
	if !isList {
		s, ok := value.(string)
		if !ok {
			return nil, false
		}
		rec, hit := f.repo.cached(s)
		if !hit {
			f.repo.manager.metrics.RecordCacheMiss(f.repo.typ.Name)
			return nil, false
		}
		return []*Record{rec}, true
	}

	records := make([]*Record, 0, len(dns))
	for _, dn := range dns {
		rec, hit := f.repo.cached(dn)
		if !hit {
			f.repo.manager.metrics.RecordCacheMiss(f.repo.typ.Name)
			return nil, false
		}
		records = append(records, rec)
	}
	return records, true
}

func (f *finder) search(ctx context.Context, filterString string, attributes []string) ([]*directory.Entry, bool) {
	m := f.repo.manager
	typeName := f.repo.typ.Name

	if !m.dir.IsConnected(ctx) {
		m.logger.Warnf("%s search skipped: directory not connected", typeName)
		m.metrics.RecordSearch(typeName, "offline")
		return nil, false
	}

	m.logger.Debugf("%s search base=%q filter=%s attributes=%v", typeName, f.base, filterString, attributes)
	entries, err := m.dir.Search(ctx, f.base, filterString, attributes)
	if err != nil {
		m.logger.Warnf("%s search %s failed: %v", typeName, filterString, err)
		m.metrics.RecordSearch(typeName, "error")
		return nil, false
	}
	if len(entries) == 0 {
		m.metrics.RecordSearch(typeName, "empty")
	} else {
		m.metrics.RecordSearch(typeName, "ok")
	}
	return entries, true
}

func (f *finder) attributeList() []string {
	if f.only {
		return mergeAttributes(f.attributes)
	}
	return f.repo.attributeList(f.attributes)
}

func dnList(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, filter.ValueString(item))
		}
		return out, true
	default:
		return nil, false
	}
}
