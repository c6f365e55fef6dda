package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-directory-cache/directorycache"
	"github.com/goliatone/go-directory-cache/filter"
)

type recordView struct {
	DN         string              `yaml:"dn"`
	Type       string              `yaml:"type"`
	Attributes map[string][]string `yaml:"attributes,omitempty"`
}

func viewOf(rec *directorycache.Record) recordView {
	v := recordView{DN: rec.DN(), Type: rec.Type().Name}
	if entry := rec.Entry(); entry != nil {
		v.Attributes = map[string][]string{}
		for _, name := range entry.AttributeNames() {
			values, _ := entry.Values(name)
			out := make([]string, len(values))
			for i, s := range values {
				out[i] = printable(s)
			}
			v.Attributes[name] = out
		}
	}
	return v
}

// printable hex encodes binary values such as objectGUID and objectSid.
func printable(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return "0x" + hex.EncodeToString([]byte(s))
}

func writeRecords(w io.Writer, records []*directorycache.Record, dnOnly bool) error {
	if dnOnly {
		for _, rec := range records {
			if _, err := fmt.Fprintln(w, rec.DN()); err != nil {
				return err
			}
		}
		return nil
	}

	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		views = append(views, viewOf(rec))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(views); err != nil {
		return err
	}
	return enc.Close()
}

// typeName maps a type argument such as "users" or "GROUP" to a registered
// type name.
func typeName(arg string) string {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(arg)), "s")
	return cases.Title(language.Und).String(name)
}

// parseWhere turns attr=value arguments into a where map. Repeating an
// attribute matches any of its values.
func parseWhere(args []string) (filter.Where, error) {
	where := filter.Where{}
	keys := map[string]string{}

	for _, arg := range args {
		attr, value, ok := strings.Cut(arg, "=")
		attr = strings.TrimSpace(attr)
		if !ok || attr == "" {
			return nil, fmt.Errorf("invalid condition %q, expected attribute=value", arg)
		}

		key, seen := keys[strings.ToLower(attr)]
		if !seen {
			keys[strings.ToLower(attr)] = attr
			where[attr] = value
			continue
		}
		switch existing := where[key].(type) {
		case string:
			where[key] = []string{existing, value}
		case []string:
			where[key] = append(existing, value)
		}
	}
	return where, nil
}

func sortedDNs[T interface{ DN() string }](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.DN())
	}
	sort.Strings(out)
	return out
}
