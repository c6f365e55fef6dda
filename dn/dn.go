// Package dn provides helpers for distinguished names: normalization for
// cache keys and comparisons, a small builder for composing DNs and CN
// extraction.
package dn

import (
	"regexp"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

var cnPattern = regexp.MustCompile(`(?i)CN=(.+?),OU`)

// Normalize returns the canonical form of a distinguished name: attribute
// types and values lowercased, whitespace around separators removed.
// Values that do not parse as a DN are lowercased and trimmed.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	parsed, err := ldap.ParseDN(s)
	if err != nil {
		return strings.ToLower(s)
	}

	rdns := make([]string, 0, len(parsed.RDNs))
	for _, rdn := range parsed.RDNs {
		parts := make([]string, 0, len(rdn.Attributes))
		for _, atv := range rdn.Attributes {
			parts = append(parts, strings.ToLower(atv.Type)+"="+escapeValue(strings.ToLower(atv.Value)))
		}
		rdns = append(rdns, strings.Join(parts, "+"))
	}

	return strings.Join(rdns, ",")
}

// Equal reports whether two distinguished names refer to the same entry.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// ParseCN extracts the common name from a DN of the form CN=x,OU=...
// Escaping backslashes are removed. It returns "" when there is no match.
func ParseCN(s string) string {
	m := cnPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], `\`, "")
}

func escapeValue(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		switch c := v[i]; c {
		case ',', '+', '"', '\\', '<', '>', ';', '=':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
