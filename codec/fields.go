package codec

import "strings"

// Fields maps a record type name to its attribute codecs. Attribute names
// are stored lowercased.
type Fields map[string]map[string]Tag

// DefaultFields returns the Active Directory attribute table. Computers have
// no entry, so every computer attribute passes through unchanged.
func DefaultFields() Fields {
	return Fields{
		TypeBase: {
			"objectguid":  Binary,
			"whencreated": Date,
			"whenchanged": Date,
			"memberof":    DnArray,
		},
		TypeUser: {
			"objectguid":                      Binary,
			"whencreated":                     Date,
			"whenchanged":                     Date,
			"objectsid":                       Binary,
			"msexchmailboxguid":               Binary,
			"msexchmailboxsecuritydescriptor": Binary,
			"lastlogontimestamp":              Timestamp,
			"pwdlastset":                      Timestamp,
			"accountexpires":                  Timestamp,
			"memberof":                        MemberDnArray,
		},
		TypeGroup: {
			"objectguid":  Binary,
			"whencreated": Date,
			"whenchanged": Date,
			"objectsid":   Binary,
			"memberof":    GroupDnArray,
			"member":      MemberDnArray,
		},
	}
}

// Clone returns a deep copy with normalized attribute names.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for typeName, attrs := range f {
		m := make(map[string]Tag, len(attrs))
		for attr, tag := range attrs {
			m[strings.ToLower(attr)] = tag
		}
		out[typeName] = m
	}
	return out
}

// Merge overlays other on top of f and returns the result. Neither input is
// modified.
func (f Fields) Merge(other Fields) Fields {
	out := f.Clone()
	for typeName, attrs := range other {
		if out[typeName] == nil {
			out[typeName] = map[string]Tag{}
		}
		for attr, tag := range attrs {
			out[typeName][strings.ToLower(attr)] = tag
		}
	}
	return out
}
