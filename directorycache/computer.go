package directorycache

import "github.com/goliatone/go-directory-cache/codec"

// Computer is a computer account record.
type Computer struct {
	*Record
}

// AsComputer wraps a record of the computer type. It returns nil for nil
// records and records of other types.
func AsComputer(r *Record) *Computer {
	if r == nil || r.Type().Name != codec.TypeComputer {
		return nil
	}
	return &Computer{Record: r}
}

// Hostname returns dNSHostName, falling back to name.
func (c *Computer) Hostname() string {
	if h := c.Value("dNSHostName"); h != "" {
		return h
	}
	return c.Value("name")
}
