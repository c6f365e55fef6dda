package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	filters := []Filter{
		Eq("cn", "Jane"),
		Present("mail"),
		And(Eq("a", "1"), Or(Eq("b", "2"), Eq("b", "3"))),
		Not(Eq("objectClass", "computer")),
		Eq("cn", "a*(b)\\"),
		Eq("objectGUID", "\x01\x02\xff"),
		WithRequired(Eq("sAMAccountName", "jdoe"), And(Eq("objectClass", "user"), Not(Eq("objectClass", "computer")))),
	}

	for _, f := range filters {
		t.Run(f.String(), func(t *testing.T) {
			parsed, err := Parse(f.String())
			require.NoError(t, err)
			assert.Equal(t, f.String(), parsed.String())
			assert.Equal(t, f, parsed)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, s := range []string{
		"",
		"cn=a",
		"(cn=a",
		"(cn=a*)",
		"(age>=3)",
		"(cn=a)(cn=b)",
	} {
		t.Run(s, func(t *testing.T) {
			_, err := Parse(s)
			assert.Error(t, err)
		})
	}
}
