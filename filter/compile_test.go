package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name  string
		where Where
		want  string
	}{
		{"nil", nil, "(cn=*)"},
		{"empty", Where{}, "(cn=*)"},
		{"single", Where{"sAMAccountName": "jdoe"}, "(sAMAccountName=jdoe)"},
		{"and of or", Where{"a": 1, "b": []int{2, 3}}, "(&(a=1)(|(b=2)(b=3)))"},
		{"keys sorted", Where{"sn": "Doe", "givenName": "Jane"}, "(&(givenName=Jane)(sn=Doe))"},
		{"string slice", Where{"cn": []string{"a", "b"}}, "(|(cn=a)(cn=b))"},
		{"any slice", Where{"cn": []any{"a", 2}}, "(|(cn=a)(cn=2))"},
		{"single element slice", Where{"cn": []string{"a"}}, "(cn=a)"},
		{"brackets stripped", Where{"cn": "[jane]"}, "(cn=jane)"},
		{"leading bracket only", Where{"cn": "[jane"}, "(cn=jane)"},
		{"inner brackets kept", Where{"cn": "ja[n]e"}, "(cn=ja[n]e)"},
		{"value escaped", Where{"cn": "a*"}, `(cn=a\2a)`},
		{"bool", Where{"isCriticalSystemObject": true}, "(isCriticalSystemObject=TRUE)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.where, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.String())
			assert.NoError(t, Validate(f))
		})
	}
}

func TestCompile_EmptyIsMatchAny(t *testing.T) {
	f, err := Compile(Where{}, nil)
	require.NoError(t, err)
	assert.True(t, IsMatchAny(f))
}

func TestCompile_UsesEncoder(t *testing.T) {
	var seen []string
	encode := func(attr string, v any) (any, error) {
		seen = append(seen, attr)
		if strings.EqualFold(attr, "objectGUID") {
			return "\x01\x02", nil
		}
		if attr == "member" {
			return []string{"cn=a", "cn=b"}, nil
		}
		return v, nil
	}

	f, err := Compile(Where{"objectGUID": "0102", "member": "ignored", "cn": []string{"x", "y"}}, encode)
	require.NoError(t, err)
	assert.Equal(t, "(&(|(cn=x)(cn=y))(|(member=cn=a)(member=cn=b))(objectGUID=\x01\x02))", f.String())
	assert.Equal(t, []string{"cn", "cn", "member", "objectGUID"}, seen)
}

func TestCompile_EncoderError(t *testing.T) {
	boom := errors.New("bad value")
	_, err := Compile(Where{"a": []string{"1", "2"}}, func(string, any) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestWithRequired(t *testing.T) {
	user := And(Eq("objectClass", "user"), Not(Eq("objectClass", "computer")))
	caller := Eq("sAMAccountName", "jdoe")

	assert.Equal(t,
		"(&(sAMAccountName=jdoe)(&(objectClass=user)(!(objectClass=computer))))",
		WithRequired(caller, user).String())

	assert.Equal(t, caller, WithRequired(caller, MatchAny))
	assert.Equal(t, caller, WithRequired(caller, nil))

	// match-any caller filters are still narrowed by the type
	assert.Equal(t, "(&(cn=*)(objectClass=group))", WithRequired(MatchAny, Eq("objectClass", "group")).String())
}

func TestWhere_Keys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Where{"c": 1, "a": 2, "b": 3}.Keys())
}
