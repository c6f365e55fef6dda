package testsupport

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-directory-cache/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	janeDN   = "CN=Jane Doe,OU=Users,DC=example,DC=org"
	adminsDN = "CN=Admins,OU=Groups,DC=example,DC=org"
)

func newFake(t *testing.T) *FakeDirectory {
	t.Helper()
	return NewFakeDirectory(LoadEntries(t, FixturePath("entries.json"))...)
}

func TestFakeDirectory_Search(t *testing.T) {
	ctx := context.Background()
	f := newFake(t)

	tests := []struct {
		name   string
		base   string
		filter string
		want   []string
	}{
		{"everything", "DC=example,DC=org", "(objectClass=*)", []string{janeDN, adminsDN}},
		{"by class", "dc=example,dc=org", "(objectClass=group)", []string{adminsDN}},
		{"case insensitive value", "", "(samaccountname=JDOE)", []string{janeDN}},
		{"scoped base", "OU=Groups,DC=example,DC=org", "(objectClass=*)", []string{adminsDN}},
		{"base is the entry", janeDN, "(cn=*)", []string{janeDN}},
		{"other tree", "DC=other,DC=org", "(objectClass=*)", nil},
		{"negation", "", "(!(objectClass=group))", []string{janeDN}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := f.Search(ctx, tt.base, tt.filter, nil)
			require.NoError(t, err)

			var got []string
			for _, e := range entries {
				got = append(got, e.DN)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFakeDirectory_SearchProjectsAttributes(t *testing.T) {
	f := newFake(t)

	entries, err := f.Search(context.Background(), "", "(cn=Jane Doe)", []string{"MAIL"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "jane@example.org", entries[0].Value("mail"))
	assert.False(t, entries[0].Has("sAMAccountName"))
	assert.Equal(t, []string{"MAIL"}, f.LastSearch().Attributes)
	assert.Equal(t, 1, f.SearchCount())
}

func TestFakeDirectory_SearchErrors(t *testing.T) {
	f := newFake(t)

	_, err := f.Search(context.Background(), "", "(cn=a*)", nil)
	assert.Error(t, err, "substring filters are not supported")

	boom := errors.New("boom")
	f.Errors["search"] = boom
	_, err = f.Search(context.Background(), "", "(cn=*)", nil)
	assert.ErrorIs(t, err, boom)
}

func TestFakeDirectory_Writes(t *testing.T) {
	ctx := context.Background()
	f := newFake(t)
	name := "CN=Bob,OU=Users,DC=example,DC=org"

	require.NoError(t, f.Add(ctx, name, map[string][]string{"cn": {"Bob"}}))
	assert.ErrorIs(t, f.Add(ctx, name, nil), ErrEntryExists)

	require.NoError(t, f.Modify(ctx, name, []directory.Modification{
		{Op: directory.OpAdd, Attribute: "mail", Values: []string{"bob@example.org"}},
		{Op: directory.OpReplace, Attribute: "CN", Values: []string{"Robert"}},
	}))
	e, ok := f.Entry(name)
	require.True(t, ok)
	assert.Equal(t, "bob@example.org", e.Value("mail"))
	assert.Equal(t, "Robert", e.Value("cn"))
	assert.Len(t, f.Modifications["cn=bob,ou=users,dc=example,dc=org"], 1)

	require.NoError(t, f.Modify(ctx, name, []directory.Modification{
		{Op: directory.OpDelete, Attribute: "mail"},
	}))
	e, _ = f.Entry(name)
	assert.False(t, e.Has("mail"))

	require.NoError(t, f.Delete(ctx, name))
	assert.ErrorIs(t, f.Delete(ctx, name), ErrNoSuchEntry)
	assert.ErrorIs(t, f.Modify(ctx, name, nil), ErrNoSuchEntry)
}

func TestFakeDirectory_DeleteValues(t *testing.T) {
	ctx := context.Background()
	f := newFake(t)

	require.NoError(t, f.Modify(ctx, adminsDN, []directory.Modification{
		{Op: directory.OpDelete, Attribute: "member", Values: []string{janeDN}},
	}))
	e, _ := f.Entry(adminsDN)
	assert.False(t, e.Has("member"))
}

func TestFakeDirectory_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := newFake(t)
	f.SetPassword(janeDN, "secret")

	e, err := f.Authenticate(ctx, "(sAMAccountName=jdoe)", "secret")
	require.NoError(t, err)
	assert.Equal(t, janeDN, e.DN)

	_, err = f.Authenticate(ctx, "(sAMAccountName=jdoe)", "wrong")
	assert.ErrorIs(t, err, directory.ErrInvalidCredentials)

	_, err = f.Authenticate(ctx, "(sAMAccountName=nobody)", "secret")
	assert.ErrorIs(t, err, directory.ErrInvalidCredentials)
}

func TestFakeDirectory_Offline(t *testing.T) {
	f := newFake(t)
	assert.True(t, f.IsConnected(context.Background()))

	f.Offline = true
	assert.False(t, f.IsConnected(context.Background()))
	assert.Equal(t, 2, f.ConnectChecks)
}
