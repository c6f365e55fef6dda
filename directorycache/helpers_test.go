package directorycache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-directory-cache/pkg/testsupport"
)

const (
	testBase = "DC=example,DC=org"
	janeDN   = "CN=Jane Doe,OU=Users,DC=example,DC=org"
	bossDN   = "CN=Boss Person,OU=Users,DC=example,DC=org"
	adminsDN = "CN=Admins,OU=Groups,DC=example,DC=org"
	opsDN    = "CN=Ops,OU=Groups,DC=example,DC=org"
	staffDN  = "CN=Staff,OU=Groups,DC=example,DC=org"
	ws01DN   = "CN=WS01,OU=Computers,DC=example,DC=org"
)

var testUserAttributes = []string{"cn", "memberOf", "objectGUID", "whenCreated", "pwdLastSet"}

func testSettings() Settings {
	settings := DefaultSettings()
	settings.Base = testBase
	settings.CacheEnabled = true
	settings.Attributes = map[string][]string{"user": testUserAttributes}
	return settings
}

func newTestManager(t *testing.T, mutate ...func(*Settings)) (*Manager, *testsupport.FakeDirectory) {
	t.Helper()

	dir := testsupport.NewFakeDirectory(testsupport.LoadEntries(t, testsupport.FixturePath("directory.json"))...)

	settings := testSettings()
	for _, fn := range mutate {
		fn(&settings)
	}

	m, err := NewManager(dir, settings)
	require.NoError(t, err)
	return m, dir
}
