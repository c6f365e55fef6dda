package ldapinfra

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-directory-cache/directory"
)

// fakeConn overrides the ldap.Client methods the adapter uses. Any other
// method panics through the nil embedded interface.
type fakeConn struct {
	ldap.Client

	mu        sync.Mutex
	bindErr   error
	binds     []string
	searchRes *ldap.SearchResult
	searchErr error
	searches  []*ldap.SearchRequest
	paged     []uint32
	adds      []*ldap.AddRequest
	modifies  []*ldap.ModifyRequest
	dels      []*ldap.DelRequest
	writeErr  error
	closed    int
}

func (f *fakeConn) Bind(username, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.binds = append(f.binds, username+":"+password)
	return f.bindErr
}

func (f *fakeConn) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	f.searches = append(f.searches, req)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.searchRes == nil {
		return &ldap.SearchResult{}, nil
	}
	return f.searchRes, nil
}

func (f *fakeConn) SearchWithPaging(req *ldap.SearchRequest, size uint32) (*ldap.SearchResult, error) {
	f.paged = append(f.paged, size)
	return f.Search(req)
}

func (f *fakeConn) Add(req *ldap.AddRequest) error {
	f.adds = append(f.adds, req)
	return f.writeErr
}

func (f *fakeConn) Modify(req *ldap.ModifyRequest) error {
	f.modifies = append(f.modifies, req)
	return f.writeErr
}

func (f *fakeConn) Del(req *ldap.DelRequest) error {
	f.dels = append(f.dels, req)
	return f.writeErr
}

func (f *fakeConn) Close() error {
	f.closed++
	return nil
}

func newTestClient(t *testing.T, conn *fakeConn, cfg Config) (*Client, *int32) {
	t.Helper()
	var dials int32
	c := New(cfg, WithDialer(func(Config) (ldap.Client, error) {
		atomic.AddInt32(&dials, 1)
		return conn, nil
	}))
	return c, &dials
}

func TestClient_IsConnectedBindsOnce(t *testing.T) {
	conn := &fakeConn{}
	c, dials := newTestClient(t, conn, Config{URL: "ldap://test", BindDN: "cn=svc", Password: "pw"})

	ctx := context.Background()
	require.True(t, c.IsConnected(ctx))
	require.True(t, c.IsConnected(ctx))

	assert.Equal(t, int32(1), atomic.LoadInt32(dials))
	assert.Equal(t, []string{"cn=svc:pw"}, conn.binds)
}

func TestClient_IsConnectedBindFailure(t *testing.T) {
	conn := &fakeConn{bindErr: ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("bad"))}
	c, dials := newTestClient(t, conn, Config{URL: "ldap://test", BindDN: "cn=svc", Password: "nope"})

	assert.False(t, c.IsConnected(context.Background()))
	assert.False(t, c.IsConnected(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(dials), "failed binds are retried on the next check")
	assert.Equal(t, 2, conn.closed)
}

func TestClient_IsConnectedDialFailure(t *testing.T) {
	c := New(Config{URL: "ldap://test"}, WithDialer(func(Config) (ldap.Client, error) {
		return nil, errors.New("refused")
	}))
	assert.False(t, c.IsConnected(context.Background()))
}

func TestClient_OperationsRequireConnection(t *testing.T) {
	c, _ := newTestClient(t, &fakeConn{}, Config{URL: "ldap://test"})
	ctx := context.Background()

	_, err := c.Search(ctx, "dc=x", "(cn=*)", nil)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, c.Add(ctx, "cn=a", nil), ErrNotConnected)
	assert.ErrorIs(t, c.Modify(ctx, "cn=a", nil), ErrNotConnected)
	assert.ErrorIs(t, c.Delete(ctx, "cn=a"), ErrNotConnected)
}

func TestClient_Search(t *testing.T) {
	conn := &fakeConn{searchRes: &ldap.SearchResult{Entries: []*ldap.Entry{
		ldap.NewEntry("CN=a,DC=x", map[string][]string{"cn": {"a"}, "mail": {"a@x"}}),
	}}}
	c, _ := newTestClient(t, conn, Config{URL: "ldap://test"})
	ctx := context.Background()
	require.True(t, c.IsConnected(ctx))

	entries, err := c.Search(ctx, "DC=x", "(cn=a)", []string{"cn", "mail"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "CN=a,DC=x", entries[0].DN)
	assert.Equal(t, "a@x", entries[0].Value("mail"))

	require.Len(t, conn.searches, 1)
	req := conn.searches[0]
	assert.Equal(t, "DC=x", req.BaseDN)
	assert.Equal(t, "(cn=a)", req.Filter)
	assert.Equal(t, ldap.ScopeWholeSubtree, req.Scope)
	assert.Equal(t, []string{"cn", "mail"}, req.Attributes)
	assert.Empty(t, conn.paged)
}

func TestClient_SearchPaged(t *testing.T) {
	conn := &fakeConn{}
	c, _ := newTestClient(t, conn, Config{URL: "ldap://test", PageSize: 500})
	ctx := context.Background()
	require.True(t, c.IsConnected(ctx))

	_, err := c.Search(ctx, "DC=x", "(cn=*)", nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{500}, conn.paged)
}

func TestClient_SearchNoSuchObjectIsEmpty(t *testing.T) {
	conn := &fakeConn{searchErr: ldap.NewError(ldap.LDAPResultNoSuchObject, errors.New("no such object"))}
	c, _ := newTestClient(t, conn, Config{URL: "ldap://test"})
	ctx := context.Background()
	require.True(t, c.IsConnected(ctx))

	entries, err := c.Search(ctx, "OU=missing,DC=x", "(cn=*)", nil)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClient_NetworkErrorDropsConnection(t *testing.T) {
	conn := &fakeConn{searchErr: ldap.NewError(ldap.ErrorNetwork, errors.New("reset"))}
	c, dials := newTestClient(t, conn, Config{URL: "ldap://test"})
	ctx := context.Background()
	require.True(t, c.IsConnected(ctx))

	_, err := c.Search(ctx, "DC=x", "(cn=*)", nil)
	require.Error(t, err)

	_, err = c.Search(ctx, "DC=x", "(cn=*)", nil)
	assert.ErrorIs(t, err, ErrNotConnected)

	conn.searchErr = nil
	require.True(t, c.IsConnected(ctx))
	assert.Equal(t, int32(2), atomic.LoadInt32(dials))
}

func TestClient_Writes(t *testing.T) {
	conn := &fakeConn{}
	c, _ := newTestClient(t, conn, Config{URL: "ldap://test"})
	ctx := context.Background()
	require.True(t, c.IsConnected(ctx))

	require.NoError(t, c.Add(ctx, "CN=a,DC=x", map[string][]string{
		"objectClass": {"top", "group"},
		"cn":          {"a"},
	}))
	require.Len(t, conn.adds, 1)
	assert.Equal(t, "CN=a,DC=x", conn.adds[0].DN)
	require.Len(t, conn.adds[0].Attributes, 2)
	assert.Equal(t, "cn", conn.adds[0].Attributes[0].Type)
	assert.Equal(t, "objectClass", conn.adds[0].Attributes[1].Type)

	require.NoError(t, c.Modify(ctx, "CN=a,DC=x", []directory.Modification{
		{Op: directory.OpAdd, Attribute: "member", Values: []string{"CN=u,DC=x"}},
		{Op: directory.OpReplace, Attribute: "description", Values: []string{"d"}},
		{Op: directory.OpDelete, Attribute: "info"},
	}))
	require.Len(t, conn.modifies, 1)
	changes := conn.modifies[0].Changes
	require.Len(t, changes, 3)
	assert.Equal(t, uint(ldap.AddAttribute), changes[0].Operation)
	assert.Equal(t, uint(ldap.ReplaceAttribute), changes[1].Operation)
	assert.Equal(t, uint(ldap.DeleteAttribute), changes[2].Operation)
	assert.Equal(t, "info", changes[2].Modification.Type)

	require.NoError(t, c.Delete(ctx, "CN=a,DC=x"))
	require.Len(t, conn.dels, 1)
	assert.Equal(t, "CN=a,DC=x", conn.dels[0].DN)

	assert.Error(t, c.Modify(ctx, "CN=a,DC=x", []directory.Modification{{Op: directory.OpKind(42), Attribute: "x"}}))
}

func TestClient_WriteErrorPropagates(t *testing.T) {
	conn := &fakeConn{writeErr: ldap.NewError(ldap.LDAPResultInsufficientAccessRights, errors.New("denied"))}
	c, _ := newTestClient(t, conn, Config{URL: "ldap://test"})
	ctx := context.Background()
	require.True(t, c.IsConnected(ctx))

	err := c.Delete(ctx, "CN=a,DC=x")
	assert.True(t, ldap.IsErrorWithCode(err, ldap.LDAPResultInsufficientAccessRights))
	assert.True(t, c.IsConnected(ctx), "non network errors keep the connection")
}

func TestClient_Authenticate(t *testing.T) {
	conn := &fakeConn{searchRes: &ldap.SearchResult{Entries: []*ldap.Entry{
		ldap.NewEntry("CN=jdoe,OU=Users,DC=x", nil),
	}}}
	c, _ := newTestClient(t, conn, Config{URL: "ldap://test", Base: "DC=x", BindDN: "cn=svc", Password: "pw"})
	ctx := context.Background()
	require.True(t, c.IsConnected(ctx))

	entry, err := c.Authenticate(ctx, "(sAMAccountName=jdoe)", "secret")
	require.NoError(t, err)
	assert.Equal(t, "CN=jdoe,OU=Users,DC=x", entry.DN)
	assert.Contains(t, conn.binds, "CN=jdoe,OU=Users,DC=x:secret")
	assert.Equal(t, "DC=x", conn.searches[0].BaseDN)

	_, err = c.Authenticate(ctx, "(sAMAccountName=jdoe)", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	conn.bindErr = ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("bad"))
	_, err = c.Authenticate(ctx, "(sAMAccountName=jdoe)", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestClient_ContextCancelled(t *testing.T) {
	c, _ := newTestClient(t, &fakeConn{}, Config{URL: "ldap://test"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, c.IsConnected(ctx))
	_, err := c.Search(ctx, "DC=x", "(cn=*)", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
