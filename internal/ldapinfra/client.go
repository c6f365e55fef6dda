package ldapinfra

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/go-ldap/ldap/v3"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-directory-cache/directory"
	"github.com/goliatone/go-directory-cache/internal/log"
)

// Interface assertion to ensure Client implements directory.Directory
var _ directory.Directory = (*Client)(nil)
var _ directory.Authenticator = (*Client)(nil)

// Config holds the connection settings for the LDAP adapter.
type Config struct {
	// URL is the server address, e.g. ldap://dc1.example.org:389 or ldaps://...
	URL string

	// Base is the search root used to locate entries during Authenticate.
	Base string

	// BindDN and Password are the service account credentials.
	BindDN   string
	Password string

	// StartTLS upgrades a plain ldap:// connection after dialing.
	StartTLS bool

	// InsecureSkipVerify disables certificate verification. Test setups only.
	InsecureSkipVerify bool

	// DialTimeout bounds connection establishment. Zero means no timeout.
	DialTimeout time.Duration

	// PageSize enables paged searches when greater than zero. Active
	// Directory caps unpaged results at 1000 entries.
	PageSize uint32
}

// DialFunc opens a connection to the server.
type DialFunc func(cfg Config) (ldap.Client, error)

// Client implements directory.Directory on top of go-ldap. The connection is
// established and bound lazily by IsConnected; concurrent first calls share
// a single bind attempt.
type Client struct {
	cfg    Config
	dial   DialFunc
	logger log.Logger

	mu        sync.Mutex
	conn      ldap.Client
	connected bool

	group singleflight.Group
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used for connection diagnostics.
func WithLogger(l log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDialer overrides how connections are opened.
func WithDialer(d DialFunc) Option {
	return func(c *Client) {
		if d != nil {
			c.dial = d
		}
	}
}

// New creates an adapter. No network activity happens until the first call
// to IsConnected.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		dial:   dialURL,
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func dialURL(cfg Config) (ldap.Client, error) {
	var dialOpts []ldap.DialOpt
	if cfg.DialTimeout > 0 {
		dialOpts = append(dialOpts, ldap.DialWithDialer(&net.Dialer{Timeout: cfg.DialTimeout}))
	}
	tlsConfig := &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify} //nolint:gosec // opt-in for test servers
	dialOpts = append(dialOpts, ldap.DialWithTLSConfig(tlsConfig))

	conn, err := ldap.DialURL(cfg.URL, dialOpts...)
	if err != nil {
		return nil, err
	}

	if cfg.StartTLS {
		if err := conn.StartTLS(tlsConfig); err != nil {
			conn.Close()
			return nil, fmt.Errorf("start tls: %w", err)
		}
	}

	return conn, nil
}

// IsConnected reports whether a bound connection is available, dialing and
// binding on first use.
func (c *Client) IsConnected(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return true
	}
	c.mu.Unlock()

	_, err, _ := c.group.Do("connect", func() (any, error) {
		return nil, c.connect()
	})
	if err != nil {
		c.logger.Warnf("ldap connect to %s failed: %v", c.cfg.URL, err)
		return false
	}
	return true
}

func (c *Client) connect() error {
	conn, err := c.dial(c.cfg)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	if c.cfg.BindDN != "" {
		if err := conn.Bind(c.cfg.BindDN, c.cfg.Password); err != nil {
			conn.Close()
			return fmt.Errorf("bind as %s: %w", c.cfg.BindDN, err)
		}
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	c.logger.Debugf("ldap connected to %s", c.cfg.URL)
	return nil
}

func (c *Client) current() (ldap.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected || c.conn == nil {
		return nil, ErrNotConnected
	}
	return c.conn, nil
}

// observe drops the connection after network failures so that the next
// IsConnected call dials again.
func (c *Client) observe(err error) error {
	if err == nil {
		return nil
	}
	if ldap.IsErrorWithCode(err, ldap.ErrorNetwork) {
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		c.conn = nil
		c.connected = false
		c.mu.Unlock()
	}
	return err
}

// Search implements directory.Directory.
func (c *Client) Search(ctx context.Context, base, filter string, attributes []string) ([]*directory.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := c.current()
	if err != nil {
		return nil, err
	}

	req := ldap.NewSearchRequest(
		base,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		filter,
		attributes,
		nil,
	)

	var res *ldap.SearchResult
	if c.cfg.PageSize > 0 {
		res, err = conn.SearchWithPaging(req, c.cfg.PageSize)
	} else {
		res, err = conn.Search(req)
	}
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return nil, nil
		}
		return nil, c.observe(fmt.Errorf("search %s %s: %w", base, filter, err))
	}

	return convertEntries(res.Entries), nil
}

func convertEntries(entries []*ldap.Entry) []*directory.Entry {
	out := make([]*directory.Entry, 0, len(entries))
	for _, e := range entries {
		attrs := make(map[string][]string, len(e.Attributes))
		for _, a := range e.Attributes {
			attrs[a.Name] = append([]string(nil), a.Values...)
		}
		out = append(out, directory.NewEntry(e.DN, attrs))
	}
	return out
}

// Add implements directory.Directory.
func (c *Client) Add(ctx context.Context, dn string, attributes map[string][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := c.current()
	if err != nil {
		return err
	}

	req := ldap.NewAddRequest(dn, nil)
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		req.Attribute(name, attributes[name])
	}

	return c.observe(conn.Add(req))
}

// Modify implements directory.Directory.
func (c *Client) Modify(ctx context.Context, dn string, mods []directory.Modification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := c.current()
	if err != nil {
		return err
	}

	req := ldap.NewModifyRequest(dn, nil)
	for _, m := range mods {
		switch m.Op {
		case directory.OpAdd:
			req.Add(m.Attribute, m.Values)
		case directory.OpReplace:
			req.Replace(m.Attribute, m.Values)
		case directory.OpDelete:
			req.Delete(m.Attribute, m.Values)
		default:
			return fmt.Errorf("modify %s: unknown operation %d", dn, m.Op)
		}
	}

	return c.observe(conn.Modify(req))
}

// Delete implements directory.Directory.
func (c *Client) Delete(ctx context.Context, dn string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := c.current()
	if err != nil {
		return err
	}
	return c.observe(conn.Del(ldap.NewDelRequest(dn, nil)))
}

// Authenticate looks up the entry matching filter with the service
// connection and then binds as it on a separate connection, leaving the
// service binding untouched. A failed bind returns ErrInvalidCredentials.
func (c *Client) Authenticate(ctx context.Context, filter, password string) (*directory.Entry, error) {
	if password == "" {
		return nil, ErrInvalidCredentials
	}

	entries, err := c.Search(ctx, c.cfg.Base, filter, []string{"distinguishedName"})
	if err != nil {
		return nil, err
	}
	if len(entries) != 1 {
		return nil, ErrInvalidCredentials
	}

	conn, err := c.dial(c.cfg)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if err := conn.Bind(entries[0].DN, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return entries[0], nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = nil
	c.connected = false
}

var (
	// ErrNotConnected is returned by operations issued before a successful
	// IsConnected call.
	ErrNotConnected = errors.New("ldap: not connected")

	// ErrInvalidCredentials is returned by Authenticate for rejected binds.
	ErrInvalidCredentials = directory.ErrInvalidCredentials
)
