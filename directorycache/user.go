package directorycache

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"github.com/goliatone/go-directory-cache/codec"
	"github.com/goliatone/go-directory-cache/directory"
	"github.com/goliatone/go-directory-cache/dn"
	"github.com/goliatone/go-directory-cache/filter"
)

// userAccountControl flags.
const (
	UACAccountDisabled = 0x0002
	UACNormalAccount   = 0x0200
)

// User adds account behaviour to a user record.
type User struct {
	*Record
}

// AsUser wraps a record of the user type. It returns nil for nil records
// and records of other types.
func AsUser(r *Record) *User {
	if r == nil || r.Type().Name != codec.TypeUser {
		return nil
	}
	return &User{Record: r}
}

// AsUsers wraps every user record in records.
func AsUsers(records []*Record) []*User {
	out := make([]*User, 0, len(records))
	for _, r := range records {
		if u := AsUser(r); u != nil {
			out = append(out, u)
		}
	}
	return out
}

// Authenticate checks credentials by binding as the account with the given
// sAMAccountName. It returns the user on success and
// ErrAuthenticationFailed when the directory rejects them.
func (r *Repository) Authenticate(ctx context.Context, username, password string) (*User, error) {
	if r.typ.Name != codec.TypeUser {
		return nil, withDetail(ErrNotSupported, "authenticate on %s", r.typ.Name)
	}
	if username == "" || password == "" {
		return nil, ErrAuthenticationFailed
	}

	entry, err := r.bind(ctx, username, password)
	if err != nil {
		return nil, err
	}

	rec, err := r.First(ctx, filter.Where{distinguishedName: entry.DN})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = newRecord(r, entry)
	}
	return AsUser(rec), nil
}

func (r *Repository) bind(ctx context.Context, username, password string) (*directory.Entry, error) {
	auth, ok := r.manager.dir.(directory.Authenticator)
	if !ok {
		return nil, withDetail(ErrNotSupported, "directory cannot authenticate")
	}
	if !r.manager.dir.IsConnected(ctx) {
		return nil, remoteFailure(errNotConnected, "authenticate", username)
	}

	entry, err := auth.Authenticate(ctx, "(sAMAccountName="+ldap.EscapeFilter(username)+")", password)
	if errors.Is(err, directory.ErrInvalidCredentials) {
		return nil, ErrAuthenticationFailed
	}
	if err != nil {
		return nil, remoteFailure(err, "authenticate", username)
	}
	return entry, nil
}

// Authenticate checks password against the account. Empty passwords fail
// without contacting the directory.
func (u *User) Authenticate(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	_, err := u.repo.bind(ctx, u.SAMAccountName(), password)
	if errors.Is(err, ErrAuthenticationFailed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SAMAccountName returns the logon name.
func (u *User) SAMAccountName() string { return u.Value("sAMAccountName") }

// DisplayName returns the display name.
func (u *User) DisplayName() string { return u.Value("displayName") }

// Mail returns the primary e-mail address.
func (u *User) Mail() string { return u.Value("mail") }

func (u *User) accountControl() int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(u.Value("userAccountControl")), 10, 64)
	return v
}

// Disabled reports whether the account is disabled.
func (u *User) Disabled() bool {
	return u.accountControl()&UACAccountDisabled != 0
}

// Locked reports whether the account is locked out.
func (u *User) Locked() bool {
	v := strings.TrimSpace(u.Value("lockoutTime"))
	return v != "" && v != "0"
}

// CanLogin reports whether the account is neither disabled nor locked.
func (u *User) CanLogin() bool {
	return !u.Disabled() && !u.Locked()
}

// Groups returns the groups the user directly belongs to.
func (u *User) Groups(ctx context.Context) ([]*Group, error) {
	dns := u.Values("memberOf")
	if len(dns) == 0 {
		return []*Group{}, nil
	}
	records, err := u.repo.manager.Groups().All(ctx, filter.Where{distinguishedName: dns})
	if err != nil {
		return nil, err
	}
	return AsGroups(records), nil
}

// IsMemberOf reports whether the user lists group in memberOf.
func (u *User) IsMemberOf(group codec.Identified) bool {
	return containsDN(u.Values("memberOf"), group.DN())
}

// DirectReports returns the users managed by this user.
func (u *User) DirectReports(ctx context.Context) ([]*User, error) {
	var cns []string
	for _, report := range u.Values("directReports") {
		if cn := dn.ParseCN(report); cn != "" {
			cns = append(cns, cn)
		}
	}
	if len(cns) == 0 {
		return []*User{}, nil
	}

	records, err := u.repo.All(ctx, filter.Where{"cn": cns})
	if err != nil {
		return nil, err
	}
	return AsUsers(records), nil
}

// Manager returns the user's manager, or nil when none is set.
func (u *User) Manager(ctx context.Context) (*User, error) {
	cn := dn.ParseCN(u.Value("manager"))
	if cn == "" {
		return nil, nil
	}
	rec, err := u.repo.First(ctx, filter.Where{"cn": cn})
	if err != nil {
		return nil, err
	}
	return AsUser(rec), nil
}

// ChangePassword replaces the password and unlocks the account. With
// forceChange the password is marked expired so the user must change it at
// next logon. Active Directory only accepts password writes over an
// encrypted connection.
func (u *User) ChangePassword(ctx context.Context, password string, forceChange bool) error {
	encoded, err := codec.EncodePassword(password)
	if err != nil {
		return err
	}
	pwdLastSet := "-1"
	if forceChange {
		pwdLastSet = "0"
	}

	err = u.apply(ctx, "change_password", []directory.Modification{
		{Op: directory.OpReplace, Attribute: "lockoutTime", Values: []string{"0"}},
		{Op: directory.OpReplace, Attribute: "unicodePwd", Values: []string{encoded}},
		{Op: directory.OpReplace, Attribute: "userAccountControl", Values: []string{strconv.Itoa(UACNormalAccount)}},
		{Op: directory.OpReplace, Attribute: "pwdLastSet", Values: []string{pwdLastSet}},
	})
	if err != nil {
		return err
	}
	return u.Reload(ctx)
}

// Unlock clears the lockout.
func (u *User) Unlock(ctx context.Context) error {
	err := u.apply(ctx, "unlock", []directory.Modification{
		{Op: directory.OpReplace, Attribute: "lockoutTime", Values: []string{"0"}},
	})
	if err != nil {
		return err
	}
	return u.Reload(ctx)
}

func (u *User) String() string {
	return u.DisplayName() + " (" + u.SAMAccountName() + ")"
}

// CompareUsers orders users by display name, surname, given name and
// account name.
func CompareUsers(a, b *User) int {
	for _, attr := range []string{"displayName", "sn", "givenName", "sAMAccountName"} {
		if c := strings.Compare(a.Value(attr), b.Value(attr)); c != 0 {
			return c
		}
	}
	return 0
}

func containsDN(list []string, target string) bool {
	for _, v := range list {
		if dn.Equal(v, target) {
			return true
		}
	}
	return false
}
