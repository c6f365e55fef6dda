package directorycache

import (
	"context"

	"github.com/goliatone/go-directory-cache/codec"
	"github.com/goliatone/go-directory-cache/directory"
	"github.com/goliatone/go-directory-cache/dn"
	"github.com/goliatone/go-directory-cache/filter"
)

// Group adds membership behaviour to a group record.
type Group struct {
	*Record
}

// AsGroup wraps a record of the group type. It returns nil for nil records
// and records of other types.
func AsGroup(r *Record) *Group {
	if r == nil || r.Type().Name != codec.TypeGroup {
		return nil
	}
	return &Group{Record: r}
}

// AsGroups wraps every group record in records.
func AsGroups(records []*Record) []*Group {
	out := make([]*Group, 0, len(records))
	for _, r := range records {
		if g := AsGroup(r); g != nil {
			out = append(out, g)
		}
	}
	return out
}

// HasMembers reports whether the group lists any member.
func (g *Group) HasMembers() bool {
	return len(g.Values("member")) > 0
}

// IsMember reports whether member is listed in the group.
func (g *Group) IsMember(member codec.Identified) bool {
	return containsDN(g.Values("member"), member.DN())
}

// Groups returns the groups this group directly belongs to.
func (g *Group) Groups(ctx context.Context) ([]*Group, error) {
	return g.findGroups(ctx, g.Values("memberOf"))
}

// MemberUsers returns the users in the group. With recursive, users of
// nested groups are included, each once.
func (g *Group) MemberUsers(ctx context.Context, recursive bool) ([]*User, error) {
	users, err := g.findUsers(ctx, g.Values("member"))
	if err != nil || !recursive {
		return users, err
	}

	nested, err := g.MemberGroups(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, sub := range nested {
		more, err := sub.findUsers(ctx, sub.Values("member"))
		if err != nil {
			return nil, err
		}
		users = append(users, more...)
	}
	return uniqueUsers(users), nil
}

// MemberGroups returns the groups nested in the group. With recursive,
// groups nested at any depth are included, each once. Membership cycles are
// followed only once.
func (g *Group) MemberGroups(ctx context.Context, recursive bool) ([]*Group, error) {
	direct, err := g.findGroups(ctx, g.Values("member"))
	if err != nil || !recursive {
		return direct, err
	}

	seen := map[string]struct{}{dn.Normalize(g.DN()): {}}
	var out []*Group
	queue := direct
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		key := dn.Normalize(next.DN())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, next)

		children, err := next.findGroups(ctx, next.Values("member"))
		if err != nil {
			return nil, err
		}
		queue = append(queue, children...)
	}
	if out == nil {
		out = []*Group{}
	}
	return out, nil
}

// AddMember adds a user or group to the group. It succeeds when the member
// was already listed even if the directory rejects the write.
func (g *Group) AddMember(ctx context.Context, member codec.Identified) error {
	return g.changeMembership(ctx, directory.OpAdd, member, true)
}

// RemoveMember removes a user or group from the group. It succeeds when
// the member was not listed even if the directory rejects the write.
func (g *Group) RemoveMember(ctx context.Context, member codec.Identified) error {
	return g.changeMembership(ctx, directory.OpDelete, member, false)
}

func (g *Group) changeMembership(ctx context.Context, op directory.OpKind, member codec.Identified, wantMember bool) error {
	if member == nil || member.DN() == "" {
		return validationError("member must have a distinguished name")
	}

	err := g.apply(ctx, op.String()+"_member", []directory.Modification{
		{Op: op, Attribute: "member", Values: []string{member.DN()}},
	})
	if err != nil {
		if g.IsMember(member) == wantMember {
			return nil
		}
		return err
	}
	return g.Reload(ctx)
}

func (g *Group) findGroups(ctx context.Context, dns []string) ([]*Group, error) {
	if len(dns) == 0 {
		return []*Group{}, nil
	}
	records, err := g.repo.manager.Groups().All(ctx, filter.Where{distinguishedName: dns})
	if err != nil {
		return nil, err
	}
	return AsGroups(records), nil
}

func (g *Group) findUsers(ctx context.Context, dns []string) ([]*User, error) {
	if len(dns) == 0 {
		return []*User{}, nil
	}
	records, err := g.repo.manager.Users().All(ctx, filter.Where{distinguishedName: dns})
	if err != nil {
		return nil, err
	}
	return AsUsers(records), nil
}

func uniqueUsers(users []*User) []*User {
	out := make([]*User, 0, len(users))
	seen := map[string]struct{}{}
	for _, u := range users {
		key := dn.Normalize(u.DN())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, u)
	}
	return out
}
