package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-directory-cache/directorycache"
	"github.com/goliatone/go-directory-cache/filter"
)

func newMembersCmd() *cobra.Command {
	var (
		recursive bool
		groups    bool
	)

	membersCmd := &cobra.Command{
		Use:   "members <group>",
		Short: "List the members of a group",
		Long: `List the users that are members of a group, given by distinguished
name or common name. With --recursive members of nested groups are
included.

Examples:
  adictl members Admins
  adictl members "CN=Admins,OU=Groups,DC=example,DC=org" --recursive
  adictl members Admins --groups`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := managerFrom(cmd)
			if err != nil {
				return err
			}
			rec, err := lookup(cmd.Context(), manager.Groups(), "cn", args[0])
			if err != nil {
				return err
			}
			group := directorycache.AsGroup(rec)

			var dns []string
			if groups {
				members, err := group.MemberGroups(cmd.Context(), recursive)
				if err != nil {
					return err
				}
				dns = sortedDNs(members)
			} else {
				members, err := group.MemberUsers(cmd.Context(), recursive)
				if err != nil {
					return err
				}
				dns = sortedDNs(members)
			}

			for _, dn := range dns {
				fmt.Fprintln(cmd.OutOrStdout(), dn)
			}
			return nil
		},
	}

	membersCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include members of nested groups")
	membersCmd.Flags().BoolVar(&groups, "groups", false, "List member groups instead of users")

	return membersCmd
}

func newGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups <user>",
		Short: "List the groups a user belongs to",
		Long: `List the groups a user directly belongs to. The user is given by
distinguished name or sAMAccountName.

Example:
  adictl groups jdoe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := managerFrom(cmd)
			if err != nil {
				return err
			}
			rec, err := lookup(cmd.Context(), manager.Users(), "sAMAccountName", args[0])
			if err != nil {
				return err
			}

			groups, err := directorycache.AsUser(rec).Groups(cmd.Context())
			if err != nil {
				return err
			}
			for _, dn := range sortedDNs(groups) {
				fmt.Fprintln(cmd.OutOrStdout(), dn)
			}
			return nil
		},
	}
}

// lookup finds one record by distinguished name, or by attr when name does
// not look like one.
func lookup(ctx context.Context, repo *directorycache.Repository, attr, name string) (*directorycache.Record, error) {
	key := attr
	if strings.Contains(name, "=") && strings.Contains(name, ",") {
		key = "distinguishedName"
	}

	rec, err := repo.First(ctx, filter.Where{key: name})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%s %q not found", strings.ToLower(repo.Type().Name), name)
	}
	return rec, nil
}
