package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-directory-cache/directorycache"
)

func newFindCmd() *cobra.Command {
	var (
		attributes []string
		first      bool
		dnOnly     bool
	)

	findCmd := &cobra.Command{
		Use:   "find <user|group|computer|base> [attribute=value ...]",
		Short: "Search for records",
		Long: `Search for records of a type. Conditions are ANDed; repeating an
attribute matches any of its values. Without conditions every record of
the type is returned.

Examples:
  adictl find user sAMAccountName=jdoe
  adictl find group cn=Admins cn=Staff --dn
  adictl find computer dNSHostName=ws01.example.org -a operatingSystem`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := managerFrom(cmd)
			if err != nil {
				return err
			}
			repo, err := manager.Repository(typeName(args[0]))
			if err != nil {
				return err
			}
			where, err := parseWhere(args[1:])
			if err != nil {
				return err
			}

			spec := directorycache.All
			if first {
				spec = directorycache.First
			}
			records, err := repo.Find(cmd.Context(), spec, where, attributes...)
			if err != nil {
				return err
			}
			return writeRecords(cmd.OutOrStdout(), records, dnOnly)
		},
	}

	findCmd.Flags().StringSliceVarP(&attributes, "attributes", "a", nil, "Extra attributes to fetch")
	findCmd.Flags().BoolVar(&first, "first", false, "Return the first match only")
	findCmd.Flags().BoolVar(&dnOnly, "dn", false, "Print distinguished names only")

	return findCmd
}
