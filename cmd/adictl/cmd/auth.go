package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	var password string

	authCmd := &cobra.Command{
		Use:   "auth <username>",
		Short: "Check an account's password",
		Long: `Check a password by binding as the account with the given
sAMAccountName. Without --password the password is read from the first
line of standard input.

Examples:
  adictl auth jdoe --password secret
  echo secret | adictl auth jdoe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := managerFrom(cmd)
			if err != nil {
				return err
			}

			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			user, err := manager.Users().Authenticate(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "authenticated %s\n", user.DN())
			return nil
		},
	}

	authCmd.Flags().StringVarP(&password, "password", "p", "", "Account password")

	return authCmd
}
