package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-directory-cache/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
	}

	var (
		url   string
		base  string
		force bool
	)

	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a settings file with defaults",
		Annotations: map[string]string{skipContainer: "true"},
		Example:     "  adictl config init --url ldaps://dc1.example.org:636 --base DC=example,DC=org",
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			settings := config.DefaultSettings()
			if url != "" {
				settings.Server.URL = url
			}
			settings.Server.Base = base
			if err := settings.Validate(); err != nil {
				return err
			}
			if err := config.SaveConfig(settings, path); err != nil {
				return err
			}

			cmd.Printf("Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&url, "url", "", "Server address")
	initCmd.Flags().StringVar(&base, "base", "", "Search base")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:         "show",
		Short:       "Print the effective settings",
		Annotations: map[string]string{skipContainer: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			settings, err := config.LoadConfig(path)
			if err != nil {
				return err
			}
			if settings.Server.Password != "" {
				settings.Server.Password = "********"
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(settings)
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}
