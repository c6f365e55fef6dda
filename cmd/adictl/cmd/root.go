package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-directory-cache/config"
	"github.com/goliatone/go-directory-cache/directorycache"
	"github.com/goliatone/go-directory-cache/pkg/di"
)

// ContainerFactory builds the container from the settings file at path.
type ContainerFactory func(path string, overrides Overrides) (*di.Container, error)

// Overrides holds settings given on the command line.
type Overrides struct {
	LogLevel string
	NoCache  bool
}

type containerKey struct{}

// skipContainer marks commands that run without a directory connection.
const skipContainer = "skip-container"

// DefaultContainerFactory loads the settings file and applies overrides.
func DefaultContainerFactory(path string, overrides Overrides) (*di.Container, error) {
	settings, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	applyOverrides(settings, overrides)
	return di.NewContainer(settings)
}

func applyOverrides(settings *config.Settings, overrides Overrides) {
	if overrides.LogLevel != "" {
		settings.Logging.Level = overrides.LogLevel
	}
	if overrides.NoCache {
		settings.Cache.Enabled = false
	}
}

// NewRootCmd builds the command tree. Commands other than config get the
// container built by factory.
func NewRootCmd(factory ContainerFactory) *cobra.Command {
	var (
		configPath string
		overrides  Overrides
	)

	rootCmd := &cobra.Command{
		Use:   "adictl",
		Short: "adictl - Active Directory lookups",
		Long: `adictl searches an Active Directory server for users, groups and
computers, and authenticates accounts against it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipContainer] == "true" {
				return nil
			}
			container, err := factory(configPath, overrides)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", configPath, err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), containerKey{}, container))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if container, err := containerFrom(cmd); err == nil {
				container.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(), "Settings file")
	rootCmd.PersistentFlags().StringVar(&overrides.LogLevel, "log-level", "", "Override logging.level")
	rootCmd.PersistentFlags().BoolVar(&overrides.NoCache, "no-cache", false, "Disable the record cache")

	rootCmd.AddCommand(
		newFindCmd(),
		newMembersCmd(),
		newGroupsCmd(),
		newAuthCmd(),
		newConfigCmd(),
	)

	return rootCmd
}

func containerFrom(cmd *cobra.Command) (*di.Container, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New("container not found in context")
	}
	container, ok := ctx.Value(containerKey{}).(*di.Container)
	if !ok {
		return nil, errors.New("container not found in context")
	}
	return container, nil
}

func managerFrom(cmd *cobra.Command) (*directorycache.Manager, error) {
	container, err := containerFrom(cmd)
	if err != nil {
		return nil, err
	}
	return container.Manager(), nil
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	if err := NewRootCmd(DefaultContainerFactory).Execute(); err != nil {
		os.Exit(1)
	}
}
