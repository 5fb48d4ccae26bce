// Package cli implements the apf command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/katalvlaran/apf/config"
	"github.com/katalvlaran/apf/observability"
)

// Version is set at build time:
//
//	go build -ldflags "-X github.com/katalvlaran/apf/cli.Version=1.2.3"
var Version = "0.1.0"

type configKey struct{}

var errNoConfig = errors.New("cli: configuration not loaded")

// NewRootCommand returns the apf command tree.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "apf",
		Short:         "Artificial potential field path planner.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.New(), cfgFile)
			if err != nil {
				return err
			}
			observability.InitializeLogger(cfg.Logger)
			observability.L().Debug("configuration loaded", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./apf.yaml)")
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	root.AddCommand(newPlanCommand(), newWatchCommand(), newViewCommand(), newVersionCommand())

	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	defer observability.Sync()
	return NewRootCommand().ExecuteContext(ctx)
}

func configFrom(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok {
		return nil, errNoConfig
	}
	return cfg, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the apf version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}
