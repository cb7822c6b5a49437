package cli

import (
	"os"

	"github.com/chainguard-dev/clog"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:               "cargo-clone",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Fetch the source of a crate from a registry",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := charmlog.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log := clog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{Level: level}))
			cmd.SetContext(clog.WithLogger(cmd.Context(), log))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		cmdClone(),
	)

	return cmd
}
