// eudoxa: qualitative multi-criteria decision MCP server.
//
// Options are compared through stated orderings of levels and of level
// differences; no preference is ever turned into a number.
//
// Usage:
//
//	eudoxa serve                  # Start MCP server (stdio transport)
//	eudoxa sessions               # List stored sessions
//	eudoxa dump <session>         # Print a session's model record as YAML
//	eudoxa load <name> <file>     # Create a session from a record file
//	eudoxa export <session> <xlsx>
//	eudoxa import <session> <xlsx>
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HendryAvila/eudoxa/internal/config"
	"github.com/HendryAvila/eudoxa/internal/errors"
	"github.com/HendryAvila/eudoxa/internal/logger"
	eudoxaserver "github.com/HendryAvila/eudoxa/internal/server"
	"github.com/HendryAvila/eudoxa/internal/sessions"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, h := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", h)
		}
		os.Exit(1)
	}
}

// app holds what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.SugaredLogger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "eudoxa",
		Short: "Qualitative multi-criteria decision engine",
		Long: `eudoxa compares options described by levels of several aspects using
only stated orderings: which level is better, and which improvement is
worth more. It derives everything those statements entail and reports
dominance between options.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (YAML, TOML or JSON)")

	root.AddCommand(
		newServeCmd(a),
		newVersionCmd(),
		newSessionsCmd(a),
		newDumpCmd(a),
		newLoadCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

// manager opens the session store. The returned cleanup closes it.
func (a *app) manager() (*sessions.Manager, func(), error) {
	store, err := sessions.New(sessions.Config{DataDir: a.cfg.DataDir})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			a.log.Warnw("session store close", "error", err)
		}
	}
	return sessions.NewManager(store, a.log.Named("sessions")), cleanup, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// The version needs no config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "eudoxa v%s\n", eudoxaserver.Version)
		},
	}
}
