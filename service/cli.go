// Package service holds the conexa command line: the web frontend server,
// the reference backend and the database maintenance commands.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"conexa/app/config"
	"conexa/app/logging"
)

// Version is reported by the version command.
const Version = "1.0.0"

var errCancelled = errors.New("operation cancelled")

type cli struct {
	out io.Writer
	in  io.Reader

	configPath string
	dbPath     string

	cfg    *config.Config
	logger *zap.Logger

	// ready, when set, receives the bound address of each server.
	ready func(addrs map[string]string)
}

// Execute runs the command line in args and returns the process exit code.
func Execute(ctx context.Context, args []string, out io.Writer, in io.Reader) int {
	root := NewRootCommand(out, in)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errCancelled) {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// NewRootCommand builds the conexa command tree writing to out and reading
// confirmations from in.
func NewRootCommand(out io.Writer, in io.Reader) *cobra.Command {
	c := &cli{out: out, in: in}

	root := &cobra.Command{
		Use:           "conexa",
		Short:         "CONEXA community portal and freight marketplace",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New("a command is required")
		},
	}
	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(in)
	root.PersistentFlags().StringVar(&c.configPath, "config", "config.yaml", "path to the YAML config file")
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "badger database directory, overriding the config")

	root.AddCommand(c.serveCommand(), c.backendCommand(), c.versionCommand())
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.dbPath != "" {
		cfg.Backend.DBPath = c.dbPath
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.out, "conexa version %s\n", Version)
		},
	}
}

// confirm asks question and reports whether the answer was y or Y.
func (c *cli) confirm(question string) bool {
	fmt.Fprintf(c.out, "%s [y/N] ", question)
	var response string
	fmt.Fscanln(c.in, &response)
	if response != "y" && response != "Y" {
		fmt.Fprintln(c.out, "Operation cancelled")
		return false
	}
	return true
}
