package service

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"conexa/app/metrics"
	"conexa/app/repositories"
	"conexa/app/services"
)

func (c *cli) backendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backend",
		Short: "Run and maintain the reference backend",
	}

	var seed bool
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference backend REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serveBackend(cmd.Context(), seed)
		},
	}
	serve.Flags().BoolVar(&seed, "seed", false, "seed the database when it is empty")

	var initSeed bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.initDB(initSeed)
		},
	}
	initCmd.Flags().BoolVar(&initSeed, "seed", false, "fill the new database with demo forums, users and listings")

	clean := &cobra.Command{
		Use:   "clean",
		Short: "Remove every record from the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.clean()
		},
	}

	backup := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.backup()
			return err
		},
	}

	restore := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.restore(args[0])
		},
	}

	cmd.AddCommand(serve, initCmd, clean, backup, restore)
	return cmd
}

func (c *cli) serveBackend(ctx context.Context, seed bool) error {
	m := metrics.New()
	store, handler, err := c.openBackend(m, seed)
	if err != nil {
		return err
	}
	defer store.Close()

	ln, err := net.Listen("tcp", c.cfg.Backend.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", c.cfg.Backend.Address, err)
	}
	g, ctx := errgroup.WithContext(ctx)
	return c.run(ctx, g, []server{{name: "backend", srv: newHTTPServer(handler), ln: ln}})
}

func (c *cli) dbExists() bool {
	_, err := os.Stat(c.cfg.Backend.DBPath)
	return err == nil
}

func (c *cli) openStore() (*repositories.Store, error) {
	if err := os.MkdirAll(c.cfg.Backend.DBPath, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	return repositories.OpenStore(c.cfg.Backend.DBPath, c.logger)
}

func (c *cli) initDB(seed bool) error {
	if c.dbExists() {
		fmt.Fprintln(c.out, "Database already exists. Use 'clean' first if you want to reinitialize.")
		return nil
	}
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if seed {
		svc := services.New(services.FromStore(store), c.cfg.Backend.TokenTTL)
		res, err := svc.Seed()
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Fprintf(c.out, "Seeded %d forums, %d users, %d posts, %d comments and %d listings (password %q)\n",
			res.Forums, res.Users, res.Posts, res.Comments, res.Listings, services.SeedPassword)
	}
	fmt.Fprintln(c.out, "Database initialized successfully")
	return nil
}

func (c *cli) clean() error {
	if !c.dbExists() {
		fmt.Fprintln(c.out, "Database is already clean (does not exist)")
		return nil
	}
	if !c.confirm("Are you sure you want to clean the database? This cannot be undone.") {
		return nil
	}
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return fmt.Errorf("clean database: %w", err)
	}
	fmt.Fprintln(c.out, "Database cleaned successfully")
	return nil
}

// backup writes a backup next to the database directory and returns its
// path.
func (c *cli) backup() (string, error) {
	if !c.dbExists() {
		fmt.Fprintln(c.out, "No database exists to backup")
		return "", nil
	}

	dir := filepath.Join(filepath.Dir(c.cfg.Backend.DBPath), "backups")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}
	store, err := c.openStore()
	if err != nil {
		return "", err
	}
	defer store.Close()

	path := filepath.Join(dir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	if _, err := store.Backup(f); err != nil {
		return "", fmt.Errorf("backup database: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	fmt.Fprintf(c.out, "Database backed up successfully to %s (%s)\n", path, humanize.Bytes(uint64(info.Size())))
	return path, nil
}

func (c *cli) restore(file string) error {
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("backup file does not exist: %s", file)
	}
	if info.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", file)
	}

	if c.dbExists() {
		if !c.confirm("Existing database found. Do you want to replace it?") {
			return errCancelled
		}
		if err := os.RemoveAll(c.cfg.Backend.DBPath); err != nil {
			return fmt.Errorf("remove existing database: %w", err)
		}
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return store.Restore(f)
	}()
	if err != nil {
		return fmt.Errorf("restore database: %w", err)
	}
	fmt.Fprintln(c.out, "Database restored successfully")
	return nil
}
