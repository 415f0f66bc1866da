package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/service"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errPasswordsDoNotMatch = errors.New("passwords do not match")

// cli holds what every subcommand shares: the config file flag and the
// terminal streams.
type cli struct {
	configPath string

	in     io.Reader
	out    io.Writer
	reader *bufio.Reader

	// readPassword prompts for a secret without echo when in is a terminal.
	readPassword func(prompt string) (string, error)
}

func newRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{in: in, out: out}
	c.readPassword = c.promptPassword

	root := &cobra.Command{
		Use:          "libraryctl",
		Short:        "Administer a library server",
		SilenceUsage: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a JSON configuration file")

	root.AddCommand(
		c.migrateCommand(),
		c.bootstrapCommand(),
		c.setPasswordCommand(),
		c.pingCommand(),
	)

	return root
}

func (c *cli) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, log, err := c.load(cmd.Context())
			if err != nil {
				return err
			}

			db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
			if err != nil {
				return fmt.Errorf("error connecting to database: %w", err)
			}
			defer db.Close()

			if err = db.Migrate(ctx); err != nil {
				return fmt.Errorf("error migrating database: %w", err)
			}

			fmt.Fprintf(c.out, "database schema is up to date (%s)\n", db.Dialect())
			return nil
		},
	}
}

func (c *cli) bootstrapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Migrate the database and create the librarian account if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withServices(cmd.Context(), func(ctx context.Context, cfg *config.StructuredConfig, services *service.Services) error {
				created, err := services.AuthService.EnsureLibrarian(ctx)
				if err != nil {
					return fmt.Errorf("error bootstrapping librarian: %w", err)
				}

				if !created {
					fmt.Fprintln(c.out, "a librarian account already exists")
					return nil
				}

				fmt.Fprintf(c.out, "librarian %s created\n", cfg.App.Librarian.Email)
				if cfg.App.Librarian.Password == config.DefaultLibrarianPassword {
					fmt.Fprintln(c.out, "WARNING: the librarian uses the default password; change it with `libraryctl set-password`")
				}
				return nil
			})
		},
	}
}

func (c *cli) setPasswordCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Replace the password of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := c.readPassword("New password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			confirmation, err := c.readPassword("Repeat password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if password != confirmation {
				return errPasswordsDoNotMatch
			}

			return c.withServices(cmd.Context(), func(ctx context.Context, _ *config.StructuredConfig, services *service.Services) error {
				if err := services.AuthService.ChangePassword(ctx, email, password); err != nil {
					return fmt.Errorf("error changing password: %w", err)
				}

				fmt.Fprintf(c.out, "password of %s changed\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the account")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (c *cli) pingCommand() *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that a library server answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := utils.NewHTTPClient(url, timeout).R().
				SetContext(cmd.Context()).
				Get("/login")
			if err != nil {
				return fmt.Errorf("error reaching %s: %w", url, err)
			}
			if resp.StatusCode() != http.StatusOK {
				return fmt.Errorf("unexpected status from %s: %s", url, resp.Status())
			}

			fmt.Fprintf(c.out, "ok (trace id %s, %s)\n", resp.Header().Get("X-Trace-ID"), resp.Time().Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://"+config.DefaultHTTPAddress, "base URL of the server")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")

	return cmd
}

// load reads the configuration and returns a context carrying the logger.
func (c *cli) load(ctx context.Context) (context.Context, *config.StructuredConfig, *logger.Logger, error) {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error getting configs: %w", err)
	}

	log := logger.NewLogger("libraryctl")
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		return nil, nil, nil, err
	}

	return log.WithContext(ctx), cfg, log, nil
}

// withServices opens and migrates the database, builds the services and
// runs fn with them.
func (c *cli) withServices(ctx context.Context, fn func(context.Context, *config.StructuredConfig, *service.Services) error) error {
	ctx, cfg, log, err := c.load(ctx)
	if err != nil {
		return err
	}

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if err = db.Migrate(ctx); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	storages, err := store.NewStorages(db, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}

	return fn(ctx, cfg, service.NewServices(storages, *cfg, log))
}

// promptPassword reads a password without echo from a terminal, or one line
// from a pipe.
func (c *cli) promptPassword(prompt string) (string, error) {
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(c.out, prompt)
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.out)
		if err != nil {
			return "", err
		}
		return string(password), nil
	}

	return c.readLine()
}

func (c *cli) readLine() (string, error) {
	if c.reader == nil {
		c.reader = bufio.NewReader(c.in)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
