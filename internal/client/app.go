package client

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/go-user-auth/internal/adapter"
	"github.com/MKhiriev/go-user-auth/internal/config"
	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/spf13/cobra"
)

// App is the CLI. The adapter is created in the root command's pre-run, so
// the address and timeout flags can still override the loaded config.
type App struct {
	cfg config.ClientAdapter

	newAdapter   AdapterFactory
	readPassword PasswordReader

	// adapter is set for the duration of one Run.
	adapter adapter.ServerAdapter

	// sessionID is the value of the --session flag.
	sessionID string

	version string
	out     io.Writer
	errOut  io.Writer

	logger *logger.Logger
}

// Option customises an App.
type Option func(*App)

// WithAdapterFactory replaces the resty adapter.
func WithAdapterFactory(f AdapterFactory) Option {
	return func(a *App) { a.newAdapter = f }
}

// WithPasswordReader replaces the terminal prompt.
func WithPasswordReader(r PasswordReader) Option {
	return func(a *App) { a.readPassword = r }
}

// WithOutput redirects command output.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

// WithVersion sets the string printed by --version.
func WithVersion(version string) Option {
	return func(a *App) { a.version = version }
}

func NewApp(cfg config.ClientAdapter, logger *logger.Logger, opts ...Option) *App {
	app := &App{
		cfg:          cfg,
		newAdapter:   adapter.NewHTTPServerAdapter,
		readPassword: TerminalPasswordReader(nil, nil),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run implements [Client].
func (a *App) Run(ctx context.Context, args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	if a.out != nil {
		root.SetOut(a.out)
	}
	if a.errOut != nil {
		root.SetErr(a.errOut)
	}
	return root.ExecuteContext(ctx)
}

func (a *App) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth-client",
		Short: "Client for the user authentication service",
		Long: `auth-client registers accounts, opens and closes sessions and resets
passwords against a running auth server.`,
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ad, err := a.newAdapter(a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("create server adapter: %w", err)
			}
			ad.SetSessionID(a.sessionID)
			a.adapter = ad
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.cfg.HTTPAddress, "address", "a", a.cfg.HTTPAddress, "auth server base URL")
	flags.DurationVar(&a.cfg.RequestTimeout, "timeout", orDefault(a.cfg.RequestTimeout, 10*time.Second), "request timeout")
	flags.StringVar(&a.sessionID, "session", "", "session id printed by the login command")

	cmd.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.profileCmd(),
		a.logoutCmd(),
		a.resetTokenCmd(),
		a.updatePasswordCmd(),
		a.e2eCmd(),
	)

	return cmd
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
