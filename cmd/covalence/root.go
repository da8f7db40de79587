package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gwi.com/covalence/internal/auth"
	"gwi.com/covalence/internal/config"
	"gwi.com/covalence/internal/core"
	"gwi.com/covalence/internal/mockdata"
	"gwi.com/covalence/internal/session"
	"gwi.com/covalence/internal/store"
	"gwi.com/covalence/internal/view"
)

var (
	version = "dev"
	commit  = "unknown"
)

// application is everything a command needs, built once per invocation.
type application struct {
	cfg      *config.Config
	logger   *slog.Logger
	storage  *store.SQLiteStore
	sessions *session.Store
	auth     *auth.Service
	chat     *core.ChatService
	mock     *mockdata.Data
	renderer *view.Renderer

	in *bufio.Reader
}

// input buffers stdin once so successive prompts do not lose lines.
func (a *application) input(cmd *cobra.Command) *bufio.Reader {
	if a.in == nil {
		a.in = bufio.NewReader(cmd.InOrStdin())
	}
	return a.in
}

func (a *application) Close() {
	if a.storage != nil {
		a.storage.Close()
	}
}

type rootOptions struct {
	verbose bool
	dbPath  string
	style   string
	width   int
	noDelay bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	app := &application{}

	cmd := &cobra.Command{
		Use:   "covalence",
		Short: "Terminal client for the Covalence enterprise data assistant demo",
		Long: `Covalence is a demo data assistant. Sign in with one of the demo
accounts (admin@demo.com, manager@demo.com, analyst@demo.com, intern@demo.com,
password "demo123") and ask questions about sales, trends or company policy.

The signed-in account is remembered between runs.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd.Context(), opts, cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to the local session database (default from DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.style, "style", "", "Glamour style for rendered output (dark, light, notty); auto-detected when empty")
	cmd.PersistentFlags().IntVar(&opts.width, "width", 100, "Word-wrap width for rendered output")
	cmd.PersistentFlags().BoolVar(&opts.noDelay, "no-delay", false, "Answer immediately instead of simulating latency")
	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	cmd.AddCommand(
		newSignInCmd(app),
		newSignUpCmd(app),
		newSignOutCmd(app),
		newWhoAmICmd(app),
		newNavCmd(app),
		newAskCmd(app),
		newChatCmd(app),
		newDashboardCmd(app),
		newAdminCmd(app),
	)
	return cmd
}

func (a *application) init(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.dbPath != "" {
		cfg.DatabaseURL = opts.dbPath
	}
	if opts.noDelay {
		cfg.ResponseDelay = 0
	}
	level := cfg.SlogLevel()
	if opts.verbose {
		level = slog.LevelDebug
	} else if level < slog.LevelWarn {
		// keep the terminal quiet unless asked
		level = slog.LevelWarn
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	a.storage, err = store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open session storage: %w", err)
	}

	a.sessions = session.NewStore(a.storage, cfg.SessionKey, a.logger)
	if _, err := a.sessions.Restore(ctx); err != nil {
		var decodeErr *session.DecodeError
		if !errors.As(err, &decodeErr) {
			return err
		}
		a.logger.Warn("discarded stored session", "error", err)
	}

	roster, err := auth.NewRoster(time.Now())
	if err != nil {
		return err
	}
	a.auth = auth.NewService(roster, a.sessions, a.logger)
	a.chat = core.NewChatService(cfg.ResponseDelay, a.logger)

	a.mock, err = mockdata.Load(cfg.MockDataPath)
	if err != nil {
		return err
	}

	a.renderer, err = view.NewRenderer(opts.width, opts.style)
	return err
}

// requireIdentity returns the signed-in identity or a user-facing error.
func (a *application) requireIdentity() (*session.Identity, error) {
	id := a.auth.Current()
	if id == nil {
		return nil, errors.New("not signed in; run `covalence signin` first")
	}
	return id, nil
}

func main() {
	ctx, cancel := signalContext()
	defer cancel()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, view.Error("Error: "+err.Error()))
		os.Exit(1)
	}
}
