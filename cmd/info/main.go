package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/infodoc"
	"github.com/fwojciec/infodoc/fs"
	"github.com/fwojciec/infodoc/nav"
	infoslog "github.com/fwojciec/infodoc/slog"
	"github.com/fwojciec/infodoc/sqlite"
)

func main() {
	// Interrupting a long apropos scan cancels the remaining manuals.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var r *reportedError
		if !errors.As(err, &r) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Index cache database path. Set before calling Run().
	DBPath string

	// DefaultPath overrides the standard Info directories searched after
	// the --path directories. Nil means fs.DefaultInfoPath().
	DefaultPath []string

	// SQLite database backing the index cache; nil with --no-cache.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("info"),
		kong.Description("Read and search GNU Info manuals."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'info --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := m.wire(cli, deps); err != nil {
		return err
	}
	defer m.Close()

	return kongCtx.Run(deps)
}

// wire builds the engine and session for one invocation, opening the index
// cache unless it is disabled.
func (m *Main) wire(cli *CLI, deps *Dependencies) error {
	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	locator := fs.NewLocator(cli.Path...)
	if m.DefaultPath != nil {
		locator.DefaultPath = m.DefaultPath
	}
	engine := nav.NewEngine(
		infoslog.NewLoggingLocator(locator, logger),
		infoslog.NewLoggingLoader(fs.NewLoader(fs.DefaultCacheSize), logger),
	)
	engine.Logger = logger

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	if !cli.NoCache && m.DBPath != "" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			m.DB = nil
			fmt.Fprintf(deps.Stderr, "Hint: set INFODOC_DB to use a different database path or pass --no-cache\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		deps.Cache = sqlite.NewIndexCache(m.DB)
		engine.IndexCache = infoslog.NewLoggingIndexCache(deps.Cache, logger)
	}

	deps.Engine = engine
	deps.Session = nav.NewSession(engine)
	deps.Session.Strict = cli.Strict
	return nil
}

func defaultDBPath() string {
	if path := os.Getenv("INFODOC_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "infodoc.db"
	}
	dir := filepath.Join(home, ".infodoc")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "index.db")
}

// reportedError marks an error already printed by a command.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// fail reports err on stderr and returns it.
func fail(deps *Dependencies, err error) error {
	if infodoc.ErrorCode(err) == infodoc.EINTERNAL {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
	} else {
		fmt.Fprintf(deps.Stderr, "error: %s\n", infodoc.ErrorMessage(err))
	}
	return &reportedError{err: err}
}
