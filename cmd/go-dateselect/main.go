package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-dateselect/internal/config"
	"github.com/tartampluch/go-dateselect/internal/engine"
	"github.com/tartampluch/go-dateselect/internal/exchange"
	"github.com/tartampluch/go-dateselect/internal/locale"
	"github.com/tartampluch/go-dateselect/internal/server"
	"github.com/tartampluch/go-dateselect/internal/ui"
)

// options are the command line overrides of config.Settings.
type options struct {
	lang   string
	min    string
	max    string
	port   string
	source string
	user   string
}

// main delegates to runMain so deferred closes run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain parses flags, sets up logging and returns the process exit code.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)

	var opts options
	flag.StringVar(&opts.lang, config.FlagLanguage, "", config.FlagDescLanguage)
	flag.StringVar(&opts.min, config.FlagMinDate, "", config.FlagDescMinDate)
	flag.StringVar(&opts.max, config.FlagMaxDate, "", config.FlagDescMaxDate)
	flag.StringVar(&opts.port, config.FlagPort, "", config.FlagDescPort)
	flag.StringVar(&opts.source, config.FlagImport, "", config.FlagDescImport)
	flag.StringVar(&opts.user, config.FlagImportUser, "", config.FlagDescUser)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run resolves settings, seeds the selection, and starts the UI loop.
func run(ctx context.Context, opts options) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	settings = opts.apply(settings)

	lo, err := parseBound(settings.MinDate)
	if err != nil {
		return err
	}
	hi, err := parseBound(settings.MaxDate)
	if err != nil {
		return err
	}

	clock := engine.RealClock{}
	selector := engine.New(
		engine.WithClock(clock),
		engine.WithMinDate(lo),
		engine.WithMaxDate(hi),
	)

	// Initialize Fyne App.
	a := app.NewWithID(config.AppID)

	srv := server.NewSelectionServer(settings.Port)
	gui := ui.NewDateSelectApp(a, ctx, srv, selector, locale.Default(), settings.Language)

	creds := exchange.Credentials{User: settings.ImportUser, Pass: settings.ImportPassword}
	if creds.User != "" && creds.Pass != "" {
		if err := exchange.StorePassword(creds.User, creds.Pass); err != nil {
			slog.Warn(config.ErrKeyringStore,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err,
			)
		}
	}

	if err := seed(ctx, gui, opts.source, creds, clock); err != nil {
		return err
	}

	// Lifecycle Bridge:
	// Watch for context cancellation to quit the UI gracefully.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	// Start the Application (blocks until main window closes).
	gui.Run()

	return nil
}

// apply overrides environment settings with the flags that were given.
func (o options) apply(s config.Settings) config.Settings {
	if o.lang != "" {
		s.Language = o.lang
	}
	if o.min != "" {
		s.MinDate = o.min
	}
	if o.max != "" {
		s.MaxDate = o.max
	}
	if o.port != "" {
		s.Port = o.port
	}
	if o.user != "" {
		s.ImportUser = o.user
	}
	return s
}

// parseBound turns a YYYY-MM-DD setting into a bound; empty means unbounded.
func parseBound(value string) (*engine.SelectionDate, error) {
	t, ok, err := config.ParseDate(value)
	if err != nil || !ok {
		return nil, err
	}
	return engine.BoundFromTime(t), nil
}

// seed writes the imported birthday, or today within the bounds, as the initial value.
func seed(ctx context.Context, gui *ui.DateSelectApp, source string, creds exchange.Credentials, clock engine.Clock) error {
	if source != "" {
		b, err := exchange.Import(ctx, source, exchange.NewHTTPFetcher(), creds)
		if err != nil {
			return err
		}
		gui.Name = b.Name
		return gui.Selector.Write(b.Date)
	}
	s := gui.Selector
	return s.Write(ui.DefaultSelection(clock, s.MinDate(), s.MaxDate()))
}

// printVersion outputs the build information to stdout and exits.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	// 1. Always write to Stdout.
	writers = append(writers, os.Stdout)

	// 2. Attempt to set up a file writer in the user's cache directory.
	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		// Use centralized permission constants for security.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
