package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/tartampluch/go-addressbook/internal/bot"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
	"github.com/tartampluch/go-addressbook/internal/i18n"
	"github.com/tartampluch/go-addressbook/internal/server"
	"golang.org/x/sync/errgroup"
)

// CLI holds the command line flags. Flags override the settings file.
type CLI struct {
	Version kong.VersionFlag `short:"V" help:"${help_version}"`
	Debug   bool             `short:"d" help:"${help_debug}"`
	Config  string           `short:"c" type:"path" placeholder:"FILE" help:"${help_config}"`
	Lang    string           `short:"l" placeholder:"LANG" help:"${help_lang}"`
	Serve   bool             `short:"s" help:"${help_serve}"`
	Port    string           `short:"p" placeholder:"PORT" help:"${help_port}"`
	Import  []string         `short:"i" placeholder:"FILE" help:"${help_import}"`
}

// main is the application entry point.
// It delegates to runMain so that deferred calls (closing the log file) run before
// os.Exit, which skips defers.
func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain manages the application lifecycle and returns the process exit code.
func runMain(args []string) int {
	var cli CLI
	parser, err := newParser(&cli, os.Stdout, os.Exit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	}
	if _, err := parser.Parse(args); err != nil {
		parser.Errorf("%s", err)
		return config.ExitCodeError
	}

	logCloser := setupLogging(cli.Debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// Cancel on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	if err := run(ctx, &cli, os.Stdin, os.Stdout); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// newParser builds the kong parser. Help texts come from the config constants.
func newParser(cli *CLI, out io.Writer, exit func(int)) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("go-addressbook"),
		kong.Description(config.AppName),
		kong.Writers(out, out),
		kong.Exit(exit),
		kong.Vars{
			"version":      versionString(),
			"help_version": config.FlagDescVersion,
			"help_debug":   config.FlagDescDebug,
			"help_config":  config.FlagDescConfig,
			"help_lang":    config.FlagDescLang,
			"help_serve":   config.FlagDescServe,
			"help_port":    config.FlagDescPort,
			"help_import":  config.FlagDescImport,
		},
	)
}

// run loads the settings, wires the assistant and blocks until it stops.
func run(ctx context.Context, cli *CLI, in io.Reader, out io.Writer) error {
	path := cli.settingsPath()
	settings, err := config.LoadSettings(path)
	if err != nil {
		return err
	}
	cli.apply(settings)
	if err := settings.Validate(); err != nil {
		return err
	}
	slog.Info(config.MsgSettingsLoad,
		config.LogKeyComponent, config.CompSettings,
		config.LogKeyFile, path,
		config.LogKeyLang, settings.Language,
		config.LogKeyPort, settings.Server.Port,
	)

	tr, err := i18n.New(settings.Language)
	if err != nil {
		return err
	}

	opts := bot.Options{
		Translator:      tr,
		Fetcher:         engine.NewHTTPFetcher(),
		Credentials:     bot.NewKeyringStore(),
		Source:          settings.Source,
		ReminderTrigger: settings.ReminderTrigger(),
	}
	var srv *server.FeedServer
	if settings.Server.Enabled {
		srv = server.NewFeedServer(settings.Server.Port)
		opts.Publisher = srv
	}
	assistant := bot.New(in, out, opts)

	for _, file := range cli.Import {
		if _, err := assistant.Import(ctx, engine.Source{Location: file}); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	if err := assistant.Publish(ctx); err != nil {
		slog.Warn(config.ErrPublish,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
	}

	// The server stops when the assistant does; a server failure stops the assistant.
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	if srv != nil {
		g.Go(func() error { return srv.Start(gctx) })
	}
	g.Go(func() error {
		defer stop()
		return assistant.Run(gctx)
	})
	return g.Wait()
}

// settingsPath returns the --config value or the default file in the user config dir.
func (c *CLI) settingsPath() string {
	if c.Config != "" {
		return c.Config
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, config.AppID, config.SettingsFileName)
}

// apply overrides settings with the flags given on the command line.
func (c *CLI) apply(s *config.Settings) {
	if c.Lang != "" {
		s.Language = c.Lang
	}
	if c.Serve {
		s.Server.Enabled = true
	}
	if c.Port != "" {
		s.Server.Port = c.Port
	}
}

func versionString() string {
	return strings.TrimSpace(fmt.Sprintf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	))
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

// setupLogging configures the default slog logger. Stdout belongs to the assistant,
// so logs go to a file in the user cache dir, and to stderr in debug mode.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if debugMode {
		writers = append(writers, os.Stderr)
	}

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
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

	// Restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
