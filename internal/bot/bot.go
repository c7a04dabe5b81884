package bot

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
	"github.com/tartampluch/go-addressbook/internal/i18n"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Publisher receives the rendered feeds after every change of the directory.
type Publisher interface {
	Publish(route string, data []byte) error
}

// Options wires the assistant to its collaborators. Only Translator is required.
type Options struct {
	Translator  *i18n.Translator
	Directory   *book.Directory
	Clock       book.Clock
	Fetcher     engine.VCardFetcher
	Credentials CredentialStore
	Publisher   Publisher

	// Source is the default location of the import command.
	Source config.Source
	// ReminderTrigger is passed to the calendar generator.
	ReminderTrigger string
}

// Assistant is the interactive command loop around a contact directory.
type Assistant struct {
	in      io.Reader
	console *console

	tr        *i18n.Translator
	dir       *book.Directory
	clock     book.Clock
	fetcher   engine.VCardFetcher
	creds     CredentialStore
	publisher Publisher
	source    config.Source

	caser    cases.Caser
	importer *engine.Importer
	exporter engine.Exporter
	calendar *engine.CalendarGenerator
}

type reply struct {
	text string
	tone tone
	stop bool
}

// New creates an assistant reading commands from in and writing replies to out.
func New(in io.Reader, out io.Writer, opts Options) *Assistant {
	a := &Assistant{
		in:        in,
		console:   newConsole(out),
		tr:        opts.Translator,
		dir:       opts.Directory,
		clock:     opts.Clock,
		fetcher:   opts.Fetcher,
		creds:     opts.Credentials,
		publisher: opts.Publisher,
		source:    opts.Source,
		caser:     cases.Title(language.Und),
	}
	if a.dir == nil {
		a.dir = book.NewDirectory()
	}
	if a.clock == nil {
		a.clock = book.RealClock{}
	}
	a.importer = &engine.Importer{NormalizeName: a.normalizeName}
	a.calendar = &engine.CalendarGenerator{
		Clock:           a.clock,
		FormatSummary:   a.tr.SummaryFormatter(),
		FormatGreeting:  a.tr.GreetingFormatter(),
		ReminderTrigger: opts.ReminderTrigger,
	}
	return a
}

// Directory returns the directory the assistant works on.
func (a *Assistant) Directory() *book.Directory {
	return a.dir
}

// Run prints the welcome message and handles commands until close/exit, end of input
// or context cancellation.
func (a *Assistant) Run(ctx context.Context) error {
	slog.Info(config.MsgBotStarted, config.LogKeyComponent, config.CompBot)
	defer slog.Info(config.MsgBotStopped, config.LogKeyComponent, config.CompBot)

	a.console.heading(a.tr.T(config.TKeyWelcome, nil))

	// Reading happens on its own goroutine so that a cancelled context is noticed
	// while the user is idle at the prompt.
	lines := make(chan string)
	readErr := make(chan error, config.ChannelBufferSize)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(a.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		a.console.ask(a.tr.T(config.TKeyPrompt, nil))

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("%s: %w", config.ErrReadInput, err)
				}
				return nil
			}
			r := a.execute(ctx, line)
			a.console.reply(r)
			if r.stop {
				return nil
			}
		}
	}
}

// Import loads a vCard source into the directory, reading the password of remote
// sources from the credential store when the user is known.
func (a *Assistant) Import(ctx context.Context, src engine.Source) (engine.ImportStats, error) {
	if src.IsRemote() && src.User != "" && src.Pass == "" && a.creds != nil {
		if pass, err := a.creds.Get(src.User); err == nil {
			src.Pass = pass
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyComponent, config.CompBot,
				config.LogKeyUser, src.User,
				config.LogKeyError, err)
		}
	}

	rc, err := engine.Open(ctx, src, a.fetcher)
	if err != nil {
		return engine.ImportStats{}, err
	}
	defer func() { _ = rc.Close() }()

	return a.importer.Import(ctx, rc, a.dir)
}

// Publish renders the calendar and the vCard export and hands them to the publisher.
func (a *Assistant) Publish(ctx context.Context) error {
	if a.publisher == nil {
		return nil
	}

	cal, err := a.calendar.Generate(ctx, a.dir)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPublish, err)
	}
	var cards bytes.Buffer
	if _, err := a.exporter.Export(&cards, a.dir); err != nil {
		return fmt.Errorf("%s: %w", config.ErrPublish, err)
	}

	return errors.Join(
		a.publisher.Publish(config.RouteCalendar, cal),
		a.publisher.Publish(config.RouteContacts, cards.Bytes()),
	)
}

// parseInput splits a line into a lower-cased command and its arguments.
func parseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

func (a *Assistant) execute(ctx context.Context, line string) reply {
	name, args := parseInput(line)
	if name == "" {
		return a.failure(config.TKeyErrEmptyInput, nil)
	}
	cmd, ok := commands[name]
	if !ok {
		return a.failure(config.TKeyErrInvalidCommand, nil)
	}

	r, err := cmd.run(a, ctx, args)
	if cmd.mutates {
		if perr := a.Publish(ctx); perr != nil {
			slog.Warn(config.ErrPublish,
				config.LogKeyComponent, config.CompBot,
				config.LogKeyError, perr)
		}
	}
	if err != nil {
		slog.Debug(config.MsgCommandFailed,
			config.LogKeyComponent, config.CompBot,
			config.LogKeyCommand, name,
			config.LogKeyError, err)
		return a.errorReply(err)
	}

	// Arguments may carry passwords; only their count is logged.
	slog.Debug(config.MsgCommand,
		config.LogKeyComponent, config.CompBot,
		config.LogKeyCommand, name,
		config.LogKeyArgs, len(args))
	return r
}

// errorMessages maps error kinds to the fixed message shown to the user.
var errorMessages = []struct {
	err error
	key string
}{
	{book.ErrInvalidPhoneFormat, config.TKeyErrInvalidPhone},
	{book.ErrInvalidDateFormat, config.TKeyErrInvalidDate},
	{book.ErrNotFound, config.TKeyErrNotFound},
	{book.ErrMissingArgument, config.TKeyErrMissingArg},
}

func (a *Assistant) errorReply(err error) reply {
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return a.failure(m.key, nil)
		}
	}
	return a.failure(config.TKeyErrOperation, map[string]any{"Error": err.Error()})
}

func (a *Assistant) normalizeName(name string) string {
	return a.caser.String(strings.TrimSpace(name))
}

func (a *Assistant) info(key string, data map[string]any) reply {
	return reply{text: a.tr.T(key, data), tone: toneInfo}
}

func (a *Assistant) success(key string, data map[string]any) reply {
	return reply{text: a.tr.T(key, data), tone: toneSuccess}
}

func (a *Assistant) failure(key string, data map[string]any) reply {
	return reply{text: a.tr.T(key, data), tone: toneError}
}
