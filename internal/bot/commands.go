package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/engine"
)

type command struct {
	run func(a *Assistant, ctx context.Context, args []string) (reply, error)
	// mutates marks commands after which the feeds are republished.
	mutates bool
}

var commands = map[string]command{
	config.CmdHello:        {run: (*Assistant).hello},
	config.CmdClose:        {run: (*Assistant).goodbye},
	config.CmdExit:         {run: (*Assistant).goodbye},
	config.CmdAdd:          {run: (*Assistant).addContact, mutates: true},
	config.CmdChange:       {run: (*Assistant).changeContact, mutates: true},
	config.CmdPhone:        {run: (*Assistant).showPhones},
	config.CmdAll:          {run: (*Assistant).showAll},
	config.CmdDelete:       {run: (*Assistant).deleteContact, mutates: true},
	config.CmdRemovePhone:  {run: (*Assistant).removePhone, mutates: true},
	config.CmdAddBirthday:  {run: (*Assistant).addBirthday, mutates: true},
	config.CmdShowBirthday: {run: (*Assistant).showBirthday},
	config.CmdBirthdays:    {run: (*Assistant).upcoming},
	config.CmdImport:       {run: (*Assistant).importCards, mutates: true},
	config.CmdExport:       {run: (*Assistant).exportCards},
	config.CmdCalendar:     {run: (*Assistant).writeCalendar},
	config.CmdSavePassword: {run: (*Assistant).savePassword},
	config.CmdClear:        {run: (*Assistant).clearConsole},
}

func missingArgument(cmd string) error {
	return fmt.Errorf("%w: %s", book.ErrMissingArgument, cmd)
}

// lookup resolves the record named by args[0].
func (a *Assistant) lookup(cmd string, args []string) (*book.Record, error) {
	if len(args) == 0 {
		return nil, missingArgument(cmd)
	}
	return a.dir.Find(a.normalizeName(args[0]))
}

func (a *Assistant) hello(context.Context, []string) (reply, error) {
	return a.info(config.TKeyHello, nil), nil
}

func (a *Assistant) goodbye(context.Context, []string) (reply, error) {
	r := a.info(config.TKeyGoodbye, nil)
	r.stop = true
	return r, nil
}

// addContact creates the contact if needed, then adds the optional phone. The phone is
// validated first so that an invalid number leaves the directory untouched.
func (a *Assistant) addContact(_ context.Context, args []string) (reply, error) {
	if len(args) == 0 {
		return reply{}, missingArgument(config.CmdAdd)
	}
	name := a.normalizeName(args[0])
	if len(args) > 1 {
		if _, err := book.ParsePhone(args[1]); err != nil {
			return reply{}, err
		}
	}

	key := config.TKeyContactUpdated
	record, err := a.dir.Find(name)
	if errors.Is(err, book.ErrNotFound) {
		if record, err = book.NewRecord(name); err != nil {
			return reply{}, err
		}
		a.dir.AddRecord(record)
		key = config.TKeyContactAdded
	}

	if len(args) > 1 {
		if _, err := record.AddPhone(args[1]); err != nil {
			return reply{}, err
		}
	}
	return a.success(key, map[string]any{"Name": name}), nil
}

// changeContact replaces a phone. An unknown contact is created like with add.
func (a *Assistant) changeContact(ctx context.Context, args []string) (reply, error) {
	record, err := a.lookup(config.CmdChange, args)
	if errors.Is(err, book.ErrNotFound) {
		return a.addContact(ctx, args)
	}
	if err != nil {
		return reply{}, err
	}
	if len(args) < 3 {
		return reply{}, missingArgument(config.CmdChange)
	}
	if _, err := book.ParsePhone(args[1]); err != nil {
		return reply{}, err
	}

	data := map[string]any{"Name": record.Name()}
	outcome, err := record.EditPhone(args[1], args[2])
	switch outcome {
	case book.EditUpdated:
		return a.success(config.TKeyPhoneUpdated, data), nil
	case book.EditUnchanged:
		return a.info(config.TKeyPhoneUnchanged, data), nil
	case book.EditNotFound:
		return a.failure(config.TKeyPhoneNotFound, data), nil
	default:
		return reply{}, err
	}
}

func (a *Assistant) showPhones(_ context.Context, args []string) (reply, error) {
	record, err := a.lookup(config.CmdPhone, args)
	if err != nil {
		return reply{}, err
	}
	phones := record.PhoneValues()
	if len(phones) == 0 {
		return a.info(config.TKeyPhonesEmpty, map[string]any{"Name": record.Name()}), nil
	}
	return reply{text: quoteList(phones), tone: toneInfo}, nil
}

func (a *Assistant) showAll(context.Context, []string) (reply, error) {
	if a.dir.Len() == 0 {
		return a.info(config.TKeyBookEmpty, nil), nil
	}

	lines := make([]string, 0, a.dir.Len())
	for _, r := range a.dir.Records() {
		phones := a.tr.T(config.TKeyRecordNoPhones, nil)
		if values := r.PhoneValues(); len(values) > 0 {
			phones = quoteList(values)
		}
		birthday := a.tr.T(config.TKeyRecordNoBirthday, nil)
		if b, ok := r.Birthday(); ok {
			birthday = b.String()
		}
		lines = append(lines, a.tr.T(config.TKeyRecordLine, map[string]any{
			"Name":     r.Name(),
			"Phones":   phones,
			"Birthday": birthday,
		}))
	}
	return reply{text: strings.Join(lines, "\n"), tone: toneInfo}, nil
}

func (a *Assistant) deleteContact(_ context.Context, args []string) (reply, error) {
	if len(args) == 0 {
		return reply{}, missingArgument(config.CmdDelete)
	}
	name := a.normalizeName(args[0])
	if !a.dir.Delete(name) {
		return reply{}, fmt.Errorf("%w: %q", book.ErrNotFound, name)
	}
	return a.success(config.TKeyContactDeleted, map[string]any{"Name": name}), nil
}

func (a *Assistant) removePhone(_ context.Context, args []string) (reply, error) {
	record, err := a.lookup(config.CmdRemovePhone, args)
	if err != nil {
		return reply{}, err
	}
	if len(args) < 2 {
		return reply{}, missingArgument(config.CmdRemovePhone)
	}
	data := map[string]any{"Name": record.Name(), "Phone": args[1]}
	if !record.RemovePhone(args[1]) {
		return a.failure(config.TKeyPhoneNotFound, data), nil
	}
	return a.success(config.TKeyPhoneRemoved, data), nil
}

func (a *Assistant) addBirthday(_ context.Context, args []string) (reply, error) {
	record, err := a.lookup(config.CmdAddBirthday, args)
	if err != nil {
		return reply{}, err
	}
	if len(args) < 2 {
		return reply{}, missingArgument(config.CmdAddBirthday)
	}
	if err := record.AddBirthday(args[1]); err != nil {
		return reply{}, err
	}
	b, _ := record.Birthday()
	return a.success(config.TKeyBirthdayAdded, map[string]any{
		"Name":     record.Name(),
		"Birthday": b.String(),
	}), nil
}

func (a *Assistant) showBirthday(_ context.Context, args []string) (reply, error) {
	record, err := a.lookup(config.CmdShowBirthday, args)
	if err != nil {
		return reply{}, err
	}
	b, ok := record.Birthday()
	if !ok {
		return a.info(config.TKeyBirthdayAbsent, map[string]any{"Name": record.Name()}), nil
	}
	return reply{text: b.String(), tone: toneInfo}, nil
}

func (a *Assistant) upcoming(context.Context, []string) (reply, error) {
	entries := a.dir.UpcomingBirthdays(book.Today(a.clock))
	if len(entries) == 0 {
		return a.info(config.TKeyUpcomingNone, nil), nil
	}
	lines := make([]string, len(entries))
	for i, u := range entries {
		lines[i] = a.tr.T(config.TKeyUpcomingEntry, map[string]any{
			"Name": u.Name,
			"Date": u.Date.Format(book.DateLayout),
		})
	}
	return reply{text: strings.Join(lines, "\n"), tone: toneInfo}, nil
}

// importCards loads a local file or an http(s) URL. Without arguments the configured
// source is used; the optional second argument overrides the user name.
func (a *Assistant) importCards(ctx context.Context, args []string) (reply, error) {
	src := engine.Source{Location: a.source.URL, User: a.source.Username}
	if len(args) > 0 {
		src.Location = args[0]
	}
	if len(args) > 1 {
		src.User = args[1]
	}
	if src.Location == "" {
		return reply{}, missingArgument(config.CmdImport)
	}

	stats, err := a.Import(ctx, src)
	if err != nil {
		return reply{}, err
	}
	return reply{text: a.tr.Plural(config.TKeyImported, stats.Added+stats.Merged, nil), tone: toneSuccess}, nil
}

func (a *Assistant) exportCards(_ context.Context, args []string) (reply, error) {
	if len(args) == 0 {
		return reply{}, missingArgument(config.CmdExport)
	}
	path := args[0]

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		return reply{}, fmt.Errorf("%s: %w", config.ErrOpenFile, err)
	}
	n, err := a.exporter.Export(f, a.dir)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%s: %w", config.ErrWriteFile, cerr)
	}
	if err != nil {
		return reply{}, err
	}
	return reply{text: a.tr.Plural(config.TKeyExported, n, map[string]any{"Path": path}), tone: toneSuccess}, nil
}

func (a *Assistant) writeCalendar(ctx context.Context, args []string) (reply, error) {
	if len(args) == 0 {
		return reply{}, missingArgument(config.CmdCalendar)
	}
	path := args[0]

	data, err := a.calendar.Generate(ctx, a.dir)
	if err != nil {
		return reply{}, err
	}
	if err := os.WriteFile(path, data, config.FilePermUserRW); err != nil {
		return reply{}, fmt.Errorf("%s: %w", config.ErrWriteFile, err)
	}
	return a.success(config.TKeyCalendarWritten, map[string]any{"Path": path}), nil
}

func (a *Assistant) savePassword(_ context.Context, args []string) (reply, error) {
	if len(args) < 2 {
		return reply{}, missingArgument(config.CmdSavePassword)
	}
	if a.creds == nil {
		return reply{}, errors.New(config.ErrCredentialsStore)
	}
	user := args[0]
	if err := a.creds.Set(user, args[1]); err != nil {
		return reply{}, fmt.Errorf("%s: %w", config.ErrKeyringSet, err)
	}
	return a.success(config.TKeyPasswordSaved, map[string]any{"User": user}), nil
}

func (a *Assistant) clearConsole(context.Context, []string) (reply, error) {
	a.console.clear()
	return reply{}, nil
}

// quoteList renders values as ['a', 'b'].
func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
