package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-addressbook/internal/book"
	"github.com/tartampluch/go-addressbook/internal/config"
)

const (
	telURIPrefix    = "tel:"
	uuidURNPrefix   = "urn:uuid:"
	vcardDateLayout = config.DateFormatFullBasic
)

// ImportStats summarizes one vCard import.
type ImportStats struct {
	Processed int // cards decoded
	Added     int // new records
	Merged    int // cards folded into an existing record
	Skipped   int // cards without a usable name or malformed
}

// Importer loads vCards into a directory.
type Importer struct {
	// NormalizeName maps the vCard name to the directory key. Nil keeps it as is.
	NormalizeName func(string) string
}

// Import decodes every card of r into dir. Cards whose name already exists are merged:
// new phones are appended and the birthday is set only if the record has none.
// Invalid phones and dates are skipped with a debug log, the rest of the card is kept.
func (im *Importer) Import(ctx context.Context, r io.Reader, dir *book.Directory) (ImportStats, error) {
	start := time.Now()
	var stats ImportStats
	decoder := vcard.NewDecoder(r)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A decoding error leaves the stream in an unknown state; stop here and
			// keep what was imported so far.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			return stats, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}
		stats.Processed++

		name := cardName(card)
		if im.NormalizeName != nil {
			name = im.NormalizeName(name)
		}
		record, err := book.NewRecord(name)
		if err != nil {
			slog.Debug(config.MsgSkippedName, config.LogKeyComponent, config.CompEngine)
			stats.Skipped++
			continue
		}

		if existing, err := dir.Find(record.Name()); err == nil {
			slog.Debug(config.MsgMergedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, record.Name())
			record = existing
			stats.Merged++
		} else {
			dir.AddRecord(record)
			stats.Added++
		}

		applyPhones(record, card)
		applyBirthday(record, card)
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Processed),
			slog.Int(config.LogKeyImported, stats.Added),
			slog.Int(config.LogKeyMerged, stats.Merged),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return stats, nil
}

// cardName picks FN, then the structured N, trimmed.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		return strings.TrimSpace(strings.Join(strings.Fields(n.GivenName+" "+n.FamilyName), " "))
	}
	return ""
}

func applyPhones(record *book.Record, card vcard.Card) {
	for _, raw := range card.Values(vcard.FieldTelephone) {
		if _, err := record.AddPhone(phoneDigits(raw)); err != nil {
			slog.Debug(config.MsgSkippedPhone,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, record.Name(),
				config.LogKeyValue, raw)
		}
	}
}

// phoneDigits drops the tel: scheme and visual separators ("050 123-45-67").
// A leading plus sign is kept so international numbers stay invalid.
func phoneDigits(raw string) string {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), telURIPrefix)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, raw)
}

func applyBirthday(record *book.Record, card vcard.Card) {
	if _, ok := record.Birthday(); ok {
		return
	}
	bday := card.Get(vcard.FieldBirthday)
	if bday == nil || bday.Value == "" {
		return
	}
	date, yearKnown, err := parseDate(bday.Value)
	if err != nil || !yearKnown {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyName, record.Name(),
			config.LogKeyValue, bday.Value)
		return
	}
	record.SetBirthday(book.BirthdayOn(date))
}

// Exporter writes a directory as a vCard 4.0 stream.
type Exporter struct{}

// Export encodes every record of dir, in directory order, and returns how many cards
// were written.
func (Exporter) Export(w io.Writer, dir *book.Directory) (int, error) {
	enc := vcard.NewEncoder(w)
	count := 0
	for _, r := range dir.Records() {
		if err := enc.Encode(recordCard(r)); err != nil {
			return count, fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
		count++
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, count)
	return count, nil
}

func recordCard(r *book.Record) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldUID, uuidURNPrefix+contactUID(r.Name()))
	card.SetValue(vcard.FieldFormattedName, r.Name())
	for _, p := range r.PhoneValues() {
		card.Add(vcard.FieldTelephone, &vcard.Field{
			Value:  p,
			Params: vcard.Params{vcard.ParamType: []string{vcard.TypeCell}},
		})
	}
	if b, ok := r.Birthday(); ok {
		card.SetValue(vcard.FieldBirthday, b.Date().Format(vcardDateLayout))
	}
	vcard.ToV4(card)
	return card
}
