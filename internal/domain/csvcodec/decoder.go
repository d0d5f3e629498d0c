package csvcodec

import (
	"context"
	"strings"

	"github.com/okian/skillcards/internal/domain/model"
	"github.com/okian/skillcards/pkg/logger"
)

// Result is a successful decode plus the rows that were skipped on the way.
type Result struct {
	Cards   []model.Card
	Skipped []*RowError
}

// Decoder parses whole CSV documents.
type Decoder struct {
	logger    logger.Logger
	delimiter rune // 0 means the layout's own delimiter
}

// Option applies a configuration option to the Decoder.
type Option func(*Decoder)

// WithLogger sets where skipped-row warnings go.
func WithLogger(l logger.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithDelimiter overrides the field delimiter.
func WithDelimiter(delim rune) Option {
	return func(d *Decoder) {
		if delim != 0 && delim != '"' && delim != '\n' {
			d.delimiter = delim
		}
	}
}

// NewDecoder creates a Decoder. Without WithLogger it logs nothing.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{logger: logger.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parse decodes a spreadsheet-layout document with default settings.
func Parse(text string) ([]model.Card, error) {
	return NewDecoder().Decode(context.Background(), text)
}

// Decode parses a spreadsheet-layout document. See DecodeResult.
func (d *Decoder) Decode(ctx context.Context, text string) ([]model.Card, error) {
	res, err := d.DecodeResult(ctx, text)
	if err != nil {
		return nil, err
	}
	return res.Cards, nil
}

// DecodeResult parses a spreadsheet-layout document. The first line is the
// header. Blank rows are ignored. Rows that fail to map, including rows with
// content but no name, are logged and skipped. It fails with
// ErrEmptyOrHeaderOnly when there is no data line and ErrNoValidRows when
// every row was skipped.
func (d *Decoder) DecodeResult(ctx context.Context, text string) (Result, error) {
	records := splitRecords(text)
	if len(records) < 2 {
		return Result{}, ErrEmptyOrHeaderOnly
	}

	var res Result
	for _, rec := range records[1:] {
		values := SplitLine(rec.text, d.delim(PrimaryDelimiter))
		if allEmpty(values) {
			continue
		}
		card, err := RowToCard(values, rec.row)
		if err != nil {
			res.Skipped = append(res.Skipped, d.skip(ctx, rec.row, err))
			continue
		}
		res.Cards = append(res.Cards, card)
	}
	if len(res.Cards) == 0 {
		return res, ErrNoValidRows
	}
	return res, nil
}

// DecodeLegacy parses a header-keyed document in the older layout. It is a
// separate entry point; the two layouts are never auto-detected.
func (d *Decoder) DecodeLegacy(ctx context.Context, text string) (Result, error) {
	records := splitRecords(text)
	if len(records) < 2 {
		return Result{}, ErrEmptyOrHeaderOnly
	}

	delim := d.delim(LegacyDelimiter)
	headers := SplitLine(records[0].text, delim)
	for i, h := range headers {
		headers[i] = strings.ToLower(h)
	}

	var res Result
	for _, rec := range records[1:] {
		values := SplitLine(rec.text, delim)
		if allEmpty(values) {
			continue
		}
		card, err := RowToCardLegacy(zipRow(headers, values))
		if err != nil {
			res.Skipped = append(res.Skipped, d.skip(ctx, rec.row, err))
			continue
		}
		res.Cards = append(res.Cards, card)
	}
	if len(res.Cards) == 0 {
		return res, ErrNoValidRows
	}
	return res, nil
}

func (d *Decoder) skip(ctx context.Context, row int, err error) *RowError {
	d.logger.Warn(ctx, "skipping csv row", logger.Int("row", row), logger.Error(err))
	return &RowError{Row: row, Err: err}
}

func (d *Decoder) delim(def rune) rune {
	if d.delimiter != 0 {
		return d.delimiter
	}
	return def
}
