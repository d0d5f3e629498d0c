package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	app "github.com/okian/skillcards/internal/app"
	"github.com/okian/skillcards/internal/domain/csvcodec"
	"github.com/okian/skillcards/internal/domain/interchange"
	"github.com/okian/skillcards/internal/domain/model"
	"github.com/okian/skillcards/pkg/logger"
)

var errBadDelimiter = errors.New("delimiter must be a single character")

// csvFlags select the CSV layout for commands that read CSV.
type csvFlags struct {
	legacy    bool
	delimiter string
}

func (f *csvFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.legacy, "legacy", false, "Read the header-keyed legacy CSV layout")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "Field delimiter for legacy CSV (default ',')")
}

func (f *csvFlags) delim() (rune, error) {
	if f.delimiter == "" {
		return 0, nil
	}
	if utf8.RuneCountInString(f.delimiter) != 1 {
		return 0, fmt.Errorf("%w: %q", errBadDelimiter, f.delimiter)
	}
	r, _ := utf8.DecodeRuneInString(f.delimiter)
	return r, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// --------------------------------------------------------------------------
// template
// --------------------------------------------------------------------------

func templateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template [file]",
		Short: "Write the CSV template with one sample row",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return writeOutput(cmd, path, []byte(csvcodec.Template()))
		},
	}
}

// --------------------------------------------------------------------------
// convert
// --------------------------------------------------------------------------

func convertCmd() *cobra.Command {
	var flags csvFlags
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert between CSV and JSON by file extension",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			cards, skipped, err := decodeFile(cmd.Context(), args[0], data, &flags)
			if err != nil {
				return err
			}
			out, err := encodeCards(args[1], cards)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, args[1], out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "converted %d cards, skipped %d rows\n", len(cards), len(skipped))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func decodeFile(ctx context.Context, path string, data []byte, flags *csvFlags) ([]model.Card, []*csvcodec.RowError, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if isJSON(path) {
		cards, err := interchange.Decode(data)
		return cards, nil, err
	}
	delim, err := flags.delim()
	if err != nil {
		return nil, nil, err
	}
	dec := csvcodec.NewDecoder(
		csvcodec.WithLogger(logger.Get().Named("csv")),
		csvcodec.WithDelimiter(delim),
	)
	var res csvcodec.Result
	if flags.legacy {
		res, err = dec.DecodeLegacy(ctx, string(data))
	} else {
		res, err = dec.DecodeResult(ctx, string(data))
	}
	if err != nil {
		return nil, res.Skipped, err
	}
	return res.Cards, res.Skipped, nil
}

func encodeCards(path string, cards []model.Card) ([]byte, error) {
	if isJSON(path) {
		return interchange.Encode(cards)
	}
	return []byte(csvcodec.Export(cards)), nil
}

// --------------------------------------------------------------------------
// import / export
// --------------------------------------------------------------------------

func importCmd(root *rootFlags) *cobra.Command {
	var flags csvFlags
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored collection with a CSV or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			delim, err := flags.delim()
			if err != nil {
				return err
			}
			return withCatalog(cmd, root, func(ctx context.Context, c catalog) error {
				var (
					res app.ImportResult
					err error
				)
				switch {
				case isJSON(args[0]):
					res, err = c.ImportJSON(ctx, data)
				case flags.legacy:
					res, err = c.ImportLegacyCSV(ctx, string(data), delim)
				default:
					res, err = c.ImportCSV(ctx, string(data))
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "imported %d cards\n", res.Imported)
				for _, s := range res.Skipped {
					fmt.Fprintf(out, "skipped %v\n", s)
				}
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func exportCmd(root *rootFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <file|->",
		Short: "Write the stored collection as CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON := isJSON(args[0]) || strings.EqualFold(format, "json")
			return withCatalog(cmd, root, func(ctx context.Context, c catalog) error {
				if asJSON {
					data, err := c.ExportJSON(ctx)
					if err != nil {
						return err
					}
					return writeOutput(cmd, args[0], data)
				}
				text, err := c.ExportCSV(ctx)
				if err != nil {
					return err
				}
				return writeOutput(cmd, args[0], []byte(text))
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Output format when writing to stdout: csv or json")
	return cmd
}

// --------------------------------------------------------------------------
// list / add / rm
// --------------------------------------------------------------------------

func listCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, root, func(ctx context.Context, c catalog) error {
				cards, err := c.ListCards(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tGROUP\tROLE\tGRADE")
				for _, card := range cards {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", card.ID, card.Name, card.Group, card.Role, card.FinalGrade)
				}
				return tw.Flush()
			})
		},
	}
}

func addCmd(root *rootFlags) *cobra.Command {
	var in app.NewCardInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card with the default stat block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCatalog(cmd, root, func(ctx context.Context, c catalog) error {
				card, err := c.AddCard(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), card.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Card name")
	cmd.Flags().StringVar(&in.Group, "group", "", "Card group")
	cmd.Flags().StringVar(&in.Role, "role", "", "Card role")
	return cmd
}

func rmCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, root, func(ctx context.Context, c catalog) error {
				return c.DeleteCard(ctx, args[0])
			})
		},
	}
}
