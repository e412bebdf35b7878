package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pyfmt/pkg/config"
	"github.com/matzehuels/pyfmt/pkg/format"
	"github.com/matzehuels/pyfmt/pkg/literal"
)

// formatFlags holds the layout flags shared by format, doc and serve.
type formatFlags struct {
	lineLength          int
	indentWidth         int
	quoteStyle          string
	docstringQuoteStyle string
	magicTrailingComma  string
	lineEnding          string
}

func (f *formatFlags) register(cmd *cobra.Command) {
	d := format.DefaultOptions()
	flags := cmd.Flags()
	flags.IntVar(&f.lineLength, "line-length", d.LineWidth, "maximum line width")
	flags.IntVar(&f.indentWidth, "indent-width", d.IndentWidth, "spaces per indentation level")
	flags.StringVar(&f.quoteStyle, "quote-style", d.QuoteStyle.String(), "string quotes: double, single, preserve")
	flags.StringVar(&f.docstringQuoteStyle, "docstring-quote-style", d.DocstringQuoteStyle.String(), "docstring quotes: double, single, preserve")
	flags.StringVar(&f.magicTrailingComma, "magic-trailing-comma", d.MagicTrailingComma.String(), "trailing comma handling: respect, ignore")
	flags.StringVar(&f.lineEnding, "line-ending", d.LineEnding.String(), "output newlines: lf, crlf, auto")
}

// resolve layers defaults, then cfg, then the flags set on the command
// line.
func (f *formatFlags) resolve(cmd *cobra.Command, cfg *config.Config) (format.Options, error) {
	opts := cfg.Apply(format.DefaultOptions())
	changed := cmd.Flags().Changed

	if changed("line-length") {
		opts.LineWidth = f.lineLength
	}
	if changed("indent-width") {
		opts.IndentWidth = f.indentWidth
	}
	if changed("quote-style") {
		q, err := literal.ParseQuoteStyle(f.quoteStyle)
		if err != nil {
			return opts, err
		}
		opts.QuoteStyle = q
	}
	if changed("docstring-quote-style") {
		q, err := literal.ParseQuoteStyle(f.docstringQuoteStyle)
		if err != nil {
			return opts, err
		}
		opts.DocstringQuoteStyle = q
	}
	if changed("magic-trailing-comma") {
		m, err := format.ParseMagicTrailingComma(f.magicTrailingComma)
		if err != nil {
			return opts, err
		}
		opts.MagicTrailingComma = m
	}
	if changed("line-ending") {
		l, err := format.ParseLineEnding(f.lineEnding)
		if err != nil {
			return opts, err
		}
		opts.LineEnding = l
	}
	return opts, opts.Validate()
}
