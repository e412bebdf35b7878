package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyfmt/pkg/docviz"
	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/format"
	"github.com/matzehuels/pyfmt/pkg/syntax"
)

// docOpts holds the flags of the doc command.
type docOpts struct {
	layout formatFlags
	format string
	output string
}

// docCommand creates the doc command, which prints the layout document
// built for a file before it is rendered.
func (c *CLI) docCommand() *cobra.Command {
	opts := docOpts{}

	cmd := &cobra.Command{
		Use:   "doc [file]",
		Short: "Print the layout document of a file",
		Long: `Print the layout document built for a file before it is rendered.

The text format shows the document as nested constructors; yaml gives a
tree for tooling; dot and svg draw it as a graph. Reads stdin when the file
is "-" or omitted.`,
		Example: `  pyfmt doc app.py
  pyfmt doc --format svg -o app.svg app.py`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return c.runDoc(cmd, path, &opts)
		},
	}

	opts.layout.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(docviz.FormatText), "output format: text, yaml, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runDoc(cmd *cobra.Command, path string, opts *docOpts) error {
	f, err := docviz.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	var src []byte
	var lookup []string
	if path == "-" {
		src, err = io.ReadAll(cmd.InOrStdin())
	} else {
		lookup = []string{path}
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}

	cfg, err := c.loadConfig(lookup)
	if err != nil {
		return err
	}
	layout, err := opts.layout.resolve(cmd, cfg)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	mod, err := syntax.Parse(string(src))
	if err != nil {
		return err
	}
	built, err := format.Build(mod, string(src), layout)
	if err != nil {
		return err
	}
	data, err := docviz.Export(cmd.Context(), built.Doc, built.IDs, f)
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Built %s document for %s", f, path))

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	printSuccess(cmd.ErrOrStderr(), "Wrote %s document", f)
	printFile(cmd.ErrOrStderr(), opts.output)
	return nil
}
