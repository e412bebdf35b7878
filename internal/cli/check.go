package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/format"
	"github.com/matzehuels/pyfmt/pkg/lint"
	"github.com/matzehuels/pyfmt/pkg/pipeline"
)

// checkOpts holds the flags of the check command.
type checkOpts struct {
	selectRules  []string
	outputFormat string
	exclude      []string
	jobs         int
	noCache      bool
}

// fileDiagnostic is a diagnostic with its file, as printed by --output-format json.
type fileDiagnostic struct {
	Path string `json:"path"`
	lint.Diagnostic
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOpts{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Run lint rules over Python files",
		Long: `Run lint rules over Python files and print diagnostics.

Rules are selected by name or code; without --select every rule runs. The
command exits with status 1 when anything is reported.`,
		Example: `  pyfmt check .
  pyfmt check --select PLE0203 --output-format json src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return c.runCheck(cmd, args, &opts)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&opts.selectRules, "select", nil, "rule names or codes to run")
	flags.StringVar(&opts.outputFormat, "output-format", "text", "output format: text, json")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns to skip, added to the configured ones")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "parallel workers (default: number of CPUs)")
	flags.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, paths []string, opts *checkOpts) error {
	ctx := cmd.Context()
	if err := errors.ValidateChoice("output-format", opts.outputFormat, "text", "json"); err != nil {
		return err
	}
	rules, err := lint.Select(opts.selectRules)
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig(paths)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	c.Logger.Debug("running rules", "rules", lint.Names(rules))
	result, err := runner.Execute(ctx, pipeline.Options{
		Paths:       paths,
		Exclude:     append(append([]string(nil), cfg.Exclude...), opts.exclude...),
		ExcludeRoot: cfg.Root(),
		Format:      cfg.Apply(format.DefaultOptions()),
		Lint:        true,
		Rules:       rules,
		Jobs:        opts.jobs,
		CacheTTL:    cacheTTL(cfg),
		Logger:      c.Logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.outputFormat == "json" {
		err = writeDiagnosticsJSON(out, result)
	} else {
		writeDiagnosticsText(out, result)
	}
	if err != nil {
		return err
	}

	switch {
	case result.Stats.Failed > 0:
		return &ExitError{Code: 1, Reason: fmt.Sprintf("%s could not be checked", plural(result.Stats.Failed, "file"))}
	case result.Stats.Diagnostics > 0:
		return &ExitError{Code: 1, Reason: fmt.Sprintf("found %s", plural(result.Stats.Diagnostics, "error"))}
	}
	return nil
}

func writeDiagnosticsText(w io.Writer, result *pipeline.Result) {
	for _, fr := range result.Files {
		name := displayPath(fr.Path)
		if fr.Err != nil {
			printError(w, "%s: %s", name, errors.UserMessage(fr.Err))
			continue
		}
		for _, d := range fr.Diagnostics {
			fmt.Fprintf(w, "%s %s %s\n",
				styleLocation.Render(fmt.Sprintf("%s:%d:%d:", name, d.Line, d.Column)),
				styleCode.Render(d.Code),
				d.Message)
		}
	}
	if result.Stats.Diagnostics == 0 && result.Stats.Failed == 0 {
		printSuccess(w, "All checks passed")
		return
	}
	printStats(w, fmt.Sprintf("found %s", plural(result.Stats.Diagnostics, "error")),
		plural(result.Stats.Files, "file"))
}

func writeDiagnosticsJSON(w io.Writer, result *pipeline.Result) error {
	diags := []fileDiagnostic{}
	for _, fr := range result.Files {
		for _, d := range fr.Diagnostics {
			diags = append(diags, fileDiagnostic{Path: displayPath(fr.Path), Diagnostic: d})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}
