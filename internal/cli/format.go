package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/pipeline"
)

// formatOpts holds the flags of the format command.
type formatOpts struct {
	layout        formatFlags
	check         bool
	diff          bool
	stdinFilename string
	exclude       []string
	jobs          int
	noCache       bool
	refresh       bool
	progress      bool
}

// formatCommand creates the format command.
func (c *CLI) formatCommand() *cobra.Command {
	opts := formatOpts{}

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Format Python files in place",
		Long: `Format Python files in place.

Directories are searched for .py and .pyi files. Use "-" to read from stdin
and write the result to stdout.

With --check or --diff nothing is written; the command exits with status 1
when any file would change.`,
		Example: `  # Format the current project
  pyfmt format .

  # Fail CI when files are not formatted
  pyfmt format --check src/

  # Format an editor buffer
  pyfmt format --stdin-filename app.py - < app.py`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			if len(args) == 1 && args[0] == "-" {
				return c.runFormatStdin(cmd, &opts)
			}
			return c.runFormat(cmd, args, &opts)
		},
	}

	opts.layout.register(cmd)
	flags := cmd.Flags()
	flags.BoolVar(&opts.check, "check", false, "report files that would change without writing them")
	flags.BoolVar(&opts.diff, "diff", false, "print a unified diff instead of writing files")
	flags.StringVar(&opts.stdinFilename, "stdin-filename", "", "file name used for stdin in messages and config lookup")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns to skip, added to the configured ones")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "parallel workers (default: number of CPUs)")
	flags.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	flags.BoolVar(&opts.refresh, "refresh", false, "ignore cached results but store new ones")
	flags.BoolVar(&opts.progress, "progress", false, "show a progress bar on stderr")

	return cmd
}

func (c *CLI) runFormat(cmd *cobra.Command, paths []string, opts *formatOpts) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := c.loadConfig(paths)
	if err != nil {
		return err
	}
	layout, err := opts.layout.resolve(cmd, cfg)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Paths:       paths,
		Exclude:     append(append([]string(nil), cfg.Exclude...), opts.exclude...),
		ExcludeRoot: cfg.Root(),
		Format:      layout,
		Write:       !opts.check && !opts.diff,
		Jobs:        opts.jobs,
		CacheTTL:    cacheTTL(cfg),
		Refresh:     opts.refresh,
		Logger:      c.Logger,
	}

	var result *pipeline.Result
	if opts.progress {
		files, err := pipeline.Discover(popts.Paths, popts.Exclude, popts.ExcludeRoot)
		if err != nil {
			return err
		}
		result, err = runWithProgress(ctx, cmd.ErrOrStderr(), len(files), func(onFile func(pipeline.FileResult)) (*pipeline.Result, error) {
			popts.OnFile = onFile
			return runner.Execute(ctx, popts)
		})
		if err != nil {
			return err
		}
	} else {
		if result, err = runner.Execute(ctx, popts); err != nil {
			return err
		}
	}
	return reportFormat(out, result, opts)
}

// reportFormat prints per-file outcomes and the summary, and returns an
// [ExitError] when the run should fail.
func reportFormat(w io.Writer, result *pipeline.Result, opts *formatOpts) error {
	stats := result.Stats
	for _, fr := range result.Files {
		name := displayPath(fr.Path)
		switch {
		case fr.Err != nil:
			printError(w, "%s: %s", name, errors.UserMessage(fr.Err))
		case fr.Changed && opts.diff:
			d, err := unifiedDiff(name, fr.Source, fr.Formatted)
			if err != nil {
				return err
			}
			fmt.Fprint(w, colorDiff(d))
		case fr.Changed && opts.check:
			printWarning(w, "Would reformat %s", name)
		}
	}

	verb := "Reformatted"
	if opts.check || opts.diff {
		verb = "Would reformat"
	}
	switch {
	case stats.Files == 0:
		printInfo(w, "No Python files found")
	case stats.Changed == 0 && stats.Failed == 0:
		printSuccess(w, "%s already formatted", plural(stats.Files, "file"))
	default:
		printInfo(w, "%s %s, %s left unchanged", verb, plural(stats.Changed, "file"), plural(stats.Unchanged, "file"))
	}
	parts := []string{fmt.Sprintf("%d cached", stats.CacheHits), stats.Duration.Round(time.Millisecond).String()}
	if stats.Failed > 0 {
		parts = append([]string{fmt.Sprintf("%d failed", stats.Failed)}, parts...)
	}
	printStats(w, parts...)

	switch {
	case stats.Failed > 0:
		return &ExitError{Code: 1, Reason: fmt.Sprintf("%s could not be formatted", plural(stats.Failed, "file"))}
	case (opts.check || opts.diff) && stats.Changed > 0:
		return &ExitError{Code: 1, Reason: fmt.Sprintf("%s would be reformatted", plural(stats.Changed, "file"))}
	}
	return nil
}

// runFormatStdin formats stdin to stdout.
func (c *CLI) runFormatStdin(cmd *cobra.Command, opts *formatOpts) error {
	ctx := cmd.Context()
	name := "-"
	var lookup []string
	if opts.stdinFilename != "" {
		if err := errors.ValidatePath(opts.stdinFilename); err != nil {
			return err
		}
		name = opts.stdinFilename
		lookup = []string{opts.stdinFilename}
	}

	cfg, err := c.loadConfig(lookup)
	if err != nil {
		return err
	}
	layout, err := opts.layout.resolve(cmd, cfg)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
	}
	out, _, err := runner.FormatSource(ctx, string(src), layout)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return errors.Wrap(code, err, "%s", name)
	}

	changed := out != string(src)
	switch {
	case opts.diff:
		d, err := unifiedDiff(name, string(src), out)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), colorDiff(d))
	case opts.check:
		if changed {
			printWarning(cmd.ErrOrStderr(), "Would reformat %s", name)
		}
	default:
		fmt.Fprint(cmd.OutOrStdout(), out)
	}
	if changed && (opts.check || opts.diff) {
		return &ExitError{Code: 1, Reason: name + " would be reformatted"}
	}
	return nil
}
