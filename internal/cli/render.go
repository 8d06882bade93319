package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/label"
	"github.com/matzehuels/iclabels/pkg/page"
	"github.com/matzehuels/iclabels/pkg/registry"
	"github.com/matzehuels/iclabels/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file, "-" for stdout
	format  string   // svg, html, json, pdf or png; inferred from output when empty
	chips   []string // NAME or NAME:COUNT entries appended to the sheet
	strict  bool     // fail when any chip is skipped
	watch   bool     // re-render when the sheet file changes
	noCache bool     // bypass the artifact cache
	noPrefs bool     // ignore the saved layout
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [sheet.html]",
		Short: "Render a label sheet to SVG, HTML, JSON, PDF or PNG",
		Long: `Render draws every chip of a sheet onto one page.

The sheet is an <ic-labels> markup file, a list of --chip flags, or both:

  iclabels render bench.html -o bench.pdf
  iclabels render --chip 74LS00:2 --chip 555 --paper A4 -f png

The saved layout (see "iclabels prefs") overrides the paper and margins of
the sheet unless --no-prefs is given; --paper and --margins override both.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd, input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout (default: derived from the sheet name)`)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, html, json, pdf, png (default: from --output, else svg)")
	cmd.Flags().StringArrayVarP(&opts.chips, "chip", "c", nil, "add a chip, NAME or NAME:COUNT (repeatable)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when a chip is unknown")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the sheet file changes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not use the artifact cache")
	cmd.Flags().BoolVar(&opts.noPrefs, "no-prefs", false, "ignore the saved layout")
	addSheetFlags(cmd)
	_ = cmd.RegisterFlagCompletionFunc("chip", c.completeChipNames)

	return cmd
}

// addSheetFlags registers the flags that feed render.* configuration keys.
func addSheetFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("paper", "", "paper size: A4, Letter")
	f.String("margins", "", `page margins in mm, CSS order ("10" or "10 5 10 5")`)
	f.Float64("pin-pitch", label.DefaultPinPitch, "pin pitch in mm for chips without a package")
	f.Float64("height-adjust", label.DefaultHeightAdjust, "mm taken off every label height")
	f.Float64("stroke-width", label.DefaultStrokeWidth, "label body outline stroke width in mm")
	f.String("family", label.DefaultLogicFamily, "logic family replacing LS in the 74LS placeholder")
	f.String("series", label.DefaultSeries, "series replacing 74 in the 74LS placeholder")
	f.Bool("color", true, "color labels by chip category and pin type")
	f.String("pin-font", "", "pin label font family")
	f.Bool("guides", false, "draw dashed margin guides")
	f.Float64("scale", 2, "PNG scale factor")
}

// runRender builds the sheet, renders it and writes the artifact. With
// --watch it keeps re-rendering until the context is cancelled.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if input == "" && len(opts.chips) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to render: pass a sheet file or --chip")
	}
	if opts.watch && input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "--watch needs a sheet file")
	}
	format, err := resolveFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	output := outputPath(opts.output, input, format)

	reg, err := c.openRegistry()
	if err != nil {
		return err
	}
	exporter, err := c.newExporter(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer exporter.Cache.Close()

	job := &renderJob{cli: c, cmd: cmd, input: input, opts: opts, format: format, output: output, reg: reg, exporter: exporter}

	if err := job.run(ctx); err != nil {
		if !opts.watch {
			return err
		}
		logger.Error("render failed", "err", errors.UserMessage(err))
	}
	if !opts.watch {
		return nil
	}
	return watchFile(ctx, input, c.settings().Server.Debounce, func() {
		if err := job.run(ctx); err != nil {
			logger.Error("render failed", "err", errors.UserMessage(err))
		}
	})
}

type renderJob struct {
	cli      *CLI
	cmd      *cobra.Command
	input    string
	opts     *renderOpts
	format   render.Format
	output   string
	reg      *registry.Registry
	exporter *render.Exporter
}

func (j *renderJob) run(ctx context.Context) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	sheet, err := j.cli.buildSheet(ctx, j.cmd, j.input, j.opts.chips, j.opts.noPrefs)
	if err != nil {
		return err
	}
	logger.Debugf("Sheet: %s, margins %s, %d entries", sheet.Paper, sheet.Margins, len(sheet.Entries))

	pass := page.Render(ctx, sheet, j.reg, page.Options{
		Notifier: func(req label.Request, err error) {
			printWarning("%s", errors.UserMessage(err))
		},
	})

	var spin *Spinner
	if j.format == render.FormatPDF || j.format == render.FormatPNG {
		spin = newSpinner(ctx, "Converting to "+strings.ToUpper(string(j.format)))
		spin.Start()
	}
	rec, restore := recordCache()
	cfg := j.cli.settings().Render
	data, err := j.exporter.Export(ctx, pass, j.format, render.Options{
		Guides: cfg.Guides,
		Scale:  cfg.Scale,
		Title:  sheetTitle(j.input),
	})
	restore()
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if err := writeOutput(j.output, data); err != nil {
		return err
	}
	if j.output != "-" {
		prog.done("Rendered " + j.output)
		printFile(j.output)
		printPassStats(pass.Placed(), len(pass.Skipped), rec.cached())
	}

	if j.opts.strict && !pass.OK() {
		return errors.New(errors.ErrCodeChipNotFound, "%d chip(s) skipped", len(pass.Skipped))
	}
	return nil
}

// buildSheet reads the sheet file over the configured defaults, appends
// --chip entries and applies the saved layout and explicit layout flags.
func (c *CLI) buildSheet(ctx context.Context, cmd *cobra.Command, input string, chips []string, noPrefs bool) (*page.Sheet, error) {
	cfg := c.settings()
	sheet := cfg.BaseSheet()

	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read sheet %s", input)
		}
		sheet, err = page.ParseMarkupWith(bytes.NewReader(data), sheet)
		if err != nil {
			return nil, err
		}
	}
	for _, spec := range chips {
		e, err := parseChipFlag(spec)
		if err != nil {
			return nil, err
		}
		sheet.Add(e)
	}

	if !noPrefs {
		mgr, err := c.openPrefs(ctx)
		if err != nil {
			return nil, err
		}
		defer mgr.Close()
		if _, err := mgr.Resolve(ctx, sheet); err != nil {
			loggerFromContext(ctx).Warn("saved layout unavailable", "err", err)
		}
	}

	flags := cmd.Flags()
	if p, ok := page.LookupPaper(cfg.Render.Paper); ok && flags.Changed("paper") {
		sheet.Paper = p
	}
	if flags.Changed("margins") {
		sheet.Margins = page.ParseMargins(cfg.Render.Margins, sheet.Margins)
	}
	return sheet, nil
}

// parseChipFlag reads NAME or NAME:COUNT.
func parseChipFlag(spec string) (page.Entry, error) {
	name, count, hasCount := strings.Cut(strings.TrimSpace(spec), ":")
	if err := errors.ValidateChipName(name); err != nil {
		return page.Entry{}, err
	}
	e := page.Entry{Name: name, Count: 1}
	if hasCount {
		n, err := strconv.Atoi(count)
		if err != nil || n < 1 {
			return page.Entry{}, errors.New(errors.ErrCodeInvalidInput, "invalid count in --chip %q", spec)
		}
		e.Count = n
	}
	return e, nil
}

// resolveFormat picks the explicit format, else the output extension, else
// SVG.
func resolveFormat(format, output string) (render.Format, error) {
	if format != "" {
		return render.ParseFormat(format)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" && output != "-" {
		if f, err := render.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return render.FormatSVG, nil
}

// outputPath derives the output file from the sheet name when none is
// given: bench.html renders to bench.svg, a --chip sheet to labels.svg.
func outputPath(output, input string, format render.Format) string {
	if output != "" {
		return output
	}
	base := "labels"
	if input != "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	return base + format.Ext()
}

func sheetTitle(input string) string {
	if input == "" {
		return "IC Labels"
	}
	return "IC Labels: " + filepath.Base(input)
}

func writeOutput(path string, data []byte) error {
	var w io.Writer = stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
		}
		defer f.Close()
		w = f
	}
	_, err := w.Write(data)
	return err
}

// watchFile calls fn after path changes, coalescing bursts of events, until
// ctx is cancelled.
func watchFile(ctx context.Context, path string, delay time.Duration, fn func()) error {
	logger := loggerFromContext(ctx)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "watch %s", path)
	}
	deb := page.NewDebouncer(delay, fn)
	defer deb.Stop()

	printInfo("Watching %s", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name == target {
				logger.Debug("sheet changed", "op", event.Op.String())
				deb.Trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "err", err)
		}
	}
}
