package cli

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/iclabels/internal/config"
	"github.com/matzehuels/iclabels/internal/server"
	"github.com/matzehuels/iclabels/pkg/errors"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	chips   []string
	noCache bool
}

// serveCommand creates the live preview command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [sheet.html]",
		Short: "Serve a live print preview",
		Long: `Serve renders a sheet in the browser with paper, margin and zoom controls.
Layout changes made there are saved and apply to later renders.

With a sheet file the preview reloads whenever the file changes:

  iclabels serve bench.html
  iclabels serve --chip W65C02 --chip W65C22 --addr :9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd, input, &opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.chips, "chip", "c", nil, "add a chip, NAME or NAME:COUNT (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not use the artifact cache")
	defaults := config.Default().Server
	cmd.Flags().String("addr", defaults.Addr, "listen address")
	cmd.Flags().Bool("watch", defaults.Watch, "reload the preview when the sheet file changes")
	cmd.Flags().Duration("debounce", defaults.Debounce, "wait this long after a change before reloading")
	cmd.Flags().Bool("open", false, "open the preview in a browser")
	addSheetFlags(cmd)
	_ = cmd.RegisterFlagCompletionFunc("chip", c.completeChipNames)

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, input string, opts *serveOpts) error {
	ctx := cmd.Context()
	cfg := c.settings()

	if input != "" && len(opts.chips) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "pass a sheet file or --chip, not both")
	}

	sheet := cfg.BaseSheet()
	for _, spec := range opts.chips {
		e, err := parseChipFlag(spec)
		if err != nil {
			return err
		}
		sheet.Add(e)
	}

	reg, err := c.openRegistry()
	if err != nil {
		return err
	}
	mgr, err := c.openPrefs(ctx)
	if err != nil {
		return err
	}
	defer mgr.Close()
	exporter, err := c.newExporter(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer exporter.Cache.Close()

	srv, err := server.New(ctx, server.Config{
		SheetPath: input,
		Sheet:     sheet,
		Registry:  reg,
		Prefs:     mgr,
		Exporter:  exporter,
		Addr:      cfg.Server.Addr,
		Watch:     cfg.Server.Watch,
		Debounce:  cfg.Server.Debounce,
		Guides:    cfg.Render.Guides,
		Scale:     cfg.Render.Scale,
		Logger:    c.Logger,
	})
	if err != nil {
		return err
	}

	url := previewURL(cfg.Server.Addr)
	printSuccess("Preview at %s", StyleLink.Render(url))
	if input != "" && cfg.Server.Watch {
		printDetail("watching %s", input)
	}
	printNextStep("Export it", fmt.Sprintf("curl -o labels.pdf %s/page.pdf", url))
	printDetail("press Ctrl+C to stop")

	if cfg.Server.Open {
		go func() {
			// let the listener come up first
			time.Sleep(300 * time.Millisecond)
			openBrowser(ctx, url)
		}()
	}
	return srv.Serve(ctx)
}

// previewURL turns a listen address into a browsable URL.
func previewURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens url in the default browser. Failures are logged only.
func openBrowser(ctx context.Context, url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		loggerFromContext(ctx).Debug("open browser", "err", err)
		return
	}
	go func() { _ = cmd.Wait() }()
}
