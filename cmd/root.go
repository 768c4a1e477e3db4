package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"manifestify/internal/config"
	"manifestify/internal/generator"
	"manifestify/internal/logging"
	"manifestify/internal/optimize"
	"manifestify/internal/tui"
	"manifestify/internal/watch"
)

var (
	rootOpts   config.Options
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "manifestify -i <icon> -n <name> [flags]",
	Short: "manifestify 🖼 - generate web app icons, manifest.json and browserconfig.xml",
	Long: "manifestify 🖼 turns one square source icon (512px or larger) into the Apple, Android, PWA and " +
		"Windows tile icons, a favicon.ico, a pinned-tab SVG, manifest.json, browserconfig.xml and the " +
		"<head> tags that reference them.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.NewLogger("manifestify", logging.GetLogLevel(), cmd.ErrOrStderr())

		opts, err := resolveOptions(cmd.Flags())
		if err != nil {
			return err
		}
		if opts.Watch {
			return watchAndGenerate(cmd, logger, opts)
		}
		return generate(cmd.Context(), logger, opts, cmd.OutOrStdout())
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveOptions applies the config file, if any, underneath the flags
// given on the command line. Flags not given on the command line start from
// their defaults each time, so keys removed from the file stop applying.
func resolveOptions(flags *pflag.FlagSet) (config.Options, error) {
	if err := config.ResetDefaults(flags); err != nil {
		return config.Options{}, err
	}
	if configPath != "" {
		values, err := config.LoadFile(configPath)
		if err != nil {
			return config.Options{}, err
		}
		if err := config.ApplyDefaults(flags, values); err != nil {
			return config.Options{}, err
		}
	}
	opts := rootOpts
	opts.Categories = slices.Clone(rootOpts.Categories)
	return opts, opts.Validate()
}

func generate(ctx context.Context, logger hclog.Logger, opts config.Options, out io.Writer) error {
	p := &generator.Pipeline{Logger: logger}
	if !opts.NoOptimize {
		p.Optimizer = optimize.New(opts.Optimizer)
	}

	var wait func()
	if !opts.Quiet {
		updates := make(chan generator.ProgressUpdate, 64)
		p.Updates = updates
		wait = startProgress(updates, out)
	}

	summary, err := p.Run(ctx, opts)
	if wait != nil {
		wait()
	}
	if !opts.Quiet {
		printResult(out, summary)
	}
	return err
}

// startProgress renders updates until the returned func is called, which
// closes the channel and blocks until rendering has finished.
func startProgress(updates chan generator.ProgressUpdate, out io.Writer) func() {
	uiDone := make(chan struct{})
	if isTerminal(out) {
		program := tea.NewProgram(tui.NewModel(updates), tea.WithOutput(out))
		go func() {
			_, _ = program.Run()
			close(uiDone)
		}()
	} else {
		go func() {
			defer close(uiDone)
			printProgress(out, updates)
		}()
	}
	return func() {
		close(updates)
		<-uiDone
	}
}

func printProgress(out io.Writer, updates <-chan generator.ProgressUpdate) {
	total, done := 0, 0
	for u := range updates {
		total += u.TotalDelta
		if u.Path == "" {
			continue
		}
		done++
		mark := okStyle.Render("ok")
		if u.FailedDelta > 0 {
			mark = failStyle.Render("failed")
		}
		fmt.Fprintf(out, "[%d/%d] %s %s\n", done, total, u.Path, mark)
	}
}

func printResult(out io.Writer, summary generator.Summary) {
	if summary.Total == 0 {
		return
	}
	fmt.Fprintln(out, tui.RenderSummary(tui.SummaryRows(summary)))
	if len(summary.Warnings) > 0 {
		fmt.Fprintln(out, tui.RenderWarnings(summary.Warnings))
	}
	if summary.Head == "" {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Now copy these tags inside the <head> tag of your application:")
	fmt.Fprintln(out, headBegin)
	fmt.Fprintln(out, summary.Head)
	fmt.Fprintln(out, headEnd)
}

func watchAndGenerate(cmd *cobra.Command, logger hclog.Logger, opts config.Options) error {
	w, err := watch.New(opts.IconPath, configPath)
	if err != nil {
		return err
	}
	defer w.Close()
	w.Logger = logger

	rebuild := func(ctx context.Context) {
		regenerate(ctx, cmd, logger, opts.Quiet)
	}
	rebuild(cmd.Context())
	return w.Run(cmd.Context(), rebuild)
}

// regenerate runs one watch-mode build. Errors are printed rather than
// returned so watching continues; quiet applies when the options could not
// be resolved.
func regenerate(ctx context.Context, cmd *cobra.Command, logger hclog.Logger, quiet bool) {
	out := cmd.OutOrStdout()
	opts, err := resolveOptions(cmd.Flags())
	if err == nil {
		quiet = opts.Quiet
		err = generate(ctx, logger, opts, out)
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
	if !quiet {
		fmt.Fprintln(out, dimStyle.Render("watching for changes, press Ctrl+C to stop"))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

const (
	headBegin = "<!-- -------------------- Manifestify head tags begin -------------------- -->"
	headEnd   = "<!-- --------------------- Manifestify head tags end --------------------- -->"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	failStyle = lipgloss.NewStyle().Foreground(tui.ColorFail).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.Flags()
	flags.StringVarP(&rootOpts.OutputDir, "output", "o", ".", "directory the icons and descriptors are written to")
	flags.StringVarP(&rootOpts.IconPath, "icon", "i", "", "square source icon, at least 512px (png, jpeg, gif, bmp, tiff, webp or svg)")
	flags.StringVarP(&rootOpts.Name, "name", "n", "", "application name")
	flags.StringVar(&rootOpts.IconBackgroundColor, "icon-background-color", "", "fill color behind transparent icon areas (#rgb or #rrggbb)")
	flags.StringVar(&rootOpts.BackgroundColor, "background-color", "", "manifest background_color")
	flags.StringSliceVar(&rootOpts.Categories, "categories", nil, "manifest categories")
	flags.StringVar(&rootOpts.Description, "description", "", "manifest description")
	flags.StringVar(&rootOpts.Dir, "dir", "", "text direction: auto, ltr or rtl")
	flags.StringVar(&rootOpts.Display, "display", "", "display mode: fullscreen, standalone, minimal-ui or browser")
	flags.StringVar(&rootOpts.IARCRatingID, "iarc-rating-id", "", "manifest iarc_rating_id")
	flags.StringVar(&rootOpts.Lang, "lang", "", "manifest lang")
	flags.StringVar(&rootOpts.Orientation, "orientation", "", "default orientation, e.g. any, portrait, landscape-primary")
	flags.StringVar(&rootOpts.Scope, "scope", "", "manifest scope")
	flags.StringVar(&rootOpts.ShortName, "short-name", "", "manifest short_name")
	flags.StringVar(&rootOpts.StartURL, "start-url", "", "manifest start_url")
	flags.StringVar(&rootOpts.ThemeColor, "theme-color", "", "theme color, also used for the Windows tile")
	flags.BoolVarP(&rootOpts.Quiet, "quiet", "q", false, "print nothing on success")
	flags.StringVarP(&configPath, "config", "c", "", "JSON or YAML file providing flag defaults")
	flags.StringVar(&rootOpts.Optimizer, "optimizer", config.DefaultOptimizer, "PNG optimizer binary (optipng or oxipng)")
	flags.BoolVar(&rootOpts.NoOptimize, "no-optimize", false, "skip PNG optimization")
	flags.BoolVar(&rootOpts.Watch, "watch", false, "regenerate whenever the icon or config file changes")
}
