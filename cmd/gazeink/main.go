package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"github.com/spf13/cobra"

	"gazeink/internal/bootstrap"
	capturedto "gazeink/internal/modules/capture/dto"
	"gazeink/internal/platform/config"
	"gazeink/internal/platform/logging"
)

func main() {
	defer plugin.CleanupClients()
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		plugin.CleanupClients()
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath  string
	participant string
	outputDir   string
	logLevel    string
	strict      bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "gazeink",
		Short:         "Synchronized stylus stroke and gaze capture",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&flags.participant, "participant", "", "participant id (generated when empty)")
	root.PersistentFlags().StringVar(&flags.outputDir, "output", "", "directory for exports and the archive")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "trace|debug|info|warn|error")
	root.PersistentFlags().BoolVar(&flags.strict, "strict", false, "report calls made in the wrong state as errors")

	root.AddCommand(newRecordCmd(flags))
	root.AddCommand(newSummaryCmd(flags))
	root.AddCommand(newRenderCmd(flags))
	root.AddCommand(newArchiveCmd(flags))
	root.AddCommand(newGazeCmd(flags))
	return root
}

// loadConfig applies flags that were set explicitly on top of the file and
// environment.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if flags.participant != "" {
		cfg.ParticipantID = flags.participant
	}
	if flags.outputDir != "" {
		cfg.OutputDir = flags.outputDir
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = flags.strict
	}
	return cfg, cfg.Validate()
}

func loadApp(cmd *cobra.Command, flags *globalFlags, logger func(config.Config) (hclog.Logger, error)) (*bootstrap.App, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	log, err := logger(cfg)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, log)
}

func stderrLogger(cfg config.Config) (hclog.Logger, error) {
	return logging.New(cfg.LogLevel, os.Stderr), nil
}

// fileLogger keeps the terminal free for the full-screen UI.
func fileLogger(cfg config.Config) (hclog.Logger, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(cfg.OutputDir, "gazeink.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.New(cfg.LogLevel, f), nil
}

func newRecordCmd(flags *globalFlags) *cobra.Command {
	var exportOnExit bool
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Run the drawing recorder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, fileLogger)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := bootstrap.RunRecord(ctx, app); err != nil {
				return err
			}
			if !exportOnExit || len(app.CaptureTUI.Summary().Trials) == 0 {
				return nil
			}
			out, err := app.CaptureTUI.Export(context.Background(), capturedto.ExportInput{})
			for _, w := range out.Written {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", w.Sink, w.Location)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&exportOnExit, "export-on-exit", true, "export the session to every sink when the recorder closes")
	return cmd
}

func newSummaryCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <export.json>",
		Short: "Print per-trial counts for an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, flags, stderrLogger)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.CaptureCLI.Summary(context.Background(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "participant: %s\n", out.ParticipantID)
			_, _ = fmt.Fprintln(w, "trial\tduration\tstrokes\tpoints\tgaze\tactions")
			for _, t := range out.Trials {
				label := fmt.Sprintf("%d", t.TrialNumber)
				if t.Open {
					label += "*"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n", label, duration(t.DurationMS), t.Strokes, t.Points, t.GazeSamples, t.Actions)
			}
			tot := out.Totals
			_, _ = fmt.Fprintf(w, "total\t%s\t%d\t%d\t%d\t%d\n", duration(tot.DurationMS), tot.Strokes, tot.Points, tot.GazeSamples, tot.Actions)
			return nil
		},
	}
}

func newRenderCmd(flags *globalFlags) *cobra.Command {
	req := bootstrap.RenderRequest{}
	cmd := &cobra.Command{
		Use:   "render [export.json]",
		Short: "Replay a stored trial into PNG and/or PDF",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.ExportPath = args[0]
			}
			if req.ExportPath == "" && req.ArchiveID == 0 {
				return fmt.Errorf("an export file or --archive-id is required")
			}
			if strings.TrimSpace(req.PNGPath) == "" && strings.TrimSpace(req.PDFPath) == "" {
				return fmt.Errorf("--png or --pdf is required")
			}
			app, err := loadApp(cmd, flags, stderrLogger)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.RenderTrial(context.Background(), req)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "strokes: %d\n", out.Strokes)
			if out.PNGPath != "" {
				_, _ = fmt.Fprintf(w, "png: %s\n", out.PNGPath)
			}
			if out.PDFPath != "" {
				_, _ = fmt.Fprintf(w, "pdf: %s\n", out.PDFPath)
			}
			if out.PDF != nil {
				_, _ = fmt.Fprintf(w, "verified: pages=%d title=%q size=%gx%g\n", out.PDF.Pages, out.PDF.Title, out.PDF.Width, out.PDF.Height)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&req.ArchiveID, "archive-id", 0, "render from the archive instead of a file")
	cmd.Flags().IntVar(&req.Trial, "trial", 0, "trial number (default last)")
	cmd.Flags().BoolVar(&req.Visible, "visible", false, "apply undo/clear actions and draw only what was on screen")
	cmd.Flags().StringVar(&req.Background, "background", "", "hex background color (default transparent)")
	cmd.Flags().StringVar(&req.PNGPath, "png", "", "PNG output path")
	cmd.Flags().StringVar(&req.PDFPath, "pdf", "", "PDF output path")
	cmd.Flags().BoolVar(&req.Verify, "verify", false, "read the PDF back and report its page count and size")
	return cmd
}

func newArchiveCmd(flags *globalFlags) *cobra.Command {
	archive := &cobra.Command{
		Use:   "archive <export.json>",
		Short: "Copy an export into the SQLite archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, flags, stderrLogger)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.CaptureCLI.Archive(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "archived %s as %s\n", args[0], out.Location)
			return nil
		},
	}
	archive.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List archived sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, stderrLogger)
			if err != nil {
				return err
			}
			defer app.Close()
			entries, err := app.CaptureCLI.ListArchived(context.Background())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no archived sessions")
				return nil
			}
			for _, e := range entries {
				started := time.UnixMilli(e.StartedAt).UTC().Format(time.RFC3339)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%d trial(s)\tarchived %s\n", e.ID, e.ParticipantID, started, e.Trials, e.ArchivedAt)
			}
			return nil
		},
	})
	return archive
}

func newGazeCmd(flags *globalFlags) *cobra.Command {
	gaze := &cobra.Command{Use: "gaze", Short: "Gaze estimator commands"}
	gaze.AddCommand(&cobra.Command{
		Use:   "probe",
		Short: "Start the configured estimator once and report the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags, stderrLogger)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			out, err := app.GazeCLI.Probe(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "estimator: %s %s (%s)\n", out.Name, out.Version, out.Model)
			if out.SampleValid {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sample: %.2f,%.2f\n", out.SampleX, out.SampleY)
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sample: none yet")
			}
			return nil
		},
	})
	return gaze
}

func duration(ms float64) string {
	return (time.Duration(ms * float64(time.Millisecond))).Truncate(time.Millisecond).String()
}
