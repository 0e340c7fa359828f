package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	captureinadapter "gazeink/internal/modules/capture/adapter/in"
	captureoutadapter "gazeink/internal/modules/capture/adapter/out"
	captureout "gazeink/internal/modules/capture/port/out"
	captureservice "gazeink/internal/modules/capture/service"
	captureusecase "gazeink/internal/modules/capture/usecase"
	gazeinadapter "gazeink/internal/modules/gaze/adapter/in"
	gazeoutadapter "gazeink/internal/modules/gaze/adapter/out"
	gazedomain "gazeink/internal/modules/gaze/domain"
	gazeout "gazeink/internal/modules/gaze/port/out"
	gazeservice "gazeink/internal/modules/gaze/service"
	gazeusecase "gazeink/internal/modules/gaze/usecase"
	surfaceinadapter "gazeink/internal/modules/surface/adapter/in"
	surfaceoutadapter "gazeink/internal/modules/surface/adapter/out"
	surfacedomain "gazeink/internal/modules/surface/domain"
	surfaceservice "gazeink/internal/modules/surface/service"
	surfaceusecase "gazeink/internal/modules/surface/usecase"
	"gazeink/internal/platform/clock"
	"gazeink/internal/platform/config"
	"gazeink/internal/platform/id"
	uiapp "gazeink/internal/ui/app"
)

// App holds one session's wiring. It is built once per process and handed to
// the CLI commands and the recorder UI.
type App struct {
	Config        config.Config
	ParticipantID string
	Logger        hclog.Logger

	CaptureTUI captureinadapter.TUIHandler
	CaptureCLI captureinadapter.CLIHandler
	SurfaceTUI surfaceinadapter.TUIHandler
	SurfaceCLI surfaceinadapter.CLIHandler
	GazeTUI    gazeinadapter.TUIHandler
	GazeCLI    gazeinadapter.CLIHandler

	archive *captureoutadapter.SQLiteArchive
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	wall := clock.SystemClock{}
	timeline := clock.NewMonotonic()

	participant := cfg.ParticipantID
	if participant == "" {
		participant = id.Participant(id.UUID{})
	}

	archive, err := captureoutadapter.NewSQLiteArchive(cfg.ArchivePath(), wall)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	files := captureoutadapter.NewJSONFileStore(cfg.OutputDir, wall)
	sinks := []captureout.Sink{
		files,
		archive,
		captureoutadapter.NewSummaryNoteSink(cfg.OutputDir, wall),
	}

	store := captureservice.NewCaptureStore(timeline, wall, captureservice.Metadata{
		ParticipantID:    participant,
		UserAgent:        cfg.UserAgent,
		ScreenWidth:      cfg.Screen.Width,
		ScreenHeight:     cfg.Screen.Height,
		DevicePixelRatio: cfg.DevicePixelRatio,
	}, captureservice.Options{Strict: cfg.Strict})
	captureUC := captureusecase.NewInteractor(store, sinks, logger.Named("export"))
	archiveUC := captureusecase.NewArchiveInteractor(files, archive)

	drawing := surfaceservice.NewDrawingSurface(
		surfaceoutadapter.NewRasterCanvas(nil),
		surfaceoutadapter.NewCaptureRecorder(captureUC),
		surfacedomain.Style{Tool: surfacedomain.Pen, Color: cfg.Pen.Color, Thickness: cfg.Pen.Thickness},
	)
	fileWriter := surfaceoutadapter.NewLocalFileWriter()
	surfaceUC := surfaceusecase.NewInteractor(drawing, fileWriter)
	renderUC := surfaceusecase.NewRenderInteractor(surfaceoutadapter.NewCanvasFactory(wall), fileWriter, surfaceoutadapter.NewPDFInspector())

	gazeLogger := logger.Named("gaze")
	gazeUC := gazeusecase.NewInteractor(gazeservice.NewAdapter(captureUC, gazeLogger), newEstimator(cfg, timeline, gazeLogger))

	logger.Debug("session wired", "participant", participant, "output_dir", cfg.OutputDir, "strict", cfg.Strict)
	return &App{
		Config:        cfg,
		ParticipantID: participant,
		Logger:        logger,
		CaptureTUI:    captureinadapter.NewTUIHandler(captureUC),
		CaptureCLI:    captureinadapter.NewCLIHandler(archiveUC),
		SurfaceTUI:    surfaceinadapter.NewTUIHandler(surfaceUC),
		SurfaceCLI:    surfaceinadapter.NewCLIHandler(renderUC),
		GazeTUI:       gazeinadapter.NewTUIHandler(gazeUC),
		GazeCLI:       gazeinadapter.NewCLIHandler(gazeUC),
		archive:       archive,
	}, nil
}

// newEstimator picks the plugin binary when configured and the in-process
// sweep otherwise.
func newEstimator(cfg config.Config, timeline clock.Timeline, logger hclog.Logger) gazeout.Estimator {
	interval := time.Duration(cfg.Gaze.IntervalMS) * time.Millisecond
	if cfg.Gaze.Plugin == "" {
		return gazeoutadapter.NewSyntheticSource(interval, cfg.Screen.Width, cfg.Screen.Height, timeline)
	}
	return gazeoutadapter.NewPluginSource(gazedomain.Binary{Path: cfg.Gaze.Plugin, SHA256: cfg.Gaze.SHA256}, gazeoutadapter.PluginOptions{
		Interval:     interval,
		ScreenWidth:  cfg.Screen.Width,
		ScreenHeight: cfg.Screen.Height,
		Logger:       logger,
	})
}

func (a *App) Close() error {
	if a.archive == nil {
		return nil
	}
	return a.archive.Close()
}

// RunRecord runs the recorder UI. Estimates are posted into the UI loop so
// that every capture mutation happens on one goroutine.
func RunRecord(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := uiapp.NewModel(app.CaptureTUI, app.SurfaceTUI, app.GazeTUI, uiapp.Options{
		CellWidth:        app.Config.Cell.Width,
		CellHeight:       app.Config.Cell.Height,
		DevicePixelRatio: app.Config.DevicePixelRatio,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	go func() {
		err := app.GazeTUI.Stream(ctx, func(x, y float64) {
			program.Send(uiapp.GazeMsg{X: x, Y: y})
		})
		if err != nil {
			app.Logger.Named("gaze").Warn("estimator unavailable", "error", err)
		}
		program.Send(uiapp.GazeReadyMsg{Err: err})
	}()

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
