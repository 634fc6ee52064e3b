package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/travellabs/tripbot/internal/cli"
	"github.com/travellabs/tripbot/internal/config"
	"github.com/travellabs/tripbot/internal/db"
	"github.com/travellabs/tripbot/internal/dialogue"
	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/hotel"
	"github.com/travellabs/tripbot/internal/itinerary"
	"github.com/travellabs/tripbot/internal/llm"
	"github.com/travellabs/tripbot/internal/logging"
	"github.com/travellabs/tripbot/internal/repository"
	"github.com/travellabs/tripbot/internal/server"
	"github.com/travellabs/tripbot/internal/service"
)

func main() {
	app := &cli.App{
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
	if err := cli.NewRootCmd(app, bootstrap).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and wires every dependency into app.
func bootstrap(app *cli.App, flags cli.GlobalFlags) (func(), error) {
	cfg, err := config.Load(config.Options{ConfigPath: flags.ConfigPath, EnvFile: flags.EnvFile})
	if err != nil {
		return nil, err
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return nil, err
	}

	var observer llm.Observer = llm.NewZapObserver(logger)
	if cfg.LLM.LogCalls {
		observer = llm.NewLogObserver(os.Stderr)
	}
	client, err := llm.NewClient(cfg.LLMClientConfig(), observer)
	if err != nil {
		return nil, fmt.Errorf("creating completion client: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tripRepo := repository.NewSQLiteTripRepo(database)
	itineraryRepo := repository.NewSQLiteItineraryRepo(database)
	uow := repository.NewSQLiteUnitOfWork(database)
	useCases := service.NewZapUseCaseObserver(logger)

	var finder itinerary.HotelFinder
	hotels := hotel.NewClient(hotel.Config{
		APIKey:   cfg.Hotels.APIKey,
		BaseURL:  cfg.Hotels.BaseURL,
		Host:     cfg.Hotels.Host,
		Currency: cfg.Hotels.Currency,
		Locale:   cfg.Hotels.Locale,
		MaxPages: cfg.Hotels.MaxPages,
		Timeout:  time.Duration(cfg.Hotels.TimeoutMs) * time.Millisecond,
	}, logger)
	if hotels.Enabled() {
		finder = hotels
	} else {
		logger.Debug("no RapidAPI key; itineraries are planned without hotel data")
	}

	trips := service.NewTripService(tripRepo, uow, useCases)
	itineraries := service.NewItineraryService(tripRepo, itineraryRepo,
		itinerary.NewGenerator(client, finder, logger), useCases)

	window := cfg.Dialogue.HistoryWindow
	newSession := func(lang domain.Language) *dialogue.Session {
		return dialogue.NewSession(client, dialogue.Config{
			Language:      lang,
			HistoryWindow: window,
			Logger:        logger,
		})
	}

	app.NewSession = newSession
	app.Trips = trips
	app.Itineraries = itineraries
	app.Language = cfg.LanguageValue()
	app.Addr = cfg.Server.Addr
	app.Serve = func(ctx context.Context, addr string) error {
		srv, err := server.New(newSession, trips, server.Config{
			SessionTTL: time.Duration(cfg.Server.SessionTTLMinutes) * time.Minute,
		}, logger)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(ctx, addr)
	}

	cleanup := func() {
		if err := database.Close(); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return cleanup, nil
}
