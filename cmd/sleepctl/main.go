package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/sleepctl/internal/actuator"
	"codeberg.org/mutker/sleepctl/internal/config"
	"codeberg.org/mutker/sleepctl/internal/errors"
	"codeberg.org/mutker/sleepctl/internal/history"
	"codeberg.org/mutker/sleepctl/internal/logger"
	"codeberg.org/mutker/sleepctl/internal/mqtt"
	"codeberg.org/mutker/sleepctl/internal/pid"
	"codeberg.org/mutker/sleepctl/internal/sensor"
	"codeberg.org/mutker/sleepctl/internal/sleep"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if !cfg.Debug && !cfg.Verbose {
		applyLogLevel(cfg.LogLevel)
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		if errors.CodeOf(err) == errors.ErrAlreadyRunning {
			logger.Fatal().Msg("sleepctl is already running")
		}
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	broker, err := mqtt.NewClient(&cfg.MQTT)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MQTT broker")
	}
	defer broker.Disconnect()

	vitals, err := sensor.NewVitalsProvider(broker, cfg.MQTT.VitalsTopic, cfg.SignalMaxAge())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to subscribe to vitals")
	}

	environment, err := sensor.NewEnvironmentProvider(broker, cfg.MQTT.EnvironmentTopic, cfg.SignalMaxAge())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to subscribe to environment")
	}

	store, err := history.NewStore(history.Config{
		DBPath:  cfg.HistoryDB,
		Enabled: cfg.History,
	}, logger.Default())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open history store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close history store")
		}
	}()

	actuators := actuator.NewMQTTSet(broker, cfg.MQTT.CommandPrefix)
	if cfg.Monitor {
		logger.Info().Msg("Monitor mode activated. Observing without actuating...")
		actuators = actuator.NewNoopSet()
	}

	metrics := sleep.NewMetrics()
	dispatcher := sleep.NewDispatcher(actuators, store, metrics)

	controller, err := sleep.NewController(sleep.ControllerConfig{
		TickPeriod: cfg.TickPeriod(),
		Monitor:    cfg.Monitor,
	}, sleep.Collaborators{
		Vitals:      vitals,
		Environment: environment,
		Classifier:  sleep.NewThresholdClassifier(),
		Policy:      sleep.NewRulePolicy(),
		Dispatcher:  dispatcher,
		History:     store,
	}, metrics)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build controller")
	}

	if err := controller.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start optimization session")
	}

	waitForSignal()

	if err := controller.Stop(); err != nil {
		logger.Error().Err(err).Msg("error stopping optimization session")
	}

	logSessionReport(controller.Snapshot())
	logger.Info().Msg("Exiting...")
}

func waitForSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
}

func logSessionReport(snap sleep.Snapshot) {
	logger.Info().
		Str("stage", snap.Stage.String()).
		Float64("quality", snap.Quality).
		Dur("total_sleep", snap.Metrics.TotalSleepTime).
		Float64("deep_pct", snap.Metrics.DeepSleepPercentage).
		Float64("rem_pct", snap.Metrics.REMSleepPercentage).
		Int("interventions", len(snap.Metrics.Interventions)).
		Msg("Session report")
}

func applyLogLevel(level string) {
	switch config.LogLevel(level) {
	case config.LogLevelDebug:
		logger.SetLogLevel(logger.DebugLevel)
	case config.LogLevelInfo:
		logger.SetLogLevel(logger.InfoLevel)
	case config.LogLevelWarning:
		logger.SetLogLevel(logger.WarnLevel)
	case config.LogLevelError:
		logger.SetLogLevel(logger.ErrorLevel)
	}
}
