package sleep

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/sleepctl/internal/errors"
	"codeberg.org/mutker/sleepctl/internal/history"
	"codeberg.org/mutker/sleepctl/internal/logger"
)

// Snapshot is the observable controller state, replaced wholesale once per
// tick. Observers read committed state at tick boundaries and must not
// assume anything about mid-tick values.
type Snapshot struct {
	Running bool
	Stage   Stage
	Quality float64
	Metrics MetricsSnapshot
	History []history.QuickAction
}

// ControllerConfig carries the loop parameters.
type ControllerConfig struct {
	// TickPeriod is the time between optimization cycles.
	TickPeriod time.Duration
	// Monitor disables actuation: the loop samples, classifies and logs
	// decisions but never dispatches.
	Monitor bool
}

// Controller drives the sample-classify-aggregate-decide-dispatch cycle on a
// fixed period. All state mutation happens in the single loop goroutine;
// ticks are structurally non-overlapping because that goroutine is the only
// ticker consumer and a missed fire is dropped, never queued.
type Controller struct {
	cfg        ControllerConfig
	vitals     VitalsProvider
	env        EnvironmentProvider
	classifier *ClassifierAdapter
	policy     *PolicyAdapter
	dispatcher *Dispatcher
	store      history.Store
	metrics    *Metrics
	errFactory errors.Factory
	now        func() time.Time

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
	snapshot Snapshot
	ticks    chan struct{}

	// Loop-owned state, touched only inside ticks
	stage       Stage
	timeInStage time.Duration
	quality     float64
	sessionLog  []history.QuickAction
}

// Collaborators are the injected external systems.
type Collaborators struct {
	Vitals      VitalsProvider
	Environment EnvironmentProvider
	Classifier  StageClassifier
	Policy      DecisionPolicy
	Dispatcher  *Dispatcher
	History     history.Store
}

func NewController(cfg ControllerConfig, c Collaborators, metrics *Metrics) (*Controller, error) {
	errFactory := errors.New()

	if cfg.TickPeriod <= 0 {
		return nil, errFactory.WithData(errors.ErrInvalidInterval, cfg.TickPeriod)
	}
	if c.Vitals == nil || c.Environment == nil || c.Classifier == nil || c.Policy == nil || c.Dispatcher == nil || c.History == nil {
		return nil, errFactory.WithMessage(errors.ErrInvalidArgument, "missing collaborator")
	}

	return &Controller{
		cfg:        cfg,
		vitals:     c.Vitals,
		env:        c.Environment,
		classifier: NewClassifierAdapter(c.Classifier),
		policy:     NewPolicyAdapter(c.Policy),
		dispatcher: c.Dispatcher,
		store:      c.History,
		metrics:    metrics,
		errFactory: errFactory,
		now:        time.Now,
		stage:      StageUnknown,
		ticks:      make(chan struct{}, 1),
	}, nil
}

// Start begins the optimization session: loads persisted history once, then
// schedules ticks until Stop.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return c.errFactory.New(errors.ErrSessionRunning)
	}

	loaded, err := c.store.LoadAll(context.Background())
	if err != nil {
		// Non-fatal: the session continues on in-memory history only
		logger.Error().Err(err).Msg("Failed to load quick action history")
	}
	c.sessionLog = append([]history.QuickAction(nil), loaded...)

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true
	c.publishLocked()

	go c.run(ctx)

	logger.Info().
		Dur("tick_period", c.cfg.TickPeriod).
		Bool("monitor", c.cfg.Monitor).
		Int("loaded_history", len(loaded)).
		Msg("Sleep optimization session started")

	return nil
}

// Stop halts scheduling immediately, waits for an in-flight tick to finish,
// then returns every actuator domain to baseline. Metrics stay intact for
// reporting.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return c.errFactory.New(errors.ErrSessionStopped)
	}
	c.running = false
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	cancel()
	<-done

	if !c.cfg.Monitor {
		c.dispatcher.Baseline(context.Background())
	}

	c.mu.Lock()
	c.publishLocked()
	c.mu.Unlock()

	logger.Info().Msg("Sleep optimization session stopped")

	return nil
}

// Snapshot returns the last committed observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot
}

// Ticks signals once per completed tick. The channel is never closed and
// holds at most one pending signal; slow observers miss signals, not state.
func (c *Controller) Ticks() <-chan struct{} {
	return c.ticks
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.cfg.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.safeTick(ctx)
			// A tick that overran its period leaves one fire buffered in
			// the ticker channel. Drop it so the next tick starts on a
			// later period boundary instead of immediately.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

// safeTick absorbs anything a tick throws: no error or panic may stop the
// scheduler.
func (c *Controller) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Tick panicked; loop continues")
		}
	}()

	c.tick(ctx)

	c.mu.Lock()
	c.publishLocked()
	c.mu.Unlock()

	select {
	case c.ticks <- struct{}{}:
	default:
	}
}

func (c *Controller) tick(ctx context.Context) {
	vitals, err := c.vitals.CurrentVitals(ctx)
	if err != nil {
		// Stage retained, classification skipped for this cycle
		logger.Warn().Err(err).Msg("Vitals unavailable; skipping classification")
		return
	}

	env, err := c.env.CurrentEnvironment(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Environment unavailable; skipping classification")
		return
	}

	features := Features{
		HeartRate:       vitals.HeartRate,
		HRV:             vitals.HRV,
		SpO2:            vitals.SpO2,
		BodyTemperature: vitals.BodyTemperature,
		TimeOfDayPhase:  TimeOfDayPhase(c.now()),
	}

	stage, err := c.classifier.Classify(ctx, features)
	switch {
	case err != nil:
		// Previous stage retained; never overwrite on inference failure.
		// The retained stage still accrues time, in both clocks.
		logger.Error().Err(err).Str("stage", c.stage.String()).Msg("Classification failed; retaining stage")
		if c.stage.IsConcrete() {
			c.timeInStage += c.cfg.TickPeriod
		}
	case stage == c.stage:
		c.timeInStage += c.cfg.TickPeriod
	default:
		logger.Debug().Str("from", c.stage.String()).Str("to", stage.String()).Msg("Sleep stage transition")
		c.stage = stage
		c.timeInStage = c.cfg.TickPeriod
	}

	if c.stage.IsConcrete() {
		c.metrics.Record(c.stage, c.cfg.TickPeriod)
	}

	state := State{
		Stage:       c.stage,
		HeartRate:   vitals.HeartRate,
		HRV:         vitals.HRV,
		TimeInStage: c.timeInStage,
	}
	c.quality = QualityScore(state)

	action, err := c.policy.Decide(ctx, state, env)
	if err != nil {
		logger.Error().Err(err).Msg("Decision policy failed; no nudge this tick")
		return
	}
	if action == nil {
		return
	}

	if c.cfg.Monitor {
		logger.Info().
			Str("domain", string(action.Domain)).
			Str("reason", action.Reason).
			Msg("Monitor mode: suppressing nudge")
		return
	}

	record := c.dispatcher.Dispatch(ctx, *action)
	c.sessionLog = append(c.sessionLog, record)

	logger.Info().
		Str("domain", string(action.Domain)).
		Str("reason", action.Reason).
		Str("action_id", record.ID).
		Msg("Nudge dispatched")
}

// publishLocked replaces the committed snapshot. Caller holds c.mu.
func (c *Controller) publishLocked() {
	histCopy := make([]history.QuickAction, len(c.sessionLog))
	copy(histCopy, c.sessionLog)

	c.snapshot = Snapshot{
		Running: c.running,
		Stage:   c.stage,
		Quality: c.quality,
		Metrics: c.metrics.Snapshot(),
		History: histCopy,
	}
}
