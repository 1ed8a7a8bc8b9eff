package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/onurcolak/message-dispatcher/internal/domain"
	"github.com/onurcolak/message-dispatcher/pkg/logger"
	"github.com/onurcolak/message-dispatcher/pkg/metrics"
	"github.com/onurcolak/message-dispatcher/pkg/webhook"
)

// configStore is the part of the schedule config repository the scheduler needs.
type configStore interface {
	FindByName(ctx context.Context, name string) (*domain.ScheduleConfig, error)
	Create(ctx context.Context, name, cronExpression string, isActive bool) (*domain.ScheduleConfig, error)
	Update(ctx context.Context, id string, upd domain.ScheduleConfigUpdate) (*domain.ScheduleConfig, error)
}

// dueDispatcher matches Dispatcher.DispatchDue and lets tests drive firings with a fake.
type dueDispatcher interface {
	DispatchDue(ctx context.Context, now time.Time) ([]domain.DispatchResult, error)
}

type alertNotifier interface {
	SendAlert(ctx context.Context, alert webhook.Alert) error
}

type Options struct {
	DefaultCadence string
	Location       *time.Location
	AlertThreshold int // consecutive all-fail firings before an alert is posted
}

// Scheduler owns the single named timer that drives due-message dispatch. The timer is
// always replaced by removing the old entry before the new one is added, and firings are
// serialised so a slow batch makes later ticks skip instead of overlap.
type Scheduler struct {
	configs    configStore
	dispatcher dueDispatcher
	notifier   alertNotifier
	opts       Options
	now        func() time.Time

	cron    *cron.Cron
	baseCtx context.Context

	// Reconfiguration state
	mu      sync.Mutex
	entries map[string]cron.EntryID
	cadence string
	active  bool
	started bool

	firing sync.Mutex

	// Statistics
	statsMu                 sync.RWMutex
	lastRunAt               time.Time
	lastAlertSentAt         time.Time
	messagesSent            int64
	runsCount               int64
	consecutiveAllFailCount int
}

func NewScheduler(configs configStore, dispatcher dueDispatcher, notifier alertNotifier, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	return &Scheduler{
		configs:    configs,
		dispatcher: dispatcher,
		notifier:   notifier,
		opts:       opts,
		now:        time.Now,
		cron: cron.New(
			cron.WithParser(cadenceParser),
			cron.WithLocation(opts.Location),
			cron.WithLogger(cron.PrintfLogger(logger.Printf)),
		),
		baseCtx: context.Background(),
		entries: make(map[string]cron.EntryID),
	}
}

// Init loads the message-sender config, creating it with the default cadence when it is
// missing, and arms the timer if the config is active. Firings run with ctx.
func (s *Scheduler) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.baseCtx = ctx

	if !s.started {
		s.cron.Start()
		s.started = true
	}

	cfg, err := s.loadOrCreate(ctx, s.opts.DefaultCadence)
	if err != nil {
		return err
	}

	s.cadence = cfg.CronExpression
	s.active = cfg.IsActive

	if !cfg.IsActive {
		logger.Infof("Scheduler config %q is inactive, timer not armed", cfg.Name)
		return nil
	}

	return s.arm(cfg.CronExpression)
}

// SetCadence stores a new cron expression and swaps the running timer for one using it.
func (s *Scheduler) SetCadence(ctx context.Context, expr string) error {
	if err := ValidateCadence(expr); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadOrCreate(ctx, expr)
	if err != nil {
		return err
	}

	updated, err := s.configs.Update(ctx, cfg.ID, domain.ScheduleConfigUpdate{CronExpression: &expr})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	if updated == nil {
		return domain.ErrScheduleConfigNotFound
	}

	s.cadence = updated.CronExpression
	s.active = updated.IsActive

	logger.Infof("Scheduler cadence set to %q", s.cadence)

	if !s.active {
		s.deregister(domain.MessageSenderConfigName)
		return nil
	}

	return s.arm(s.cadence)
}

// SetActive stores the active flag, then arms the timer with the stored cadence or removes it.
// Both directions are idempotent.
func (s *Scheduler) SetActive(ctx context.Context, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.loadOrCreate(ctx, s.opts.DefaultCadence)
	if err != nil {
		return err
	}

	updated, err := s.configs.Update(ctx, cfg.ID, domain.ScheduleConfigUpdate{IsActive: &active})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	if updated == nil {
		return domain.ErrScheduleConfigNotFound
	}

	s.cadence = updated.CronExpression
	s.active = updated.IsActive

	if !active {
		s.deregister(domain.MessageSenderConfigName)
		logger.Infof("Scheduler deactivated")
		return nil
	}

	logger.Infof("Scheduler activated with cadence %q", s.cadence)

	return s.arm(s.cadence)
}

// Stop removes the timer and waits for a running firing to finish. The stored config is
// left untouched so the next startup restores the same state.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	s.deregister(domain.MessageSenderConfigName)
	started := s.started
	s.started = false
	s.mu.Unlock()

	if started {
		<-s.cron.Stop().Done()
	}

	logger.Infof("Scheduler stopped")
	return nil
}

// IsArmed reports whether a timer is registered for the message-sender config.
func (s *Scheduler) IsArmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[domain.MessageSenderConfigName]
	return ok
}

func (s *Scheduler) loadOrCreate(ctx context.Context, cadence string) (*domain.ScheduleConfig, error) {
	cfg, err := s.configs.FindByName(ctx, domain.MessageSenderConfigName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	if cfg != nil {
		return cfg, nil
	}

	logger.Infof("Schedule config %q not found, creating it with cadence %q", domain.MessageSenderConfigName, cadence)

	cfg, err = s.configs.Create(ctx, domain.MessageSenderConfigName, cadence, true)
	if errors.Is(err, domain.ErrScheduleConfigConflict) {
		cfg, err = s.configs.FindByName(ctx, domain.MessageSenderConfigName)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageFault, err)
	}
	if cfg == nil {
		return nil, domain.ErrScheduleConfigNotFound
	}

	return cfg, nil
}

// arm must be called with mu held.
func (s *Scheduler) arm(expr string) error {
	schedule, err := ParseCadence(expr)
	if err != nil {
		s.deregister(domain.MessageSenderConfigName)
		return err
	}

	s.deregister(domain.MessageSenderConfigName)

	id := s.cron.Schedule(schedule, cron.FuncJob(s.onTick))
	s.entries[domain.MessageSenderConfigName] = id

	logger.Infof("Scheduler armed with cadence %q (%s)", expr, s.opts.Location)
	return nil
}

// deregister must be called with mu held. Removing an absent entry is a no-op.
func (s *Scheduler) deregister(name string) {
	id, ok := s.entries[name]
	if !ok {
		return
	}

	s.cron.Remove(id)
	delete(s.entries, name)

	logger.Debugf("Scheduler entry %q removed", name)
}

func (s *Scheduler) onTick() {
	if !s.firing.TryLock() {
		metrics.SchedulerSkippedFirings.Inc()
		logger.Warnf("Previous firing still running, skipping tick")
		return
	}
	defer s.firing.Unlock()

	s.mu.Lock()
	ctx := s.baseCtx
	s.mu.Unlock()

	s.fire(ctx)
}

func (s *Scheduler) fire(ctx context.Context) {
	s.statsMu.Lock()
	s.lastRunAt = s.now()
	s.runsCount++
	runNumber := s.runsCount
	startedAt := s.lastRunAt
	s.statsMu.Unlock()

	metrics.SchedulerFirings.Inc()

	logger.Infof("[Run #%d] Starting dispatch at %s", runNumber, startedAt.Format(time.RFC3339))

	results, err := s.dispatcher.DispatchDue(ctx, startedAt)
	if err != nil {
		logger.Errorf("[Run #%d] Error dispatching messages: %v", runNumber, err)
		return
	}

	if len(results) == 0 {
		logger.Debugf("[Run #%d] No messages due", runNumber)
		return
	}

	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}
	allFailed := successCount == 0

	s.statsMu.Lock()
	s.messagesSent += int64(successCount)

	if allFailed {
		s.consecutiveAllFailCount++
		logger.Warnf("[Run #%d] All %d messages failed (consecutive count: %d/%d)",
			runNumber, len(results), s.consecutiveAllFailCount, s.opts.AlertThreshold)

		if s.notifier != nil && s.opts.AlertThreshold > 0 && s.consecutiveAllFailCount >= s.opts.AlertThreshold {
			go s.sendAlert(ctx, runNumber, s.consecutiveAllFailCount, len(results))
		}
	} else {
		if s.consecutiveAllFailCount > 0 {
			logger.Debugf("[Run #%d] Resetting consecutive failure count (was: %d)", runNumber, s.consecutiveAllFailCount)
		}
		s.consecutiveAllFailCount = 0
	}
	s.statsMu.Unlock()

	logger.Infof("[Run #%d] Dispatched %d messages, %d sent, %d failed",
		runNumber, len(results), successCount, len(results)-successCount)
}

func (s *Scheduler) sendAlert(ctx context.Context, runNumber int64, consecutiveFailures int, messagesInBatch int) {
	alert := webhook.Alert{
		Alert:               "consecutive_all_fail",
		RunNumber:           runNumber,
		ConsecutiveFailures: consecutiveFailures,
		MessagesInBatch:     messagesInBatch,
		Timestamp:           s.now().Format(time.RFC3339),
		Message: fmt.Sprintf(
			"All %d messages failed for %d consecutive firings",
			messagesInBatch,
			consecutiveFailures,
		),
	}

	if err := s.notifier.SendAlert(ctx, alert); err != nil {
		logger.Errorf("Failed to send alert: %v", err)
		return
	}

	s.statsMu.Lock()
	s.lastAlertSentAt = s.now()
	s.statsMu.Unlock()

	logger.Infof("Alert sent (consecutive failures: %d)", consecutiveFailures)
}

func (s *Scheduler) GetStatus() SchedulerStatus {
	s.mu.Lock()
	id, armed := s.entries[domain.MessageSenderConfigName]
	status := SchedulerStatus{
		Armed:          armed,
		Active:         s.active,
		CronExpression: s.cadence,
		Timezone:       s.opts.Location.String(),
	}
	s.mu.Unlock()

	if armed {
		if entry := s.cron.Entry(id); entry.Valid() {
			next := entry.Next
			if next.IsZero() {
				next = entry.Schedule.Next(s.now().In(s.opts.Location))
			}
			status.NextRunAt = next
		}
	}

	s.statsMu.RLock()
	defer s.statsMu.RUnlock()

	status.LastRunAt = s.lastRunAt
	status.MessagesSent = s.messagesSent
	status.RunsCount = s.runsCount
	status.ConsecutiveAllFailCount = s.consecutiveAllFailCount
	status.LastAlertSentAt = s.lastAlertSentAt

	return status
}

type SchedulerStatus struct {
	Armed                   bool      `json:"armed"`
	Active                  bool      `json:"active"`
	CronExpression          string    `json:"cronExpression"`
	Timezone                string    `json:"timezone"`
	LastRunAt               time.Time `json:"lastRunAt,omitempty"`
	NextRunAt               time.Time `json:"nextRunAt,omitempty"`
	MessagesSent            int64     `json:"messagesSent"`
	RunsCount               int64     `json:"runsCount"`
	ConsecutiveAllFailCount int       `json:"consecutiveAllFailCount"`
	LastAlertSentAt         time.Time `json:"lastAlertSentAt,omitempty"`
}
