// Package syncer implements the sync scheduler: it drives the periodic
// refresh of the task list, the selected task's detail, and the auxiliary
// session/stats state, deciding per tick whether a detail re-fetch is
// needed at all.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/slok/sbxmon/internal/apiclient"
	"github.com/slok/sbxmon/internal/cache"
	"github.com/slok/sbxmon/internal/loader"
	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
	"github.com/slok/sbxmon/internal/reconcile"
)

// taskDetailKey is the resource key of the selected-task detail pane.
// There is one pane, so one key: selecting another task supersedes the
// previous detail load instead of racing it.
const taskDetailKey = "task-detail"

// statsThrottle skips a stats refresh when the previous success is this
// recent.
const statsThrottle = time.Second

// Error concerns. Each refresh path owns one slot, so a success on one path
// never hides a standing failure on another.
const (
	concernList    = "list tasks"
	concernDetail  = "task detail"
	concernSession = "session state"
	concernStats   = "stats"
)

// SessionConfig is the configuration for a sync session.
type SessionConfig struct {
	Client     apiclient.Client
	Cache      *cache.Store
	Reconciler *reconcile.Reconciler
	Loader     *loader.Loader
	Clock      Clock
	Logger     log.Logger

	// ListInterval is the task list (and session state) poll interval.
	ListInterval time.Duration
	// StatsInterval is the auxiliary stats poll interval.
	StatsInterval time.Duration
	// ListLimit is how many task summaries each list fetch asks for.
	ListLimit int
	// OnUpdate, when set, is called with a fresh snapshot after every
	// refresh that changed visible state.
	OnUpdate func(Snapshot)
}

func (c *SessionConfig) defaults() error {
	if c.Client == nil {
		return fmt.Errorf("api client is required")
	}
	if c.Cache == nil {
		return fmt.Errorf("cache store is required")
	}
	if c.Reconciler == nil {
		return fmt.Errorf("reconciler is required")
	}
	if c.Loader == nil {
		return fmt.Errorf("loader is required")
	}
	if c.Clock == nil {
		c.Clock = NewClock()
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "syncer.Session"})

	if c.ListInterval <= 0 {
		c.ListInterval = 2 * time.Second
	}
	if c.StatsInterval <= 0 {
		c.StatsInterval = time.Second
	}
	if c.ListLimit <= 0 {
		c.ListLimit = 50
	}
	return nil
}

// Snapshot is the latest reconciled view of the monitored session.
type Snapshot struct {
	Summaries    []model.TaskSummary
	SelectedID   string
	Detail       *model.Task
	Steps        []model.Step
	Output       []model.ContentItem
	Stats        *model.Stats
	SessionState model.SessionState
	LastError    string
}

// Session drives the polling of one dashboard view. Construct one per view,
// run it with Start and dispose it by cancelling the context: all tickers
// stop and in-flight loads are abandoned.
type Session struct {
	client     apiclient.Client
	cache      *cache.Store
	reconciler *reconcile.Reconciler
	loader     *loader.Loader
	clock      Clock
	logger     log.Logger

	listInterval  time.Duration
	statsInterval time.Duration
	listLimit     int
	onUpdate      func(Snapshot)

	mu           sync.Mutex
	stop         context.CancelFunc
	summaries    []model.TaskSummary
	selectedID   string
	detail       *model.Task
	steps        []model.Step
	output       []model.ContentItem
	stats        *model.Stats
	sessionState model.SessionState
	lastErrors   map[string]string
	lastStatsAt  time.Time
}

// NewSession creates a new sync session.
func NewSession(cfg SessionConfig) (*Session, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Session{
		client:        cfg.Client,
		cache:         cfg.Cache,
		reconciler:    cfg.Reconciler,
		loader:        cfg.Loader,
		clock:         cfg.Clock,
		logger:        cfg.Logger,
		listInterval:  cfg.ListInterval,
		statsInterval: cfg.StatsInterval,
		listLimit:     cfg.ListLimit,
		onUpdate:      cfg.OnUpdate,
		lastErrors:    map[string]string{},
	}, nil
}

// Start polls until the context is cancelled or the session reaches a
// terminal state. A failed poll is logged and the next tick proceeds
// normally, single failures are transient, never fatal.
func (s *Session) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.stop = cancel
	s.mu.Unlock()

	listTicker := s.clock.NewTicker(s.listInterval)
	defer listTicker.Stop()
	statsTicker := s.clock.NewTicker(s.statsInterval)
	defer statsTicker.Stop()

	// First refresh happens immediately, not a full interval in.
	s.RefreshOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debugf("Sync session stopped")
			return nil

		case <-listTicker.C():
			s.refreshList(ctx)
			s.refreshSession(ctx)
			s.notify()
			if s.terminal() {
				s.logger.Infof("Session reached terminal state %q, stopping polling", s.snapshotState())
				return nil
			}

		case <-statsTicker.C():
			s.refreshStats(ctx)
			s.notify()
		}
	}
}

// Stop ends a running Start loop. Safe to call when not started.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.stop()
	}
}

// RefreshOnce performs a single full refresh cycle (list, session, stats,
// and the selected detail if stale).
func (s *Session) RefreshOnce(ctx context.Context) {
	s.refreshList(ctx)
	s.refreshSession(ctx)
	s.refreshStats(ctx)
	s.notify()
}

// Select switches the view to a task. A previous in-flight detail load is
// superseded; cached detail, when present, is shown immediately and
// refreshed on the next tick if stale.
func (s *Session) Select(ctx context.Context, taskID string) {
	s.loader.Supersede(taskDetailKey)

	s.mu.Lock()
	s.selectedID = taskID
	s.detail = nil
	s.steps = nil
	s.output = nil
	s.mu.Unlock()

	if taskID == "" {
		s.notify()
		return
	}

	entry, err := s.cache.Get(ctx, taskID)
	if err != nil {
		s.logger.Warningf("Could not read cached detail for %s: %s", taskID, err)
	} else if entry != nil {
		s.commitDetail(entry.Detail)
	}
	s.notify()
}

// Snapshot returns the latest reconciled view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Summaries:    s.summaries,
		SelectedID:   s.selectedID,
		Detail:       s.detail,
		Steps:        s.steps,
		Output:       s.output,
		Stats:        s.stats,
		SessionState: s.sessionState,
		LastError:    s.joinErrorsLocked(),
	}
}

// joinErrorsLocked composes the per-concern errors into a single display
// string, in a stable order. Callers must hold s.mu.
func (s *Session) joinErrorsLocked() string {
	if len(s.lastErrors) == 0 {
		return ""
	}
	concerns := make([]string, 0, len(s.lastErrors))
	for c := range s.lastErrors {
		concerns = append(concerns, c)
	}
	sort.Strings(concerns)
	msgs := make([]string, 0, len(concerns))
	for _, c := range concerns {
		msgs = append(msgs, s.lastErrors[c])
	}
	return strings.Join(msgs, "; ")
}

func (s *Session) refreshList(ctx context.Context) {
	summaries, err := s.client.ListTasks(ctx, s.listLimit)
	if err != nil {
		s.reportError(concernList, err)
		return
	}

	present := make(map[string]struct{}, len(summaries))
	for _, t := range summaries {
		present[t.ID] = struct{}{}
	}

	evicted, err := s.cache.EvictMissing(ctx, present)
	if err != nil {
		s.logger.Warningf("Could not evict vanished tasks: %s", err)
	}

	s.mu.Lock()
	s.summaries = summaries
	// Only the list's own standing error is cleared: a failing session or
	// stats poll stays visible until that poll recovers.
	delete(s.lastErrors, concernList)
	selected := s.selectedID
	for _, id := range evicted {
		if id == selected {
			// The selected task disappeared from the list, clear the
			// dependent selection.
			s.selectedID = ""
			s.detail = nil
			s.steps = nil
			s.output = nil
			selected = ""
		}
	}
	s.mu.Unlock()

	if selected == "" {
		return
	}

	for _, summary := range summaries {
		if summary.ID != selected {
			continue
		}
		stale, err := s.cache.IsStale(ctx, selected, summary.UpdatedAt)
		if err != nil {
			s.logger.Warningf("Could not check staleness of %s: %s", selected, err)
			return
		}
		if stale {
			s.loadDetail(ctx, selected)
		}
		return
	}
}

// loadDetail fetches the selected task's detail through the guarded loader,
// so a stale fetch can never overwrite a fresher one.
func (s *Session) loadDetail(ctx context.Context, taskID string) {
	err := loader.Load(ctx, s.loader, taskDetailKey,
		func(loadCtx context.Context) (*model.Task, error) {
			return s.client.GetTask(loadCtx, taskID)
		},
		func(detail *model.Task) {
			if err := s.cache.Put(ctx, *detail); err != nil {
				s.logger.Warningf("Could not cache detail for %s: %s", taskID, err)
			}
			s.commitDetail(*detail)
		},
	)
	if err != nil {
		if !errors.Is(err, model.ErrSuperseded) {
			s.reportError(concernDetail, err)
		}
		return
	}

	s.mu.Lock()
	delete(s.lastErrors, concernDetail)
	s.mu.Unlock()
}

func (s *Session) commitDetail(detail model.Task) {
	steps := s.reconciler.Steps(detail)
	output := reconcile.OutputContent(detail)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID != detail.ID {
		// Selection moved on while the detail was in flight.
		return
	}
	s.detail = &detail
	s.steps = steps
	s.output = output
}

func (s *Session) refreshSession(ctx context.Context) {
	session, err := s.client.GetSession(ctx)
	if err != nil {
		s.reportError(concernSession, err)
		return
	}

	s.mu.Lock()
	s.sessionState = session.State
	delete(s.lastErrors, concernSession)
	s.mu.Unlock()
}

func (s *Session) refreshStats(ctx context.Context) {
	s.mu.Lock()
	lastStatsAt := s.lastStatsAt
	s.mu.Unlock()

	// Skip redundant calls right after a successful refresh.
	if !lastStatsAt.IsZero() && s.clock.Now().Sub(lastStatsAt) < statsThrottle {
		return
	}

	stats, err := s.client.GetStats(ctx)
	if err != nil {
		s.reportError(concernStats, err)
		return
	}

	s.mu.Lock()
	s.stats = stats
	s.lastStatsAt = s.clock.Now()
	delete(s.lastErrors, concernStats)
	s.mu.Unlock()
}

func (s *Session) reportError(concern string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.logger.Warningf("Could not refresh %s: %s", concern, err)

	s.mu.Lock()
	s.lastErrors[concern] = fmt.Sprintf("%s: %s", concern, err)
	s.mu.Unlock()
}

func (s *Session) terminal() bool {
	return s.snapshotState().IsTerminal()
}

func (s *Session) snapshotState() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionState
}

func (s *Session) notify() {
	if s.onUpdate == nil {
		return
	}
	s.onUpdate(s.Snapshot())
}
