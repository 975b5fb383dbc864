package discovery

import (
	"context"
	"log"
	"sync"
	"time"

	"cocoscan/internal/application/dto"
	portsin "cocoscan/internal/application/ports/in"
	portsout "cocoscan/internal/application/ports/out"
	valueobjects "cocoscan/internal/domain/value_objects"
	apperrors "cocoscan/internal/shared_kernel/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

const (
	defaultMaxConcurrentJobs = 1
	defaultJobRetention      = time.Hour
	defaultJanitorInterval   = time.Minute
	defaultCallbackTimeout   = 10 * time.Second

	eventTypeCompleted = "discovery.completed"
	eventTypeFailed    = "discovery.failed"
	eventTypeCanceled  = "discovery.canceled"
)

type Config struct {
	MaxConcurrentJobs int
	JobRetention      time.Duration
	JanitorInterval   time.Duration
	CallbackTimeout   time.Duration
}

type Metrics interface {
	ObserveAddressesScanned(count int)
	ObserveAccountsMaterialized(count int)
	ObserveMaterializationFailures(count int)
	ObserveJobStarted()
	ObserveJobFinished(status string, wasRunning bool)
}

// Runner executes discovery scans on background goroutines. At most one job
// per root identifier is queued or running at a time, and at most
// MaxConcurrentJobs scans run at once.
type Runner struct {
	cfg      Config
	useCase  portsin.DiscoverColoredAccountsUseCase
	notifier portsout.DiscoveryResultNotifier
	metrics  Metrics
	logger   *log.Logger
	slots    *semaphore.Weighted
	now      func() time.Time
	newID    func() string

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu      sync.Mutex
	stopped bool
	jobs    map[string]*job
	active  map[string]string
}

var (
	_ portsout.DiscoveryJobScheduler = (*Runner)(nil)
	_ portsout.DiscoveryAvailability = (*Runner)(nil)
)

type job struct {
	id             string
	rootIdentifier string
	root           portsout.HDKeyNode
	callbackURL    string
	retryOf        string

	status     valueobjects.DiscoveryStatus
	scanned    int
	result     dto.DiscoveryResult
	failure    *apperrors.AppError
	createdAt  time.Time
	startedAt  time.Time
	finishedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRunner(
	cfg Config,
	useCase portsin.DiscoverColoredAccountsUseCase,
	notifier portsout.DiscoveryResultNotifier,
	metrics Metrics,
	logger *log.Logger,
) *Runner {
	if cfg.MaxConcurrentJobs <= 0 {
		cfg.MaxConcurrentJobs = defaultMaxConcurrentJobs
	}
	if cfg.JobRetention <= 0 {
		cfg.JobRetention = defaultJobRetention
	}
	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = defaultJanitorInterval
	}
	if cfg.CallbackTimeout <= 0 {
		cfg.CallbackTimeout = defaultCallbackTimeout
	}

	ctx, stop := context.WithCancel(context.Background())
	return &Runner{
		cfg:      cfg,
		useCase:  useCase,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		slots:    semaphore.NewWeighted(int64(cfg.MaxConcurrentJobs)),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.NewString() },
		ctx:      ctx,
		stop:     stop,
		jobs:     map[string]*job{},
		active:   map[string]string{},
	}
}

// Start prunes finished jobs on a ticker until ctx is done, then cancels
// every in-flight job and waits for the workers to return.
func (r *Runner) Start(ctx context.Context) {
	r.logf(
		"discovery runner started max_concurrent_jobs=%d job_retention=%s janitor_interval=%s",
		r.cfg.MaxConcurrentJobs,
		r.cfg.JobRetention,
		r.cfg.JanitorInterval,
	)

	ticker := time.NewTicker(r.cfg.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Shutdown()
			r.logf("discovery runner stopped")
			return
		case <-ticker.C:
			if pruned := r.Prune(); pruned > 0 {
				r.logf("discovery jobs pruned count=%d", pruned)
			}
		}
	}
}

// Accepting reports whether Schedule and Retry still take new jobs.
func (r *Runner) Accepting() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.stopped
}

func (r *Runner) Shutdown() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	r.stop()
	r.wg.Wait()
}

func (r *Runner) Schedule(ctx context.Context, root portsout.HDKeyNode, callbackURL string) (dto.DiscoveryJobView, *apperrors.AppError) {
	if root == nil {
		return dto.DiscoveryJobView{}, apperrors.NewValidation(
			"hd_root_required",
			"root key node is required",
			nil,
		)
	}
	if err := ctx.Err(); err != nil {
		return dto.DiscoveryJobView{}, apperrors.NewCanceled(
			"request_canceled",
			"request was canceled before discovery was scheduled",
			nil,
		)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.enqueueLocked(root, callbackURL, "")
}

func (r *Runner) Get(_ context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, appErr := r.findLocked(jobID)
	if appErr != nil {
		return dto.DiscoveryJobView{}, appErr
	}
	return j.view(), nil
}

// Cancel stops a queued or running job and waits until its worker has
// recorded the canceled status, or until ctx is done.
func (r *Runner) Cancel(ctx context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError) {
	r.mu.Lock()
	j, appErr := r.findLocked(jobID)
	if appErr != nil {
		r.mu.Unlock()
		return dto.DiscoveryJobView{}, appErr
	}
	if j.status.IsTerminal() {
		view := j.view()
		r.mu.Unlock()
		return view, apperrors.NewConflict(
			"discovery_already_finished",
			"discovery has already finished",
			map[string]any{"id": j.id, "status": j.status.String()},
		)
	}
	j.cancel()
	r.mu.Unlock()

	select {
	case <-j.done:
	case <-ctx.Done():
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return j.view(), nil
}

// Retry schedules a new scan for the root of a finished job.
func (r *Runner) Retry(_ context.Context, jobID string) (dto.DiscoveryJobView, *apperrors.AppError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, appErr := r.findLocked(jobID)
	if appErr != nil {
		return dto.DiscoveryJobView{}, appErr
	}
	if !previous.status.IsTerminal() {
		return dto.DiscoveryJobView{}, apperrors.NewConflict(
			"discovery_not_finished",
			"only a finished discovery can be retried",
			map[string]any{"id": previous.id, "status": previous.status.String()},
		)
	}

	return r.enqueueLocked(previous.root, previous.callbackURL, previous.id)
}

// Done returns a channel that is closed once the job reaches a terminal
// status.
func (r *Runner) Done(jobID string) (<-chan struct{}, *apperrors.AppError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, appErr := r.findLocked(jobID)
	if appErr != nil {
		return nil, appErr
	}
	return j.done, nil
}

// Prune drops finished jobs older than the retention window.
func (r *Runner) Prune() int {
	cutoff := r.now().Add(-r.cfg.JobRetention)

	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for id, j := range r.jobs {
		if j.status.IsTerminal() && j.finishedAt.Before(cutoff) {
			delete(r.jobs, id)
			pruned++
		}
	}
	return pruned
}

func (r *Runner) enqueueLocked(root portsout.HDKeyNode, callbackURL string, retryOf string) (dto.DiscoveryJobView, *apperrors.AppError) {
	if r.stopped {
		return dto.DiscoveryJobView{}, apperrors.NewCanceled(
			"discovery_runner_stopped",
			"discovery runner is shutting down",
			nil,
		)
	}

	rootIdentifier := root.Identifier()
	if activeID, exists := r.active[rootIdentifier]; exists {
		return dto.DiscoveryJobView{}, apperrors.NewConflict(
			"discovery_already_running",
			"a discovery for this root is already queued or running",
			map[string]any{"id": activeID, "root_identifier": rootIdentifier},
		)
	}

	ctx, cancel := context.WithCancel(r.ctx)
	j := &job{
		id:             "disc_" + r.newID(),
		rootIdentifier: rootIdentifier,
		root:           root,
		callbackURL:    callbackURL,
		retryOf:        retryOf,
		status:         valueobjects.DiscoveryStatusQueued,
		createdAt:      r.now(),
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
	}
	r.jobs[j.id] = j
	r.active[rootIdentifier] = j.id

	r.wg.Add(1)
	go r.execute(j)

	r.logf("discovery job queued id=%s root_identifier=%s retry_of=%s", j.id, rootIdentifier, retryOf)
	return j.view(), nil
}

func (r *Runner) findLocked(jobID string) (*job, *apperrors.AppError) {
	j, exists := r.jobs[jobID]
	if !exists {
		return nil, apperrors.NewNotFound(
			"discovery_not_found",
			"discovery was not found",
			map[string]any{"id": jobID},
		)
	}
	return j, nil
}

func (r *Runner) execute(j *job) {
	defer r.wg.Done()
	defer j.cancel()

	if err := r.slots.Acquire(j.ctx, 1); err != nil {
		event := r.finish(j, dto.DiscoveryResult{}, apperrors.NewCanceled(
			"discovery_canceled",
			"discovery was canceled before it started",
			nil,
		))
		close(j.done)
		r.notify(event)
		return
	}

	r.markRunning(j)
	result, appErr := r.useCase.Execute(j.ctx, j.root, &jobProgress{runner: r, job: j})
	r.slots.Release(1)

	event := r.finish(j, result, appErr)
	close(j.done)
	r.notify(event)
}

func (r *Runner) markRunning(j *job) {
	r.mu.Lock()
	j.status = valueobjects.DiscoveryStatusRunning
	j.startedAt = r.now()
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ObserveJobStarted()
	}
	r.logf("discovery job started id=%s root_identifier=%s", j.id, j.rootIdentifier)
}

func (r *Runner) recordProgress(j *job, scanned int) {
	r.mu.Lock()
	delta := scanned - j.scanned
	j.scanned = scanned
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ObserveAddressesScanned(delta)
	}
}

func (r *Runner) finish(j *job, result dto.DiscoveryResult, appErr *apperrors.AppError) *dto.DiscoveryResultEvent {
	r.mu.Lock()
	wasRunning := j.status == valueobjects.DiscoveryStatusRunning
	switch {
	case appErr == nil:
		j.status = valueobjects.DiscoveryStatusCompleted
	case appErr.Is(apperrors.TypeCanceled):
		j.status = valueobjects.DiscoveryStatusCanceled
	default:
		j.status = valueobjects.DiscoveryStatusFailed
	}
	j.result = result
	j.failure = appErr
	if result.Scanned > j.scanned {
		j.scanned = result.Scanned
	}
	j.finishedAt = r.now()
	if r.active[j.rootIdentifier] == j.id {
		delete(r.active, j.rootIdentifier)
	}
	view := j.view()
	callbackURL := j.callbackURL
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.ObserveAccountsMaterialized(result.AccountsCreated)
		r.metrics.ObserveMaterializationFailures(result.AccountsFailed)
		r.metrics.ObserveJobFinished(view.Status, wasRunning)
	}
	r.logf(
		"discovery job finished id=%s root_identifier=%s status=%s scanned=%d accounts_created=%d accounts_failed=%d",
		view.ID,
		view.RootIdentifier,
		view.Status,
		view.Scanned,
		view.AccountsCreated,
		view.AccountsFailed,
	)

	if callbackURL == "" {
		return nil
	}
	return &dto.DiscoveryResultEvent{
		EventID:     "evt_" + r.newID(),
		EventType:   eventTypeFor(j.status),
		CallbackURL: callbackURL,
		Job:         view,
	}
}

func (r *Runner) notify(event *dto.DiscoveryResultEvent) {
	if event == nil || r.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.CallbackTimeout)
	defer cancel()

	output, appErr := r.notifier.NotifyDiscoveryResult(ctx, *event)
	if appErr != nil {
		r.logf(
			"discovery callback failed id=%s event_id=%s status_code=%d code=%s",
			event.Job.ID,
			event.EventID,
			output.StatusCode,
			appErr.Code,
		)
		return
	}
	r.logf("discovery callback delivered id=%s event_id=%s status_code=%d", event.Job.ID, event.EventID, output.StatusCode)
}

func (r *Runner) logf(format string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

func (j *job) view() dto.DiscoveryJobView {
	view := dto.DiscoveryJobView{
		ID:              j.id,
		RootIdentifier:  j.rootIdentifier,
		Status:          j.status.String(),
		Scanned:         j.scanned,
		AccountsCreated: j.result.AccountsCreated,
		AccountsFailed:  j.result.AccountsFailed,
		FirstAccountID:  j.result.FirstAccountID,
		RetryOf:         j.retryOf,
		CreatedAt:       j.createdAt,
	}
	if j.status == valueobjects.DiscoveryStatusCompleted {
		view.Outcome = string(valueobjects.ResolveDiscoveryOutcome(j.result.AccountsCreated))
	}
	if j.failure != nil {
		view.Error = &dto.JobError{Code: j.failure.Code, Message: j.failure.Message}
	}
	if !j.startedAt.IsZero() {
		startedAt := j.startedAt
		view.StartedAt = &startedAt
	}
	if !j.finishedAt.IsZero() {
		finishedAt := j.finishedAt
		view.FinishedAt = &finishedAt
	}
	return view
}

func eventTypeFor(status valueobjects.DiscoveryStatus) string {
	switch status {
	case valueobjects.DiscoveryStatusCompleted:
		return eventTypeCompleted
	case valueobjects.DiscoveryStatusCanceled:
		return eventTypeCanceled
	default:
		return eventTypeFailed
	}
}

type jobProgress struct {
	runner *Runner
	job    *job
}

func (p *jobProgress) OnDiscoveryProgress(scanned int) {
	p.runner.recordProgress(p.job, scanned)
}
