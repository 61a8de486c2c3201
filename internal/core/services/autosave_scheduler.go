package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/carbonly/carbon_footprint_app/internal/core/domain"
	portssvc "github.com/carbonly/carbon_footprint_app/internal/core/ports/services"
	"github.com/carbonly/carbon_footprint_app/internal/dto"
	"github.com/carbonly/carbon_footprint_app/internal/utils"
)

// autosaveSchedulerImpl implements the AutosaveSvcFacade interface. Each
// (report, source) pair owns one instance with at most one pending timer;
// rescheduling replaces the timer, it never stacks a second one. An edit
// whose content hash equals the last saved hash is dropped before any timer
// or network activity.
type autosaveSchedulerImpl struct {
	BaseService
	pipeline       portssvc.SubmissionSvcFacade
	debounce       time.Duration
	savedIndicator time.Duration

	mu        sync.Mutex
	instances map[string]*autosaveInstance
	closed    bool
}

// autosaveInstance is the per-(report, source) debounce state. All fields
// are guarded by the scheduler mutex.
type autosaveInstance struct {
	actorUserID string
	reportID    string
	sourceKey   string

	timer         *time.Timer
	savedTimer    *time.Timer
	pendingRows   []domain.Row
	pendingHash   string
	lastSavedHash string
	state         portssvc.AutosaveState
}

// NewAutosaveScheduler creates a scheduler that drives the given pipeline.
func NewAutosaveScheduler(pipeline portssvc.SubmissionSvcFacade, debounce, savedIndicator time.Duration) portssvc.AutosaveSvcFacade {
	return &autosaveSchedulerImpl{
		pipeline:       pipeline,
		debounce:       debounce,
		savedIndicator: savedIndicator,
		instances:      make(map[string]*autosaveInstance),
	}
}

// Ensure autosaveSchedulerImpl implements the AutosaveSvcFacade interface
var _ portssvc.AutosaveSvcFacade = (*autosaveSchedulerImpl)(nil)

func instanceKey(reportID, sourceKey string) string {
	return reportID + "|" + sourceKey
}

// Schedule records an edit for later saving. Identical content is dropped
// immediately; changed content (re)starts the debounce timer. The dedup hash
// is computed over the sanitized rows, so two raw spellings of the same value
// compare equal and do not re-trigger a save.
func (s *autosaveSchedulerImpl) Schedule(ctx context.Context, actorUserID, reportID, sourceKey string, rows []domain.Row) (portssvc.AutosaveState, error) {
	hash := utils.HashRows(rows)
	if schema, ok := domain.SchemaForSource(sourceKey); ok {
		hash = utils.HashRows(domain.SanitizeRows(schema, rows))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return portssvc.AutosaveIdle, nil
	}

	inst, ok := s.instances[instanceKey(reportID, sourceKey)]
	if !ok {
		inst = &autosaveInstance{
			actorUserID: actorUserID,
			reportID:    reportID,
			sourceKey:   sourceKey,
			state:       portssvc.AutosaveIdle,
		}
		s.instances[instanceKey(reportID, sourceKey)] = inst
	}
	inst.actorUserID = actorUserID

	if hash == inst.lastSavedHash {
		// Content reverted to the saved state: drop any pending save too.
		if inst.timer != nil {
			inst.timer.Stop()
			inst.timer = nil
		}
		inst.pendingHash = hash
		return inst.state, nil
	}

	inst.pendingRows = rows
	inst.pendingHash = hash
	if inst.timer != nil {
		inst.timer.Stop()
	}
	inst.timer = time.AfterFunc(s.debounce, func() {
		s.fire(inst, hash)
	})

	return inst.state, nil
}

// State reports the observable state of one instance. Instances that never
// scheduled anything are idle.
func (s *autosaveSchedulerImpl) State(reportID, sourceKey string) portssvc.AutosaveState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inst, ok := s.instances[instanceKey(reportID, sourceKey)]; ok {
		return inst.state
	}
	return portssvc.AutosaveIdle
}

// Flush forces a pending save to run now. It returns nil when nothing was
// pending or the pending content matched the last save.
func (s *autosaveSchedulerImpl) Flush(ctx context.Context, reportID, sourceKey string) (*dto.SubmitResult, error) {
	s.mu.Lock()
	inst, ok := s.instances[instanceKey(reportID, sourceKey)]
	if !ok || inst.timer == nil {
		s.mu.Unlock()
		return nil, nil
	}
	inst.timer.Stop()
	inst.timer = nil

	if inst.pendingHash == inst.lastSavedHash {
		s.mu.Unlock()
		return nil, nil
	}

	hash := inst.pendingHash
	rows := inst.pendingRows
	actorUserID := inst.actorUserID
	inst.state = portssvc.AutosaveSaving
	s.mu.Unlock()

	result, err := s.pipeline.Submit(ctx, actorUserID, reportID, sourceKey, rows)
	s.settle(inst, hash, result, err)
	return result, err
}

// Close cancels every pending timer. Pending edits are discarded; the last
// persisted state stays whatever the last completed save wrote.
func (s *autosaveSchedulerImpl) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, inst := range s.instances {
		if inst.timer != nil {
			inst.timer.Stop()
			inst.timer = nil
		}
		if inst.savedTimer != nil {
			inst.savedTimer.Stop()
			inst.savedTimer = nil
		}
	}
}

// fire runs when a debounce timer elapses. A stale firing, where a newer
// edit has rescheduled since this timer was armed, is dropped; the newer
// timer owns the save.
func (s *autosaveSchedulerImpl) fire(inst *autosaveInstance, scheduledHash string) {
	s.mu.Lock()
	if s.closed || inst.pendingHash != scheduledHash {
		s.mu.Unlock()
		return
	}
	inst.timer = nil
	if scheduledHash == inst.lastSavedHash {
		s.mu.Unlock()
		return
	}
	rows := inst.pendingRows
	actorUserID := inst.actorUserID
	inst.state = portssvc.AutosaveSaving
	s.mu.Unlock()

	ctx := context.Background()
	result, err := s.pipeline.Submit(ctx, actorUserID, inst.reportID, inst.sourceKey, rows)
	if err != nil {
		s.LogError(ctx, err, "Autosave failed",
			slog.String("report_id", inst.reportID),
			slog.String("source_key", inst.sourceKey))
	}
	s.settle(inst, scheduledHash, result, err)
}

// settle transitions an instance out of the saving state. The saved hash
// advances on every persisted save, including degraded ones, so an unchanged
// retry is not re-sent just because computation failed.
func (s *autosaveSchedulerImpl) settle(inst *autosaveInstance, hash string, result *dto.SubmitResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil || result == nil {
		inst.state = portssvc.AutosaveIdle
		return
	}

	inst.lastSavedHash = hash
	inst.state = portssvc.AutosaveJustSaved
	if inst.savedTimer != nil {
		inst.savedTimer.Stop()
	}
	inst.savedTimer = time.AfterFunc(s.savedIndicator, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if inst.state == portssvc.AutosaveJustSaved {
			inst.state = portssvc.AutosaveIdle
		}
	})
}
