// Package services contains the application services of the client:
// the auth session and the result service, which owns local mutations and
// the reconciliation algorithm that keeps the local store and the remote
// service in agreement.
package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dzaky3022/wincal/internal/client/api"
	"github.com/dzaky3022/wincal/internal/client/models"
	"github.com/dzaky3022/wincal/internal/client/repositories/results"
	"github.com/dzaky3022/wincal/internal/common"
	"github.com/dzaky3022/wincal/internal/filex"
	"github.com/dzaky3022/wincal/internal/logging"
)

// ResultService is bound to one owner for its whole lifetime; a new
// session gets a new service. All reconciliation passes of this service
// are serialized by an internal mutex, so overlapping triggers (manual
// sync racing the periodic one) cannot double-push a pending record.
type ResultService struct {
	uid   string
	repo  results.Repository
	api   api.Client
	blobs *filex.Store
	log   logging.Logger

	mu            sync.Mutex
	lastSyncCount atomic.Int64
}

func NewResultService(uid string, repo results.Repository, apiClient api.Client, blobs *filex.Store, log logging.Logger) *ResultService {
	return &ResultService{
		uid:   uid,
		repo:  repo,
		api:   apiClient,
		blobs: blobs,
		log:   log.With("component", "results", "owner", uid),
	}
}

// UID returns the owner this service is bound to.
func (s *ResultService) UID() string { return s.uid }

// Watch exposes the reactive owner-scoped query for the UI layer.
func (s *ResultService) Watch(ctx context.Context) <-chan []*models.WaterResult {
	return s.repo.Watch(ctx, s.uid)
}

// List is the point-in-time variant of Watch.
func (s *ResultService) List(ctx context.Context) ([]*models.WaterResult, error) {
	return s.repo.ListByOwner(ctx, s.uid)
}

func (s *ResultService) Get(ctx context.Context, id string) (*models.WaterResult, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores the record flagged for creation and immediately attempts
// a push. The returned bool reports whether the record reached the
// server; false means it was saved locally and will sync later.
func (s *ResultService) Create(ctx context.Context, rec *models.WaterResult) (bool, error) {
	rec.OwnerID = s.uid
	rec.State = models.StatePendingCreate
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.repo.InsertOrReplace(ctx, rec); err != nil {
		return false, err
	}

	synced, err := s.Refresh(ctx)
	if err != nil {
		s.log.Warn(ctx, "immediate sync after create failed, will retry later", "error", err)
		return false, nil
	}
	return synced > 0, nil
}

// Update merges the incoming edit over the stored record and attempts an
// immediate push. A record still awaiting its first create keeps that
// state: the edit simply folds into the pending create.
func (s *ResultService) Update(ctx context.Context, rec *models.WaterResult) (bool, error) {
	existing, err := s.repo.GetByID(ctx, rec.ID)
	if err != nil {
		return false, err
	}

	staged := existing.LocalImagePath
	switch {
	case rec.DeleteImage:
		if staged != "" {
			if err := s.blobs.Remove(staged); err != nil {
				s.log.Warn(ctx, "failed to clean up local image", "path", staged, "error", err)
			}
		}
		staged = ""
	case rec.LocalImagePath != "":
		staged = rec.LocalImagePath
	}

	existing.Title = rec.Title
	existing.Description = rec.Description
	existing.RoomTemp = rec.RoomTemp
	existing.TempUnit = rec.TempUnit
	existing.Weight = rec.Weight
	existing.WeightUnit = rec.WeightUnit
	existing.ActivityLevel = rec.ActivityLevel
	existing.DrinkAmount = rec.DrinkAmount
	existing.WaterUnit = rec.WaterUnit
	existing.ResultValue = rec.ResultValue
	existing.Percentage = rec.Percentage
	existing.Gender = rec.Gender
	existing.LocalImagePath = staged
	existing.DeleteImage = rec.DeleteImage
	existing.UpdatedAt = time.Now().UTC()
	if existing.State != models.StatePendingCreate {
		existing.State = models.StatePendingUpdate
	}

	if _, err := s.repo.Update(ctx, existing); err != nil {
		return false, err
	}

	synced, err := s.Refresh(ctx)
	if err != nil {
		s.log.Warn(ctx, "immediate sync after update failed, will retry later", "error", err)
		return false, nil
	}
	return synced > 0, nil
}

// Delete erases a never-pushed record right away, with zero network
// calls. Anything the server has seen is tombstoned instead and erased
// only after the remote deletion is confirmed by a push.
func (s *ResultService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.State == models.StatePendingCreate {
		if _, err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		if err := s.blobs.Remove(existing.LocalImagePath); err != nil {
			s.log.Warn(ctx, "failed to clean up local image", "path", existing.LocalImagePath, "error", err)
		}
		return nil
	}

	existing.Deleted = true
	existing.State = models.StatePendingDelete
	existing.UpdatedAt = time.Now().UTC()
	if _, err := s.repo.Update(ctx, existing); err != nil {
		return err
	}

	if _, err := s.Refresh(ctx); err != nil {
		s.log.Warn(ctx, "immediate sync after delete failed, will retry later", "error", err)
	}
	return nil
}

// ClearUserData wipes every local row of the owner, used on account
// deletion.
func (s *ResultService) ClearUserData(ctx context.Context) (int64, error) {
	return s.repo.DeleteAllByOwner(ctx, s.uid)
}

// HasPendingItems reports whether any record still awaits a push.
func (s *ResultService) HasPendingItems(ctx context.Context) (bool, error) {
	total := 0
	for _, state := range []models.SyncState{
		models.StatePendingCreate, models.StatePendingUpdate, models.StatePendingDelete,
	} {
		rows, err := s.repo.ListPending(ctx, state)
		if err != nil {
			return false, err
		}
		total += len(rows)
	}
	return total > 0, nil
}

// LastSyncCount returns how many records the most recent pass pushed.
// Approximate under concurrent passes, which is acceptable: it only
// feeds user-facing notifications.
func (s *ResultService) LastSyncCount() int {
	return int(s.lastSyncCount.Load())
}

// Refresh runs one full reconciliation pass: push pending local changes,
// pull the remote list, merge, then drop local records deleted elsewhere.
// Per-record push failures are logged and skipped; the returned error is
// only set when the pull itself fails, so the scheduler can decide
// between retry and fail.
func (s *ResultService) Refresh(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	synced := s.pushPending(ctx)
	s.lastSyncCount.Store(int64(synced))

	remote, err := s.api.List(ctx)
	if err != nil {
		s.log.Warn(ctx, "pull failed, keeping local state", "error", err)
		return synced, err
	}

	locals, err := s.localSnapshot(ctx)
	if err != nil {
		return synced, err
	}

	// Merge the remote truth: new records are adopted, converged records
	// are overwritten (server wins), records with pending local work are
	// left alone.
	serverIDs := make(map[string]struct{}, len(remote))
	for i := range remote {
		dto := &remote[i]
		serverIDs[dto.ID] = struct{}{}

		entity, err := dto.ToEntity()
		if err != nil {
			s.log.Warn(ctx, "skipping malformed remote record", "id", dto.ID, "error", err)
			continue
		}

		local, ok := locals[dto.ID]
		switch {
		case !ok:
			if err := s.repo.InsertOrReplace(ctx, entity); err != nil {
				s.log.Error(ctx, "failed to adopt remote record", "id", dto.ID, "error", err)
			}
		case !local.State.Pending():
			if err := s.repo.InsertOrReplace(ctx, entity); err != nil {
				s.log.Error(ctx, "failed to overwrite with remote record", "id", dto.ID, "error", err)
			}
		default:
			s.log.Debug(ctx, "keeping local pending changes", "id", dto.ID, "state", local.State.String())
		}
	}

	// Converged records absent from the remote list were deleted by
	// another client; drop them locally. Pending records are exempt: the
	// server simply has not seen them yet.
	for id, local := range locals {
		if _, ok := serverIDs[id]; ok || !local.Synced() {
			continue
		}
		if _, err := s.repo.Delete(ctx, id); err != nil {
			s.log.Error(ctx, "failed to drop remotely deleted record", "id", id, "error", err)
			continue
		}
		if err := s.blobs.Remove(local.LocalImagePath); err != nil {
			s.log.Warn(ctx, "failed to clean up local image", "path", local.LocalImagePath, "error", err)
		}
		s.log.Info(ctx, "removed record deleted on server", "id", id)
	}

	return synced, nil
}

// localSnapshot returns the owner's rows keyed by id, tombstoned rows
// included so the merge can see their pending state.
func (s *ResultService) localSnapshot(ctx context.Context) (map[string]*models.WaterResult, error) {
	visible, err := s.repo.ListByOwner(ctx, s.uid)
	if err != nil {
		return nil, err
	}
	tombstoned, err := s.repo.ListPending(ctx, models.StatePendingDelete)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.WaterResult, len(visible)+len(tombstoned))
	for _, w := range visible {
		byID[w.ID] = w
	}
	for _, w := range tombstoned {
		if w.OwnerID == s.uid {
			byID[w.ID] = w
		}
	}
	return byID, nil
}

// pushPending runs the three push batches in create, update, delete
// order. One record failing never aborts its batch.
func (s *ResultService) pushPending(ctx context.Context) int {
	count := 0
	count += s.pushCreates(ctx)
	count += s.pushUpdates(ctx)
	count += s.pushDeletes(ctx)
	return count
}

func (s *ResultService) pushCreates(ctx context.Context) int {
	pending, err := s.repo.ListPending(ctx, models.StatePendingCreate)
	if err != nil {
		s.log.Error(ctx, "failed to list pending creates", "error", err)
		return 0
	}

	count := 0
	for _, rec := range pending {
		if rec.OwnerID != s.uid {
			continue
		}
		dto, err := s.api.Create(ctx, rec, s.stagedImage(ctx, rec))
		if err != nil {
			s.log.Warn(ctx, "create push failed", "id", rec.ID, "error", err)
			continue
		}
		adopted, err := dto.ToEntity()
		if err != nil {
			s.log.Warn(ctx, "malformed create response", "id", rec.ID, "error", err)
			continue
		}

		// The primary key changes from the client UUID to the server id,
		// so the old row is swapped for the adopted one in one transaction.
		if err := s.repo.Adopt(ctx, rec.ID, adopted); err != nil {
			s.log.Error(ctx, "failed to store synced record", "id", adopted.ID, "error", err)
			continue
		}
		if err := s.blobs.Remove(rec.LocalImagePath); err != nil {
			s.log.Warn(ctx, "failed to clean up staged image", "path", rec.LocalImagePath, "error", err)
		}
		count++
		s.log.Info(ctx, "pushed new record", "local_id", rec.ID, "server_id", adopted.ID)
	}
	return count
}

func (s *ResultService) pushUpdates(ctx context.Context) int {
	pending, err := s.repo.ListPending(ctx, models.StatePendingUpdate)
	if err != nil {
		s.log.Error(ctx, "failed to list pending updates", "error", err)
		return 0
	}

	count := 0
	for _, rec := range pending {
		if rec.OwnerID != s.uid {
			continue
		}
		dto, err := s.api.Update(ctx, rec, s.stagedImage(ctx, rec))
		if err != nil {
			s.log.Warn(ctx, "update push failed", "id", rec.ID, "error", err)
			continue
		}
		adopted, err := dto.ToEntity()
		if err != nil {
			s.log.Warn(ctx, "malformed update response", "id", rec.ID, "error", err)
			continue
		}
		if err := s.repo.InsertOrReplace(ctx, adopted); err != nil {
			s.log.Error(ctx, "failed to store synced record", "id", rec.ID, "error", err)
			continue
		}
		if err := s.blobs.Remove(rec.LocalImagePath); err != nil {
			s.log.Warn(ctx, "failed to clean up staged image", "path", rec.LocalImagePath, "error", err)
		}
		count++
		s.log.Info(ctx, "pushed record update", "id", rec.ID)
	}
	return count
}

func (s *ResultService) pushDeletes(ctx context.Context) int {
	pending, err := s.repo.ListPending(ctx, models.StatePendingDelete)
	if err != nil {
		s.log.Error(ctx, "failed to list pending deletes", "error", err)
		return 0
	}

	count := 0
	for _, rec := range pending {
		if rec.OwnerID != s.uid {
			continue
		}
		if err := s.api.Delete(ctx, rec.ID); err != nil {
			// A record already gone on the server is the outcome the
			// tombstone was asking for, so the local erase proceeds.
			if !errors.Is(err, common.ErrNotFound) {
				s.log.Warn(ctx, "delete push failed", "id", rec.ID, "error", err)
				continue
			}
			s.log.Info(ctx, "record already deleted remotely", "id", rec.ID)
		}
		if err := s.blobs.Remove(rec.LocalImagePath); err != nil {
			s.log.Warn(ctx, "failed to clean up local image", "path", rec.LocalImagePath, "error", err)
		}
		if _, err := s.repo.Delete(ctx, rec.ID); err != nil {
			s.log.Error(ctx, "failed to erase deleted record", "id", rec.ID, "error", err)
			continue
		}
		count++
		s.log.Info(ctx, "pushed record deletion", "id", rec.ID)
	}
	return count
}

// stagedImage loads the staged blob, if any. A missing or unreadable
// blob downgrades the push to text-only rather than failing it.
func (s *ResultService) stagedImage(ctx context.Context, rec *models.WaterResult) []byte {
	if rec.LocalImagePath == "" {
		return nil
	}
	data, err := s.blobs.Read(rec.LocalImagePath)
	if err != nil {
		s.log.Warn(ctx, "staged image unreadable, pushing without it", "path", rec.LocalImagePath, "error", err)
		return nil
	}
	return data
}
