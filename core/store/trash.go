package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/trash"
)

var newTrashID = uuid.NewString // mockable

// Trash returns the tombstones, newest first. Tombstones that no longer decode are skipped.
func (s *Store) Trash(ctx context.Context) []trash.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trash(ctx)
}

func (s *Store) trash(ctx context.Context) []trash.Item {
	var raws []json.RawMessage
	if err := json.Unmarshal(s.raw(ctx, keyTrash), &raws); err != nil {
		s.logger.Warn(fmt.Sprintf("store: %s is corrupt, using defaults", s.Key(keyTrash)), err)
		s.fallback(keyTrash)
		return []trash.Item{}
	}

	items := make([]trash.Item, 0, len(raws))
	for _, raw := range raws {
		var it trash.Item
		if err := json.Unmarshal(raw, &it); err != nil {
			s.logger.Warn("store: skipping unreadable trash item", err)
			continue
		}
		items = append(items, it)
	}
	return items
}

func (s *Store) AddToTrash(ctx context.Context, item trash.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addToTrash(ctx, item)
}

func (s *Store) addToTrash(ctx context.Context, item trash.Item) error {
	if err := item.Check(); err != nil {
		return err
	}
	items := s.trash(ctx)
	return s.save(ctx, keyTrash, append([]trash.Item{item}, items...))
}

// moveToTrash stores item and then writes the collection without the deleted entity.
// A persist failure of the trash does not stop the removal; the first error is returned.
func (s *Store) moveToTrash(ctx context.Context, item trash.Item, coll string, remaining interface{}) error {
	trashErr := s.addToTrash(ctx, item)
	if trashErr != nil && !core.IsPersist(trashErr) {
		return trashErr
	}
	if err := s.save(ctx, coll, remaining); err != nil && trashErr == nil {
		return err
	}
	return trashErr
}

type restorer struct {
	ctx context.Context
	s   *Store
}

func (r restorer) RestoreStudent(st school.Student) error { return r.s.addStudent(r.ctx, st) }
func (r restorer) RestorePayment(p school.Payment) error  { return r.s.addPayment(r.ctx, p) }
func (r restorer) RestoreExpense(e school.Expense) error  { return r.s.addExpense(r.ctx, e) }

// RestoreFromTrash re-adds the tombstone's entity with its original id and removes the tombstone.
// It reports false, with no side effect, when id is not in the trash.
// Restoring a payment does not restore the student it references.
func (s *Store) RestoreFromTrash(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.trash(ctx)
	idx := indexOfItem(items, id)
	if idx < 0 {
		return false, nil
	}

	restoreErr := items[idx].Restore(restorer{ctx: ctx, s: s})
	if restoreErr != nil && !core.IsPersist(restoreErr) {
		return false, restoreErr
	}
	if err := s.save(ctx, keyTrash, append(items[:idx], items[idx+1:]...)); err != nil && restoreErr == nil {
		return true, err
	}
	return true, restoreErr
}

// PermanentDeleteTrashItem drops the tombstone. A missing id is a no-op.
func (s *Store) PermanentDeleteTrashItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.trash(ctx)
	idx := indexOfItem(items, id)
	if idx < 0 {
		return nil
	}
	return s.save(ctx, keyTrash, append(items[:idx], items[idx+1:]...))
}

// EmptyTrash purges every tombstone.
func (s *Store) EmptyTrash(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, keyTrash, []trash.Item{})
}

func indexOfItem(items []trash.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
