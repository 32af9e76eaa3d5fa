package store

import (
	"context"

	"github.com/trezcool/feedesk/core/school"
)

func (s *Store) Fees(ctx context.Context) []school.FeeStructure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[[]school.FeeStructure](ctx, s, keyFees)
}

func (s *Store) AddFee(ctx context.Context, f school.FeeStructure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fees := load[[]school.FeeStructure](ctx, s, keyFees)
	return s.save(ctx, keyFees, append(fees, f))
}

func (s *Store) UpdateFee(ctx context.Context, f school.FeeStructure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fees := load[[]school.FeeStructure](ctx, s, keyFees)
	for i := range fees {
		if fees[i].ID == f.ID {
			fees[i] = f
			return s.save(ctx, keyFees, fees)
		}
	}
	return nil
}

// DeleteFee removes the fee from the catalog without going through the trash.
// Students keep referencing it; the ledger skips ids missing from the catalog.
func (s *Store) DeleteFee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fees := load[[]school.FeeStructure](ctx, s, keyFees)
	for i := range fees {
		if fees[i].ID == id {
			return s.save(ctx, keyFees, append(fees[:i], fees[i+1:]...))
		}
	}
	return nil
}
