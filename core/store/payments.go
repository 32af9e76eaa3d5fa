package store

import (
	"context"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/trash"
)

func (s *Store) Payments(ctx context.Context) []school.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[[]school.Payment](ctx, s, keyPayments)
}

func (s *Store) AddPayment(ctx context.Context, p school.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPayment(ctx, p)
}

func (s *Store) addPayment(ctx context.Context, p school.Payment) error {
	payments := load[[]school.Payment](ctx, s, keyPayments)
	return s.save(ctx, keyPayments, append(payments, p))
}

func (s *Store) UpdatePayment(ctx context.Context, p school.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payments := load[[]school.Payment](ctx, s, keyPayments)
	for i := range payments {
		if payments[i].ID == p.ID {
			payments[i] = p
			return s.save(ctx, keyPayments, payments)
		}
	}
	return nil
}

// DeletePayment moves the payment to the trash. A missing id is a no-op.
func (s *Store) DeletePayment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payments := load[[]school.Payment](ctx, s, keyPayments)
	idx := -1
	for i := range payments {
		if payments[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	p := payments[idx]
	name := school.StudentName(load[[]school.Student](ctx, s, keyStudents), p.StudentID)
	item := trash.ForPayment(newTrashID(), p, name, core.NowFunc())
	return s.moveToTrash(ctx, item, keyPayments, append(payments[:idx], payments[idx+1:]...))
}
