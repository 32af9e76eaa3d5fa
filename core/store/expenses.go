package store

import (
	"context"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/trash"
)

func (s *Store) Expenses(ctx context.Context) []school.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[[]school.Expense](ctx, s, keyExpenses)
}

func (s *Store) AddExpense(ctx context.Context, e school.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addExpense(ctx, e)
}

func (s *Store) addExpense(ctx context.Context, e school.Expense) error {
	expenses := load[[]school.Expense](ctx, s, keyExpenses)
	return s.save(ctx, keyExpenses, append(expenses, e))
}

func (s *Store) UpdateExpense(ctx context.Context, e school.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses := load[[]school.Expense](ctx, s, keyExpenses)
	for i := range expenses {
		if expenses[i].ID == e.ID {
			expenses[i] = e
			return s.save(ctx, keyExpenses, expenses)
		}
	}
	return nil
}

// DeleteExpense moves the expense to the trash. A missing id is a no-op.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses := load[[]school.Expense](ctx, s, keyExpenses)
	idx := -1
	for i := range expenses {
		if expenses[i].ID.String() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	item := trash.ForExpense(newTrashID(), expenses[idx], core.NowFunc())
	return s.moveToTrash(ctx, item, keyExpenses, append(expenses[:idx], expenses[idx+1:]...))
}
