// Package trash models the recycle bin tombstones of deleted students, payments and expenses.
package trash

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/school"
)

type Kind string

const (
	KindStudent Kind = "STUDENT"
	KindPayment Kind = "PAYMENT"
	KindExpense Kind = "EXPENSE"
)

var (
	// errors
	ErrUnknownKind   = errors.New("unknown trash item type")
	ErrMissingData   = errors.New("trash item has no data for its type")
	ErrNotRestorable = errors.New("trash item cannot be restored")
)

// Item is a tombstone. Exactly one of Student, Payment or Expense is set, matching Kind.
type Item struct {
	ID          string
	Kind        Kind
	OriginalID  string
	Student     *school.Student
	Payment     *school.Payment
	Expense     *school.Expense
	DeletedAt   time.Time
	Description string
}

// Restorer re-inserts a tombstone's data through the normal add path of its collection.
type Restorer interface {
	RestoreStudent(school.Student) error
	RestorePayment(school.Payment) error
	RestoreExpense(school.Expense) error
}

func ForStudent(id string, st school.Student, at time.Time) Item {
	st.FeeStructureIDs = append([]string(nil), st.FeeStructureIDs...)
	if st.PasswordHash != nil {
		st.PasswordHash = append([]byte(nil), st.PasswordHash...)
	}
	return Item{
		ID:          id,
		Kind:        KindStudent,
		OriginalID:  st.ID,
		Student:     &st,
		DeletedAt:   at,
		Description: fmt.Sprintf("Student: %s (%s)", st.Name, st.ID),
	}
}

// ForPayment builds a payment tombstone. studentName is only used for the description.
func ForPayment(id string, p school.Payment, studentName string, at time.Time) Item {
	return Item{
		ID:          id,
		Kind:        KindPayment,
		OriginalID:  p.ID,
		Payment:     &p,
		DeletedAt:   at,
		Description: fmt.Sprintf("Payment: %.2f from %s on %s", p.AmountPaid, studentName, p.Date),
	}
}

func ForExpense(id string, e school.Expense, at time.Time) Item {
	return Item{
		ID:          id,
		Kind:        KindExpense,
		OriginalID:  e.ID.String(),
		Expense:     &e,
		DeletedAt:   at,
		Description: fmt.Sprintf("Expense: %s - %.2f", e.Category, e.Amount),
	}
}

// Check verifies that the payload matches Kind.
func (it Item) Check() error {
	switch it.Kind {
	case KindStudent:
		if it.Student == nil {
			return ErrMissingData
		}
	case KindPayment:
		if it.Payment == nil {
			return ErrMissingData
		}
	case KindExpense:
		if it.Expense == nil {
			return ErrMissingData
		}
	default:
		return errors.Wrapf(ErrUnknownKind, "%q", it.Kind)
	}
	return nil
}

// Restore hands the payload to the matching Restorer method.
func (it Item) Restore(r Restorer) error {
	if err := it.Check(); err != nil {
		return errors.Wrap(ErrNotRestorable, err.Error())
	}
	switch it.Kind {
	case KindStudent:
		return r.RestoreStudent(*it.Student)
	case KindPayment:
		return r.RestorePayment(*it.Payment)
	default:
		return r.RestoreExpense(*it.Expense)
	}
}

type itemJSON struct {
	ID          string          `json:"id"`
	Type        Kind            `json:"type"`
	OriginalID  string          `json:"originalId"`
	Data        json.RawMessage `json:"data"`
	DeletedAt   time.Time       `json:"deletedAt"`
	Description string          `json:"description"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	if err := it.Check(); err != nil {
		return nil, err
	}
	var (
		data []byte
		err  error
	)
	switch it.Kind {
	case KindStudent:
		data, err = json.Marshal(it.Student)
	case KindPayment:
		data, err = json.Marshal(it.Payment)
	default:
		data, err = json.Marshal(it.Expense)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(itemJSON{
		ID:          it.ID,
		Type:        it.Kind,
		OriginalID:  it.OriginalID,
		Data:        data,
		DeletedAt:   it.DeletedAt,
		Description: it.Description,
	})
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	item := Item{
		ID:          raw.ID,
		Kind:        raw.Type,
		OriginalID:  raw.OriginalID,
		DeletedAt:   raw.DeletedAt,
		Description: raw.Description,
	}
	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return errors.Wrapf(ErrMissingData, "trash item %q", raw.ID)
	}
	switch raw.Type {
	case KindStudent:
		item.Student = new(school.Student)
		if err := json.Unmarshal(raw.Data, item.Student); err != nil {
			return errors.Wrap(err, "decoding student data")
		}
	case KindPayment:
		item.Payment = new(school.Payment)
		if err := json.Unmarshal(raw.Data, item.Payment); err != nil {
			return errors.Wrap(err, "decoding payment data")
		}
	case KindExpense:
		item.Expense = new(school.Expense)
		if err := json.Unmarshal(raw.Data, item.Expense); err != nil {
			return errors.Wrap(err, "decoding expense data")
		}
	default:
		return errors.Wrapf(ErrUnknownKind, "%q", raw.Type)
	}
	*it = item
	return nil
}
