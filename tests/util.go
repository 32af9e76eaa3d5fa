package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/store"
	"github.com/trezcool/feedesk/storage/kv/memkv"
)

const Session = "2024-2025"

// Logger records every message it receives.
type Logger struct {
	sync.Mutex
	Messages []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string) {
	l.Lock()
	defer l.Unlock()
	l.Messages = append(l.Messages, fmt.Sprintf("%s: %s", level, msg))
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.log("DEBUG", msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.log("INFO", msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.log("WARN", msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.log("ERROR", msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.log("FATAL", msg) }

// Count returns the number of messages logged at level.
func (l *Logger) Count(level string) int {
	l.Lock()
	defer l.Unlock()
	var n int
	prefix := level + ": "
	for _, m := range l.Messages {
		if strings.HasPrefix(m, prefix) {
			n++
		}
	}
	return n
}

// EmptySeed starts every collection empty, with a profile on Session.
func EmptySeed() school.Seed {
	p := school.DefaultProfile()
	p.Sessions = []string{Session}
	p.CurrentSession = Session
	return school.Seed{Profile: p, Classes: school.DefaultClasses()}
}

// NewStore returns an initialized Store over a fresh memkv.DB.
func NewStore(t *testing.T, seed school.Seed, opts ...store.Option) (*store.Store, *memkv.DB, *Logger) {
	t.Helper()

	kv := memkv.Open(0)
	logger := new(Logger)
	opts = append([]store.Option{store.WithSeed(seed), store.WithNamespace("test")}, opts...)
	s := store.New(kv, logger, opts...)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	return s, kv, logger
}

func CreateStudent(t *testing.T, s *store.Store, id, name string, feeIDs ...string) school.Student {
	t.Helper()

	st := school.Student{
		ID:              id,
		Name:            name,
		Grade:           "Class 1",
		GuardianName:    "Guardian of " + name,
		GuardianContact: "+000",
		FeeStructureIDs: feeIDs,
		Session:         Session,
	}
	if err := s.AddStudent(context.Background(), st); err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func CreateFee(t *testing.T, s *store.Store, id string, amount float64, dueDate string) school.FeeStructure {
	t.Helper()

	f := school.FeeStructure{ID: id, Name: "Fee " + id, Amount: amount, DueDate: dueDate, Session: Session}
	if err := s.AddFee(context.Background(), f); err != nil {
		t.Fatalf("CreateFee() failed: %v", err)
	}
	return f
}

func CreatePayment(t *testing.T, s *store.Store, id, studentID, feeID string, amount float64, date string) school.Payment {
	t.Helper()

	p := school.Payment{
		ID:             id,
		StudentID:      studentID,
		FeeStructureID: feeID,
		AmountPaid:     amount,
		Date:           date,
		Method:         "Cash",
		Session:        Session,
	}
	if err := s.AddPayment(context.Background(), p); err != nil {
		t.Fatalf("CreatePayment() failed: %v", err)
	}
	return p
}

func CreateUser(t *testing.T, s *store.Store, id, username, pwd, role string) school.User {
	t.Helper()

	usr := school.User{ID: id, Name: "User " + id, Username: username, Role: role, IsActive: true}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	if err := s.AddUser(context.Background(), usr); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
