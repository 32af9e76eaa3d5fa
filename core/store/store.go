// Package store keeps every collection of the school as one JSON document in a core.KVStore.
//
// The Store holds a per-collection copy of the last value read or written; that copy is
// authoritative for the running process. Writes update it first and then the provider, so a
// provider failure (e.g. core.ErrQuotaExceeded) leaves the change visible to later reads.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/trash"
)

const DefaultNamespace = "feedesk_v1"

// collections
const (
	keyStudents = "students"
	keyPayments = "payments"
	keyFees     = "fees"
	keyProfile  = "schoolProfile"
	keyExpenses = "expenses"
	keyClasses  = "classes"
	keyTrash    = "trash"
	keyUsers    = "users"
)

var collections = []string{keyStudents, keyPayments, keyFees, keyProfile, keyExpenses, keyClasses, keyTrash, keyUsers}

type (
	Store struct {
		kv           core.KVStore
		logger       core.Logger
		namespace    string
		seed         school.Seed
		onPersistErr func(error)

		// mu guards cache and serializes every read-modify-write of a collection.
		mu    sync.Mutex
		cache map[string][]byte
	}

	Option func(*Store)
)

func WithNamespace(ns string) Option {
	return func(s *Store) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

func WithSeed(seed school.Seed) Option {
	return func(s *Store) { s.seed = seed }
}

// WithPersistErrorHandler registers fn to be called with every *core.PersistError.
// fn runs while the Store is locked and must not call back into it.
func WithPersistErrorHandler(fn func(error)) Option {
	return func(s *Store) { s.onPersistErr = fn }
}

func New(kv core.KVStore, logger core.Logger, opts ...Option) *Store {
	vala.BeginValidation().Validate(
		vala.IsNotNil(kv, "kv"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	s := &Store{
		kv:        kv,
		logger:    logger,
		namespace: DefaultNamespace,
		seed:      school.Seed{Profile: school.DefaultProfile(), Classes: school.DefaultClasses()},
		cache:     make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the provider key of a collection.
func (s *Store) Key(collection string) string {
	return s.namespace + "_" + collection
}

func (s *Store) Namespace() string { return s.namespace }

// Init writes the seed of every collection missing from the provider. Existing values are never overwritten.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, coll := range collections {
		key := s.Key(coll)
		_, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return errors.Wrapf(err, "reading %q", key)
		}
		if ok {
			continue
		}
		data, err := json.Marshal(s.seedValue(coll))
		if err != nil {
			return errors.Wrapf(err, "encoding seed of %q", key)
		}
		if err := s.kv.Set(ctx, key, data); err != nil {
			return errors.Wrapf(err, "seeding %q", key)
		}
		s.cache[coll] = data
		s.logger.Info(fmt.Sprintf("store: seeded %s", key))
	}
	return nil
}

// Reset forgets the in-memory copies so the next reads go to the provider.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string][]byte)
}

func (s *Store) seedValue(coll string) interface{} {
	switch coll {
	case keyStudents:
		return nonNil(s.seed.Students)
	case keyPayments:
		return nonNil(s.seed.Payments)
	case keyFees:
		return nonNil(s.seed.Fees)
	case keyProfile:
		return s.seed.Profile
	case keyExpenses:
		return nonNil(s.seed.Expenses)
	case keyClasses:
		return nonNil(s.seed.Classes)
	case keyUsers:
		return nonNil(s.seed.Users)
	default:
		return []trash.Item{}
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// raw returns the current JSON of coll, reading through to the provider once.
// The caller must hold s.mu.
func (s *Store) raw(ctx context.Context, coll string) []byte {
	if data, ok := s.cache[coll]; ok {
		return data
	}

	key := s.Key(coll)
	data, ok, err := s.kv.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn(fmt.Sprintf("store: reading %s failed, using defaults", key), err)
	case !ok:
		s.logger.Warn(fmt.Sprintf("store: %s is missing, using defaults", key))
	default:
		s.cache[coll] = data
		return data
	}
	return s.fallback(coll)
}

// fallback replaces the in-memory copy of coll with its seed. The caller must hold s.mu.
func (s *Store) fallback(coll string) []byte {
	data, err := json.Marshal(s.seedValue(coll))
	if err != nil {
		// seeds are plain data
		panic(errors.Wrapf(err, "encoding seed of %q", coll))
	}
	s.cache[coll] = data
	return data
}

// load decodes coll into a fresh value; a value that does not decode is replaced by the seed.
// The caller must hold s.mu.
func load[T any](ctx context.Context, s *Store, coll string) T {
	var v T
	if err := json.Unmarshal(s.raw(ctx, coll), &v); err != nil {
		s.logger.Warn(fmt.Sprintf("store: %s is corrupt, using defaults", s.Key(coll)), err)
		v = *new(T)
		if err := json.Unmarshal(s.fallback(coll), &v); err != nil {
			panic(errors.Wrapf(err, "decoding seed of %q", coll))
		}
	}
	return v
}

// save writes v as the whole content of coll. The caller must hold s.mu.
func (s *Store) save(ctx context.Context, coll string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %q", coll)
	}
	s.cache[coll] = data

	key := s.Key(coll)
	if err := s.kv.Set(ctx, key, data); err != nil {
		perr := core.NewPersistError(key, err)
		s.logger.Error(fmt.Sprintf("store: %v", perr), err)
		if s.onPersistErr != nil {
			s.onPersistErr(perr)
		}
		return perr
	}
	return nil
}

// Active returns the students, payments, fees and expenses of the current session.
func (s *Store) Active(ctx context.Context) school.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := school.Snapshot{
		Students: load[[]school.Student](ctx, s, keyStudents),
		Payments: load[[]school.Payment](ctx, s, keyPayments),
		Fees:     load[[]school.FeeStructure](ctx, s, keyFees),
		Expenses: load[[]school.Expense](ctx, s, keyExpenses),
	}
	return snap.InSession(s.profile(ctx).CurrentSession)
}
