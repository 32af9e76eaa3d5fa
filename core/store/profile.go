package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trezcool/feedesk/core/school"
)

// Profile returns the stored profile merged onto the defaults: fields absent from the stored
// document keep their default value.
func (s *Store) Profile(ctx context.Context) school.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile(ctx)
}

func (s *Store) profile(ctx context.Context) school.Profile {
	p := school.DefaultProfile()
	if err := json.Unmarshal(s.raw(ctx, keyProfile), &p); err != nil {
		s.logger.Warn(fmt.Sprintf("store: %s is corrupt, using defaults", s.Key(keyProfile)), err)
		p = school.DefaultProfile()
		if err := json.Unmarshal(s.fallback(keyProfile), &p); err != nil {
			panic(err)
		}
	}
	return p
}

func (s *Store) UpdateProfile(ctx context.Context, p school.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, keyProfile, p)
}

// SwitchSession makes session the current one, registering it when unknown.
func (s *Store) SwitchSession(ctx context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profile(ctx)
	if !p.HasSession(session) {
		p.Sessions = append(p.Sessions, session)
	}
	p.CurrentSession = session
	return s.save(ctx, keyProfile, p)
}

// AddSession registers session without switching to it. Known sessions are a no-op.
func (s *Store) AddSession(ctx context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profile(ctx)
	if p.HasSession(session) {
		return nil
	}
	p.Sessions = append(p.Sessions, session)
	return s.save(ctx, keyProfile, p)
}

func (s *Store) Classes(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[[]string](ctx, s, keyClasses)
}

// AddClass appends name unless it is already listed.
func (s *Store) AddClass(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	classes := load[[]string](ctx, s, keyClasses)
	for _, c := range classes {
		if c == name {
			return nil
		}
	}
	return s.save(ctx, keyClasses, append(classes, name))
}

func (s *Store) DeleteClass(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	classes := load[[]string](ctx, s, keyClasses)
	for i, c := range classes {
		if c == name {
			return s.save(ctx, keyClasses, append(classes[:i], classes[i+1:]...))
		}
	}
	return nil
}
