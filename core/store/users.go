package store

import (
	"context"
	"errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
)

var (
	// errors
	ErrAuthFailed = errors.New("invalid credentials")
)

// Users returns the persisted staff, admin and parent accounts.
func (s *Store) Users(ctx context.Context) []school.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[[]school.User](ctx, s, keyUsers)
}

// AllUsers is every account able to log in: persisted users followed by students.
// Ids are not de-duplicated across the two.
func (s *Store) AllUsers(ctx context.Context) []school.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := load[[]school.User](ctx, s, keyUsers)
	for _, st := range load[[]school.Student](ctx, s, keyStudents) {
		users = append(users, st.AsUser())
	}
	return users
}

// GetUser looks id up with the same precedence as login.
func (s *Store) GetUser(ctx context.Context, id string) (school.User, error) {
	for _, usr := range s.AllUsers(ctx) {
		if usr.ID == id {
			return usr, nil
		}
	}
	return school.User{}, school.ErrNotFound
}

// Authenticate matches login against user id, username or email, first match wins.
func (s *Store) Authenticate(ctx context.Context, login, password string) (school.User, error) {
	login = core.CleanString(login)
	lower := core.CleanString(login, true /* lower */)
	for _, usr := range s.AllUsers(ctx) {
		if usr.ID != login && (usr.Username == "" || usr.Username != lower) && (usr.Email == "" || usr.Email != lower) {
			continue
		}
		if !usr.IsActive || len(usr.PasswordHash) == 0 {
			return school.User{}, ErrAuthFailed
		}
		if err := usr.CheckPassword(password); err != nil {
			return school.User{}, ErrAuthFailed
		}
		return usr, nil
	}
	return school.User{}, ErrAuthFailed
}

func (s *Store) AddUser(ctx context.Context, usr school.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := load[[]school.User](ctx, s, keyUsers)
	return s.save(ctx, keyUsers, append(users, usr))
}

// UpdateUser replaces the persisted user with the same id. Students are updated through UpdateStudent.
func (s *Store) UpdateUser(ctx context.Context, usr school.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := load[[]school.User](ctx, s, keyUsers)
	for i := range users {
		if users[i].ID == usr.ID {
			users[i] = usr
			return s.save(ctx, keyUsers, users)
		}
	}
	return nil
}

// DeleteUser removes the account without going through the trash.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := load[[]school.User](ctx, s, keyUsers)
	for i := range users {
		if users[i].ID == id {
			return s.save(ctx, keyUsers, append(users[:i], users[i+1:]...))
		}
	}
	return nil
}

// FindAccount returns the first account whose id, username or email matches login.
func (s *Store) FindAccount(ctx context.Context, login string) (school.User, error) {
	login = core.CleanString(login)
	lower := core.CleanString(login, true /* lower */)
	for _, usr := range s.AllUsers(ctx) {
		if usr.ID == login || (usr.Username != "" && usr.Username == lower) || (usr.Email != "" && usr.Email == lower) {
			return usr, nil
		}
	}
	return school.User{}, school.ErrNotFound
}

// SetPassword hashes pwd onto the account with the given id, a persisted user first then a student.
func (s *Store) SetPassword(ctx context.Context, id, pwd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := load[[]school.User](ctx, s, keyUsers)
	for i := range users {
		if users[i].ID == id {
			if err := users[i].SetPassword(pwd); err != nil {
				return err
			}
			return s.save(ctx, keyUsers, users)
		}
	}
	students := load[[]school.Student](ctx, s, keyStudents)
	for i := range students {
		if students[i].ID == id {
			if err := students[i].SetPassword(pwd); err != nil {
				return err
			}
			return s.save(ctx, keyStudents, students)
		}
	}
	return school.ErrNotFound
}
