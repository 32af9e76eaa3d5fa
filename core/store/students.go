package store

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/trash"
)

var studentIDRe = regexp.MustCompile(`^ST(\d+)$`)

func (s *Store) Students(ctx context.Context) []school.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[[]school.Student](ctx, s, keyStudents)
}

func (s *Store) GetStudent(ctx context.Context, id string) (school.Student, error) {
	if st, ok := school.FindStudent(s.Students(ctx), id); ok {
		return st, nil
	}
	return school.Student{}, school.ErrNotFound
}

func (s *Store) AddStudent(ctx context.Context, st school.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addStudent(ctx, st)
}

func (s *Store) addStudent(ctx context.Context, st school.Student) error {
	students := load[[]school.Student](ctx, s, keyStudents)
	return s.save(ctx, keyStudents, append(students, st))
}

// UpdateStudent replaces the student with the same id. A missing id is a no-op.
func (s *Store) UpdateStudent(ctx context.Context, st school.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	students := load[[]school.Student](ctx, s, keyStudents)
	for i := range students {
		if students[i].ID == st.ID {
			students[i] = st
			return s.save(ctx, keyStudents, students)
		}
	}
	return nil
}

// DeleteStudent moves the student to the trash. A missing id is a no-op.
// Payments of the student are left untouched; callers decide whether deleting is allowed.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	students := load[[]school.Student](ctx, s, keyStudents)
	idx := -1
	for i := range students {
		if students[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	item := trash.ForStudent(newTrashID(), students[idx], core.NowFunc())
	return s.moveToTrash(ctx, item, keyStudents, append(students[:idx], students[idx+1:]...))
}

// GenerateStudentID returns ST<n+1>, n being the highest numeric suffix among ids shaped ST<digits>.
func (s *Store) GenerateStudentID(ctx context.Context) string {
	return NextStudentID(s.Students(ctx))
}

func NextStudentID(students []school.Student) string {
	var max int64
	for _, st := range students {
		m := studentIDRe.FindStringSubmatch(st.ID)
		if m == nil {
			continue
		}
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("ST%03d", max+1)
}
