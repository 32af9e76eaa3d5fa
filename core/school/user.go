package school

import (
	"golang.org/x/crypto/bcrypt"
)

// Roles
const (
	RoleAdmin   = "ADMIN"
	RoleStaff   = "STAFF"
	RoleStudent = "STUDENT"
	RoleParent  = "PARENT"
)

var (
	AllRoles = []string{RoleAdmin, RoleStaff, RoleStudent, RoleParent}

	// StaffRoles can be assigned to persisted users; students log in through their Student record.
	StaffRoles = []string{RoleAdmin, RoleStaff, RoleParent}

	rolePriorities = map[string]int{
		RoleAdmin:   30,
		RoleStaff:   20,
		RoleParent:  2,
		RoleStudent: 1,
	}

	Roles = []Role{
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Staff", Value: RoleStaff},
		{Name: "Student", Value: RoleStudent},
		{Name: "Parent", Value: RoleParent},
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is an account able to log in. Parents reference their ward through StudentID.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username,omitempty"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role"`
	StudentID    string `json:"studentId,omitempty"`
	IsActive     bool   `json:"isActive"`
	PasswordHash []byte `json:"passwordHash,omitempty"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsStaff() bool   { return u.Role == RoleAdmin || u.Role == RoleStaff }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsParent() bool  { return u.Role == RoleParent }

// Public returns a copy safe to expose through the API.
func (u User) Public() User {
	u.PasswordHash = nil
	return u
}

// AsUser exposes a student as a login account.
func (s Student) AsUser() User {
	return User{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Role:         RoleStudent,
		StudentID:    s.ID,
		IsActive:     true,
		PasswordHash: s.PasswordHash,
	}
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

// Public returns a copy safe to expose through the API.
func (s Student) Public() Student {
	s.PasswordHash = nil
	return s
}
