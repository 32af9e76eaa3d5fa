package main

import (
	"context"
	"strings"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
)

// resetPassword sets pwd on the account matching login, a persisted user first then a student.
func (cli *commandLine) resetPassword(login, pwd string) error {
	ctx := context.Background()
	usr, err := cli.store.FindAccount(ctx, login)
	if err != nil {
		return err
	}
	return cli.store.SetPassword(ctx, usr.ID, pwd)
}

// addUser creates a staff or admin account, or resets it when the id exists.
func (cli *commandLine) addUser(id, name, uname, email, role, pwd string) error {
	ctx := context.Background()
	role = strings.ToUpper(core.CleanString(role))
	if role != school.RoleAdmin && role != school.RoleStaff {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "must be ADMIN or STAFF"})
	}

	usr := school.User{
		ID:       core.CleanString(id),
		Name:     core.CleanString(name),
		Username: core.CleanString(uname, true /* lower */),
		Email:    core.CleanString(email, true /* lower */),
		Role:     role,
		IsActive: true,
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.store.GetUser(ctx, usr.ID); err == nil {
		return cli.store.UpdateUser(ctx, usr)
	}
	return cli.store.AddUser(ctx, usr)
}
