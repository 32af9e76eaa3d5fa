package main

import (
	"github.com/trezcool/feedesk/storage/database"
)

var migrateFunc = database.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoSQL
	}
	return migrateFunc(args[0], cli.db, args[1:]...)
}
