package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/store"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp  = errors.New("help provided")
	errNoSQL = errors.New("migrations need a SQL storage driver (sqlite or postgres)")
)

type commandLine struct {
	store *store.Store
	kv    core.KVStore
	db    *sqlx.DB // nil unless the storage driver is SQL
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  init - write the default data of every missing collection")
	fmt.Fprintln(cli.out, "  keys [-ordering id|-size|updated_at...] - list the stored collections")
	fmt.Fprintln(cli.out, "  trash [-restore ID | -purge ID | -empty] - list or manage the recycle bin")
	fmt.Fprintln(cli.out, "  ledger -student ID - print the fee ledger of a student")
	fmt.Fprintln(cli.out, "  export -o FILE - write the current session to an xlsx workbook")
	fmt.Fprintln(cli.out, "  adduser -id ID -name NAME [-username USERNAME] [-email EMAIL] [-role ADMIN|STAFF] - add a user")
	fmt.Fprintln(cli.out, "  resetpassword -id ID|USERNAME|EMAIL - reset a user's or student's password")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run a goose migration command")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	keysCmd := flag.NewFlagSet("keys", flag.ExitOnError)
	keysOrdering := keysCmd.String("ordering", "id", "Sort field of SQL entries: id, size or updated_at; prefix with - to reverse.")

	trashCmd := flag.NewFlagSet("trash", flag.ExitOnError)
	trashRestore := trashCmd.String("restore", "", "Restore the trash item with this id.")
	trashPurge := trashCmd.String("purge", "", "Permanently delete the trash item with this id.")
	trashEmpty := trashCmd.Bool("empty", false, "Permanently delete every trash item.")

	ledgerCmd := flag.NewFlagSet("ledger", flag.ExitOnError)
	ledgerStudent := ledgerCmd.String("student", "", "The student's id.")

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOut := exportCmd.String("o", "", "The xlsx file to write.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserID := addUserCmd.String("id", "", "The user's id.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserUname := addUserCmd.String("username", "", "The user's username.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserRole := addUserCmd.String("role", "STAFF", "ADMIN or STAFF. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordID := resetPasswordCmd.String("id", "", "The user's id, username or email. The password will be prompted next.")

	switch args[1] {
	case "init":
		return cli.init()
	case "keys":
		if err := keysCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.keys(*keysOrdering)
	case "trash":
		if err := trashCmd.Parse(args[2:]); err != nil {
			return err
		}
		switch {
		case *trashRestore != "":
			return cli.restoreTrashItem(*trashRestore)
		case *trashPurge != "":
			return cli.purgeTrashItem(*trashPurge)
		case *trashEmpty:
			return cli.emptyTrash()
		}
		return cli.listTrash()
	case "ledger":
		if err := ledgerCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *ledgerStudent == "" {
			ledgerCmd.Usage()
			return errHelp
		}
		return cli.printLedger(*ledgerStudent)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportOut)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserID == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserID, *addUserName, *addUserUname, *addUserEmail, *addUserRole, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordID == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordID, pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	return string(pwd), err
}
