package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/ledger"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/services/export"
	"github.com/trezcool/feedesk/storage/kv/sqlkv"
)

func (cli *commandLine) init() error {
	ctx := context.Background()
	if err := cli.store.Init(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "namespace %q ready\n", cli.store.Namespace())
	return nil
}

// keys prints the stored keys; SQL providers add the value size and last update.
func (cli *commandLine) keys(ordering string) error {
	ctx := context.Background()
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if lister, ok := cli.kv.(*sqlkv.DB); ok {
		ord := core.KVOrdering{Field: strings.TrimPrefix(ordering, "-"), Ascending: !strings.HasPrefix(ordering, "-")}
		entries, err := lister.Entries(ctx, ord)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "KEY\tSIZE\tUPDATED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Key, e.Size, e.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	keys, err := cli.kv.Keys(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "KEY")
	for _, k := range keys {
		fmt.Fprintln(tw, k)
	}
	return nil
}

func (cli *commandLine) listTrash() error {
	items := cli.store.Trash(context.Background())
	if len(items) == 0 {
		fmt.Fprintln(cli.out, "trash is empty")
		return nil
	}

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintln(tw, "ID\tTYPE\tDELETED\tDESCRIPTION")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.Kind, it.DeletedAt.Format("2006-01-02 15:04"), it.Description)
	}
	return nil
}

func (cli *commandLine) restoreTrashItem(id string) error {
	ok, err := cli.store.RestoreFromTrash(context.Background(), id)
	if err != nil {
		return err
	}
	if !ok {
		return school.ErrNotFound
	}
	fmt.Fprintf(cli.out, "restored %s\n", id)
	return nil
}

func (cli *commandLine) purgeTrashItem(id string) error {
	if err := cli.store.PermanentDeleteTrashItem(context.Background(), id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "purged %s\n", id)
	return nil
}

func (cli *commandLine) emptyTrash() error {
	if err := cli.store.EmptyTrash(context.Background()); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "trash emptied")
	return nil
}

func (cli *commandLine) printLedger(studentID string) error {
	ctx := context.Background()
	st, err := cli.store.GetStudent(ctx, studentID)
	if err != nil {
		return err
	}
	l := ledger.ForStudent(st, cli.store.Fees(ctx), cli.store.Payments(ctx), core.Today())

	fmt.Fprintf(cli.out, "%s (%s) - %s, %s\n", st.Name, st.ID, st.Grade, st.Session)
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "FEE\tDUE DATE\tAMOUNT\tPAID\tBALANCE\tSTATUS\t")
	for _, line := range l.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\t%s\t\n",
			line.Fee.Name, line.Fee.DueDate, line.EffectiveAmount, line.Paid, line.Balance, line.Status)
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "expected %.2f, paid %.2f, due %.2f (%.0f%%) - %s\n",
		l.TotalExpected, l.TotalPaid, l.TotalDue, l.Progress(), l.Status)
	return nil
}

func (cli *commandLine) export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	defer f.Close()

	if err = export.Write(f, cli.store.Active(context.Background()), core.Today()); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "exported to %s\n", path)
	return f.Close()
}
