package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/store"
	logsvc "github.com/trezcool/feedesk/services/logger"
	"github.com/trezcool/feedesk/storage/kv"
	"github.com/trezcool/feedesk/storage/kv/sqlkv"
)

var logger *logsvc.RollbarLogger

func main() {
	conf := core.NewConfig()

	logger = logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(false)

	// set up storage
	db, err := kv.Open(context.Background(), conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()

	seed, err := school.ConfiguredSeed(conf)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		store: store.New(db, logger, store.WithNamespace(conf.Storage.Namespace), store.WithSeed(seed)),
		kv:    db,
		out:   os.Stdout,
	}
	if sdb, ok := db.(*sqlkv.DB); ok {
		cli.db = sdb.SQL()
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
