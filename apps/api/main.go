package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/feedesk/apps/api/echo"
	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/school"
	"github.com/trezcool/feedesk/core/store"
	appfs "github.com/trezcool/feedesk/fs"
	emailsvc "github.com/trezcool/feedesk/services/email"
	logsvc "github.com/trezcool/feedesk/services/logger"
	"github.com/trezcool/feedesk/storage/kv"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	storeLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	storeLogger.Enable(!conf.Debug)

	// set up storage
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout*2)
	db, err := kv.Open(ctx, conf)
	cancel()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			storeLogger.Fatal("Failed to close", err)
		}
	}()

	seed, err := school.ConfiguredSeed(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("building seed: %v", err), err)
	}
	dataStore := store.New(db, storeLogger, store.WithNamespace(conf.Storage.Namespace), store.WithSeed(seed))
	if err = dataStore.Init(context.Background()); err != nil {
		logger.Fatal(fmt.Sprintf("initializing store: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	school.InitValidators(validate, translator)

	core.ParseEmailTemplates(appfs.FS, "templates/email", logger, !conf.Debug)

	if !conf.InsightsEnabled() {
		logger.Warn("INSIGHTAPIKEY not set: insights are unavailable")
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("storage").Set(conf.Storage.Driver)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Store:      dataStore,
			MailSvc:    mailSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
