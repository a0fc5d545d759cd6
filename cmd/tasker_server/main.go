package main

import (
	"flag"
	"fmt"
	"time"

	"tasker_server/internal/data"
	"tasker_server/internal/routes"
	"tasker_server/pkg/arguments"
	"tasker_server/pkg/auth"
	"tasker_server/pkg/background"
	"tasker_server/pkg/db"
	"tasker_server/pkg/logger"
)

// usage :
// Displays the usage of the server. Typically requires a configuration file
// to be able to fetch the configuration variables to use during the execution
// of the server.
func usage() {
	fmt.Println("Usage:")
	fmt.Println("-config=[file] for configuration file to use (local/production)")
}

// main :
// Read the configuration, build the collaborators and start answering the
// task management API requests.
func main() {
	// Define common flags to allow to parameterize the server.
	help := flag.Bool("h", false, "Print usage")
	conf := flag.String("config", "", "Configuration file to customize the server")

	flag.Parse()

	if *help {
		usage()
		return
	}

	// Parse the configuration and build the logging device first so
	// that everything else can report through it.
	metadata := arguments.Parse(*conf)

	log := logger.NewStdLogger(metadata.InstanceID)
	defer log.Release()

	log.Trace(logger.Notice, "main", fmt.Sprintf("Starting task server in \"%s\" environment", metadata.Environment))

	// Connect to the store and spawn the proxies hiding it. The
	// connection is probed on a regular basis so that a lost DB
	// gets reconnected without restarting the server.
	dbase := db.NewPool(log)

	healthcheck := background.NewProcess(5*time.Second, log).
		WithModule("db").
		WithOperation(func() (bool, error) {
			dbase.Healthcheck()
			return true, nil
		})

	if err := healthcheck.Start(); err != nil {
		log.Trace(logger.Error, "main", fmt.Sprintf("Unable to start DB healthcheck (err: %v)", err))
	}
	defer healthcheck.Stop()

	users := data.NewUserProxy(dbase, log)
	tasks := data.NewTaskProxy(dbase, log)

	tokens := auth.NewTokenManager(log)

	server := routes.NewServer(
		metadata.Port,
		time.Duration(metadata.RequestTimeout)*time.Second,
		users,
		tasks,
		tokens,
		log,
	)

	err := server.Serve()
	if err != nil {
		log.Trace(logger.Fatal, "main", fmt.Sprintf("Unexpected failure while listening to port %d (err: %v)", metadata.Port, err))
	}
}
