package routes

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"tasker_server/internal/data"
	"tasker_server/internal/model"
	"tasker_server/pkg/logger"
	"tasker_server/pkg/rest"

	"github.com/gorilla/handlers"
)

// Module name used to reference this package in the logs.
const module = "routes"

// UserRepository :
// Describes the persistence collaborator serving the user
// handlers. The concrete implementation lives in the data
// package; the handlers only rely on this narrow interface
// so that tests can substitute their own.
type UserRepository interface {
	GetUser(username string) (model.User, error)
	CreateUser(user model.User) (int64, error)
	UpdateUser(username string, firstName *string, lastName *string) error
	UpdatePassword(id int64, hash string) error
}

// TaskRepository :
// Describes the persistence collaborator serving the task
// handlers.
type TaskRepository interface {
	CreateTask(task model.Task) (int64, error)
	UpdateTask(task model.Task, userID int64) error
	UpdateTaskStatus(id int64, status string, userID int64) error
	FetchTask(id int64, username string) (model.Task, error)
	FetchTaskList(filters data.TaskFilters, page int, limit int, username string) ([]model.Task, error)
	CountTasks(filters data.TaskFilters, username string) (int, error)
	RemoveTask(id int64, userID int64) error
}

// TokenProvider :
// Describes the credential collaborator of the server: it
// issues bearer tokens upon successful sign in and plays
// the role of the authentication gate for the dispatcher.
type TokenProvider interface {
	IssueToken(username string) (string, error)
	Authenticate(credential string) (rest.Identity, error)
}

// server :
// Defines a server that can be used to answer the task
// management API requests. The server gathers the port to
// listen to, the collaborators giving access to the store
// and to the credentials, and will perform the listening
// to handle the clients' requests.
//
// The `port` allows to determine which port should be used
// by the server to accept incoming requests. This is
// usually specified in the configuration so as not to
// conflict with any other API.
//
// The `timeout` bounds the time spent serving one request
// so that a stalled client or a stalled query cannot pin
// a worker indefinitely.
//
// The `users` represents the proxy object allowing to
// interact with the registered users. It hides the layout
// of the store behind high-level operations.
//
// The `tasks` fills a similar role to `users` but for the
// tasks of the application.
//
// The `tokens` provides the issuing and the verification
// of the bearer credentials protecting most of the routes.
//
// The `log` allows to perform most of the logging on any
// action done by the server such as logging clients'
// connections, errors and generally some elements useful
// to track the activity of the server.
type server struct {
	port    int
	timeout time.Duration
	users   UserRepository
	tasks   TaskRepository
	tokens  TokenProvider
	log     logger.Logger
}

// NewServer :
// Create a new server with the input elements to use internally to
// access data and perform logging.
// In case any of the arguments are not valid a panic is issued to
// indicate the failure.
//
// The `port` defines the port to listen to by the server.
//
// The `timeout` defines the bound applied to each request.
//
// The `users` defines the proxy to access the registered users.
//
// The `tasks` defines the proxy to access the registered tasks.
//
// The `tokens` defines the credential collaborator.
//
// The `log` is used to notify from various processes in the server
// and keep track of the activity.
func NewServer(port int, timeout time.Duration, users UserRepository, tasks TaskRepository, tokens TokenProvider, log logger.Logger) server {
	if users == nil {
		panic(fmt.Errorf("cannot create server from empty users repository"))
	}
	if tasks == nil {
		panic(fmt.Errorf("cannot create server from empty tasks repository"))
	}
	if tokens == nil {
		panic(fmt.Errorf("cannot create server from empty token provider"))
	}

	return server{
		port,
		timeout,
		users,
		tasks,
		tokens,
		log,
	}
}

// Serve :
// Used to start listening to the port associated to this server
// and handle incoming requests. This will return an error in case
// something went wrong while listening to the port.
func (s *server) Serve() error {
	// Setup the route table.
	router := s.routes()

	// Wrap the dispatcher with the request logging and CORS
	// middlewares so that browser clients can target the API
	// and operators get an access log.
	chain := handlers.CombinedLoggingHandler(os.Stdout, router)
	chain = handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(chain)

	// The server timeouts bound a stalled client on top of
	// the per-request deadline enforced by the dispatcher.
	srv := http.Server{
		Addr:         ":" + strconv.FormatInt(int64(s.port), 10),
		Handler:      chain,
		ReadTimeout:  s.timeout,
		WriteTimeout: 2 * s.timeout,
	}

	return srv.ListenAndServe()
}
