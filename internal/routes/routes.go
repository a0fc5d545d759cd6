package routes

import (
	"tasker_server/pkg/dispatcher"
)

// apiVersion :
// The version prefix accepted by this server. Requests
// addressed to any other version are answered with a not
// found error.
const apiVersion = "1.0"

// routes :
// Used to setup all the routes able to be served by this server.
// All the routes are set up with the adequate handler but no
// actual binding is done.
func (s *server) routes() *dispatcher.Router {
	router := dispatcher.NewRouter(s.tokens, s.timeout, s.log)

	// Sign in route: the only user route reachable without
	// a credential besides the profile creation.
	router.Route(apiVersion, "user/oauth").
		Handle("POST", false, s.createAuthToken())

	router.Route(apiVersion, "user/profile").
		Handle("GET", true, s.getUserProfile()).
		Handle("PUT", true, s.updateUserProfile()).
		Handle("POST", false, s.createUserProfile())

	router.Route(apiVersion, "user/password").
		Handle("PUT", true, s.changeUserPassword())

	router.Route(apiVersion, "task").
		Handle("POST", true, s.createTask()).
		Handle("PUT", true, s.updateTask()).
		Handle("PATCH", true, s.patchTask()).
		Handle("DELETE", true, s.deleteTask())

	router.Route(apiVersion, "task/list").
		Handle("GET", true, s.listTasks())

	return router
}
