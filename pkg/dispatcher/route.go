package dispatcher

import (
	"context"

	"tasker_server/pkg/logger"
	"tasker_server/pkg/rest"
)

// matching :
// Convenience define allowing to reference the possible
// matching state for a route. It is used to precisely
// determine the best match for an input request.
type matching int

// Definition of the possible match states for a route.
const (
	methodNotAllowed matching = iota
	notFound
	matched
)

// Handler :
// Defines the processing unit attached to a route. The
// handler receives the context of the request (carrying
// the identity claim for authenticated routes and the
// cancellation deadline) along with the payload that was
// accumulated from the request.
// It either returns a success value which is shaped into
// the success envelope or an error. Errors built with the
// `rest` package keep their status and key while anything
// else is normalized to an internal error.
type Handler func(ctx context.Context, payload rest.Payload) (rest.Result, error)

// Desc :
// Describes how a single HTTP method of a route should be
// served. Descriptors are built once when the route table
// is registered and never mutated afterwards.
//
// The `RequiresAuth` defines whether the authentication
// gate must succeed before the handler is invoked.
//
// The `Handler` defines the processing unit to invoke.
type Desc struct {
	RequiresAuth bool
	Handler      Handler
}

// Route :
// Defines a single resource path served under a specific
// API version. The route gathers the descriptors of the
// methods it supports: a request reaching the route with
// a method that is not registered is a distinct condition
// ("method not allowed") from a request that matches no
// route at all ("not found") and the two must never be
// confused.
//
// The `name` of the route defines the resource path to
// target to reach the route (e.g. `user/profile`). It is
// independent of the API version.
//
// The `methods` associates each allowed HTTP verb to the
// descriptor serving it. Every registered route holds at
// least one method.
//
// The `log` will be used in case anything is requiring
// to notify the user of an error.
type Route struct {
	name    string
	methods map[string]Desc
	log     logger.Logger
}

// newRoute :
// Used to create a new route with no associated methods
// and the specified path.
//
// The `path` indicates the resource path associated to
// the route to create.
//
// The `log` allows to notify the user in case an invalid
// method is registered on this route.
//
// Returns the created route.
func newRoute(path string, log logger.Logger) *Route {
	return &Route{
		name:    path,
		methods: make(map[string]Desc),
		log:     log,
	}
}

// Handle :
// Registers the provided handler as the processing unit
// for the input method on this route. Unknown HTTP verbs
// are filtered (and notified through the logger) so that
// the route table only ever contains valid methods. The
// method is consolidated to upper case internally so it
// is not mandatory to do so beforehand.
//
// The `method` defines the HTTP verb to register.
//
// The `requiresAuth` defines whether the authentication
// gate protects this method.
//
// The `handler` defines the processing unit to attach.
//
// Returns a reference to this route which is interesting
// to chain calls on this route.
func (r *Route) Handle(method string, requiresAuth bool, handler Handler) *Route {
	consolidated, ok := filterMethod(method, r.log)
	if !ok {
		return r
	}

	r.methods[consolidated] = Desc{
		RequiresAuth: requiresAuth,
		Handler:      handler,
	}

	return r
}

// match :
// Used to verify whether this route can serve the input
// method. The path has already been matched when this
// method is called so the only remaining condition is
// the verb of the request.
//
// The `method` represents the HTTP verb of the request.
//
// Returns the descriptor to use along with the matching
// state for this route.
func (r *Route) match(method string) (Desc, matching) {
	desc, ok := r.methods[method]
	if !ok {
		// The method does not match any verb registered
		// for this route.
		return Desc{}, methodNotAllowed
	}

	return desc, matched
}
