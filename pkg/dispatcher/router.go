package dispatcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tasker_server/pkg/logger"
	"tasker_server/pkg/rest"

	"github.com/google/uuid"
)

// Literal marker which must appear as the first segment of
// every path served by the router.
const apiMarker = "api"

// Scheme expected on the credential transported through the
// `Authorization` header.
const bearerScheme = "Bearer "

// AuthGate :
// Describes the authentication collaborator of the router.
// The gate verifies a bearer credential and either yields
// the identity claim decoded from it or an error which will
// short-circuit the request.
type AuthGate interface {
	Authenticate(credential string) (rest.Identity, error)
}

// Router :
// Defines the single entry point invoked once per inbound
// request. The router owns the full per-request control
// flow: it parses the incoming URL, validates the version
// and resource against its route table, branches on the
// authentication requirement, accumulates the payload of
// the request, invokes the resolved handler and reports
// every failure through the response envelope builder.
// The route table is built once at startup and immutable
// afterwards so it requires no locking even though each
// request is served on its own goroutine.
//
// The `versions` register, for each supported API version,
// the routes available under this version keyed by their
// resource path. Lookup is exact-match on both the version
// and the resource path string.
//
// The `gate` defines the authentication collaborator used
// for routes which require a verified identity.
//
// The `timeout` bounds the time spent serving one request
// (payload accumulation and handler execution included). A
// value of zero disables the bound.
//
// The `log` allows to notify the user of information and
// various errors that can be produced by this element.
type Router struct {
	versions map[string]map[string]*Route
	gate     AuthGate
	timeout  time.Duration
	log      logger.Logger
}

// NewRouter :
// Creates a new router with an empty route table.
// In case the gate is not valid a panic is issued as no
// authenticated route could ever be served.
//
// The `gate` defines the authentication collaborator.
//
// The `timeout` bounds the time spent serving a request.
//
// The `log` will be used to notify of the requests that
// fail to be routed.
//
// Returns the created router.
func NewRouter(gate AuthGate, timeout time.Duration, log logger.Logger) *Router {
	if gate == nil {
		panic(fmt.Errorf("cannot create router from empty authentication gate"))
	}

	return &Router{
		versions: make(map[string]map[string]*Route),
		gate:     gate,
		timeout:  timeout,
		log:      log,
	}
}

// Route :
// Registers a new route in the internal table with the
// provided version and resource path, or fetches it if
// it already exists so that additional methods can be
// attached to it.
//
// The `version` defines the API version serving the route.
//
// The `path` defines the resource path of the route. It
// is sanitized from any leading or trailing '/'.
//
// Returns the route to allow chain calling.
func (r *Router) Route(version string, path string) *Route {
	path = sanitizeRoute(path)

	routes, ok := r.versions[version]
	if !ok {
		routes = make(map[string]*Route)
		r.versions[version] = routes
	}

	route, ok := routes[path]
	if !ok {
		route = newRoute(path, r.log)
		routes[path] = route
	}

	return route
}

// resolve :
// Queries the route table for the input version, resource
// path and method. The two failure conditions are kept
// distinguishable: an unknown version or resource path is
// a "not found" while a known path reached with a verb it
// does not support is a "method not allowed".
//
// The `version` defines the API version of the request.
//
// The `path` defines the resource path of the request.
//
// The `method` defines the HTTP verb of the request.
//
// Returns the descriptor to use along with the matching
// state.
func (r *Router) resolve(version string, path string, method string) (Desc, matching) {
	routes, ok := r.versions[version]
	if !ok {
		return Desc{}, notFound
	}

	route, ok := routes[path]
	if !ok {
		return Desc{}, notFound
	}

	return route.match(method)
}

// ServeHTTP :
// Used to dispatch the input request to the handler that
// is registered for it in the route table. The dispatch
// is organized so that exactly one response is written
// per request: every terminal path goes through the
// response envelope builder and once a step has failed
// no later step may run.
//
// The `w` represents the response writer to use to send
// data back to the client.
//
// The `req` defines the input request which should be
// routed through the internal table.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// Tag every log produced for this request with a unique
	// identifier so that interleaved requests can be told
	// apart.
	reqID := uuid.New().String()

	// Guard the response writer so that the safety net can
	// determine whether a response has already been written
	// when a panic is recovered.
	guard := &guardedWriter{ResponseWriter: w}

	// Normalize any panic escaping the dispatch to a single
	// internal error envelope: nothing may propagate to the
	// transport layer unformatted.
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Trace(logger.Error, getModuleName(), fmt.Sprintf("[%s] Recovering from unexpected panic (err: %v)", reqID, rec))

			if !guard.responded {
				rest.WriteError(guard, rest.InternalErr, http.StatusInternalServerError)
			}
		}
	}()

	r.dispatch(guard, req, reqID)
}

// dispatch :
// Performs the actual per-request control flow on behalf
// of `ServeHTTP`: parse the target, resolve the route,
// run the authentication gate when required, accumulate
// the payload, invoke the handler and shape its outcome.
//
// The `w` represents the guarded response writer.
//
// The `req` defines the input request.
//
// The `reqID` tags the logs produced for this request.
func (r *Router) dispatch(w http.ResponseWriter, req *http.Request, reqID string) {
	// Parse the request target into its path segments.
	segments := splitRouteElements(req.URL.Path)

	// The first segment must be the literal API marker and
	// both the version and the resource head must exist.
	if len(segments) < 3 || segments[0] != apiMarker {
		r.log.Trace(logger.Warning, getModuleName(), fmt.Sprintf("[%s] No route matching \"%s\"", reqID, req.URL.Path))
		rest.WriteError(w, rest.ResNotFound, http.StatusNotFound)

		return
	}

	// The resource path is the remainder of the path after
	// the version segment (so `api/1.0/user/profile` yields
	// `user/profile`).
	version := segments[1]
	path := strings.Join(segments[2:], "/")

	// Query the route table.
	desc, match := r.resolve(version, path, req.Method)

	switch match {
	case notFound:
		r.log.Trace(logger.Warning, getModuleName(), fmt.Sprintf("[%s] No route matching \"%s\" for version \"%s\"", reqID, path, version))
		rest.WriteError(w, rest.ResNotFound, http.StatusNotFound)

		return
	case methodNotAllowed:
		r.log.Trace(logger.Warning, getModuleName(), fmt.Sprintf("[%s] Method \"%s\" not allowed on \"%s\"", reqID, req.Method, path))
		rest.WriteError(w, rest.OpNotAllowed, http.StatusMethodNotAllowed)

		return
	}

	// Derive the context serving this request, bounding the
	// remaining steps with the configured timeout.
	ctx := req.Context()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	// Run the authentication gate before anything else in
	// case the route requires a verified identity. Failure
	// terminates the request with no further work.
	if desc.RequiresAuth {
		identity, err := r.gate.Authenticate(extractCredential(req))
		if err != nil {
			r.log.Trace(logger.Warning, getModuleName(), fmt.Sprintf("[%s] Rejecting unauthenticated request on \"%s\" (err: %v)", reqID, path, err))
			r.writeFailure(w, err)

			return
		}

		ctx = withIdentity(ctx, identity)
	}

	// Accumulate the payload of the request. This must be
	// complete before the handler is invoked.
	payload, err := rest.ReadPayload(req)
	if err != nil {
		r.log.Trace(logger.Error, getModuleName(), fmt.Sprintf("[%s] Could not read payload for \"%s\" (err: %v)", reqID, path, err))
		rest.WriteError(w, rest.InternalErr, http.StatusInternalServerError)

		return
	}

	// Invoke the resolved handler and shape its outcome.
	res, err := desc.Handler(ctx, payload)
	if err != nil {
		r.log.Trace(logger.Warning, getModuleName(), fmt.Sprintf("[%s] Handler for \"%s\" failed (err: %v)", reqID, path, err))
		r.writeFailure(w, err)

		return
	}

	err = rest.WriteSuccess(w, res.Key, res.Value, res.Status)
	if err != nil {
		r.log.Trace(logger.Error, getModuleName(), fmt.Sprintf("[%s] Error while writing response for \"%s\" (err: %v)", reqID, path, err))
	}
}

// writeFailure :
// Converts the input error into the failure envelope that
// should be served to the client. Errors produced by the
// application layers keep their status and key while any
// other error is downgraded to a generic internal error
// so that no raw error text crosses the boundary.
//
// The `w` represents the response writer to use.
//
// The `err` defines the failure to report.
func (r *Router) writeFailure(w http.ResponseWriter, err error) {
	apiErr, ok := err.(rest.Error)
	if !ok {
		rest.WriteError(w, rest.InternalErr, http.StatusInternalServerError)

		return
	}

	rest.WriteError(w, apiErr.Key, apiErr.Status)
}

// extractCredential :
// Fetches the bearer credential transported by the input
// request. The credential travels in the `Authorization`
// header prefixed with the bearer scheme; anything else
// yields an empty credential which the gate will reject.
//
// The `req` defines the request to inspect.
//
// Returns the raw credential, possibly empty.
func extractCredential(req *http.Request) string {
	header := req.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerScheme) {
		return ""
	}

	return strings.TrimPrefix(header, bearerScheme)
}

// sanitizeRoute :
// Used to remove any '/' characters leading or trailing the
// input route string.
//
// The `route` is the string to be sanitized.
//
// Returns a string stripped from any leading or trailing '/'
// items.
func sanitizeRoute(route string) string {
	if strings.HasPrefix(route, "/") {
		route = strings.TrimPrefix(route, "/")
	}
	if strings.HasSuffix(route, "/") {
		route = strings.TrimSuffix(route, "/")
	}

	return route
}

// splitRouteElements :
// Used to transform part of the route into its composing
// single elements. Typically a value of `/api/1.0/task`
// will be split into `api`, `1.0` and `task`. Any leading
// or trailing '/' character is stripped from the input
// string before splitting.
// In case the sanitized string is empty the output array
// will have a length of `0`.
//
// The `route` is the element which should be split on the
// '/' characters.
//
// Returns an array of all tokens formed by the '/'
// characters in the string.
func splitRouteElements(route string) []string {
	route = sanitizeRoute(route)

	// Handle for empty string.
	if len(route) == 0 {
		return make([]string, 0)
	}

	// Split on '/' characters.
	return strings.Split(route, "/")
}

// guardedWriter :
// Thin wrapper around a response writer which records that
// a response has been started. The safety net relies on it
// to make sure that exactly one response is written even
// when a handler panics after having answered.
type guardedWriter struct {
	http.ResponseWriter
	responded bool
}

// WriteHeader :
// Forwards to the underlying writer while recording that
// the response has been started.
func (g *guardedWriter) WriteHeader(status int) {
	g.responded = true
	g.ResponseWriter.WriteHeader(status)
}

// Write :
// Forwards to the underlying writer while recording that
// the response has been started.
func (g *guardedWriter) Write(data []byte) (int, error) {
	g.responded = true
	return g.ResponseWriter.Write(data)
}
