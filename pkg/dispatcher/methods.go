package dispatcher

import (
	"fmt"
	"strings"

	"tasker_server/pkg/logger"
)

// getModuleName :
// Used to retrieve the name of this module as it should
// appear in the logs produced by this package.
//
// Returns the name of the module.
func getModuleName() string {
	return "dispatcher"
}

// getSupportedMethods :
// Returns the list of `HTTP` verbs that can be used as valid
// methods when registering a route.
func getSupportedMethods() map[string]bool {
	return map[string]bool{
		"GET":     true,
		"HEAD":    true,
		"POST":    true,
		"PUT":     true,
		"DELETE":  true,
		"CONNECT": true,
		"OPTIONS": true,
		"TRACE":   true,
		"PATCH":   true,
	}
}

// filterMethod :
// Consolidates the input method to upper case and verifies
// that it is a valid `HTTP` verb. Invalid verbs are notified
// through the logger and rejected.
//
// The `method` defines the verb to consolidate.
//
// The `log` allows to notify the user of an invalid verb.
//
// Returns the consolidated verb along with a boolean which
// is `false` when the verb is not valid.
func filterMethod(method string, log logger.Logger) (string, bool) {
	consolidated := strings.ToUpper(method)
	supported := getSupportedMethods()

	_, ok := supported[consolidated]
	if !ok {
		log.Trace(logger.Error, getModuleName(), fmt.Sprintf("Filtering invalid HTTP method \"%s\"", method))
		return consolidated, false
	}

	return consolidated, true
}
