package data

import (
	"tasker_server/pkg/db"
	"tasker_server/pkg/logger"
)

// commonProxy :
// Gathers the resources shared by all the proxies giving
// access to the store. It holds the database wrapper and
// the logging device along with the name under which the
// proxy appears in the logs.
// The proxies hide the layout of the store from the rest
// of the application: callers only manipulate high-level
// operations that do not rely on the internal schema to
// work.
//
// The `dbase` is the database wrapped by this object.
//
// The `log` allows to notify errors and information.
//
// The `module` defines the name of the proxy in the logs.
type commonProxy struct {
	dbase  *db.DB
	log    logger.Logger
	module string
}

// newCommonProxy :
// Creates the base data for a proxy from the input database
// and logger.
//
// The `dbase` defines the database to wrap.
//
// The `log` defines the logging device to use.
//
// The `module` defines the name of the proxy in the logs.
//
// Returns the created proxy.
func newCommonProxy(dbase *db.DB, log logger.Logger, module string) commonProxy {
	if dbase == nil {
		panic(db.ErrInvalidDB)
	}

	return commonProxy{
		dbase:  dbase,
		log:    log,
		module: module,
	}
}

// trace :
// Convenience wrapper around the logger to automatically
// tag the message with the name of the proxy.
//
// The `level` defines the severity of the message.
//
// The `message` defines the content of the message.
func (p commonProxy) trace(level logger.Severity, message string) {
	p.log.Trace(level, p.module, message)
}
