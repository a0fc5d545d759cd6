package logger

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// configuration :
// Provides a way to configure the way logs are displayed by the
// standard logger. The logger prints to the standard output with
// some coloring based on the severity of the message. Values are
// retrieved from the configuration file with sane defaults when
// a key is missing.
//
// The `AppName` describes a string for the name of the application
// using the logger.
// The default value is "Unknown app".
//
// The `Level` is a string representing the minimum level of a log
// message in order for it to be displayed. Basically it allows to
// filter debug messages from production environment so that the
// important messages get their deserved visibility.
// The default value is "info".
//
// The `Buffer` allows to specify the size of the buffer to handle
// log messages. The logger does not directly output messages to
// the standard output but stores them in an internal buffer with
// a predefined size so that callers are not blocked by the actual
// logging device during bursts.
// The default value is 500.
type configuration struct {
	AppName string
	Level   string
	Buffer  int
}

// parseConfiguration :
// Fetches the logger properties from the configuration file and
// provides default values for anything that is not defined.
//
// Returns the built-in configuration object.
func parseConfiguration() configuration {
	// Create a default configuration object.
	config := configuration{
		"Unknown app",
		"info",
		500,
	}

	// Fetch configuration values from the runtime.
	if viper.IsSet("Logger.AppName") {
		config.AppName = viper.GetString("Logger.AppName")
	}
	if viper.IsSet("Logger.Level") {
		config.Level = viper.GetString("Logger.Level")
	}
	if viper.IsSet("Logger.Buffer") {
		config.Buffer = viper.GetInt("Logger.Buffer")
	}

	return config
}

// traceMessage :
// Describes a message to be enqueued by the logger. It contains
// all the needed information to be displayed by the logger such
// as its severity, the module which produced it and its content.
//
// The `level` value represents the actual importance of the log
// message.
//
// The `module` describes the part of the application that did
// produce the message. It helps when grepping through the logs
// of a single process serving several concerns.
//
// The `content` represents the content of the message and is
// dumped as is during the logging process.
type traceMessage struct {
	level   Severity
	module  string
	content string
}

// StdLogger :
// Describes the logger structure used to perform logging to the
// standard output. Messages received as go structures are pushed
// to an internal buffered channel so that the caller is not held
// back by the underlying display system. A dedicated routine is
// polling the channel and performs the actual display.
// This off-loading would also come in handy if we ever decide to
// change the logging to a more complex device (say uploading the
// logs somewhere) where the logging in itself might take time.
//
// The `config` allows to retrieve information about the settings
// to apply to input log messages (level filtering for example).
//
// The `instanceID` represents the name of the instance of the
// application running the logger. It is updated each time the
// application restarts so that several instances running on one
// machine can be told apart in the logs.
//
// The `minLevel` is derived from the configuration and defines
// the least severe message that will actually be displayed.
//
// The `logChannel` is the internal buffer holding the messages
// that still have to be displayed.
//
// The `endChannel` allows to request the termination of the
// active logging routine.
//
// The `closed` and `locker` work together to prevent any post
// on the log channel after it has been closed.
//
// The `waiter` allows to wait for the logging routine to have
// emptied the channel upon releasing the logger.
type StdLogger struct {
	config     configuration
	instanceID string
	minLevel   Severity
	logChannel chan traceMessage
	endChannel chan bool
	closed     bool
	locker     sync.Mutex
	waiter     sync.WaitGroup
}

// NewStdLogger :
// Creates a new logger printing to the standard output with the
// properties defined in the configuration file.
//
// The `instanceID` defines the identifier of the instance of the
// application running the logger. An empty value is replaced by
// "local" which is convenient in development environment.
//
// Returns the created logger.
func NewStdLogger(instanceID string) *StdLogger {
	// Retrieve the configuration.
	config := parseConfiguration()

	// Create the logger.
	log := StdLogger{
		config:     config,
		instanceID: instanceID,
		minLevel:   fromString(config.Level),
		logChannel: make(chan traceMessage, config.Buffer),
		endChannel: make(chan bool),
	}

	// Update the instance ID in case no value is provided.
	if len(log.instanceID) == 0 {
		log.instanceID = "local"
	}

	// Start logging.
	log.waiter.Add(1)
	go log.performLogging()

	// Return the built-in logger.
	return &log
}

// Release :
// Used to perform the stopping of the active loop meant to handle
// logging to the underlying device. It will block until the method
// actually does return to make sure that the last logs posted will
// be dumped.
func (log *StdLogger) Release() {
	// Request the termination of the active loop.
	log.endChannel <- false

	// Close the log channel.
	log.locker.Lock()
	log.closed = true
	close(log.logChannel)
	log.locker.Unlock()

	// Wait for the routine termination.
	log.waiter.Wait()
}

// Trace :
// Used to perform the log of the input message with the specified
// level on behalf of the specified module. The log message is not
// directly transmitted to the logging device but instead placed in
// the internal buffer of trace messages so that it can be processed
// by the active logger loop.
// Note that this function does not block the caller if the channel
// is not full. Otherwise the caller will be blocked until a slot is
// available in the internal buffer.
//
// The `level` describes the severity of the message to log.
//
// The `module` describes the part of the application producing the
// message.
//
// The `message` describes the content of the message to log.
func (log *StdLogger) Trace(level Severity, module string, message string) {
	// Filter messages that are below the configured level.
	if level < log.minLevel {
		return
	}

	// Create a trace object from the input elements.
	trace := traceMessage{
		level,
		module,
		message,
	}

	// Enqueue the trace to the internal channel if it is not closed yet.
	log.locker.Lock()
	defer log.locker.Unlock()
	if !log.closed {
		log.logChannel <- trace
	}
}

// performLogging :
// Used to perform logging. This method is meant to be launched as a
// go routine and will regularly poll the internal trace channel to
// perform logging.
func (log *StdLogger) performLogging() {
	// Until we request stop, we must continue logging.
	keepLogging := true

	for keepLogging {
		select {
		case keepLogging = <-log.endChannel:
			// The end channel has been activated, terminate the
			// logging process.
		case trace := <-log.logChannel:
			// A new trace is available, log it.
			log.performSingleLog(trace)
		}
	}

	// Iterate over the remaining messages of the log channel.
	for trace := range log.logChannel {
		log.performSingleLog(trace)
	}

	// Set the routine as done.
	log.waiter.Done()
}

// performSingleLog :
// Used to perform a single log for the input trace. This method is
// called from the active logging loop and performs the conversion
// of the input message into something that can be displayed by the
// standard output.
//
// The `trace` describes the message to log.
func (log *StdLogger) performSingleLog(trace traceMessage) {
	// Format the log to the standard output by providing some
	// information about the message to log and the instance
	// producing it.
	out := FormatWithBrackets(log.config.AppName, Magenta)
	out += " " + FormatWithBrackets(log.instanceID, Magenta)
	out += " " + FormatWithNoBrackets(time.Now().Format("2006-01-02 15:04:05"), Magenta)
	out += " " + trace.level.String()

	if len(trace.module) > 0 {
		out += " " + FormatWithBrackets(trace.module, Cyan)
	}

	out += " " + trace.content

	fmt.Println(out)
}
