package background

import (
	"fmt"
	"sync"
	"time"

	"tasker_server/pkg/logger"
)

// OperationFunc :
// Defines an operation that can be attached to a process.
// It takes no argument and returns a status indicating
// whether the execution succeeded along with any error.
type OperationFunc func() (bool, error)

// ErrAlreadyRunning : Indicates that this process is
// already running and cannot be started again.
var ErrAlreadyRunning = fmt.Errorf("unable to start already running process")

// ErrInvalidOperation : Indicates that the operation
// associated to this process is not valid.
var ErrInvalidOperation = fmt.Errorf("invalid operation to start process")

// Process :
// Defines a recurring operation executed at a fixed
// interval by a dedicated go routine. The operation is
// provided by the user along with the module used to
// tag the produced logs. A process can optionally retry
// a failed execution before going back to sleep.
//
// The `interval` defines the duration between two calls
// of the operation by this process.
//
// The `retryInterval` defines the time to wait before
// attempting a failed operation again. It only matters
// when the retry behavior is enabled.
//
// The `operation` defines the function executed at each
// interval.
//
// The `retry` defines whether a failed execution should
// be attempted again until it succeeds.
//
// The `log` allows to notify information and failures.
//
// The `module` tags the traces emitted by this process.
//
// The `lock` protects the running state from concurrent
// accesses.
//
// The `running` defines whether the main loop is active.
//
// The `termination` is used to request the main loop to
// stop.
//
// The `waiter` allows the `Stop` method to wait for the
// main loop to actually return.
type Process struct {
	interval      time.Duration
	retryInterval time.Duration
	operation     OperationFunc
	retry         bool
	log           logger.Logger
	module        string

	lock        sync.Mutex
	running     bool
	termination chan bool
	waiter      sync.WaitGroup
}

// NewProcess :
// Defines a new process with the specified interval and
// logger. The operation and the module are provided by
// the dedicated chainable setters.
//
// The `interval` defines the time interval between two
// consecutive calls to the operation.
//
// The `log` defines the logger to use to notify info
// and errors.
//
// Returns the built-in object.
func NewProcess(interval time.Duration, log logger.Logger) *Process {
	return &Process{
		interval:      interval,
		retryInterval: 1 * time.Second,
		log:           log,
		termination:   make(chan bool, 1),
	}
}

// WithModule :
// Assigns the module used to tag the traces emitted by
// this process.
//
// The `module` defines the name to assign.
//
// Returns this process to allow chain calling.
func (p *Process) WithModule(module string) *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.module = module

	return p
}

// WithRetry :
// Requests this process to attempt a failed operation
// again until it succeeds rather than waiting for the
// next interval.
//
// Returns this process to allow chain calling.
func (p *Process) WithRetry() *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.retry = true

	return p
}

// WithRetryInterval :
// Defines the time to wait before attempting a failed
// operation again.
//
// The `interval` defines the retry interval.
//
// Returns this process to allow chain calling.
func (p *Process) WithRetryInterval(interval time.Duration) *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.retryInterval = interval

	return p
}

// WithOperation :
// Defines the operation executed at each interval.
//
// The `operation` defines the function to execute.
//
// Returns this process to allow chain calling.
func (p *Process) WithOperation(operation OperationFunc) *Process {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.operation = operation

	return p
}

// Start :
// Used to start the main loop of this process. An error
// is returned when no operation is attached or when the
// process is already running.
//
// Returns any error.
func (p *Process) Start() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.running {
		return ErrAlreadyRunning
	}
	if p.operation == nil {
		return ErrInvalidOperation
	}

	p.running = true
	p.waiter.Add(1)

	go p.activeLoop()

	return nil
}

// Stop :
// Used to request the termination of the main loop and
// wait for it to return. Stopping a process that is not
// running is a no-op.
func (p *Process) Stop() {
	p.lock.Lock()

	if !p.running {
		p.lock.Unlock()
		return
	}

	p.termination <- true
	p.lock.Unlock()

	p.waiter.Wait()
}

// activeLoop :
// Main loop of this process: sleep for the configured
// interval, execute the operation and start over until
// a termination is requested. A panic in the operation
// terminates the loop but is reported rather than being
// propagated.
func (p *Process) activeLoop() {
	ticker := time.NewTicker(p.interval)

	defer func() {
		if err := recover(); err != nil {
			p.log.Trace(logger.Critical, p.module, fmt.Sprintf("Recovered from error in process (err: %v)", err))
		}

		ticker.Stop()

		p.lock.Lock()
		p.running = false
		p.lock.Unlock()

		p.waiter.Done()
	}()

	for {
		select {
		case <-p.termination:
			return
		case <-ticker.C:
			if err := p.execute(); err != nil {
				p.log.Trace(logger.Error, p.module, fmt.Sprintf("Caught error while executing process (err: %v)", err))
			}
		}
	}
}

// execute :
// Run the operation attached to this process, attempting
// it again upon failure when the retry behavior has been
// requested.
//
// Returns any error.
func (p *Process) execute() error {
	for {
		success, err := p.operation()
		if success || !p.retry {
			return err
		}

		p.log.Trace(logger.Verbose, p.module, fmt.Sprintf("Failed to execute process, retrying in %v", p.retryInterval))
		time.Sleep(p.retryInterval)
	}
}
