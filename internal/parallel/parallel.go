// Package parallel resolves worker-count requests against the host.
package parallel

import (
	"fmt"
	"runtime"
)

// AllCPUs requests one worker per hardware thread.
const AllCPUs = -1

// InvalidWorkerCountError reports a request that is neither AllCPUs nor
// within [0, Available].
type InvalidWorkerCountError struct {
	Requested int
	Available int
}

func (e *InvalidWorkerCountError) Error() string {
	return fmt.Sprintf("invalid worker count %d: must be %d or between 0 and %d available CPUs",
		e.Requested, AllCPUs, e.Available)
}

// ResolveWorkers returns the number of workers to run with.
func ResolveWorkers(requested, available int) (int, error) {
	if requested == AllCPUs {
		return available, nil
	}
	if requested < 0 || requested > available {
		return 0, &InvalidWorkerCountError{Requested: requested, Available: available}
	}
	return requested, nil
}

// Available reports the number of hardware threads of the host.
func Available() int {
	return runtime.NumCPU()
}
