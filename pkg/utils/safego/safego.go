// Package safego wraps goroutines and callbacks that run outside of any
// request's call stack (timer callbacks, background loops) so a panic
// in one does not take down the router process.
package safego

import (
	"fmt"
	"runtime/debug"

	"github.com/ditef/router/pkg/logger"
)

// Recovery recovers a panic on the current goroutine and logs it. Call
// it deferred at the top of any function invoked by time.AfterFunc or
// go, where nothing higher up the stack can catch a panic.
func Recovery() {
	e := recover()
	if e == nil {
		return
	}

	err := fmt.Errorf("%v", e)
	logger.Error("[catch panic] err = %v\n%s", err, debug.Stack())
}

// Go runs fn on a new goroutine with Recovery deferred.
func Go(fn func()) {
	go func() {
		defer Recovery()
		fn()
	}()
}
