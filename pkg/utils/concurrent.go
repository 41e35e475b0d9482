package utils

import (
	"fmt"
	"runtime/debug"
)

// PanicError carries a recovered panic value and the goroutine stack.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n%s", p.Value, p.Stack)
}

func (p *PanicError) Unwrap() error {
	if e, ok := p.Value.(error); ok {
		return e
	}
	return nil
}

func SafelyRun(function func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	function()
	return nil
}

// SafelyGo runs function in its own goroutine, handleError receives a *PanicError.
func SafelyGo(function func(), handleError func(error)) {
	go func() {
		if err := SafelyRun(function); err != nil && handleError != nil {
			handleError(err)
		}
	}()
}
