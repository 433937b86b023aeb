//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrorGroupWrapper embeds errgroup.Group and recovers panics of the spawned
// goroutines, so one crashing conversion cannot take the whole batch down.
type ErrorGroupWrapper struct {
	*errgroup.Group
	returnError error
	logger      logrus.FieldLogger
}

// NewErrorGroupWrapper creates a new ErrorGroupWrapper.
func NewErrorGroupWrapper(logger logrus.FieldLogger) *ErrorGroupWrapper {
	return &ErrorGroupWrapper{
		Group:  new(errgroup.Group),
		logger: logger,
	}
}

// SetLimit bounds the number of concurrently running goroutines.
func (egw *ErrorGroupWrapper) SetLimit(n int) {
	egw.Group.SetLimit(n)
}

// Go overrides the Go method to add panic recovery logic.
func (egw *ErrorGroupWrapper) Go(f func() error) {
	egw.Group.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				egw.logger.WithField("action", "recover_panic").
					Errorf("recovered from panic: %v", r)
				debug.PrintStack()
				egw.returnError = fmt.Errorf("panic occurred: %v", r)
			}
		}()
		return f()
	})
}

// Wait waits for all goroutines to finish and returns the first non-nil
// error, including one synthesized from a recovered panic.
func (egw *ErrorGroupWrapper) Wait() error {
	if err := egw.Group.Wait(); err != nil {
		return err
	}
	return egw.returnError
}
