package store

import (
	"errors"

	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
)

var (
	// ErrNotFound is returned when an action names an id that is not in state.
	// State is left unchanged.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned for status changes outside the upload
	// and advice lifecycles
	ErrInvalidTransition = model.ErrInvalidTransition
	// ErrNoSession is returned by actions that need a current user
	ErrNoSession = errors.New("no active session")
	// ErrStaleSession is returned by session-bound actions once the session
	// they were bound to has ended. State is left unchanged.
	ErrStaleSession = errors.New("session has ended")
	// ErrValidation wraps struct validation failures on action inputs
	ErrValidation = errors.New("validation failed")
)
