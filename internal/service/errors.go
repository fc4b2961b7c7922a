package service

import (
	"errors"
	"fmt"

	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
)

// ErrForbidden is returned when the signed-in role may not perform an action
var ErrForbidden = errors.New("action not allowed for current role")

// currentUser returns the signed-in profile or store.ErrNoSession
func currentUser(st store.State) (*model.UserProfile, error) {
	if st.CurrentUser == nil {
		return nil, store.ErrNoSession
	}
	return st.CurrentUser, nil
}

// activeUser is currentUser for operations that defer work. A profile
// restored from storage has no session until one is started, and nothing
// can be scheduled for it.
func activeUser(st store.State) (*model.UserProfile, string, error) {
	user, err := currentUser(st)
	if err != nil {
		return nil, "", err
	}
	if st.SessionID == "" {
		return nil, "", fmt.Errorf("%w: start a session before deferring work", store.ErrNoSession)
	}
	return user, st.SessionID, nil
}

// requireRole checks the signed-in profile against role
func requireRole(st store.State, role model.UserRole) (*model.UserProfile, error) {
	user, err := currentUser(st)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, fmt.Errorf("%w: requires %s, signed in as %s", ErrForbidden, role, user.Role)
	}
	return user, nil
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", store.ErrValidation, msg)
}
