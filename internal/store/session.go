package store

import (
	"fmt"

	"github.com/vcscsvcscs/hope/apps/backend/pkg/model"
)

// SessionScope runs actions on behalf of one session. Each action checks
// the session inside the same critical section as its change, so work
// deferred by an ended session can never land in the next one.
type SessionScope struct {
	store     *Store
	sessionID string
}

// InSession binds actions to sessionID
func (s *Store) InSession(sessionID string) SessionScope {
	return SessionScope{store: s, sessionID: sessionID}
}

func (sc SessionScope) check(st *State) error {
	if sc.sessionID == "" || st.SessionID != sc.sessionID {
		return fmt.Errorf("%w: %q is no longer current", ErrStaleSession, sc.sessionID)
	}
	return nil
}

// AddChatMessage appends msg if the session is still current
func (sc SessionScope) AddChatMessage(msg model.ChatMessage) error {
	return sc.store.addChatMessage(sc.check, msg)
}

// UpdateUploadStatus advances an upload if the session is still current
func (sc SessionScope) UpdateUploadStatus(id string, status model.UploadStatus, extractedData map[string]any) error {
	return sc.store.updateUploadStatus(sc.check, id, status, extractedData)
}

// guarded runs guard before fn. A nil guard always passes.
func guarded(guard, fn func(*State) error) func(*State) error {
	if guard == nil {
		return fn
	}
	return func(st *State) error {
		if err := guard(st); err != nil {
			return err
		}
		return fn(st)
	}
}
