package store

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/localstore"
	"github.com/taskdeck/taskdeck/internal/logger"
)

// Login authenticates against the service. While the call is in flight
// auth.Loading is raised and any previous error cleared. On success the
// session is written to durable storage so the next start stays logged
// in; on failure the error string lands in auth.Error and the
// authentication flag stays down.
//
// Overlapping logins are not serialized here; the login screen disables
// its submit button while one is pending.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.auth.Loading = true
	s.auth.Error = ""
	s.mu.Unlock()

	creds, err := s.svc.Login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth.Loading = false

	if err != nil {
		s.auth.Error = err.Error()
		return err
	}

	s.auth.IsAuthenticated = true
	s.auth.Email = creds.Email

	if s.storage != nil {
		if err := s.storage.Set(localstore.KeyToken, creds.Token); err != nil {
			logger.Warn("Failed to persist session token", logger.F("error", err))
		}
		if err := s.storage.Set(localstore.KeyEmail, creds.Email); err != nil {
			logger.Warn("Failed to persist session email", logger.F("error", err))
		}
	}

	return nil
}

// Logout drops the session synchronously and wipes durable storage.
// No service call is involved.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth.IsAuthenticated = false
	s.auth.Email = ""
	s.auth.Error = ""

	if s.storage != nil {
		if err := s.storage.Clear(); err != nil {
			logger.Warn("Failed to clear session storage", logger.F("error", err))
		}
	}
}
