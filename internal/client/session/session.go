// Package session is the single source of truth for "who is logged in".
// It owns the persisted credential, the identity decoded from it, and the
// bearer configuration of the API client. Everything else reads identity
// through it and never mutates session state directly.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ehealth/portal/internal/client/api"
	"github.com/ehealth/portal/internal/client/models"
)

// Session holds the decoded identity derived from the persisted credential.
//
// Contract: at most one identity exists at any time. Login is the only
// none-to-some transition; Logout and expiry detection at Initialize are the
// only some-to-none transitions. There is no proactive refresh: a token that
// expires mid-session surfaces as the first 401, which the views hand to
// HandleUnauthorized.
type Session struct {
	store    CredentialStore
	client   api.Client
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	identity *models.Identity
	tornDown bool
}

// New builds a session bound to a credential store and an API client.
func New(store CredentialStore, client api.Client, log zerolog.Logger) *Session {
	return &Session{
		store:    store,
		client:   client,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// Initialize reads the persisted credential on process start. An absent
// credential leaves identity unset. An expired or undecodable credential is
// discarded silently and treated as "was never logged in". A valid one
// populates identity and arms the client's bearer token.
func (s *Session) Initialize(ctx context.Context) error {
	token, err := s.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	if token == "" {
		return nil
	}

	ident, err := decodeIdentity(token, s.now())
	if err != nil {
		// Expired and malformed are handled identically: discard and move on.
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			s.log.Warn().Err(clearErr).Msg("could not discard stale credential")
		}
		return nil
	}

	s.client.SetToken(token)
	s.mu.Lock()
	s.identity = &ident
	s.tornDown = false
	s.mu.Unlock()
	return nil
}

// Login exchanges credentials at the endpoint selected by audience. On
// success it persists the returned token, arms the bearer configuration,
// populates identity and returns it. On failure nothing is mutated and the
// error carries the backend's message.
func (s *Session) Login(ctx context.Context, creds models.Credentials, audience api.Audience) (models.Identity, error) {
	if err := s.validate.Struct(creds); err != nil {
		return models.Identity{}, fmt.Errorf("invalid credentials: %w", err)
	}

	token, err := s.client.Login(ctx, creds, audience)
	if err != nil {
		return models.Identity{}, err
	}

	ident, err := decodeIdentity(token, s.now())
	if err != nil {
		return models.Identity{}, fmt.Errorf("backend returned an unusable token: %w", err)
	}

	if err := s.store.Set(ctx, token); err != nil {
		return models.Identity{}, fmt.Errorf("persist credential: %w", err)
	}

	s.client.SetToken(token)
	s.mu.Lock()
	s.identity = &ident
	s.tornDown = false
	s.mu.Unlock()

	return ident, nil
}

// Register creates an account at the endpoint selected by the profile's
// role. It is fire-and-forget with respect to session state: success does
// not log the user in.
func (s *Session) Register(ctx context.Context, profile models.RegisterProfile) error {
	if err := s.validate.Struct(profile); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	return s.client.Register(ctx, profile)
}

// Logout clears the persisted credential, the bearer configuration and the
// identity. It always succeeds; a storage failure is logged and swallowed
// because the in-memory session is gone either way.
func (s *Session) Logout(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("could not clear persisted credential")
	}
	s.client.ClearToken()
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()
}

// Identity returns the current identity, if any.
func (s *Session) Identity() (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// HandleUnauthorized tears the session down after an authenticated call
// failed with an authorization error. It runs at most once per login even
// when several fanned-out requests fail together; the return value reports
// whether this call performed the teardown.
func (s *Session) HandleUnauthorized(ctx context.Context) bool {
	s.mu.Lock()
	if s.identity == nil || s.tornDown {
		s.mu.Unlock()
		return false
	}
	s.tornDown = true
	s.mu.Unlock()

	s.Logout(ctx)
	return true
}
