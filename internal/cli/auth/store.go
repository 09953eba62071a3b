package auth

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tripjournal/tripjournal/internal/cli/nav"
)

// Well-known storage keys of the credential pair
const (
	TokenKey = "token"
	UserKey  = "user"
)

// UserSummary is the backend-defined user record. Only the username is relied upon.
type UserSummary map[string]any

// Username returns the "username" field, or "" when missing or not a string
func (u UserSummary) Username() string {
	name, _ := u["username"].(string)
	return name
}

// Status is the session view derived from storage on every query
type Status struct {
	IsAuthenticated bool
	User            UserSummary
}

// Store holds the credential pair (bearer token + user record) in durable storage.
// It caches nothing: every query re-reads storage.
type Store struct {
	storage   Storage
	navigator nav.Navigator
	log       zerolog.Logger
}

// NewStore creates a credential store; navigator receives the post-logout redirect
func NewStore(storage Storage, navigator nav.Navigator, log zerolog.Logger) *Store {
	return &Store{
		storage:   storage,
		navigator: navigator,
		log:       log.With().Str("component", "credentials").Logger(),
	}
}

// Login writes the token and the serialized user record. Neither is validated here;
// a malformed user record surfaces as an unauthenticated status on read.
func (s *Store) Login(token, userJSON string) error {
	if err := s.storage.SetItem(TokenKey, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if err := s.storage.SetItem(UserKey, userJSON); err != nil {
		// Don't leave a token without its user behind
		_ = s.storage.RemoveItem(TokenKey)
		return fmt.Errorf("failed to store user: %w", err)
	}
	s.log.Debug().Msg("Credential stored")
	return nil
}

// Logout removes both items and then navigates to the application root
func (s *Store) Logout() error {
	if err := s.storage.RemoveItem(TokenKey); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	if err := s.storage.RemoveItem(UserKey); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}
	s.log.Debug().Msg("Credential removed")

	if s.navigator != nil {
		s.navigator.Navigate(nav.Root)
	}
	return nil
}

// Token returns the stored bearer token, or "" when none is stored
func (s *Store) Token() (string, error) {
	token, _, err := s.storage.GetItem(TokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

// CheckAuthStatus reports whether a complete credential pair is stored.
// A token without a parseable user record (or the reverse) is not a session.
func (s *Store) CheckAuthStatus() (Status, error) {
	token, err := s.Token()
	if err != nil {
		return Status{}, err
	}

	raw, ok, err := s.storage.GetItem(UserKey)
	if err != nil {
		return Status{}, fmt.Errorf("failed to read user: %w", err)
	}

	if token == "" || !ok || raw == "" {
		return Status{}, nil
	}

	var user UserSummary
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.Warn().Err(err).Msg("Stored user record is corrupted, treating session as absent")
		return Status{}, nil
	}
	if user == nil {
		// JSON null
		return Status{}, nil
	}

	return Status{IsAuthenticated: true, User: user}, nil
}
