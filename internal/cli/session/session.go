package session

import (
	"github.com/tripjournal/tripjournal/internal/cli/auth"
	"github.com/tripjournal/tripjournal/internal/cli/events"
)

// Header chrome element ids
const (
	RegionUserMenu  = "userDropdown"
	RegionLoginLink = "loginLink"
	SlotUsername    = "username"
)

// GuestLabel is shown in the username slot when nobody is signed in
const GuestLabel = "Guest"

// HeaderView is the shared chrome the session writes into
type HeaderView interface {
	SetVisible(region string, visible bool)
	SetText(slot, text string)
}

// Service answers session questions from the credential store and keeps chrome in sync
type Service struct {
	store *auth.Store
	bus   *events.Bus
}

// NewService creates a session service. bus may be nil.
func NewService(store *auth.Store, bus *events.Bus) *Service {
	return &Service{store: store, bus: bus}
}

// Status returns the current session view, re-read from storage
func (s *Service) Status() (auth.Status, error) {
	return s.store.CheckAuthStatus()
}

// IsAuthenticated reports whether a complete credential pair is stored
func (s *Service) IsAuthenticated() (bool, error) {
	status, err := s.store.CheckAuthStatus()
	if err != nil {
		return false, err
	}
	return status.IsAuthenticated, nil
}

// CurrentUser returns the signed-in user, if any
func (s *Service) CurrentUser() (auth.UserSummary, bool, error) {
	status, err := s.store.CheckAuthStatus()
	if err != nil {
		return nil, false, err
	}
	return status.User, status.IsAuthenticated, nil
}

// Token returns the stored bearer token
func (s *Service) Token() (string, error) {
	return s.store.Token()
}

// UpdateHeaderUI shows exactly one of the user menu and the login link and fills the
// username slot. Repeated calls with an unchanged session leave the view unchanged.
func (s *Service) UpdateHeaderUI(view HeaderView) error {
	status, err := s.store.CheckAuthStatus()
	if err != nil {
		return err
	}

	if status.IsAuthenticated {
		view.SetVisible(RegionUserMenu, true)
		view.SetVisible(RegionLoginLink, false)
		view.SetText(SlotUsername, status.User.Username())
	} else {
		view.SetVisible(RegionUserMenu, false)
		view.SetVisible(RegionLoginLink, true)
		view.SetText(SlotUsername, GuestLabel)
	}
	return nil
}

// Login stores the credential pair and announces the session change
func (s *Service) Login(token, userJSON string) error {
	if err := s.store.Login(token, userJSON); err != nil {
		return err
	}
	s.publish()
	return nil
}

// Logout removes the credential pair and navigates to the root
func (s *Service) Logout() error {
	if err := s.store.Logout(); err != nil {
		return err
	}
	s.publish()
	return nil
}

func (s *Service) publish() {
	if s.bus != nil {
		s.bus.Publish(events.SessionChanged, nil)
	}
}
