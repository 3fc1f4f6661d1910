package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

// SessionService toggles the per-user registered flag.
//
//	LoggedOut --login(password)--> LoggedIn
//	LoggedIn  --logout----------> LoggedOut
//
// Transitions are written with a compare-and-set on the current flag, so two
// concurrent logins for the same user have exactly one winner.
type SessionService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	events ports.SessionEventRepository
	log    zerolog.Logger
	now    func() time.Time
}

// NewSessionService returns a SessionService. events may be nil when the
// session event log is disabled.
func NewSessionService(users ports.UserRepository, hasher ports.PasswordHasher, events ports.SessionEventRepository, log zerolog.Logger) *SessionService {
	return &SessionService{
		users:  users,
		hasher: hasher,
		events: events,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Login moves a LoggedOut user to LoggedIn after verifying the password.
// An empty password is rejected before the user is even looked up.
func (s *SessionService) Login(ctx context.Context, id uint64, password string) error {
	err := s.login(ctx, id, password)
	s.record(ctx, id, domain.TransitionLogin, err)
	return err
}

func (s *SessionService) login(ctx context.Context, id uint64, password string) error {
	if password == "" {
		return domain.ErrPasswordRequired
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Registered {
		return domain.ErrAlreadyLoggedIn
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedDigest, err)
	}
	if !ok {
		return domain.ErrPasswordMismatch
	}

	changed, err := s.users.SetRegistered(ctx, id, false, true)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpdateUser, err)
	}
	if !changed {
		// Lost a race: the row was deleted or another login won.
		if _, err := s.users.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrAlreadyLoggedIn
	}

	s.log.Info().Uint64("user_id", id).Msg("user logged in")
	return nil
}

// Logout moves a LoggedIn user back to LoggedOut.
func (s *SessionService) Logout(ctx context.Context, id uint64) error {
	err := s.logout(ctx, id)
	s.record(ctx, id, domain.TransitionLogout, err)
	return err
}

func (s *SessionService) logout(ctx context.Context, id uint64) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.Registered {
		return domain.ErrLogoutNotAllowed
	}

	changed, err := s.users.SetRegistered(ctx, id, true, false)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpdateUser, err)
	}
	if !changed {
		if _, err := s.users.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrLogoutNotAllowed
	}

	s.log.Info().Uint64("user_id", id).Msg("user logged out")
	return nil
}

// IsLoggedIn returns nil when the user is LoggedIn and domain.ErrNotLoggedIn otherwise.
func (s *SessionService) IsLoggedIn(ctx context.Context, id uint64) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.Registered {
		return domain.ErrNotLoggedIn
	}
	return nil
}

// record appends the attempt to the session event log. Failures are logged,
// never returned: the transition itself already happened (or didn't).
func (s *SessionService) record(ctx context.Context, id uint64, transition domain.SessionTransition, outcome error) {
	if s.events == nil {
		return
	}

	event := &domain.SessionEvent{
		UserID:     id,
		Transition: transition,
		Outcome:    domain.OutcomeOK,
		OccurredAt: s.now(),
	}
	if outcome != nil {
		var de *domain.Error
		if errors.As(outcome, &de) {
			event.Outcome = de.Message
		} else {
			event.Outcome = outcome.Error()
		}
	}

	if err := s.events.Insert(ctx, event); err != nil {
		s.log.Warn().Err(err).Uint64("user_id", id).Str("transition", string(transition)).Msg("failed to record session event")
	}
}
