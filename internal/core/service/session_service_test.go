package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/postblog/platform/internal/core/domain"
)

type stubEventRepo struct {
	mu     sync.Mutex
	events []domain.SessionEvent
	err    error
}

func (r *stubEventRepo) Insert(_ context.Context, e *domain.SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func seedUser(repo *stubUserRepo, password string, registered bool) uint64 {
	repo.nextID++
	repo.byID[repo.nextID] = &domain.User{
		ID:         repo.nextID,
		Email:      "u@example.com",
		Username:   "u@example.com",
		Password:   stubPrefix + password,
		Registered: registered,
	}
	return repo.nextID
}

func TestSessionService_LoginLogoutCycle(t *testing.T) {
	repo := newStubUserRepo()
	events := &stubEventRepo{}
	svc := NewSessionService(repo, stubHasher{}, events, discardLogger)
	id := seedUser(repo, "pw1", false)
	ctx := context.Background()

	if err := svc.IsLoggedIn(ctx, id); !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn before login, got %v", err)
	}
	if err := svc.Login(ctx, id, "pw1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.IsLoggedIn(ctx, id); err != nil {
		t.Fatalf("expected logged in, got %v", err)
	}
	if err := svc.Login(ctx, id, "pw1"); !errors.Is(err, domain.ErrAlreadyLoggedIn) {
		t.Fatalf("second login: expected ErrAlreadyLoggedIn, got %v", err)
	}
	if err := svc.Logout(ctx, id); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := svc.Logout(ctx, id); !errors.Is(err, domain.ErrLogoutNotAllowed) {
		t.Fatalf("second logout: expected ErrLogoutNotAllowed, got %v", err)
	}

	if len(events.events) != 4 {
		t.Fatalf("expected 4 recorded events, got %d", len(events.events))
	}
	if events.events[0].Outcome != domain.OutcomeOK || events.events[0].Transition != domain.TransitionLogin {
		t.Errorf("unexpected first event %+v", events.events[0])
	}
	if events.events[1].Outcome != domain.ErrAlreadyLoggedIn.Message {
		t.Errorf("expected failed login outcome, got %q", events.events[1].Outcome)
	}
}

func TestSessionService_Login_EmptyPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewSessionService(repo, stubHasher{}, nil, discardLogger)

	// Unknown id: the empty password check comes first.
	if err := svc.Login(context.Background(), 42, ""); !errors.Is(err, domain.ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestSessionService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewSessionService(repo, stubHasher{}, nil, discardLogger)
	id := seedUser(repo, "pw1", false)

	if err := svc.Login(context.Background(), id, "nope"); !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if repo.byID[id].Registered {
		t.Error("failed login must not change state")
	}
}

func TestSessionService_Login_MalformedDigest(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewSessionService(repo, stubHasher{}, nil, discardLogger)
	id := seedUser(repo, "pw1", false)
	repo.byID[id].Password = "not-a-digest"

	if err := svc.Login(context.Background(), id, "pw1"); !errors.Is(err, domain.ErrMalformedDigest) {
		t.Fatalf("expected ErrMalformedDigest, got %v", err)
	}
}

func TestSessionService_UnknownUser(t *testing.T) {
	svc := NewSessionService(newStubUserRepo(), stubHasher{}, nil, discardLogger)
	ctx := context.Background()

	if err := svc.Login(ctx, 5, "pw"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("login: expected ErrUserNotFound, got %v", err)
	}
	if err := svc.Logout(ctx, 5); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("logout: expected ErrUserNotFound, got %v", err)
	}
	if err := svc.IsLoggedIn(ctx, 5); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("isLoggedIn: expected ErrUserNotFound, got %v", err)
	}
}

func TestSessionService_ConcurrentLoginsHaveOneWinner(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewSessionService(repo, stubHasher{}, nil, discardLogger)
	id := seedUser(repo, "pw1", false)

	const n = 16
	var wins, conflicts int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.Login(context.Background(), id, "pw1")
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case errors.Is(err, domain.ErrAlreadyLoggedIn):
				atomic.AddInt32(&conflicts, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("expected exactly one successful login, got %d", wins)
	}
	if conflicts != n-1 {
		t.Errorf("expected %d conflicts, got %d", n-1, conflicts)
	}
}

func TestSessionService_EventLogFailureDoesNotFailLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewSessionService(repo, stubHasher{}, &stubEventRepo{err: errors.New("mongo down")}, discardLogger)
	id := seedUser(repo, "pw1", false)

	if err := svc.Login(context.Background(), id, "pw1"); err != nil {
		t.Fatalf("login must succeed when the event log is down, got %v", err)
	}
}
