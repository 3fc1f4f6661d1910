package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	nextID    uint64
	byID      map[uint64]*domain.User
	createErr error // if set, Create returns this error
	listErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[uint64]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User, roles []domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return domain.ErrUserExists
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.Roles = roles
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameWithRoles(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.User, 0, len(r.byID))
	for id := uint64(1); id <= r.nextID; id++ {
		if u, ok := r.byID[id]; ok {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for id, other := range r.byID {
		if id != u.ID && other.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	stored.Name = u.Name
	stored.Age = u.Age
	stored.Email = u.Email
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// SetRegistered mirrors the conditional UPDATE of the SQL repository.
func (r *stubUserRepo) SetRegistered(_ context.Context, id uint64, from, to bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.Registered != from {
		return false, nil
	}
	u.Registered = to
	return true, nil
}

type stubRoleRepo struct {
	roles map[string]*domain.Role
}

func newStubRoleRepo(names ...string) *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[string]*domain.Role)}
	for i, n := range names {
		r.roles[n] = &domain.Role{ID: uint64(i + 1), Name: n}
	}
	return r
}

func (r *stubRoleRepo) Ensure(_ context.Context, name string) (*domain.Role, error) {
	if role, ok := r.roles[name]; ok {
		return role, nil
	}
	role := &domain.Role{ID: uint64(len(r.roles) + 1), Name: name}
	r.roles[name] = role
	return role, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return nil, errors.New("role not found")
	}
	return role, nil
}

// stubHasher "hashes" by prefixing; anything without the prefix is malformed.
type stubHasher struct{}

const stubPrefix = "hashed:"

func (stubHasher) Hash(plaintext string) (string, error) { return stubPrefix + plaintext, nil }

func (stubHasher) Verify(plaintext, digest string) (bool, error) {
	if !strings.HasPrefix(digest, stubPrefix) {
		return false, errors.New("malformed digest")
	}
	return digest == stubPrefix+plaintext, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func newTestUserService() (*UserService, *stubUserRepo) {
	repo := newStubUserRepo()
	return NewUserService(repo, newStubRoleRepo(domain.RoleUser, domain.RoleAdmin), stubHasher{}, discardLogger), repo
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func mustCreate(t *testing.T, svc *UserService, email, password string) *ports.UserView {
	t.Helper()
	v, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Name: "Ana", Email: email, Password: password})
	if err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return v
}

// ---------------------------------------------------------------------------
// CreateUser tests
// ---------------------------------------------------------------------------

func TestUserService_Create_Success(t *testing.T) {
	svc, repo := newTestUserService()

	v, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Name: "Ana", Email: "ana@example.com", Age: intPtr(30), Password: "secret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID == 0 {
		t.Error("expected an assigned id")
	}
	if v.Registered {
		t.Error("new users must start logged out")
	}
	if v.Username != "ana@example.com" {
		t.Errorf("username should default to email, got %q", v.Username)
	}
	if len(v.Roles) != 1 || v.Roles[0] != domain.RoleUser {
		t.Errorf("expected default role USER, got %v", v.Roles)
	}

	stored := repo.byID[v.ID]
	if stored.Password == "secret" {
		t.Error("password must be stored as a digest, not plaintext")
	}
	if stored.Password != stubPrefix+"secret" {
		t.Errorf("unexpected digest %q", stored.Password)
	}
}

func TestUserService_Create_ExplicitUsername(t *testing.T) {
	svc, _ := newTestUserService()

	v, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Email: "bob@example.com", Username: "bob", Password: "pw1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Username != "bob" {
		t.Errorf("expected username bob, got %q", v.Username)
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	svc, repo := newTestUserService()
	mustCreate(t, svc, "a@b.com", "pw1")

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Email: "a@b.com", Password: "pw2"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.byID) != 1 {
		t.Errorf("duplicate must not be stored, have %d users", len(repo.byID))
	}
}

func TestUserService_Create_DuplicateUsername(t *testing.T) {
	svc, _ := newTestUserService()
	if _, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Email: "a@b.com", Username: "same", Password: "x"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Email: "c@d.com", Username: "same", Password: "x"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Create_MissingDefaultRole(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), newStubRoleRepo(), stubHasher{}, discardLogger)

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Email: "a@b.com", Password: "x"})
	if !errors.Is(err, domain.ErrDefaultRole) {
		t.Fatalf("expected ErrDefaultRole, got %v", err)
	}
}

func TestUserService_Create_RepoError(t *testing.T) {
	svc, repo := newTestUserService()
	repo.createErr = errors.New("db unavailable")

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Email: "a@b.com", Password: "x"})
	if !errors.Is(err, domain.ErrCreateUser) {
		t.Fatalf("expected ErrCreateUser, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Read / update / delete tests
// ---------------------------------------------------------------------------

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.GetUserByID(context.Background(), 99)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_GetByUsername(t *testing.T) {
	svc, _ := newTestUserService()
	created := mustCreate(t, svc, "a@b.com", "x")

	v, err := svc.GetUserByUsername(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID != created.ID {
		t.Errorf("expected id %d, got %d", created.ID, v.ID)
	}

	_, err = svc.GetUserByUsername(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrUsernameNotFound) {
		t.Fatalf("expected ErrUsernameNotFound, got %v", err)
	}
}

func TestUserService_Update_PatchesOnlyGivenFields(t *testing.T) {
	svc, repo := newTestUserService()
	created := mustCreate(t, svc, "a@b.com", "x")
	repo.byID[created.ID].Age = intPtr(20)

	v, err := svc.UpdateUserByID(context.Background(), created.ID, ports.UpdateUserInput{Name: strPtr("X")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Name != "X" {
		t.Errorf("expected name X, got %q", v.Name)
	}
	if v.Email != "a@b.com" {
		t.Errorf("email must be unchanged, got %q", v.Email)
	}
	if v.Age == nil || *v.Age != 20 {
		t.Errorf("age must be unchanged, got %v", v.Age)
	}
	if repo.byID[created.ID].Password != stubPrefix+"x" {
		t.Error("update must never touch the password")
	}
}

func TestUserService_Update_EmailTaken(t *testing.T) {
	svc, _ := newTestUserService()
	mustCreate(t, svc, "a@b.com", "x")
	second := mustCreate(t, svc, "c@d.com", "x")

	_, err := svc.UpdateUserByID(context.Background(), second.ID, ports.UpdateUserInput{Email: strPtr("a@b.com")})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.UpdateUserByID(context.Background(), 7, ports.UpdateUserInput{Name: strPtr("X")})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_GetAll(t *testing.T) {
	svc, repo := newTestUserService()
	mustCreate(t, svc, "a@b.com", "x")
	mustCreate(t, svc, "c@d.com", "x")

	all, err := svc.GetAllUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 users, got %d", len(all))
	}

	repo.listErr = errors.New("boom")
	if _, err := svc.GetAllUsers(context.Background()); !errors.Is(err, domain.ErrGetUsers) {
		t.Fatalf("expected ErrGetUsers, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, _ := newTestUserService()
	created := mustCreate(t, svc, "a@b.com", "x")

	if err := svc.DeleteUserByID(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteUserByID(context.Background(), created.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second delete: expected ErrUserNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// CheckPassword tests
// ---------------------------------------------------------------------------

func TestUserService_CheckPassword(t *testing.T) {
	svc, repo := newTestUserService()
	created := mustCreate(t, svc, "a@b.com", "pw1")

	ok, err := svc.CheckPassword(context.Background(), "a@b.com", "pw1")
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = svc.CheckPassword(context.Background(), "a@b.com", "nope")
	if err != nil || ok {
		t.Fatalf("expected mismatch without error, got ok=%v err=%v", ok, err)
	}

	_, err = svc.CheckPassword(context.Background(), "ghost@b.com", "pw1")
	if !errors.Is(err, domain.ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}

	repo.byID[created.ID].Password = "garbage"
	_, err = svc.CheckPassword(context.Background(), "a@b.com", "pw1")
	if !errors.Is(err, domain.ErrMalformedDigest) {
		t.Fatalf("expected ErrMalformedDigest, got %v", err)
	}
}
