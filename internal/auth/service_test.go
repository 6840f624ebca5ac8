package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/flightman/internal/model"
	"github.com/hitoshi/flightman/internal/repository"
)

// --- モック定義 ---

type mockUserRepo struct {
	createFn         func(ctx context.Context, user *model.User) error
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session) error
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

// --- compile-time interface checks ---
var _ repository.UserRepository = (*mockUserRepo)(nil)
var _ repository.SessionRepository = (*mockSessionRepo)(nil)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

// --- Register テスト ---

func TestRegister_NewUsername_CreatesUserWithHashedPassword(t *testing.T) {
	ctx := context.Background()

	var createdUser *model.User
	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			// 同名ユーザーは存在しない
			return nil, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			createdUser = user
			return nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, nil)

	user, err := svc.Register(ctx, "alice", "secret-password")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("expected non-empty user ID")
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want %q", user.Username, "alice")
	}

	if createdUser == nil {
		t.Fatal("expected user to be persisted")
	}

	// パスワードが平文で保存されていないこと
	if createdUser.PasswordHash == "secret-password" {
		t.Error("password must not be stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(createdUser.PasswordHash), []byte("secret-password")); err != nil {
		t.Errorf("stored hash does not verify original password: %v", err)
	}
}

func TestRegister_DuplicateUsername_ReturnsError(t *testing.T) {
	ctx := context.Background()

	createCalled := false
	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "existing", Username: username}, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			createCalled = true
			return nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, nil)

	_, err := svc.Register(ctx, "alice", "password")
	if err == nil {
		t.Fatal("expected error for duplicate username")
	}

	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != model.ErrCodeDuplicateUsername {
		t.Errorf("error code = %q, want %q", appErr.Code, model.ErrCodeDuplicateUsername)
	}

	if createCalled {
		t.Error("Create must not be called for duplicate username")
	}
}

func TestRegister_RepoError_ReturnsError(t *testing.T) {
	ctx := context.Background()

	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, errors.New("db unreachable")
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, nil)

	_, err := svc.Register(ctx, "alice", "password")
	if err == nil {
		t.Fatal("expected error when repository fails")
	}
}

// --- Login テスト ---

func TestLogin_CorrectCredentials_CreatesSession(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "correct-password")

	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: username, PasswordHash: hash}, nil
		},
	}

	var createdSession *model.Session
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			createdSession = session
			return nil
		},
	}

	svc := NewService(userRepo, sessionRepo, nil)

	session, err := svc.Login(ctx, "alice", "correct-password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if session == nil {
		t.Fatal("expected non-nil session")
	}
	if session.ID == "" {
		t.Error("expected non-empty session ID")
	}
	if session.UserID != "user-1" {
		t.Errorf("session user ID = %q, want %q", session.UserID, "user-1")
	}

	if createdSession == nil {
		t.Fatal("expected session to be persisted")
	}
}

func TestLogin_WrongPassword_ReturnsAuthenticationFailed(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "correct-password")

	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: username, PasswordHash: hash}, nil
		},
	}

	sessionCreated := false
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			sessionCreated = true
			return nil
		},
	}

	svc := NewService(userRepo, sessionRepo, nil)

	_, err := svc.Login(ctx, "alice", "wrong-password")
	if err == nil {
		t.Fatal("expected error for wrong password")
	}

	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != model.ErrCodeAuthenticationFailed {
		t.Errorf("error code = %q, want %q", appErr.Code, model.ErrCodeAuthenticationFailed)
	}

	// 認証失敗時にセッションが作成されないこと
	if sessionCreated {
		t.Error("session must not be created on failed login")
	}
}

func TestLogin_UnknownUser_ReturnsSameErrorAsWrongPassword(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "correct-password")

	unknownRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, nil
		},
	}
	knownRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: username, PasswordHash: hash}, nil
		},
	}

	_, errUnknown := NewService(unknownRepo, &mockSessionRepo{}, nil).Login(ctx, "ghost", "pw")
	_, errWrongPw := NewService(knownRepo, &mockSessionRepo{}, nil).Login(ctx, "alice", "bad-pw")

	if errUnknown == nil || errWrongPw == nil {
		t.Fatal("expected both logins to fail")
	}

	// ユーザー不在とパスワード不一致が呼び出し側から区別できないこと
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("unknown-user error %q differs from wrong-password error %q",
			errUnknown.Error(), errWrongPw.Error())
	}
}

// --- Logout テスト ---

func TestLogout_DeletesSession(t *testing.T) {
	ctx := context.Background()

	var deletedID string
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}

	svc := NewService(&mockUserRepo{}, sessionRepo, nil)

	if err := svc.Logout(ctx, "session-123"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if deletedID != "session-123" {
		t.Errorf("deleted session ID = %q, want %q", deletedID, "session-123")
	}
}

func TestLogout_EmptySessionID_ReturnsError(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, nil)

	if err := svc.Logout(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty session ID")
	}
}

// --- CurrentUser テスト ---

func TestCurrentUser_ValidSession_ReturnsUser(t *testing.T) {
	ctx := context.Background()

	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: "user-1"}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}

	svc := NewService(userRepo, sessionRepo, nil)

	user, err := svc.CurrentUser(ctx, "session-123")
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want %q", user.Username, "alice")
	}
}

func TestCurrentUser_UnknownSession_ReturnsError(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, nil
		},
	}

	svc := NewService(&mockUserRepo{}, sessionRepo, nil)

	if _, err := svc.CurrentUser(context.Background(), "gone"); err == nil {
		t.Fatal("expected error for unknown session")
	}
}
