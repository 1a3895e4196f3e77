package service

import (
	"errors"
	"testing"
	"time"

	"ai_diary/internal/models"
	"ai_diary/internal/repository"
)

// mockUserRepo is a lightweight in-test mock for repository.Users.
type mockUserRepo struct {
	CreateFn        func(username, hash string) (int, error)
	GetByUsernameFn func(username string) (*models.User, error)

	createCalls []struct {
		username string
		hash     string
	}
	getCalls []string
}

func (m *mockUserRepo) Create(username, hash string) (int, error) {
	m.createCalls = append(m.createCalls, struct {
		username string
		hash     string
	}{username: username, hash: hash})
	return m.CreateFn(username, hash)
}

func (m *mockUserRepo) GetByUsername(username string) (*models.User, error) {
	m.getCalls = append(m.getCalls, username)
	return m.GetByUsernameFn(username)
}

func newTestAuth(repo repository.Users) *AuthService {
	return NewAuthService(repo, "test-signing-key", time.Hour)
}

func TestAuthService_SignUp_HashesPasswordAndCallsRepo(t *testing.T) {
	mock := &mockUserRepo{
		CreateFn: func(username, hash string) (int, error) {
			return 42, nil
		},
	}
	svc := newTestAuth(mock)

	id, err := svc.SignUp("alice", "s3cr3t")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}

	if len(mock.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(mock.createCalls))
	}
	call := mock.createCalls[0]
	if call.username != "alice" {
		t.Errorf("expected username 'alice', got %q", call.username)
	}
	if call.hash == "s3cr3t" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if err := verifyPassword(call.hash, "s3cr3t"); err != nil {
		t.Errorf("stored hash does not verify with original password: %v", err)
	}
}

func TestAuthService_SignUp_RejectsEmptyInput(t *testing.T) {
	mock := &mockUserRepo{
		CreateFn: func(username, hash string) (int, error) {
			t.Fatal("Create should not be called for invalid input")
			return 0, nil
		},
	}
	svc := newTestAuth(mock)

	if _, err := svc.SignUp("alice", "  "); err == nil {
		t.Fatal("expected error for empty password")
	}
	if _, err := svc.SignUp(" ", "secret"); err == nil {
		t.Fatal("expected error for empty username")
	}
}

func TestAuthService_SignUp_DuplicatePassesThrough(t *testing.T) {
	mock := &mockUserRepo{
		CreateFn: func(username, hash string) (int, error) {
			return 0, repository.ErrDuplicateUser
		},
	}
	svc := newTestAuth(mock)

	_, err := svc.SignUp("alice", "secret")
	if !errors.Is(err, repository.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestAuthService_GenerateToken(t *testing.T) {
	hash, err := hashPassword("secret")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}

	tests := []struct {
		name     string
		user     *models.User
		repoErr  error
		password string
		wantErr  error
	}{
		{
			name:     "unknown user",
			user:     nil,
			password: "secret",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			user:     &models.User{ID: 1, Username: "alice", PasswordHash: hash},
			password: "nope",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "success",
			user:     &models.User{ID: 1, Username: "alice", PasswordHash: hash},
			password: "secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockUserRepo{
				GetByUsernameFn: func(string) (*models.User, error) {
					return tt.user, tt.repoErr
				},
			}
			svc := newTestAuth(mock)

			token, err := svc.GenerateToken("alice", tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateToken: %v", err)
			}

			// register-then-verify round trip
			username, err := svc.ParseToken(token)
			if err != nil {
				t.Fatalf("ParseToken: %v", err)
			}
			if username != "alice" {
				t.Fatalf("parsed username = %q", username)
			}
		})
	}
}

func TestAuthService_ParseToken_RejectsGarbageAndForeignKeys(t *testing.T) {
	svc := newTestAuth(&mockUserRepo{})

	if _, err := svc.ParseToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}

	other := NewAuthService(&mockUserRepo{}, "another-key", time.Hour)
	token, err := other.issueToken("alice")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if _, err := svc.ParseToken(token); err == nil {
		t.Fatal("expected error for token signed with a different key")
	}
}
