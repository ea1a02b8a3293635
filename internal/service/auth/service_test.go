package auth

import (
	"errors"
	"path/filepath"
	"testing"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(filepath.Join(t.TempDir(), "credentials.yaml"))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

func TestSeededGuestCanLogin(t *testing.T) {
	s := newService(t)

	token, name, err := s.Login("guest", "guest")
	if err != nil {
		t.Fatalf("guest login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if name != "게스트" {
		t.Fatalf("unexpected display name: %q", name)
	}

	username, ok := s.Verify(token)
	if !ok || username != "guest" {
		t.Fatalf("verify failed: %q %v", username, ok)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	s := newService(t)

	if err := s.Register("hana", "하나", "hana@example.com", "secret12"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := s.Login("hana", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	token, name, err := s.Login("hana", "secret12")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if name != "하나" || token == "" {
		t.Fatalf("unexpected login result: %q %q", name, token)
	}
}

func TestRegisterRejectsDuplicatesAndBlankInput(t *testing.T) {
	s := newService(t)

	if err := s.Register("guest", "중복", "", "pw"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if err := s.Register("", "이름", "", "pw"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank username, got %v", err)
	}
	if err := s.Register("newuser", "이름", "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank password, got %v", err)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	s := newService(t)

	token, _, err := s.Login("guest", "guest")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	s.Logout(token)
	if _, ok := s.Verify(token); ok {
		t.Fatal("token must be invalid after logout")
	}

	// Logging out twice is harmless.
	s.Logout(token)
}

func TestCredentialsSurviveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	s, err := NewService(path)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := s.Register("hana", "하나", "hana@example.com", "secret12"); err != nil {
		t.Fatalf("register: %v", err)
	}

	reloaded, err := NewService(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, _, err := reloaded.Login("hana", "secret12"); err != nil {
		t.Fatalf("login after reload: %v", err)
	}
}
