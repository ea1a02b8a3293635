// Package auth provides the credential collaborator: registration, login,
// and bearer-token verification. Credentials live in a YAML file with
// bcrypt password hashes; a guest account is seeded when the file does not
// exist yet.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidInput       = errors.New("invalid registration input")
)

type userEntry struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type credentialsFile struct {
	Credentials struct {
		Usernames map[string]userEntry `yaml:"usernames"`
	} `yaml:"credentials"`
}

// Service manages credentials and live login tokens.
type Service struct {
	path string

	mu     sync.Mutex
	users  map[string]userEntry
	tokens map[string]string // token -> username
}

// NewService loads the credentials file at path, creating it with a default
// guest/guest account when absent.
func NewService(path string) (*Service, error) {
	s := &Service{
		path:   path,
		users:  make(map[string]userEntry),
		tokens: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := s.seedGuest(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read credentials file: %w", err)
	default:
		var file credentialsFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse credentials file: %w", err)
		}
		if file.Credentials.Usernames != nil {
			s.users = file.Credentials.Usernames
		}
	}

	return s, nil
}

func (s *Service) seedGuest() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("guest"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash guest password: %w", err)
	}
	s.users["guest"] = userEntry{
		Name:     "게스트",
		Email:    "guest@example.com",
		Password: string(hashed),
	}
	return s.persist()
}

// Register creates a new account. Duplicate usernames and blank fields are
// rejected.
func (s *Service) Register(username, name, email, password string) error {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	if username == "" || name == "" || password == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.users[username] = userEntry{Name: name, Email: strings.TrimSpace(email), Password: string(hashed)}
	if err := s.persist(); err != nil {
		delete(s.users, username)
		return err
	}
	return nil
}

// Login verifies the credentials and issues a bearer token. The returned
// name is the account's display name.
func (s *Service) Login(username, password string) (token, name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.users[username]
	if !ok {
		return "", "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(entry.Password), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	token = uuid.NewString()
	s.tokens[token] = username
	return token, entry.Name, nil
}

// Verify resolves a token to its username.
func (s *Service) Verify(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[token]
	return username, ok
}

// Logout invalidates the token. Unknown tokens are ignored.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// persist rewrites the credentials file. Callers hold s.mu.
func (s *Service) persist() error {
	var file credentialsFile
	file.Credentials.Usernames = s.users

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}
