package account

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/maumlog/maum/backend/internal/model/emotion"
	"github.com/maumlog/maum/backend/internal/service/autosave"
	"github.com/maumlog/maum/backend/internal/service/chat"
	"github.com/maumlog/maum/backend/internal/service/registry"
	"github.com/maumlog/maum/backend/internal/store/userdata"
)

// Manager owns the live accounts. One Account exists per logged-in user;
// Attach is idempotent so concurrent logins for the same user share state.
type Manager struct {
	store    userdata.Store
	replier  chat.Replier
	detector chat.Detector
	catalog  *emotion.Catalog
	interval time.Duration

	mu       sync.Mutex
	accounts map[string]*Account
}

// NewManager builds a manager. replier and detector may be nil; the engine
// degrades accordingly.
func NewManager(store userdata.Store, replier chat.Replier, detector chat.Detector, catalog *emotion.Catalog, autosaveInterval time.Duration) *Manager {
	return &Manager{
		store:    store,
		replier:  replier,
		detector: detector,
		catalog:  catalog,
		interval: autosaveInterval,
		accounts: make(map[string]*Account),
	}
}

// Attach loads the user's stored record and returns their account, creating
// it and starting its autosave ticker on first login.
func (m *Manager) Attach(ctx context.Context, username string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if acct, ok := m.accounts[username]; ok {
		return acct, nil
	}

	reg, err := registry.Open(ctx, m.store, username)
	if err != nil {
		return nil, err
	}

	acct := &Account{
		Username: username,
		engine:   chat.NewEngine(m.replier, m.detector, m.catalog),
		registry: reg,
	}
	acct.policy = autosave.NewPolicy(acct.engine, reg, m.interval, &acct.mu)

	tickCtx, cancel := context.WithCancel(context.Background())
	acct.cancel = cancel
	go acct.policy.Run(tickCtx)

	m.accounts[username] = acct
	log.Printf("[account] attached user=%s", username)
	return acct, nil
}

// Lookup returns the live account for a user, if attached.
func (m *Manager) Lookup(username string) (*Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[username]
	return acct, ok
}

// Detach closes the user's account, committing pending work and stopping
// its ticker. Detaching an unknown user is a no-op.
func (m *Manager) Detach(ctx context.Context, username string) error {
	m.mu.Lock()
	acct, ok := m.accounts[username]
	delete(m.accounts, username)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	if err := acct.Close(ctx); err != nil {
		log.Printf("[account] detach commit failed user=%s err=%v", username, err)
		return err
	}
	return nil
}

// Shutdown detaches every account. Used on server stop so in-flight
// conversations land in storage.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	accounts := make([]*Account, 0, len(m.accounts))
	for _, acct := range m.accounts {
		accounts = append(accounts, acct)
	}
	m.accounts = make(map[string]*Account)
	m.mu.Unlock()

	for _, acct := range accounts {
		if err := acct.Close(ctx); err != nil {
			log.Printf("[account] shutdown commit failed user=%s err=%v", acct.Username, err)
		}
	}
}
