package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Manager ties the signed browser cookie to a stored session record.
type Manager struct {
	store      Store
	signer     *Signer
	ttl        time.Duration
	cookieName string
	secure     bool
	log        *zap.Logger
	now        func() time.Time
}

type ManagerOptions struct {
	Store      Store
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
	Logger     *zap.Logger
}

func NewManager(opts ManagerOptions) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.CookieName == "" {
		opts.CookieName = "bargain_session"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		store:      opts.Store,
		signer:     NewSigner(opts.Secret),
		ttl:        opts.TTL,
		cookieName: opts.CookieName,
		secure:     opts.Secure,
		log:        opts.Logger,
		now:        time.Now,
	}
}

func (m *Manager) CookieName() string { return m.cookieName }

// Load resolves the session behind token. A missing, forged or expired
// token yields a fresh anonymous session; only store failures are errors.
func (m *Manager) Load(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return newSession(m.now(), m.ttl), nil
	}
	sid, err := m.signer.Parse(token)
	if err != nil {
		m.log.Debug("discarding session cookie", zap.Error(err))
		return newSession(m.now(), m.ttl), nil
	}
	rec, err := m.store.Load(ctx, sid)
	if errors.Is(err, ErrNotFound) {
		return newSession(m.now(), m.ttl), nil
	}
	if err != nil {
		return nil, err
	}
	return FromRecord(*rec), nil
}

// Save writes the session back when it changed. Anonymous sessions that
// never gained state are not persisted. A regenerated session's old record
// is deleted once the new one is stored.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if !s.dirty {
		return nil
	}
	if s.isNew && s.empty() {
		return nil
	}
	s.touch(m.now(), m.ttl)
	rec := s.Record()
	if err := m.store.Save(ctx, &rec); err != nil {
		return err
	}
	s.dirty = false
	s.isNew = false

	if s.retired != "" {
		if err := m.store.Delete(ctx, s.retired); err != nil {
			return fmt.Errorf("deleting retired session: %w", err)
		}
		m.log.Debug("session id rotated", zap.String("sid", s.ID()))
		s.retired = ""
	}
	return nil
}

// Cookie returns the browser cookie for s, or nil when s is not persisted.
func (m *Manager) Cookie(s *Session) (*http.Cookie, error) {
	if s.isNew && s.empty() {
		return nil, nil
	}
	token, err := m.signer.Sign(s.ID(), s.rec.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

func (s *Session) empty() bool {
	r := s.rec
	return !r.LoggedIn && r.Nickname == "" && len(r.Cookies) == 0 &&
		len(r.Flashes) == 0 && len(r.Pages) == 0
}
