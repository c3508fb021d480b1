// Package session is the single source of truth for "who is browsing": the
// logged-in flag, the nickname shown by the navigation shell, the upstream
// API cookies and the page-local state of the shopper's current views.
package session

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"storefront/internal/models"
)

const (
	FlashInfo  = "info"
	FlashError = "error"
)

type Session struct {
	rec   models.Session
	isNew bool
	dirty bool
	// retired is a stored id this session moved away from; Manager.Save
	// deletes it.
	retired string
}

func newSession(now time.Time, ttl time.Duration) *Session {
	return &Session{
		rec: models.Session{
			ID:        uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
			ExpiresAt: now.Add(ttl),
		},
		isNew: true,
		dirty: true,
	}
}

// FromRecord wraps a stored record.
func FromRecord(rec models.Session) *Session {
	return &Session{rec: rec}
}

func (s *Session) ID() string       { return s.rec.ID }
func (s *Session) LoggedIn() bool   { return s.rec.LoggedIn }
func (s *Session) Nickname() string { return s.rec.Nickname }
func (s *Session) IsNew() bool      { return s.isNew }
func (s *Session) Dirty() bool      { return s.dirty }

func (s *Session) Record() models.Session { return s.rec }

// Regenerate moves the session to a fresh id. The record under the old id
// is removed on the next save.
func (s *Session) Regenerate() {
	if !s.isNew && s.retired == "" {
		s.retired = s.rec.ID
	}
	s.rec.ID = uuid.NewString()
	s.dirty = true
}

func (s *Session) MarkLoggedIn(nickname string) {
	if s.rec.LoggedIn && s.rec.Nickname == nickname {
		return
	}
	s.rec.LoggedIn = true
	s.rec.Nickname = nickname
	s.dirty = true
}

func (s *Session) MarkLoggedOut() {
	if !s.rec.LoggedIn && s.rec.Nickname == "" {
		return
	}
	s.rec.LoggedIn = false
	s.rec.Nickname = ""
	s.dirty = true
}

// ClearUpstream forgets the upstream API cookies.
func (s *Session) ClearUpstream() {
	if len(s.rec.Cookies) == 0 {
		return
	}
	s.rec.Cookies = nil
	s.dirty = true
}

func (s *Session) AddFlash(kind, message string) {
	if message == "" {
		return
	}
	s.rec.Flashes = append(s.rec.Flashes, models.Flash{Kind: kind, Message: message})
	s.dirty = true
}

// Flashes returns the queued messages and clears the queue.
func (s *Session) Flashes() []models.Flash {
	if len(s.rec.Flashes) == 0 {
		return nil
	}
	out := s.rec.Flashes
	s.rec.Flashes = nil
	s.dirty = true
	return out
}

// PutPage stores page-local state under key, replacing what was there.
func (s *Session) PutPage(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if s.rec.Pages == nil {
		s.rec.Pages = map[string]json.RawMessage{}
	}
	s.rec.Pages[key] = data
	s.dirty = true
	return nil
}

// Page decodes the state stored under key into v.
func (s *Session) Page(key string, v any) (bool, error) {
	data, ok := s.rec.Pages[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) DropPage(key string) {
	if _, ok := s.rec.Pages[key]; !ok {
		return
	}
	delete(s.rec.Pages, key)
	s.dirty = true
}

// Cookies implements api.Jar.
func (s *Session) Cookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.rec.Cookies))
	for _, c := range s.rec.Cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// SetCookies implements api.Jar. Cookies the API expires are removed.
func (s *Session) SetCookies(cookies []*http.Cookie) {
	for _, cookie := range cookies {
		expired := cookie.MaxAge < 0 ||
			(!cookie.Expires.IsZero() && cookie.Expires.Before(time.Now()))
		s.setCookie(cookie.Name, cookie.Value, expired)
	}
}

func (s *Session) setCookie(name, value string, remove bool) {
	for i, existing := range s.rec.Cookies {
		if existing.Name != name {
			continue
		}
		if remove {
			s.rec.Cookies = append(s.rec.Cookies[:i], s.rec.Cookies[i+1:]...)
		} else if existing.Value != value {
			s.rec.Cookies[i].Value = value
		} else {
			return
		}
		s.dirty = true
		return
	}
	if remove {
		return
	}
	s.rec.Cookies = append(s.rec.Cookies, models.Cookie{Name: name, Value: value})
	s.dirty = true
}

func (s *Session) touch(now time.Time, ttl time.Duration) {
	s.rec.UpdatedAt = now
	s.rec.ExpiresAt = now.Add(ttl)
}
