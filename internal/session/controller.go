package session

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/api"
	"storefront/internal/models"
)

// Shown after a successful logout.
const LoggedOutMessage = "로그아웃 되었습니다."

var ErrNotLoggedIn = errors.New("session: not logged in")

// Upstream is the part of the API client the controller needs.
type Upstream interface {
	Info(ctx context.Context, jar api.Jar) (*models.User, error)
	Login(ctx context.Context, jar api.Jar, email, password string) (*api.LoginResult, error)
	Logout(ctx context.Context, jar api.Jar) (*models.StatusResponse, error)
}

// Controller drives the session state from the upstream API's answers.
type Controller struct {
	upstream Upstream
	log      *zap.Logger
}

func NewController(upstream Upstream, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{upstream: upstream, log: log}
}

// Refresh asks the API who is logged in and mirrors the answer into s.
// Any failure leaves s logged out; a cancelled ctx leaves s untouched.
func (c *Controller) Refresh(ctx context.Context, s *Session) (*models.User, error) {
	user, err := c.upstream.Info(ctx, s)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		if api.IsUnauthorized(err) {
			c.Invalidate(s)
		} else {
			s.MarkLoggedOut()
			c.log.Warn("session refresh failed", zap.String("sid", s.ID()), zap.Error(err))
		}
		return nil, err
	}
	nickname := strings.TrimSpace(user.Nickname)
	if nickname == "" {
		s.MarkLoggedOut()
		return nil, ErrNotLoggedIn
	}
	s.MarkLoggedIn(nickname)
	return user, nil
}

// Login authenticates against the API and then refreshes s, which moves to
// a fresh id. The returned error carries the API's rejection message when
// there is one.
func (c *Controller) Login(ctx context.Context, s *Session, email, password string) error {
	result, err := c.upstream.Login(ctx, s, email, password)
	if err != nil {
		return err
	}
	if _, err := c.Refresh(ctx, s); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if result.Nickname == "" {
			return err
		}
		c.log.Warn("info after login failed, using login nickname", zap.Error(err))
		s.MarkLoggedIn(result.Nickname)
	}
	s.Regenerate()
	c.log.Info("user logged in", zap.String("sid", s.ID()), zap.String("nickname", s.Nickname()))
	return nil
}

// Logout ends the upstream session. On failure s stays as it was.
func (c *Controller) Logout(ctx context.Context, s *Session) error {
	resp, err := c.upstream.Logout(ctx, s)
	if err != nil {
		c.log.Error("logout failed", zap.String("sid", s.ID()), zap.Error(err))
		return err
	}
	if !resp.Status.Bool() {
		c.log.Error("logout rejected", zap.String("sid", s.ID()), zap.String("message", resp.Message))
		return &api.Error{Op: "POST /logout", Kind: api.KindRejected, Message: resp.Message}
	}
	c.Invalidate(s)
	s.AddFlash(FlashInfo, LoggedOutMessage)
	return nil
}

// Invalidate drops all authentication state, upstream cookies included.
// Called whenever the API answers 401, on logout and on account deletion.
// A session that held any of that state also gets a fresh id.
func (c *Controller) Invalidate(s *Session) {
	if !s.LoggedIn() && len(s.rec.Cookies) == 0 {
		return
	}
	old := s.ID()
	s.MarkLoggedOut()
	s.ClearUpstream()
	s.Regenerate()
	c.log.Info("session invalidated", zap.String("sid", old))
}
