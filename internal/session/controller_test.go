package session

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storefront/internal/api"
	"storefront/internal/models"
)

type fakeUpstream struct {
	info      *models.User
	infoErr   error
	login     *api.LoginResult
	loginErr  error
	logout    *models.StatusResponse
	logoutErr error
	calls     []string
}

func (f *fakeUpstream) Info(ctx context.Context, jar api.Jar) (*models.User, error) {
	f.calls = append(f.calls, "info")
	return f.info, f.infoErr
}

func (f *fakeUpstream) Login(ctx context.Context, jar api.Jar, email, password string) (*api.LoginResult, error) {
	f.calls = append(f.calls, "login")
	if f.loginErr == nil {
		jar.SetCookies([]*http.Cookie{{Name: "JSESSIONID", Value: "fresh"}})
	}
	return f.login, f.loginErr
}

func (f *fakeUpstream) Logout(ctx context.Context, jar api.Jar) (*models.StatusResponse, error) {
	f.calls = append(f.calls, "logout")
	return f.logout, f.logoutErr
}

func loggedInSession() *Session {
	s := newSession(time.Now(), time.Hour)
	s.MarkLoggedIn("bargainer")
	s.SetCookies([]*http.Cookie{{Name: "JSESSIONID", Value: "abc"}})
	return s
}

var unauthorized = &api.Error{Op: "GET /info", Kind: api.KindStatus, Status: http.StatusUnauthorized, Err: api.ErrUnauthorized}

func TestRefreshMirrorsNickname(t *testing.T) {
	up := &fakeUpstream{info: &models.User{Nickname: " bargainer "}}
	c := NewController(up, zaptest.NewLogger(t))
	s := newSession(time.Now(), time.Hour)

	user, err := c.Refresh(context.Background(), s)
	require.NoError(t, err)
	assert.NotNil(t, user)
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "bargainer", s.Nickname())
}

func TestRefreshWithoutNicknameLogsOut(t *testing.T) {
	c := NewController(&fakeUpstream{info: &models.User{}}, zaptest.NewLogger(t))
	s := loggedInSession()

	_, err := c.Refresh(context.Background(), s)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Nickname())
}

func TestRefreshUnauthorizedInvalidates(t *testing.T) {
	c := NewController(&fakeUpstream{infoErr: unauthorized}, zaptest.NewLogger(t))
	s := loggedInSession()

	_, err := c.Refresh(context.Background(), s)
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Nickname())
	assert.Empty(t, s.Cookies())
}

func TestRefreshNetworkErrorKeepsCookies(t *testing.T) {
	netErr := &api.Error{Op: "GET /info", Kind: api.KindNetwork, Err: errors.New("refused")}
	c := NewController(&fakeUpstream{infoErr: netErr}, zaptest.NewLogger(t))
	s := loggedInSession()

	_, err := c.Refresh(context.Background(), s)
	assert.Error(t, err)
	assert.False(t, s.LoggedIn())
	assert.Len(t, s.Cookies(), 1)
}

func TestRefreshCancelledLeavesSessionAlone(t *testing.T) {
	c := NewController(&fakeUpstream{infoErr: unauthorized}, zaptest.NewLogger(t))
	s := loggedInSession()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Refresh(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, s.LoggedIn())
}

func TestLoginRefreshesSession(t *testing.T) {
	up := &fakeUpstream{
		login: &api.LoginResult{Status: true, Nickname: "bargainer"},
		info:  &models.User{Nickname: "bargainer"},
	}
	c := NewController(up, zaptest.NewLogger(t))
	s := newSession(time.Now(), time.Hour)

	require.NoError(t, c.Login(context.Background(), s, "a@b.kr", "password1"))
	assert.Equal(t, []string{"login", "info"}, up.calls)
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "fresh", s.Cookies()[0].Value)
}

func TestLoginFallsBackToLoginNickname(t *testing.T) {
	up := &fakeUpstream{
		login:   &api.LoginResult{Status: true, Nickname: "bargainer"},
		infoErr: &api.Error{Op: "GET /info", Kind: api.KindNetwork, Err: errors.New("timeout")},
	}
	c := NewController(up, zaptest.NewLogger(t))
	s := newSession(time.Now(), time.Hour)

	require.NoError(t, c.Login(context.Background(), s, "a@b.kr", "password1"))
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "bargainer", s.Nickname())
}

func TestLoginRejected(t *testing.T) {
	rejected := &api.Error{Op: "POST /login", Kind: api.KindRejected, Message: "비밀번호가 틀렸습니다."}
	up := &fakeUpstream{loginErr: rejected}
	c := NewController(up, zaptest.NewLogger(t))
	s := newSession(time.Now(), time.Hour)

	err := c.Login(context.Background(), s, "a@b.kr", "wrong")
	msg, ok := api.Rejection(err)
	assert.True(t, ok)
	assert.Equal(t, "비밀번호가 틀렸습니다.", msg)
	assert.False(t, s.LoggedIn())
	assert.Equal(t, []string{"login"}, up.calls)
}

func TestLogout(t *testing.T) {
	c := NewController(&fakeUpstream{logout: &models.StatusResponse{Status: true}}, zaptest.NewLogger(t))
	s := loggedInSession()

	require.NoError(t, c.Logout(context.Background(), s))
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.Cookies())

	flashes := s.Flashes()
	require.Len(t, flashes, 1)
	assert.Equal(t, LoggedOutMessage, flashes[0].Message)
}

func TestLogoutFailureKeepsState(t *testing.T) {
	cases := map[string]*fakeUpstream{
		"rejected": {logout: &models.StatusResponse{Status: false, Message: "실패"}},
		"network":  {logoutErr: &api.Error{Op: "POST /logout", Kind: api.KindNetwork, Err: errors.New("down")}},
	}
	for name, up := range cases {
		t.Run(name, func(t *testing.T) {
			c := NewController(up, zaptest.NewLogger(t))
			s := loggedInSession()

			assert.Error(t, c.Logout(context.Background(), s))
			assert.True(t, s.LoggedIn())
			assert.Equal(t, "bargainer", s.Nickname())
			assert.Empty(t, s.Flashes())
		})
	}
}

func TestLoginRotatesSessionID(t *testing.T) {
	up := &fakeUpstream{
		login: &api.LoginResult{Status: true, Nickname: "bargainer"},
		info:  &models.User{Nickname: "bargainer"},
	}
	c := NewController(up, zaptest.NewLogger(t))
	s := FromRecord(models.Session{ID: "pre-login"})

	require.NoError(t, c.Login(context.Background(), s, "a@b.kr", "password1"))
	assert.NotEqual(t, "pre-login", s.ID())
	assert.Equal(t, "pre-login", s.retired)
}

func TestInvalidateRotatesOnlyAuthenticatedSessions(t *testing.T) {
	c := NewController(&fakeUpstream{}, zaptest.NewLogger(t))

	anon := FromRecord(models.Session{ID: "anon"})
	c.Invalidate(anon)
	assert.Equal(t, "anon", anon.ID())
	assert.False(t, anon.Dirty())

	s := FromRecord(models.Session{ID: "member", LoggedIn: true, Nickname: "bargainer"})
	c.Invalidate(s)
	assert.NotEqual(t, "member", s.ID())
	assert.Equal(t, "member", s.retired)
	assert.False(t, s.LoggedIn())
}
