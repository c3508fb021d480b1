package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/models"
)

// LoginResult is the body of POST /login.
type LoginResult struct {
	Status   models.Flag `json:"status"`
	Message  string      `json:"message"`
	Nickname string      `json:"nickname"`
}

// Info fetches the signed-in shopper's profile. A 401 means no live session.
func (c *Client) Info(ctx context.Context, jar Jar) (*models.User, error) {
	const op = "GET /info"
	resp, err := c.do(ctx, request{op: op, method: http.MethodGet, path: "/info", jar: jar})
	if err != nil {
		return nil, err
	}
	user, err := decodeUserInfo(resp.body)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindDecode, Status: resp.status, Err: err}
	}
	return user, nil
}

func (c *Client) Login(ctx context.Context, jar Jar, email, password string) (*LoginResult, error) {
	const op = "POST /login"
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, &Error{Op: op, Kind: KindRejected, Err: errEmptyArgument, Message: "이메일과 비밀번호를 입력해주세요."}
	}
	form := url.Values{}
	form.Set("email", strings.TrimSpace(email))
	form.Set("password", password)

	resp, err := c.do(ctx, request{
		op:          op,
		method:      http.MethodPost,
		path:        "/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		jar:         jar,
	})
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := decodeJSON(op, resp, &result); err != nil {
		return nil, err
	}
	if err := rejectUnlessOK(op, result.Status.Bool(), result.Message); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Logout(ctx context.Context, jar Jar) (*models.StatusResponse, error) {
	const op = "POST /logout"
	resp, err := c.do(ctx, request{op: op, method: http.MethodPost, path: "/logout", jar: jar})
	if err != nil {
		return nil, err
	}
	var result models.StatusResponse
	if err := decodeJSON(op, resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
