package api

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/models"
)

// CheckEmail returns the server's verdict sentence for an email address.
func (c *Client) CheckEmail(ctx context.Context, email string) (string, error) {
	return c.checkUnique(ctx, "GET /check-email", "/check-email", "email", email)
}

// CheckNickname returns the server's verdict sentence for a nickname.
func (c *Client) CheckNickname(ctx context.Context, nickname string) (string, error) {
	return c.checkUnique(ctx, "GET /check-nickname", "/check-nickname", "nickname", nickname)
}

func (c *Client) checkUnique(ctx context.Context, op, path, param, value string) (string, error) {
	resp, err := c.do(ctx, request{
		op:     op,
		method: http.MethodGet,
		path:   path,
		query:  url.Values{param: []string{value}},
	})
	if err != nil {
		return "", err
	}
	return resp.text(), nil
}

// Join submits the signup form and returns the server's plain-text answer.
func (c *Client) Join(ctx context.Context, form *Multipart) (string, error) {
	const op = "POST /join"
	body, contentType, err := form.Encode()
	if err != nil {
		return "", &Error{Op: op, Kind: KindDecode, Err: err}
	}
	resp, err := c.do(ctx, request{op: op, method: http.MethodPost, path: "/join", body: body, contentType: contentType})
	if err != nil {
		return "", err
	}
	return resp.text(), nil
}

// Update submits the profile edit form.
func (c *Client) Update(ctx context.Context, jar Jar, form *Multipart) (*models.StatusResponse, error) {
	const op = "POST /update"
	body, contentType, err := form.Encode()
	if err != nil {
		return nil, &Error{Op: op, Kind: KindDecode, Err: err}
	}
	resp, err := c.do(ctx, request{op: op, method: http.MethodPost, path: "/update", body: body, contentType: contentType, jar: jar})
	if err != nil {
		return nil, err
	}
	var result models.StatusResponse
	if err := decodeJSON(op, resp, &result); err != nil {
		return nil, err
	}
	if err := rejectUnlessOK(op, result.Status.Bool(), result.Message); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteAccount removes the signed-in shopper's account.
func (c *Client) DeleteAccount(ctx context.Context, jar Jar) (*models.StatusResponse, error) {
	const op = "GET /mypage/userpage/delete"
	var result models.StatusResponse
	if err := c.getJSON(ctx, op, jar, "/mypage/userpage/delete", nil, &result); err != nil {
		return nil, err
	}
	if err := rejectUnlessOK(op, result.Status.Bool(), result.Message); err != nil {
		return nil, err
	}
	return &result, nil
}
