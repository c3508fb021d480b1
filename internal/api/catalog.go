package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/models"
)

// Category lists the products of one category endpoint (fruits, vegetables, grains).
func (c *Client) Category(ctx context.Context, jar Jar, endpoint string) ([]models.Product, error) {
	op := "GET /category/" + endpoint
	if endpoint == "" {
		return nil, &Error{Op: op, Kind: KindRejected, Err: errEmptyArgument}
	}
	products := make([]models.Product, 0)
	if err := c.getJSON(ctx, op, jar, "/category/"+url.PathEscape(endpoint), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ToggleLiked flips the shopper's liked flag on a product and returns the new flag.
func (c *Client) ToggleLiked(ctx context.Context, jar Jar, code models.Code) (*models.LikedResult, error) {
	const op = "GET /products/{code}/liked"
	if code == "" {
		return nil, &Error{Op: op, Kind: KindRejected, Err: errEmptyArgument}
	}
	var result models.LikedResult
	path := fmt.Sprintf("/products/%s/liked", url.PathEscape(code.String()))
	if err := c.getJSON(ctx, op, jar, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddProduct registers a product with its photo and detail images.
func (c *Client) AddProduct(ctx context.Context, jar Jar, form *Multipart) (*models.StatusResponse, error) {
	const op = "POST /products/add"
	body, contentType, err := form.Encode()
	if err != nil {
		return nil, &Error{Op: op, Kind: KindDecode, Err: err}
	}
	resp, err := c.do(ctx, request{op: op, method: http.MethodPost, path: "/products/add", body: body, contentType: contentType, jar: jar})
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
