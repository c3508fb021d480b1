package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"storefront/internal/models"
)

type billLine struct {
	BillCode    string      `json:"billCode"`
	ProductName string      `json:"productName"`
	Count       int         `json:"count"`
	Price       json.Number `json:"price"`
	TotalPrice  json.Number `json:"totalPrice"`
}

// Bills lists the shopper's open cart lines.
func (c *Client) Bills(ctx context.Context, jar Jar) ([]models.Bill, error) {
	bills := make([]models.Bill, 0)
	if err := c.getJSON(ctx, "GET /bills", jar, "/bills", nil, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// UpdateBills submits the order: the shipping address travels in the query
// string, the lines as a JSON array body.
func (c *Client) UpdateBills(ctx context.Context, jar Jar, address models.Address, bills []models.Bill) (*models.StatusResponse, error) {
	const op = "PUT /bills/update"

	lines := make([]billLine, 0, len(bills))
	for _, bill := range bills {
		lines = append(lines, billLine{
			BillCode:    bill.BillCode.String(),
			ProductName: bill.ProductName,
			Count:       bill.Count,
			Price:       json.Number(bill.Price.String()),
			TotalPrice:  json.Number(bill.LineTotal().String()),
		})
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindDecode, Err: err}
	}

	query := url.Values{}
	query.Set("postalCode", address.PostalCode)
	query.Set("address", address.Address)
	query.Set("detailAddress", address.DetailAddress)

	resp, err := c.do(ctx, request{
		op:          op,
		method:      http.MethodPut,
		path:        "/bills/update",
		query:       query,
		body:        bytes.NewReader(payload),
		contentType: "application/json",
		jar:         jar,
	})
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
