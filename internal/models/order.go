package models

import "github.com/shopspring/decimal"

// Bill is a single cart line carried from the cart page into payment.
type Bill struct {
	BillCode    Code            `json:"billCode"`
	ProductName string          `json:"productName"`
	Count       int             `json:"count"`
	Price       decimal.Decimal `json:"price"`
}

// LineTotal is price × count.
func (b Bill) LineTotal() decimal.Decimal {
	return b.Price.Mul(decimal.NewFromInt(int64(b.Count)))
}

// BillsTotal sums the line totals of bills.
func BillsTotal(bills []Bill) decimal.Decimal {
	total := decimal.Zero
	for _, bill := range bills {
		total = total.Add(bill.LineTotal())
	}
	return total
}

// StatusResponse is the {status, message} envelope used by logout, update,
// delete and bill submission.
type StatusResponse struct {
	Status  Flag   `json:"status"`
	Message string `json:"message"`
}
