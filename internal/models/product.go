package models

import "github.com/shopspring/decimal"

type Product struct {
	Code        Code            `json:"pcode"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Photo       string          `json:"photo"`
	LikedStatus Flag            `json:"likedStatus"`
}

// PhotoOrDefault falls back to the bundled placeholder when the catalog has no image.
func (p Product) PhotoOrDefault() string {
	if p.Photo == "" {
		return "/public/images/default.svg"
	}
	return p.Photo
}

// LikedResult is the body of GET /products/{code}/liked.
type LikedResult struct {
	LikedStatus Flag   `json:"likedStatus"`
	Message     string `json:"message"`
}
