package catalog

import "storefront/internal/models"

// pageKey is where the listing the shopper is looking at is kept in the session.
const pageKey = "catalog"

// View is the page-local listing a like toggle is applied to.
type View struct {
	Category models.Category  `json:"category"`
	Products []models.Product `json:"products"`
}

// Apply replaces the liked flag of the product with the given code and
// reports whether that product is in the listing. No other product changes.
func (v *View) Apply(code models.Code, liked bool) bool {
	for i := range v.Products {
		if v.Products[i].Code == code {
			v.Products[i].LikedStatus = models.Flag(liked)
			return true
		}
	}
	return false
}

func (v *View) Find(code models.Code) (models.Product, bool) {
	for _, p := range v.Products {
		if p.Code == code {
			return p, true
		}
	}
	return models.Product{}, false
}
