package catalog

import "storefront/internal/models"

// Categories in navigation order.
var Categories = []models.Category{
	{Slug: "fruits", Endpoint: "fruits", Title: "과일"},
	{Slug: "vegetable", Endpoint: "vegetables", Title: "채소"},
	{Slug: "grain", Endpoint: "grains", Title: "곡물"},
}

func BySlug(slug string) (models.Category, bool) {
	for _, c := range Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return models.Category{}, false
}
