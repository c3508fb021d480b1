package models

// Category binds a storefront route slug to the upstream listing endpoint.
type Category struct {
	Slug     string `json:"slug"`
	Endpoint string `json:"endpoint"`
	Title    string `json:"title"`
}
