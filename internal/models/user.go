package models

// Address is the shipping snapshot attached to a bill submission.
type Address struct {
	PostalCode    string `json:"postalCode"`
	Address       string `json:"address"`
	DetailAddress string `json:"detailAddress"`
}

// User mirrors the profile returned by GET /info for the signed-in shopper.
type User struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Nickname      string `json:"nickname"`
	PhoneNumber   string `json:"phoneNumber"`
	PostalCode    string `json:"postalCode"`
	Address       string `json:"address"`
	DetailAddress string `json:"detailAddress"`
	PhotoFilename string `json:"photoFilename,omitempty"`
}

func (u User) ShippingAddress() Address {
	return Address{
		PostalCode:    u.PostalCode,
		Address:       u.Address,
		DetailAddress: u.DetailAddress,
	}
}
