// Package account holds the signup and profile forms: field rules, the
// email/nickname uniqueness confirmations and the profile photo limits.
package account

import "strings"

// Confirmation is the result of a uniqueness round-trip.
type Confirmation int

const (
	Unchecked Confirmation = iota
	Available
	Duplicate
)

func (c Confirmation) String() string {
	switch c {
	case Available:
		return "available"
	case Duplicate:
		return "duplicate"
	}
	return "unchecked"
}

type Check struct {
	State   Confirmation `json:"state"`
	Message string       `json:"message,omitempty"`
}

func (c Check) Confirmed() bool { return c.State == Available }

// Fields are the scalar signup inputs. Declaration order is the order
// failures are reported in. Passwords never reach the session draft.
type Fields struct {
	Password        string `json:"-" form:"password" validate:"min=8"`
	PasswordConfirm string `json:"-" form:"passwordConfirm" validate:"eqfield=Password"`
	Name            string `json:"name" form:"name" validate:"required"`
	PhoneNumber     string `json:"phoneNumber" form:"phoneNumber" validate:"required"`
	PostalCode      string `json:"postalCode" form:"postalCode" validate:"required"`
	Address         string `json:"address" form:"address" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Nickname        string `json:"nickname" form:"nickname" validate:"required"`
	DetailAddress   string `json:"detailAddress" form:"detailAddress"`
}

func (f Fields) trimmed() Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Address = strings.TrimSpace(f.Address)
	f.Email = strings.TrimSpace(f.Email)
	f.Nickname = strings.TrimSpace(f.Nickname)
	f.DetailAddress = strings.TrimSpace(f.DetailAddress)
	return f
}

// Form is the signup draft kept in the session between round-trips.
type Form struct {
	Fields
	EmailCheck    Check `json:"emailCheck"`
	NicknameCheck Check `json:"nicknameCheck"`
}

// Update replaces the field values. A changed email or nickname drops its
// confirmation back to Unchecked.
func (f *Form) Update(next Fields) {
	next = next.trimmed()
	if next.Email != f.Email {
		f.EmailCheck = Check{}
	}
	if next.Nickname != f.Nickname {
		f.NicknameCheck = Check{}
	}
	f.Fields = next
}

// Validate applies the submission gates in order and returns the first failure.
func (f *Form) Validate() error {
	if !f.EmailCheck.Confirmed() {
		return &ValidationError{Field: "email", Message: MsgConfirmEmail}
	}
	if !f.NicknameCheck.Confirmed() {
		return &ValidationError{Field: "nickname", Message: MsgConfirmNickname}
	}
	return validateStruct(f.Fields)
}

// ProfileForm is the profile edit form. Only nickname and phone number are editable.
type ProfileForm struct {
	Nickname      string `json:"nickname" form:"nickname" validate:"required"`
	PhoneNumber   string `json:"phoneNumber" form:"phoneNumber" validate:"required"`
	NicknameCheck Check  `json:"nicknameCheck"`
	Original      string `json:"original"`
}

// NewProfileForm starts an edit from the shopper's current nickname, which
// counts as confirmed.
func NewProfileForm(nickname, phoneNumber string) *ProfileForm {
	return &ProfileForm{
		Nickname:      nickname,
		PhoneNumber:   phoneNumber,
		NicknameCheck: Check{State: Available},
		Original:      nickname,
	}
}

func (p *ProfileForm) Update(nickname, phoneNumber string) {
	nickname = strings.TrimSpace(nickname)
	if nickname != p.Nickname {
		p.NicknameCheck = Check{}
		if nickname == p.Original {
			p.NicknameCheck = Check{State: Available}
		}
	}
	p.Nickname = nickname
	p.PhoneNumber = strings.TrimSpace(phoneNumber)
}

func (p *ProfileForm) Validate() error {
	if !p.NicknameCheck.Confirmed() {
		return &ValidationError{Field: "nickname", Message: MsgConfirmNickname}
	}
	return validateStruct(*p)
}
