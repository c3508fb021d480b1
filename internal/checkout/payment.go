// Package checkout carries cart lines into payment and submits the order.
package checkout

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

type State int

const (
	LoadingAddress State = iota
	Ready
	Submitting
	Succeeded
)

func (s State) String() string {
	switch s {
	case LoadingAddress:
		return "loading-address"
	case Ready:
		return "ready"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	}
	return "unknown"
}

const (
	MsgNoBills       = "결제할 상품이 없습니다."
	MsgPaymentFailed = "결제 중 문제가 발생했습니다. 다시 시도해주세요."
	MsgAddressFailed = "사용자 정보를 불러오는 데 실패했습니다. 다시 로그인해주세요."
	MsgUnknownMethod = "결제 방법을 선택해주세요."
	MsgEmptyCart     = "장바구니가 비어 있습니다."
	DefaultMethod    = "카드"
)

// PaymentMethods are shown on the payment page. The choice is validated
// but the order API has no field for it.
var PaymentMethods = []string{"카드", "계좌이체", "휴대폰 결제"}

var (
	ErrNotReady      = errors.New("checkout: payment is not ready")
	ErrNoBills       = errors.New(MsgNoBills)
	ErrUnknownMethod = errors.New(MsgUnknownMethod)
)

// Recipient is the shipping block shown on the payment page.
type Recipient struct {
	Name        string         `json:"name"`
	PhoneNumber string         `json:"phoneNumber"`
	Address     models.Address `json:"address"`
}

type Payment struct {
	State     State         `json:"state"`
	Bills     []models.Bill `json:"bills"`
	Method    string        `json:"method"`
	Recipient *Recipient    `json:"recipient,omitempty"`
	Message   string        `json:"message,omitempty"`
}

func NewPayment(bills []models.Bill) *Payment {
	return &Payment{State: LoadingAddress, Bills: bills, Method: DefaultMethod}
}

func (p *Payment) Total() decimal.Decimal {
	return models.BillsTotal(p.Bills)
}

// AddressLoaded moves a payment waiting for the shopper's address to Ready.
func (p *Payment) AddressLoaded(u *models.User) {
	p.Recipient = &Recipient{Name: u.Name, PhoneNumber: u.PhoneNumber, Address: u.ShippingAddress()}
	if p.State == LoadingAddress {
		p.State = Ready
	}
}

func (p *Payment) SetMethod(method string) error {
	if !slices.Contains(PaymentMethods, method) {
		return ErrUnknownMethod
	}
	p.Method = method
	return nil
}

// Begin enters Submitting. Only a Ready payment with at least one line may submit.
func (p *Payment) Begin() error {
	if p.State != Ready {
		return ErrNotReady
	}
	if len(p.Bills) == 0 {
		p.Message = MsgNoBills
		return ErrNoBills
	}
	p.State = Submitting
	p.Message = ""
	return nil
}

func (p *Payment) Fail(message string) {
	p.State = Ready
	p.Message = message
}

func (p *Payment) Succeed(message string) {
	p.State = Succeeded
	p.Message = message
}
