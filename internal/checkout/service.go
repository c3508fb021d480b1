package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/api"
	"storefront/internal/models"
	"storefront/internal/resource"
	"storefront/internal/session"
)

const (
	cartKey    = "cart"
	paymentKey = "payment"
	orderKey   = "order"
)

var ErrAddressUnavailable = errors.New("checkout: shopper address unavailable")

type Upstream interface {
	Bills(ctx context.Context, jar api.Jar) ([]models.Bill, error)
	UpdateBills(ctx context.Context, jar api.Jar, address models.Address, bills []models.Bill) (*models.StatusResponse, error)
}

// Sessions is the session controller as seen by checkout.
type Sessions interface {
	Refresh(ctx context.Context, s *session.Session) (*models.User, error)
	Invalidate(s *session.Session)
}

type Service struct {
	upstream Upstream
	sessions Sessions
	log      *zap.Logger
}

func NewService(upstream Upstream, sessions Sessions, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{upstream: upstream, sessions: sessions, log: log}
}

// Cart loads the open bills and remembers them for the payment step.
func (s *Service) Cart(ctx context.Context, sess *session.Session) resource.Resource[[]models.Bill] {
	loader := resource.List(func(ctx context.Context) ([]models.Bill, error) {
		return s.upstream.Bills(ctx, sess)
	}, MsgEmptyCart, func(error) string { return "서버와 연결할 수 없습니다." })

	res := loader.Load(ctx)
	switch res.State {
	case resource.Failed:
		if api.IsUnauthorized(res.Err) {
			s.sessions.Invalidate(sess)
		}
		s.log.Warn("cart load failed", zap.Error(res.Err))
	case resource.Ready, resource.Empty:
		if err := sess.PutPage(cartKey, res.Data); err != nil {
			s.log.Error("failed to keep cart", zap.Error(err))
		}
	}
	return res
}

// Select picks the lines with the given codes from the last loaded cart,
// in cart order.
func (s *Service) Select(sess *session.Session, codes []string) []models.Bill {
	var cart []models.Bill
	if ok, err := sess.Page(cartKey, &cart); err != nil || !ok {
		return nil
	}
	wanted := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		wanted[code] = struct{}{}
	}
	selected := make([]models.Bill, 0, len(codes))
	for _, bill := range cart {
		if _, ok := wanted[bill.BillCode.String()]; ok {
			selected = append(selected, bill)
		}
	}
	return selected
}

// Start opens a payment for bills. The shopper's address comes from the
// session controller; ErrAddressUnavailable means the shopper has to log
// in again. Other errors are the request going away or the session
// refusing the draft.
func (s *Service) Start(ctx context.Context, sess *session.Session, bills []models.Bill) (*Payment, error) {
	p := NewPayment(bills)
	user, err := s.sessions.Refresh(ctx, sess)
	if err != nil {
		if ctx.Err() != nil {
			return p, ctx.Err()
		}
		s.log.Warn("payment address lookup failed", zap.Error(err))
		return p, ErrAddressUnavailable
	}
	p.AddressLoaded(user)
	if err := sess.PutPage(paymentKey, p); err != nil {
		return nil, fmt.Errorf("checkout: keeping payment: %w", err)
	}
	return p, nil
}

func (s *Service) Current(sess *session.Session) (*Payment, bool) {
	var p Payment
	if ok, err := sess.Page(paymentKey, &p); err != nil || !ok {
		return nil, false
	}
	return &p, true
}

// Submit sends the order. Success records the server's message for the
// order-success page and clears the payment; failure returns to Ready.
func (s *Service) Submit(ctx context.Context, sess *session.Session, p *Payment) error {
	if err := p.Begin(); err != nil {
		_ = sess.PutPage(paymentKey, p)
		return err
	}

	resp, err := s.upstream.UpdateBills(ctx, sess, p.Recipient.Address, p.Bills)
	if err != nil {
		if api.IsUnauthorized(err) {
			s.sessions.Invalidate(sess)
			sess.DropPage(paymentKey)
			return err
		}
		s.log.Error("payment failed", zap.Int("lines", len(p.Bills)), zap.Error(err))
		p.Fail(MsgPaymentFailed)
		_ = sess.PutPage(paymentKey, p)
		return err
	}

	p.Succeed(resp.Message)
	sess.DropPage(paymentKey)
	sess.DropPage(cartKey)
	if err := sess.PutPage(orderKey, resp.Message); err != nil {
		return err
	}
	s.log.Info("order placed", zap.String("total", p.Total().String()), zap.Int("lines", len(p.Bills)))
	return nil
}

// OrderMessage returns and forgets the message of the last order placed.
func (s *Service) OrderMessage(sess *session.Session) (string, bool) {
	var msg string
	ok, err := sess.Page(orderKey, &msg)
	if err != nil || !ok {
		return "", false
	}
	sess.DropPage(orderKey)
	return msg, true
}
