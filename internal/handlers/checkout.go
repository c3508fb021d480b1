package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/checkout"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/resource"
	"storefront/internal/session"
)

func CartPage(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /mypage/cart"
		defer handlePanic(c, route)

		bills := svc.Cart(c.Request.Context(), middleware.SessionFrom(c))
		if bills.State == resource.Disposed {
			return
		}
		if handleUnauthorized(c, route, bills.Err) {
			return
		}
		render(c, http.StatusOK, route, "cart", "장바구니", gin.H{
			"Bills": bills,
			"Total": models.BillsTotal(bills.Data),
		})
	}
}

func PaymentPage(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /payment"
		defer handlePanic(c, route)

		p, ok := svc.Current(middleware.SessionFrom(c))
		if !ok {
			flashRedirect(c, route, session.FlashError, checkout.MsgNoBills, "/mypage/cart")
			return
		}
		renderPayment(c, route, http.StatusOK, p)
	}
}

// Payment handles both the cart's "결제하기" (action=start, carrying the
// selected bill codes) and the payment page's own submit (action=pay).
func Payment(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment"
		defer handlePanic(c, route)

		sess := middleware.SessionFrom(c)
		ctx := c.Request.Context()

		if c.PostForm("action") == "start" {
			bills := svc.Select(sess, c.PostFormArray("billCode"))
			if len(bills) == 0 {
				flashRedirect(c, route, session.FlashError, checkout.MsgNoBills, "/mypage/cart")
				return
			}
			if _, err := svc.Start(ctx, sess, bills); err != nil {
				switch {
				case ctx.Err() != nil:
					// client went away
				case errors.Is(err, checkout.ErrAddressUnavailable):
					flashRedirect(c, route, session.FlashError, checkout.MsgAddressFailed, middleware.LoginPath)
				default:
					logger.FromContext(c).Error("payment start failed", zap.Error(err))
					flashRedirect(c, route, session.FlashError, checkout.MsgPaymentFailed, "/mypage/cart")
				}
				return
			}
			redirect(c, route, "/payment")
			return
		}

		p, ok := svc.Current(sess)
		if !ok {
			flashRedirect(c, route, session.FlashError, checkout.MsgNoBills, "/mypage/cart")
			return
		}
		if err := p.SetMethod(c.DefaultPostForm("method", checkout.DefaultMethod)); err != nil {
			renderPayment(c, route, http.StatusBadRequest, p, checkout.MsgUnknownMethod)
			return
		}

		err := svc.Submit(ctx, sess, p)
		switch {
		case err == nil:
			logger.FromContext(c).Info("payment submitted", zap.String("method", p.Method), zap.String("total", p.Total().String()))
			redirect(c, route, "/order-success")
		case handleUnauthorized(c, route, err):
		case errors.Is(err, checkout.ErrNoBills), errors.Is(err, checkout.ErrNotReady):
			renderPayment(c, route, http.StatusConflict, p)
		default:
			renderPayment(c, route, http.StatusBadGateway, p)
		}
	}
}

func renderPayment(c *gin.Context, route string, status int, p *checkout.Payment, message ...string) {
	if len(message) > 0 {
		p.Message = message[0]
	}
	render(c, status, route, "payment", "결제 페이지", gin.H{
		"Payment": p,
		"Methods": checkout.PaymentMethods,
	})
}

func OrderSuccessPage(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /order-success"
		msg, ok := svc.OrderMessage(middleware.SessionFrom(c))
		if !ok {
			redirect(c, route, "/")
			return
		}
		render(c, http.StatusOK, route, "order_success", "주문 완료", gin.H{"Message": msg})
	}
}
