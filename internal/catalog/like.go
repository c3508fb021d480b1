package catalog

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/api"
	"storefront/internal/models"
	"storefront/internal/session"
)

type LikeStatus int

const (
	LikeUpdated LikeStatus = iota
	LikeLoginRequired
	LikeFailed
)

type LikeOutcome struct {
	Status  LikeStatus
	Code    models.Code
	Liked   bool
	Message string
}

// ToggleLike flips one product's liked flag. Anonymous shoppers get
// LikeLoginRequired without any upstream request. On success only that
// product's flag in the session's current listing is replaced.
func (s *Service) ToggleLike(ctx context.Context, sess *session.Session, code models.Code) LikeOutcome {
	if !sess.LoggedIn() {
		return LikeOutcome{Status: LikeLoginRequired, Code: code, Message: LoginRequiredMessage}
	}

	result, err := s.upstream.ToggleLiked(ctx, sess, code)
	if err != nil {
		if api.IsUnauthorized(err) {
			s.sessions.Invalidate(sess)
			return LikeOutcome{Status: LikeLoginRequired, Code: code, Message: LoginRequiredMessage}
		}
		s.log.Warn("like toggle failed", zap.String("pcode", code.String()), zap.Error(err))
		return LikeOutcome{Status: LikeFailed, Code: code, Message: ConnectionMessage}
	}

	liked := result.LikedStatus.Bool()
	var view View
	if ok, err := sess.Page(pageKey, &view); err == nil && ok && view.Apply(code, liked) {
		if err := sess.PutPage(pageKey, view); err != nil {
			s.log.Error("failed to keep listing", zap.Error(err))
		}
	}
	return LikeOutcome{Status: LikeUpdated, Code: code, Liked: liked, Message: result.Message}
}
