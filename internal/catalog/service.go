// Package catalog serves the category pages, the home shelves, product
// detail, the liked list and search, plus the like toggle.
package catalog

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/api"
	"storefront/internal/models"
	"storefront/internal/resource"
	"storefront/internal/session"
)

const (
	EmptyMessage         = "상품이 없습니다."
	ConnectionMessage    = "서버와 연결할 수 없습니다."
	LoginRequiredMessage = "로그인 후 이용 가능합니다."
	EmptyQueryMessage    = "검색어를 입력해 주세요"
)

var ErrProductNotFound = errors.New("catalog: product not found")

type Upstream interface {
	Category(ctx context.Context, jar api.Jar, endpoint string) ([]models.Product, error)
	ToggleLiked(ctx context.Context, jar api.Jar, code models.Code) (*models.LikedResult, error)
}

// Invalidator drops a session's authentication after a 401.
type Invalidator interface {
	Invalidate(s *session.Session)
}

type Listing = resource.Resource[[]models.Product]

// Shelf is one category block of the home page.
type Shelf struct {
	Category models.Category
	Listing  Listing
}

type Service struct {
	upstream Upstream
	sessions Invalidator
	log      *zap.Logger
}

func NewService(upstream Upstream, sessions Invalidator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{upstream: upstream, sessions: sessions, log: log}
}

func errorMessage(error) string { return ConnectionMessage }

func (s *Service) loader(jar api.Jar, cat models.Category) resource.Loader[[]models.Product] {
	return resource.List(func(ctx context.Context) ([]models.Product, error) {
		return s.upstream.Category(ctx, jar, cat.Endpoint)
	}, EmptyMessage, errorMessage)
}

func (s *Service) settle(sess *session.Session, err error) {
	if api.IsUnauthorized(err) {
		s.sessions.Invalidate(sess)
	}
}

// Load fetches one category and remembers it as the session's current listing.
func (s *Service) Load(ctx context.Context, sess *session.Session, cat models.Category) Listing {
	res := s.loader(sess, cat).Load(ctx)
	switch res.State {
	case resource.Failed:
		s.settle(sess, res.Err)
		s.log.Warn("category load failed", zap.String("category", cat.Endpoint), zap.Error(res.Err))
	case resource.Ready, resource.Empty:
		if err := sess.PutPage(pageKey, View{Category: cat, Products: res.Data}); err != nil {
			s.log.Error("failed to keep listing", zap.Error(err))
		}
	}
	return res
}

// Current returns the listing last loaded for cat, if the session still has it.
func (s *Service) Current(sess *session.Session, cat models.Category) (*View, bool) {
	var view View
	ok, err := sess.Page(pageKey, &view)
	if err != nil || !ok || view.Category.Slug != cat.Slug {
		return nil, false
	}
	return &view, true
}

// Home loads every category concurrently; each shelf keeps its own state.
func (s *Service) Home(ctx context.Context, sess *session.Session) []Shelf {
	shelves := make([]Shelf, len(Categories))
	jar := &syncJar{jar: sess}

	var g errgroup.Group
	for i, cat := range Categories {
		g.Go(func() error {
			shelves[i] = Shelf{Category: cat, Listing: s.loader(jar, cat).Load(ctx)}
			return nil
		})
	}
	_ = g.Wait()

	for _, shelf := range shelves {
		if shelf.Listing.State == resource.Failed {
			s.settle(sess, shelf.Listing.Err)
			s.log.Warn("home shelf failed", zap.String("category", shelf.Category.Endpoint), zap.Error(shelf.Listing.Err))
		}
	}
	return shelves
}

// all fetches every category concurrently; the first failure fails the lot.
func (s *Service) all(ctx context.Context, sess *session.Session) ([]models.Product, error) {
	lists := make([][]models.Product, len(Categories))
	jar := &syncJar{jar: sess}

	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range Categories {
		g.Go(func() error {
			products, err := s.upstream.Category(gctx, jar, cat.Endpoint)
			if err != nil {
				return err
			}
			lists[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []models.Product
	for _, l := range lists {
		out = append(out, l...)
	}
	return out, nil
}

func (s *Service) filtered(ctx context.Context, sess *session.Session, emptyMessage string, keep func(models.Product) bool) Listing {
	loader := resource.List(func(ctx context.Context) ([]models.Product, error) {
		products, err := s.all(ctx, sess)
		if err != nil {
			return nil, err
		}
		out := make([]models.Product, 0, len(products))
		for _, p := range products {
			if keep(p) {
				out = append(out, p)
			}
		}
		return out, nil
	}, emptyMessage, errorMessage)

	res := loader.Load(ctx)
	if res.State == resource.Failed {
		s.settle(sess, res.Err)
		s.log.Warn("catalog aggregate failed", zap.Error(res.Err))
	}
	return res
}

// Liked lists every product the shopper has liked.
func (s *Service) Liked(ctx context.Context, sess *session.Session) Listing {
	return s.filtered(ctx, sess, EmptyMessage, func(p models.Product) bool {
		return p.LikedStatus.Bool()
	})
}

// Search matches product names case-insensitively across all categories.
func (s *Service) Search(ctx context.Context, sess *session.Session, query string) Listing {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Listing{State: resource.Empty, Message: EmptyQueryMessage}
	}
	return s.filtered(ctx, sess, EmptyMessage, func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), query)
	})
}

// Detail finds a product inside its category listing.
func (s *Service) Detail(ctx context.Context, sess *session.Session, cat models.Category, code models.Code) (*models.Product, error) {
	res := s.Load(ctx, sess, cat)
	if res.State == resource.Failed || res.State == resource.Disposed {
		return nil, res.Err
	}
	view := View{Category: cat, Products: res.Data}
	product, ok := view.Find(code)
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}
