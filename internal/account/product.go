package account

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/api"
	"storefront/internal/session"
)

const (
	MsgProductCategory = "카테고리를 선택해주세요."
	MsgProductNumber   = "가격과 재고는 숫자로 입력해주세요."
	MsgProductPrice    = "가격은 0원보다 커야 합니다."
	MsgProductAdded    = "상품 등록 성공"
	MsgProductFailed   = "상품 등록 실패"
)

// ProductCategory is a category a shopper can list a product under. Label
// is the name the API expects in categoryName.
type ProductCategory struct {
	Slug  string
	Label string
}

var ProductCategories = []ProductCategory{
	{Slug: "fruits", Label: "과일"},
	{Slug: "vegetable", Label: "채소"},
	{Slug: "grain", Label: "곡식"},
}

func productCategory(slug string) (ProductCategory, bool) {
	for _, c := range ProductCategories {
		if c.Slug == slug {
			return c, true
		}
	}
	return ProductCategory{}, false
}

// ProductForm is the product registration form. Numbers stay text so a
// rejected form shows back what was typed.
type ProductForm struct {
	Category  string `form:"category" validate:"required,oneof=fruits vegetable grain"`
	Name      string `form:"name" validate:"required"`
	Price     string `form:"price" validate:"required,number"`
	Inventory string `form:"inventory" validate:"required,number"`
	Comment   string `form:"comment"`
}

func (f *ProductForm) trim() {
	f.Category = strings.TrimSpace(f.Category)
	f.Name = strings.TrimSpace(f.Name)
	f.Price = strings.TrimSpace(f.Price)
	f.Inventory = strings.TrimSpace(f.Inventory)
	f.Comment = strings.TrimSpace(f.Comment)
}

func (f *ProductForm) Validate() error {
	f.trim()
	if err := validateStruct(f); err != nil {
		return err
	}
	if price, err := decimal.NewFromString(f.Price); err != nil || !price.IsPositive() {
		return &ValidationError{Field: "price", Message: MsgProductPrice}
	}
	return nil
}

// RegisterProduct validates f and submits it with the main photo and the
// detail images. It returns the API's success message.
func (s *Service) RegisterProduct(ctx context.Context, sess *session.Session, f *ProductForm, photo *Photo, details []*Photo) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	category, _ := productCategory(f.Category)
	form := api.NewMultipart().
		Field("categoryName", category.Label).
		Field("name", f.Name).
		Field("price", f.Price).
		Field("inventory", f.Inventory).
		Field("comment", f.Comment)
	attachAs(form, "photo", photo)
	for _, detail := range details {
		attachAs(form, "commentphoto", detail)
	}

	resp, err := s.upstream.AddProduct(ctx, sess, form)
	if err != nil {
		s.settle(sess, err)
		return "", err
	}
	s.log.Info("product registered", zap.String("name", f.Name), zap.String("category", category.Slug), zap.Int("details", len(details)))
	if resp.Message != "" {
		return resp.Message, nil
	}
	return MsgProductAdded, nil
}
