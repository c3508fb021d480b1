package account

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	MsgConfirmEmail    = "이메일 중복 확인을 완료해주세요."
	MsgConfirmNickname = "닉네임 중복 확인을 완료해주세요."
	MsgPasswordLength  = "비밀번호는 8자 이상이어야 합니다."
	MsgPasswordMatch   = "비밀번호가 일치하지 않습니다."
	MsgRequired        = "모든 필수 입력 사항을 입력해주세요."
	MsgEmailFormat     = "이메일 형식이 올바르지 않습니다."
)

// ValidationError is a client-side rejection; nothing was sent upstream.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}
	first := fieldErrors[0]
	return &ValidationError{Field: lowerCamel(first.Field()), Message: messageFor(first)}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return MsgPasswordLength
	case "eqfield":
		return MsgPasswordMatch
	case "email":
		return MsgEmailFormat
	case "oneof":
		return MsgProductCategory
	case "number":
		return MsgProductNumber
	}
	return MsgRequired
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
