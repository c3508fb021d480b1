package account

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"storefront/internal/api"
	"storefront/internal/models"
	"storefront/internal/session"
)

const (
	EmailAvailable    = "사용 가능한 이메일입니다."
	EmailDuplicate    = "중복된 이메일입니다."
	NicknameAvailable = "사용 가능한 닉네임입니다."
	NicknameDuplicate = "중복된 닉네임입니다."

	JoinSuccess = "가입 성공"

	MsgEnterEmail       = "이메일을 입력해주세요."
	MsgEnterNickname    = "닉네임을 입력해주세요."
	MsgEmailCheckError  = "이메일 확인 중 오류가 발생했습니다."
	MsgNickCheckError   = "닉네임 확인 중 오류가 발생했습니다."
	MsgConnectionFailed = "서버 연결에 실패했습니다. 다시 시도해주세요."
	MsgSignupDone       = "회원가입이 완료되었습니다."
	MsgSignupFailed     = "회원가입에 실패했습니다."
	MsgSignupError      = "회원가입 중 오류가 발생했습니다."
	MsgUpdateDone       = "회원 정보가 성공적으로 수정되었습니다."
	MsgUpdateFailed     = "회원 정보 수정에 실패했습니다. 이유: "
	MsgDeleteDone       = "회원 탈퇴가 완료되었습니다."
	MsgDeleteFailed     = "회원 탈퇴에 실패했습니다."

	MsgProfileLoadFailed = "사용자 정보를 불러오는 데 실패했습니다."
)

// SignupDraftKey is where the signup Form lives in the session.
const SignupDraftKey = "signup"

var ErrSignupRejected = errors.New("account: signup rejected")

type Upstream interface {
	CheckEmail(ctx context.Context, email string) (string, error)
	CheckNickname(ctx context.Context, nickname string) (string, error)
	Join(ctx context.Context, form *api.Multipart) (string, error)
	Update(ctx context.Context, jar api.Jar, form *api.Multipart) (*models.StatusResponse, error)
	DeleteAccount(ctx context.Context, jar api.Jar) (*models.StatusResponse, error)
	AddProduct(ctx context.Context, jar api.Jar, form *api.Multipart) (*models.StatusResponse, error)
}

type Invalidator interface {
	Invalidate(s *session.Session)
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

type verdicts struct {
	available, duplicate, empty, unknown string
}

var (
	emailVerdicts    = verdicts{EmailAvailable, EmailDuplicate, MsgEnterEmail, MsgEmailCheckError}
	nicknameVerdicts = verdicts{NicknameAvailable, NicknameDuplicate, MsgEnterNickname, MsgNickCheckError}
)

func (s *Service) check(ctx context.Context, value string, v verdicts, call func(context.Context, string) (string, error)) Check {
	if value == "" {
		return Check{Message: v.empty}
	}
	verdict, err := call(ctx, value)
	if err != nil {
		s.log.Warn("uniqueness check failed", zap.Error(err))
		return Check{Message: MsgConnectionFailed}
	}
	switch verdict {
	case v.available:
		return Check{State: Available, Message: verdict}
	case v.duplicate:
		return Check{State: Duplicate, Message: verdict}
	}
	s.log.Warn("unexpected uniqueness verdict", zap.String("verdict", verdict))
	return Check{Message: v.unknown}
}

// CheckEmail confirms f.Email with the API. An empty field sends nothing.
func (s *Service) CheckEmail(ctx context.Context, f *Form) Check {
	f.EmailCheck = s.check(ctx, f.Email, emailVerdicts, s.upstream.CheckEmail)
	return f.EmailCheck
}

func (s *Service) CheckNickname(ctx context.Context, f *Form) Check {
	f.NicknameCheck = s.check(ctx, f.Nickname, nicknameVerdicts, s.upstream.CheckNickname)
	return f.NicknameCheck
}

func (s *Service) CheckProfileNickname(ctx context.Context, p *ProfileForm) Check {
	if p.Nickname != "" && p.Nickname == p.Original {
		p.NicknameCheck = Check{State: Available}
		return p.NicknameCheck
	}
	p.NicknameCheck = s.check(ctx, p.Nickname, nicknameVerdicts, s.upstream.CheckNickname)
	return p.NicknameCheck
}

// Signup validates f and submits it. Validation failures never reach the API.
func (s *Service) Signup(ctx context.Context, f *Form, photo *Photo) error {
	if err := f.Validate(); err != nil {
		return err
	}
	form := api.NewMultipart().
		Field("email", f.Email).
		Field("password", f.Password).
		Field("name", f.Name).
		Field("nickname", f.Nickname).
		Field("phoneNumber", f.PhoneNumber).
		Field("postalCode", f.PostalCode).
		Field("address", f.Address).
		Field("detailAddress", f.DetailAddress)
	attach(form, photo)

	answer, err := s.upstream.Join(ctx, form)
	if err != nil {
		s.log.Error("signup failed", zap.String("email", f.Email), zap.Error(err))
		return err
	}
	if answer != JoinSuccess {
		msg := answer
		if msg == "" {
			msg = MsgSignupFailed
		}
		return &api.Error{Op: "POST /join", Kind: api.KindRejected, Message: msg, Err: ErrSignupRejected}
	}
	s.log.Info("signup completed", zap.String("nickname", f.Nickname))
	return nil
}

// UpdateProfile submits the profile edit. A 401 invalidates the session.
func (s *Service) UpdateProfile(ctx context.Context, sess *session.Session, p *ProfileForm, photo *Photo) error {
	if err := p.Validate(); err != nil {
		return err
	}
	form := api.NewMultipart().
		Field("nickname", p.Nickname).
		Field("phoneNumber", p.PhoneNumber)
	attach(form, photo)

	if _, err := s.upstream.Update(ctx, sess, form); err != nil {
		s.settle(sess, err)
		return err
	}
	sess.MarkLoggedIn(p.Nickname)
	return nil
}

// Delete removes the account and, on success, invalidates the session.
func (s *Service) Delete(ctx context.Context, sess *session.Session) (string, error) {
	resp, err := s.upstream.DeleteAccount(ctx, sess)
	if err != nil {
		s.settle(sess, err)
		return "", err
	}
	s.sessions.Invalidate(sess)
	if resp.Message != "" {
		return resp.Message, nil
	}
	return MsgDeleteDone, nil
}

func (s *Service) settle(sess *session.Session, err error) {
	if api.IsUnauthorized(err) {
		s.sessions.Invalidate(sess)
		return
	}
	s.log.Warn("account request failed", zap.String("sid", sess.ID()), zap.Error(err))
}

func attach(form *api.Multipart, photo *Photo) {
	attachAs(form, "photo", photo)
}

func attachAs(form *api.Multipart, field string, photo *Photo) {
	if photo == nil {
		return
	}
	form.File(api.File{
		Field:       field,
		Filename:    photo.Filename,
		ContentType: photo.ContentType,
		Data:        photo.Data,
	})
}
