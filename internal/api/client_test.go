package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

type memoryJar struct {
	mu      sync.Mutex
	cookies map[string]*http.Cookie
}

func newJar(cookies ...*http.Cookie) *memoryJar {
	j := &memoryJar{cookies: map[string]*http.Cookie{}}
	j.SetCookies(cookies)
	return j
}

func (j *memoryJar) Cookies() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*http.Cookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

func (j *memoryJar) SetCookies(cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		j.cookies[c.Name] = c
	}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *Metrics, *prometheus.Registry) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	client, err := New(Options{BaseURL: srv.URL, Timeout: 2 * time.Second, Metrics: metrics})
	require.NoError(t, err)
	return client, metrics, reg
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "api.bargainus.kr"})
	assert.Error(t, err)
}

func TestInfoSendsSessionCookieAndStoresRotatedOne(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("JSESSIONID")
		if err != nil || cookie.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "def"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"email":"kim@bargain.kr","nickname":" 김농부 ","postalCode":"06236","address":"서울 강남구","detailAddress":"101호"}`)
	})
	client, _, _ := newTestClient(t, mux)
	jar := newJar(&http.Cookie{Name: "JSESSIONID", Value: "abc"})

	user, err := client.Info(context.Background(), jar)

	require.NoError(t, err)
	assert.Equal(t, "김농부", user.Nickname)
	assert.Equal(t, models.Address{PostalCode: "06236", Address: "서울 강남구", DetailAddress: "101호"}, user.ShippingAddress())
	require.Len(t, jar.Cookies(), 1)
	assert.Equal(t, "def", jar.Cookies()[0].Value)
}

func TestInfoUnauthorized(t *testing.T) {
	client, _, reg := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.Info(context.Background(), newJar())

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.ErrorIs(t, err, ErrUnauthorized)

	count, err := testutil.GatherAndCount(reg, MetricUpstreamRequestsTotal)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestInfoAcceptsPlainTextBody(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "email: kim@bargain.kr\nnickname: 김농부")
	}))

	user, err := client.Info(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "kim@bargain.kr", user.Email)
	assert.Equal(t, "김농부", user.Nickname)
}

func TestNetworkFailureIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	metrics := NewMetrics(nil)
	client, err := New(Options{BaseURL: base, Timeout: time.Second, Metrics: metrics})
	require.NoError(t, err)

	_, err = client.Category(context.Background(), nil, "fruits")

	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET /category/fruits", "network")))
}

func TestCategoryDecodesNumericCodesAndPrices(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/category/fruits", r.URL.Path)
		_, _ = io.WriteString(w, `[{"pcode":7,"name":"사과","price":12000,"photo":"","likedStatus":1},{"pcode":"8","name":"배","price":"9000.50","likedStatus":false}]`)
	}))

	products, err := client.Category(context.Background(), nil, "fruits")

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, models.Code("7"), products[0].Code)
	assert.True(t, products[0].LikedStatus.Bool())
	assert.True(t, decimal.NewFromInt(12000).Equal(products[0].Price))
	assert.Equal(t, models.Code("8"), products[1].Code)
	assert.True(t, decimal.RequireFromString("9000.5").Equal(products[1].Price))
}

func TestCategoryStatusError(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"db down"}`)
	}))

	_, err := client.Category(context.Background(), nil, "grains")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindStatus, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "db down", apiErr.Message)
}

func TestToggleLiked(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products/42/liked", r.URL.Path)
		_, _ = io.WriteString(w, `{"likedStatus":true,"message":"찜 목록에 추가되었습니다."}`)
	}))

	result, err := client.ToggleLiked(context.Background(), newJar(), "42")

	require.NoError(t, err)
	assert.True(t, result.LikedStatus.Bool())
	assert.Equal(t, "찜 목록에 추가되었습니다.", result.Message)
}

func TestCheckEmailReturnsVerdictText(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kim@bargain.kr", r.URL.Query().Get("email"))
		w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
		_, _ = io.WriteString(w, "사용 가능한 이메일입니다.")
	}))

	verdict, err := client.CheckEmail(context.Background(), "kim@bargain.kr")

	require.NoError(t, err)
	assert.Equal(t, "사용 가능한 이메일입니다.", verdict)
}

func TestCheckNicknameUnwrapsJSONString(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "김농부", r.URL.Query().Get("nickname"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `"중복된 닉네임입니다."`)
	}))

	verdict, err := client.CheckNickname(context.Background(), "김농부")

	require.NoError(t, err)
	assert.Equal(t, "중복된 닉네임입니다.", verdict)
}

func TestJoinSendsMultipart(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(2<<20))
		assert.Equal(t, "kim@bargain.kr", r.FormValue("email"))
		assert.Equal(t, "abcdefgh", r.FormValue("password"))
		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "me.png", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, []byte{1, 2, 3}, data)
		_, _ = io.WriteString(w, "가입 성공")
	}))

	form := NewMultipart().
		Field("email", "kim@bargain.kr").
		Field("password", "abcdefgh").
		File(File{Field: "photo", Filename: "me.png", ContentType: "image/png", Data: []byte{1, 2, 3}})

	answer, err := client.Join(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, "가입 성공", answer)
}

func TestUpdateRejected(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":false,"message":"닉네임 중복"}`)
	}))

	_, err := client.Update(context.Background(), newJar(), NewMultipart().Field("nickname", "x"))

	require.Error(t, err)
	msg, ok := Rejection(err)
	assert.True(t, ok)
	assert.Equal(t, "닉네임 중복", msg)
}

func TestAddProductSendsPhotosAsParts(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products/add", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "과일", r.FormValue("categoryName"))
		assert.Len(t, r.MultipartForm.File["photo"], 1)
		assert.Len(t, r.MultipartForm.File["commentphoto"], 2)
		_, _ = io.WriteString(w, `{"status":true,"message":"상품 등록 성공"}`)
	}))

	form := NewMultipart().Field("categoryName", "과일").
		File(File{Field: "photo", Filename: "a.png", Data: []byte("a")}).
		File(File{Field: "commentphoto", Filename: "b.png", Data: []byte("b")}).
		File(File{Field: "commentphoto", Filename: "c.png", Data: []byte("c")})
	result, err := client.AddProduct(context.Background(), newJar(), form)

	require.NoError(t, err)
	assert.Equal(t, "상품 등록 성공", result.Message)
}

func TestDeleteAccount(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mypage/userpage/delete", r.URL.Path)
		_, _ = io.WriteString(w, `{"status":true,"message":"회원 탈퇴가 완료되었습니다."}`)
	}))

	result, err := client.DeleteAccount(context.Background(), newJar())

	require.NoError(t, err)
	assert.Equal(t, "회원 탈퇴가 완료되었습니다.", result.Message)
}

func TestUpdateBillsSendsAddressQueryAndNumericBody(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/bills/update", r.URL.Path)
		assert.Equal(t, "06236", r.URL.Query().Get("postalCode"))
		assert.Equal(t, "서울 강남구", r.URL.Query().Get("address"))
		assert.Equal(t, "101호", r.URL.Query().Get("detailAddress"))

		var lines []map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lines))
		require.Len(t, lines, 2)
		assert.Equal(t, "B1", lines[0]["billCode"])
		assert.Equal(t, 1000.0, lines[0]["price"])
		assert.Equal(t, 2000.0, lines[0]["totalPrice"])
		assert.Equal(t, 1.0, lines[1]["count"])

		_, _ = io.WriteString(w, `{"status":true,"message":"결제가 완료되었습니다."}`)
	}))

	bills := []models.Bill{
		{BillCode: "B1", ProductName: "사과", Count: 2, Price: decimal.NewFromInt(1000)},
		{BillCode: "B2", ProductName: "쌀", Count: 1, Price: decimal.NewFromInt(500)},
	}
	result, err := client.UpdateBills(context.Background(), newJar(),
		models.Address{PostalCode: "06236", Address: "서울 강남구", DetailAddress: "101호"}, bills)

	require.NoError(t, err)
	assert.Equal(t, "결제가 완료되었습니다.", result.Message)
}

func TestLoginRejectsEmptyCredentialsWithoutRequest(t *testing.T) {
	called := false
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.Login(context.Background(), newJar(), "", "")

	assert.True(t, IsKind(err, KindRejected))
	assert.False(t, called)
}

func TestLoginPostsForm(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "kim@bargain.kr", r.PostForm.Get("email"))
		assert.Equal(t, "abcdefgh", r.PostForm.Get("password"))
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "fresh"})
		_, _ = io.WriteString(w, `{"status":true,"message":"로그인 성공","nickname":"김농부"}`)
	}))
	jar := newJar()

	result, err := client.Login(context.Background(), jar, "kim@bargain.kr", "abcdefgh")

	require.NoError(t, err)
	assert.Equal(t, "김농부", result.Nickname)
	require.Len(t, jar.Cookies(), 1)
}
