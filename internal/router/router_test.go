package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/shop-admin/config"
	"github.com/oksasatya/shop-admin/internal/application"
	"github.com/oksasatya/shop-admin/internal/container"
	"github.com/oksasatya/shop-admin/internal/domain/entity"
	"github.com/oksasatya/shop-admin/internal/infrastructure/memory"
	"github.com/oksasatya/shop-admin/internal/interface/middleware"
	"github.com/oksasatya/shop-admin/pkg/helpers"
	"github.com/oksasatya/shop-admin/pkg/metrics"
	"github.com/oksasatya/shop-admin/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

type inbox struct {
	mu     sync.Mutex
	codes  map[string]string
	resets map[string]string
}

func (m *inbox) SendVerificationCode(_ context.Context, to, _, code string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

func (m *inbox) SendPasswordReset(_ context.Context, to, _, resetURL string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[to] = resetURL
	return nil
}

// memImages records whether each local file still existed when it was uploaded.
type memImages struct {
	mu      sync.Mutex
	fail    bool
	onDisk  []bool
	deleted int
}

func (s *memImages) Upload(_ context.Context, localPath, objectPath, _ string) (entity.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(localPath)
	s.onDisk = append(s.onDisk, err == nil)
	if s.fail {
		return entity.Image{}, errors.New("bucket unavailable")
	}
	return entity.Image{PublicID: objectPath, URL: "https://cdn.example.com/" + objectPath}, nil
}

func (s *memImages) Delete(context.Context, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted++
	return nil
}

type harness struct {
	engine   *gin.Engine
	users    *memory.UserRepo
	mail     *inbox
	sessions *application.SessionService
	images   *memImages
	tempDir  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, &memImages{})
}

func newHarnessWith(t *testing.T, images *memImages) *harness {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	cfg := &config.Config{
		AppName:             "shop-admin",
		Env:                 "development",
		CookieExpires:       time.Hour,
		TempDir:             t.TempDir(),
		DebugMetricsEnabled: true,
	}
	m := metrics.New("shop_test")
	container.SetRedis(nil)
	container.SetMetrics(m)

	users := memory.NewUserRepo()
	products := memory.NewProductRepo()
	categories := memory.NewCategoryRepo()
	orders := memory.NewOrderRepo(users, products)

	mail := &inbox{codes: map[string]string{}, resets: map[string]string{}}
	sessions := application.NewSessionService(users, helpers.NewJWTManager("router-secret", time.Hour))
	auth := application.NewAuthService(users, sessions, mail, logger, application.AuthConfig{
		VerifyCodeTTL: 5 * time.Minute,
		ResetTokenTTL: 5 * time.Minute,
		FrontendURL:   "https://shop.example.com",
	})
	catalog := application.NewCatalogService(products, categories, images, nil, logger)
	catalog.Background = func(f func()) { f() }

	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware(), m.Middleware())
	reg := NewRegistry(engine)
	Mount(reg, Services{
		Sessions: sessions,
		Auth:     auth,
		Orders:   application.NewOrderService(orders, products, users, nil, m, logger),
		Catalog:  catalog,
	}, cfg, logger)
	reg.RegisterAll()

	return &harness{engine: engine, users: users, mail: mail, sessions: sessions, images: images, tempDir: cfg.TempDir}
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Meta      map[string]any  `json:"meta"`
	Error     json.RawMessage `json:"error"`
}

func (h *harness) send(t *testing.T, req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if token != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (h *harness) json(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return h.send(t, req, token)
}

func (h *harness) form(t *testing.T, method, path string, fields map[string]string, thumbnail []byte, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if thumbnail != nil {
		fw, err := mw.CreateFormFile("thumbnail", "thumb.png")
		require.NoError(t, err)
		_, err = fw.Write(thumbnail)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return h.send(t, req, token)
}

// seedUser stores a verified user directly and returns a session token for it.
func (h *harness) seedUser(t *testing.T, email string, role entity.Role) string {
	t.Helper()
	hash, err := helpers.HashPassword("secret1")
	require.NoError(t, err)
	u := &entity.User{ID: email, Email: email, Name: "Seed", Password: hash, Role: role, IsVerified: true}
	require.NoError(t, h.users.Create(context.Background(), u))
	sess, err := h.sessions.Issue(u.ID)
	require.NoError(t, err)
	return sess.Token
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == helpers.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthRoutes_RegisterVerifyLogin(t *testing.T) {
	h := newHarness(t)
	reg := map[string]string{"email": "a@x.com", "name": "A", "password": "secret1", "phone_number": "1234567890"}

	w, env := h.json(t, http.MethodPost, "/api/auth/register", reg, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.NotContains(t, string(env.Data), "secret1")
	assert.NotContains(t, string(env.Data), "password")
	ck := sessionCookie(w)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)

	reg["email"] = "A@X.com"
	w, _ = h.json(t, http.MethodPost, "/api/auth/register", reg, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	login := map[string]string{"email": "a@x.com", "password": "secret1"}
	w, _ = h.json(t, http.MethodPost, "/api/auth/login", login, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = h.json(t, http.MethodPost, "/api/auth/verify-email", map[string]string{"email": "a@x.com", "code": "00000"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	code := h.mail.codes["a@x.com"]
	require.Len(t, code, 5)
	w, _ = h.json(t, http.MethodPost, "/api/auth/verify-email", map[string]string{"email": "a@x.com", "code": code}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = h.json(t, http.MethodPost, "/api/auth/login", login, "")
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		User  entity.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.User.IsVerified)
	require.NotEmpty(t, data.Token)
	assert.Equal(t, data.Token, sessionCookie(w).Value)

	w, env = h.json(t, http.MethodGet, "/api/auth/get-user", nil, data.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"email":"a@x.com"`)

	w, _ = h.json(t, http.MethodDelete, "/api/auth/logout", nil, data.Token)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
	assert.True(t, cleared.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cleared.SameSite)
}

func TestAuthRoutes_ValidationDetails(t *testing.T) {
	h := newHarness(t)
	w, env := h.json(t, http.MethodPost, "/api/auth/register",
		map[string]string{"email": "nope", "name": "A", "password": "123", "phone_number": "12ab"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Contains(t, details, "email")
	assert.Equal(t, "min length 6", details["password"])
	assert.Equal(t, "must be exactly 10 digits", details["phone_number"])
	assert.Zero(t, h.users.Count())
}

func TestAuthRoutes_RegisterAcceptsPhoneNumber(t *testing.T) {
	h := newHarness(t)
	reg := map[string]string{"email": "b@x.com", "name": "B", "password": "secret1", "phoneNumber": "1234567890"}
	w, _ := h.json(t, http.MethodPost, "/api/auth/register", reg, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	delete(reg, "phoneNumber")
	reg["email"] = "c@x.com"
	w, env := h.json(t, http.MethodPost, "/api/auth/register", reg, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Contains(t, details, "phone_number")
}

func TestAuthRoutes_ForgotAndReset(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, "r@x.com", entity.RoleUser)

	w, _ := h.json(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "r@x.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	link := h.mail.resets["r@x.com"]
	require.True(t, strings.HasPrefix(link, "https://shop.example.com/password/reset/"), link)
	raw := strings.TrimPrefix(link, "https://shop.example.com/password/reset/")

	body := map[string]string{"password": "newpass1", "confirmPassword": "newpass1"}
	w, _ = h.json(t, http.MethodPut, "/api/auth/reset/password/"+raw, body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = h.json(t, http.MethodPut, "/api/auth/reset/password/"+raw, body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = h.json(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "r@x.com", "password": "newpass1"}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = h.json(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "ghost@x.com"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type orderView struct {
	ID         string          `json:"_id"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
	Items      []struct {
		Price    decimal.Decimal `json:"price"`
		Quantity int             `json:"quantity"`
	} `json:"items"`
}

func TestOrderRoutes_Lifecycle(t *testing.T) {
	h := newHarness(t)
	admin := h.seedUser(t, "admin@x.com", entity.RoleAdmin)
	buyer := h.seedUser(t, "buyer@x.com", entity.RoleUser)

	w, env := h.json(t, http.MethodPost, "/api/category/create-category", map[string]string{"name": "Audio"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cat entity.Category
	require.NoError(t, json.Unmarshal(env.Data, &cat))

	w, _ = h.json(t, http.MethodPost, "/api/category/create-category", map[string]string{"name": "Books"}, buyer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	newProduct := func(name, price string, thumb []byte) string {
		w, env := h.form(t, http.MethodPost, "/api/product/create-product", map[string]string{
			"name": name, "category": cat.ID, "regular_price": price, "quantity": "50",
		}, thumb, admin)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var p entity.Product
		require.NoError(t, json.Unmarshal(env.Data, &p))
		return p.ID
	}
	p1 := newProduct("Speaker", "10.00", pngHeader)
	p2 := newProduct("Cable", "20.00", nil)

	w, env = h.json(t, http.MethodGet, "/api/product/get-product/"+p1, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "https://cdn.example.com/products/"+p1)

	items := map[string]any{
		"items": []map[string]any{
			{"productId": p1, "quantity": 2},
			{"product": p2, "quantity": 1},
		},
		"shippingAddress": "1 Main St",
	}
	w, _ = h.json(t, http.MethodPost, "/api/order/create-order", items, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = h.json(t, http.MethodPost, "/api/order/create-order", items, buyer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order orderView
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(40)), order.TotalPrice.String())
	assert.Equal(t, "pending", order.Status)

	w, _ = h.json(t, http.MethodGet, "/api/order/get-allorders", nil, buyer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = h.json(t, http.MethodGet, "/api/order/get-orders", nil, buyer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, env.Meta["count"])

	path := "/api/order/update-order/" + order.ID
	w, _ = h.json(t, http.MethodPut, path, map[string]string{"status": "shipped"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = h.json(t, http.MethodPut, path, map[string]string{"status": "lost"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = h.form(t, http.MethodPut, "/api/product/update-product/"+p1, map[string]string{"regular_price": "99.00"}, nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = h.json(t, http.MethodGet, "/api/order/get-order/"+order.ID, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var got orderView
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "shipped", got.Status)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(40)))
	assert.True(t, got.Items[0].Price.Equal(decimal.NewFromInt(10)))

	w, _ = h.json(t, http.MethodDelete, "/api/order/delete-order/"+order.ID, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = h.json(t, http.MethodGet, "/api/order/get-order/"+order.ID, nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogRoutes_PublicReads(t *testing.T) {
	h := newHarness(t)
	admin := h.seedUser(t, "admin@x.com", entity.RoleAdmin)

	w, env := h.json(t, http.MethodPost, "/api/category/create-category", map[string]string{"name": "Audio"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	var cat entity.Category
	require.NoError(t, json.Unmarshal(env.Data, &cat))

	w, _ = h.json(t, http.MethodPost, "/api/category/create-category", map[string]string{"name": "audio"}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = h.json(t, http.MethodGet, "/api/category/Read-category/"+cat.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = h.json(t, http.MethodGet, "/api/category/get-category", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, env.Meta["count"])

	w, _ = h.form(t, http.MethodPost, "/api/product/create-product", map[string]string{"name": "No price", "category": cat.ID}, nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = h.json(t, http.MethodGet, "/api/product/search?q=speaker", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, env.Meta["count"])

	w, _ = h.json(t, http.MethodGet, "/api/product/get-product/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDebugRoutes_ServeMetrics(t *testing.T) {
	h := newHarness(t)
	h.json(t, http.MethodGet, "/api/category/get-category", nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `shop_test_http_requests_total{method="GET",route="/api/category/get-category",status="200"} 1`)

	req = httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	w = httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "memstats")
}

func TestRegistry_HealthAndUnknownRoute(t *testing.T) {
	h := newHarness(t)
	w, _ := h.json(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := h.json(t, http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "route not found", env.Message)
}

func (h *harness) tempEntries(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(h.tempDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestProductRoutes_TempFilesRemovedOnServiceFailure(t *testing.T) {
	h := newHarness(t)
	admin := h.seedUser(t, "admin@x.com", entity.RoleAdmin)
	w, env := h.json(t, http.MethodPost, "/api/category/create-category", map[string]string{"name": "Audio"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	var cat entity.Category
	require.NoError(t, json.Unmarshal(env.Data, &cat))

	cases := []struct {
		name   string
		fields map[string]string
		status int
	}{
		{"unknown category", map[string]string{"name": "Speaker", "category": "missing", "regular_price": "10", "quantity": "1"}, http.StatusNotFound},
		{"negative quantity", map[string]string{"name": "Speaker", "category": cat.ID, "regular_price": "10", "quantity": "-3"}, http.StatusBadRequest},
		{"sale above regular", map[string]string{"name": "Speaker", "category": cat.ID, "regular_price": "10", "sale_price": "12", "quantity": "1"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := h.form(t, http.MethodPost, "/api/product/create-product", tc.fields, pngHeader, admin)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Empty(t, h.tempEntries(t))
		})
	}
	assert.Empty(t, h.images.onDisk)
}

func TestProductRoutes_TempFilesRemovedOnUploadFailure(t *testing.T) {
	h := newHarnessWith(t, &memImages{fail: true})
	admin := h.seedUser(t, "admin@x.com", entity.RoleAdmin)
	w, env := h.json(t, http.MethodPost, "/api/category/create-category", map[string]string{"name": "Audio"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	var cat entity.Category
	require.NoError(t, json.Unmarshal(env.Data, &cat))

	w, env = h.form(t, http.MethodPost, "/api/product/create-product", map[string]string{
		"name": "Speaker", "category": cat.ID, "regular_price": "10", "quantity": "1",
	}, pngHeader, admin)
	assert.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())
	assert.Equal(t, application.ErrImageUpload.Error(), env.Message)

	// the file was on disk while uploading and is gone afterwards
	require.Equal(t, []bool{true}, h.images.onDisk)
	assert.Empty(t, h.tempEntries(t))

	w, env = h.json(t, http.MethodGet, "/api/product/get-product", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, env.Meta["total"])
}

func TestProductRoutes_TempFilesRemovedOnSuccess(t *testing.T) {
	h := newHarness(t)
	admin := h.seedUser(t, "admin@x.com", entity.RoleAdmin)
	w, env := h.json(t, http.MethodPost, "/api/category/create-category", map[string]string{"name": "Audio"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	var cat entity.Category
	require.NoError(t, json.Unmarshal(env.Data, &cat))

	w, _ = h.form(t, http.MethodPost, "/api/product/create-product", map[string]string{
		"name": "Speaker", "category": cat.ID, "regular_price": "10", "quantity": "1",
	}, pngHeader, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, []bool{true}, h.images.onDisk)
	assert.Empty(t, h.tempEntries(t))
}

func TestProductRoutes_ListFiltersAndPages(t *testing.T) {
	h := newHarness(t)
	admin := h.seedUser(t, "admin@x.com", entity.RoleAdmin)
	w, env := h.json(t, http.MethodPost, "/api/category/create-category", map[string]string{"name": "Audio"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	var cat entity.Category
	require.NoError(t, json.Unmarshal(env.Data, &cat))

	for _, p := range []struct{ name, brand, price, qty string }{
		{"Buds", "Acme", "10", "20"},
		{"Speaker", "Acme", "30", "20"},
		{"Tower", "Acme", "45", "3"},
		{"Amp", "Other", "60", "20"},
	} {
		w, _ := h.form(t, http.MethodPost, "/api/product/create-product", map[string]string{
			"name": p.name, "brand": p.brand, "category": cat.ID, "regular_price": p.price, "quantity": p.qty,
		}, nil, admin)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, env = h.json(t, http.MethodGet, "/api/product/get-product?brand=acme&inStock=true&sort=-price&limit=1&page=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var items []entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Speaker", items[0].Name)
	assert.EqualValues(t, 2, env.Meta["total"])
	assert.EqualValues(t, 2, env.Meta["totalPages"])
	assert.EqualValues(t, 1, env.Meta["currentPage"])

	w, env = h.json(t, http.MethodGet, "/api/product/get-product?priceMin=20&priceMax=50&sort=price", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Speaker", items[0].Name)
	assert.Equal(t, "Tower", items[1].Name)

	w, _ = h.json(t, http.MethodGet, "/api/product/get-product?sort=password", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
