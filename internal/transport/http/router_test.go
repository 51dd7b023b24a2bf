package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	notifcontracts "github.com/light-bringer/rawsy-service/internal/app/notification/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/notification/dispatcher"
	notifdomain "github.com/light-bringer/rawsy-service/internal/app/notification/domain"
	"github.com/light-bringer/rawsy-service/internal/app/notification/fanout"
	"github.com/light-bringer/rawsy-service/internal/app/notification/queries/list_notifications"
	notifrepo "github.com/light-bringer/rawsy-service/internal/app/notification/repo"
	"github.com/light-bringer/rawsy-service/internal/app/outbox/queries/list_events"
	outboxrepo "github.com/light-bringer/rawsy-service/internal/app/outbox/repo"
	"github.com/light-bringer/rawsy-service/internal/app/product/observer"
	"github.com/light-bringer/rawsy-service/internal/app/product/queries/get_product"
	"github.com/light-bringer/rawsy-service/internal/app/product/queries/list_products"
	productrepo "github.com/light-bringer/rawsy-service/internal/app/product/repo"
	"github.com/light-bringer/rawsy-service/internal/app/product/usecases/create_product"
	"github.com/light-bringer/rawsy-service/internal/app/product/usecases/delete_product"
	"github.com/light-bringer/rawsy-service/internal/app/product/usecases/update_product"
	"github.com/light-bringer/rawsy-service/internal/app/quote/notify"
	"github.com/light-bringer/rawsy-service/internal/app/quote/queries/get_quote"
	"github.com/light-bringer/rawsy-service/internal/app/quote/queries/list_quotes"
	quoterepo "github.com/light-bringer/rawsy-service/internal/app/quote/repo"
	"github.com/light-bringer/rawsy-service/internal/app/quote/usecases/create_quote"
	"github.com/light-bringer/rawsy-service/internal/app/quote/usecases/transition_quote"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
	"github.com/light-bringer/rawsy-service/internal/pkg/metrics"
	"github.com/light-bringer/rawsy-service/internal/pkg/sideeffect"
)

const (
	testSecret = "test-secret"
	testIssuer = "rawsy"
)

type noopPush struct{}

func (noopPush) SendMulticast(context.Context, []string, notifcontracts.PushMessage) error { return nil }

type testServer struct {
	router    *gin.Engine
	directory *notifrepo.MemoryDirectory
	clock     *clock.MockClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewMockClock(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	log := zap.NewNop()
	m := metrics.New()
	runner := sideeffect.NewSyncRunner(log, m)

	events := outboxrepo.NewMemoryLog()
	products := productrepo.NewMemoryStore(events, clk)
	quotes := quoterepo.NewMemoryRepo(events, clk)
	notifications := notifrepo.NewMemoryNotificationRepo()
	directory := notifrepo.NewMemoryDirectory()
	for _, r := range []notifdomain.Recipient{
		{ID: "buyer-1", Role: actor.RoleBuyer, DeviceTokens: []string{"buyer-phone"}},
		{ID: "sup-1", Role: actor.RoleSupplier},
		{ID: "sup-2", Role: actor.RoleSupplier},
	} {
		directory.PutUser(r)
	}

	d := dispatcher.New(notifications, noopPush{}, clk, log, m)
	quoteNotifier := notify.NewNotifier(directory, d, runner)

	router := NewRouter(Handlers{
		Products: NewProductHandler(
			create_product.NewInteractor(products, clk),
			update_product.NewInteractor(products, observer.New(fanout.New(directory, d, log), log), runner, nil, clk, log),
			delete_product.NewInteractor(products, nil, clk, log),
			get_product.NewQuery(products, nil, log),
			list_products.NewQuery(products),
		),
		Quotes: NewQuoteHandler(
			create_quote.NewInteractor(products, quotes, quoteNotifier, clk),
			transition_quote.NewInteractor(quotes, quoteNotifier, clk, m, log),
			get_quote.NewQuery(quotes),
			list_quotes.NewQuery(quotes),
		),
		Notifications: NewNotificationHandler(list_notifications.NewQuery(notifications)),
		Events:        NewEventsHandler(list_events.NewQuery(events)),
	}, RouterConfig{
		JWTSecret:   testSecret,
		JWTIssuer:   testIssuer,
		Logger:      log,
		Metrics:     m,
		CORSOrigins: []string{"https://app.rawsy.test"},
	})

	return &testServer{router: router, directory: directory, clock: clk}
}

func token(t *testing.T, userID string, role actor.Role, expires time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

type response struct {
	Data  json.RawMessage `json:"data"`
	Error *ErrorInfo      `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) (int, response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type idAndStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/quotes", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("https://app.rawsy.test")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.rawsy.test", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = preflight("https://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)
	future := time.Now().Add(time.Hour)

	code, resp := s.do(t, http.MethodGet, "/api/v1/quotes/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "ERR_UNAUTHORIZED", resp.Error.Code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/quotes/mine", token(t, "buyer-1", actor.RoleBuyer, time.Now().Add(-time.Minute)), nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "token expired", resp.Error.Message)

	code, _ = s.do(t, http.MethodGet, "/api/v1/quotes/mine", token(t, "buyer-1", "guest", future), nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/quotes/mine", token(t, "buyer-1", actor.RoleBuyer, future), nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestNegotiationOverHTTP(t *testing.T) {
	s := newTestServer(t)
	exp := time.Now().Add(time.Hour)
	buyer := token(t, "buyer-1", actor.RoleBuyer, exp)
	supplier := token(t, "sup-1", actor.RoleSupplier, exp)
	admin := token(t, "adm-1", actor.RoleAdmin, exp)

	code, resp := s.do(t, http.MethodPost, "/api/v1/products", supplier, map[string]any{
		"name": "Portland Cement", "category": "construction", "price": "50", "unit": "bag", "stock": 100, "negotiable": true,
	})
	require.Equal(t, http.StatusCreated, code)
	product := decode[idAndStatus](t, resp.Data)

	code, resp = s.do(t, http.MethodPost, "/api/v1/quotes", buyer, map[string]any{"product_id": product.ID, "quantity": 10})
	require.Equal(t, http.StatusCreated, code)
	quote := decode[idAndStatus](t, resp.Data)
	assert.Equal(t, "pending", quote.Status)

	path := "/api/v1/quotes/" + quote.ID + "/transitions"
	steps := []struct {
		bearer string
		body   map[string]any
		want   string
	}{
		{supplier, map[string]any{"action": "counter", "counter_price": "45"}, "supplier_counter"},
		{buyer, map[string]any{"action": "accept"}, "buyer_accept"},
		{supplier, map[string]any{"action": "convert"}, "converted"},
	}
	for _, step := range steps {
		code, resp = s.do(t, http.MethodPost, path, step.bearer, step.body)
		require.Equal(t, http.StatusOK, code, step.want)
		assert.Equal(t, step.want, decode[idAndStatus](t, resp.Data).Status)
	}

	code, resp = s.do(t, http.MethodPost, path, buyer, map[string]any{"action": "cancel"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ERR_INVALID_TRANSITION", resp.Error.Code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/notifications", buyer, nil)
	require.Equal(t, http.StatusOK, code)
	types := make([]string, 0)
	for _, n := range decode[[]notificationResponse](t, resp.Data) {
		types = append(types, n.Type)
	}
	assert.ElementsMatch(t, []string{"quote_countered", "quote_converted"}, types)

	code, _ = s.do(t, http.MethodGet, "/api/v1/events", buyer, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/events?event_type=quote.converted", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]eventResponse](t, resp.Data), 1)
}

func TestQuoteErrors(t *testing.T) {
	s := newTestServer(t)
	exp := time.Now().Add(time.Hour)
	buyer := token(t, "buyer-1", actor.RoleBuyer, exp)
	supplier := token(t, "sup-1", actor.RoleSupplier, exp)

	code, resp := s.do(t, http.MethodPost, "/api/v1/quotes", buyer, map[string]any{"product_id": "p-1", "quantity": -2})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotEmpty(t, resp.Error.Details)
	assert.Equal(t, "quantity", resp.Error.Details[0].Field)

	code, _ = s.do(t, http.MethodPost, "/api/v1/quotes", buyer, map[string]any{"product_id": "missing", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/quotes/received", buyer, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/quotes/q-1/transitions", supplier, map[string]any{"action": "haggle"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/quotes/mine?status=open", buyer, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestProductUpdateNotifiesWatchers(t *testing.T) {
	s := newTestServer(t)
	exp := time.Now().Add(time.Hour)
	buyer := token(t, "buyer-1", actor.RoleBuyer, exp)
	owner := token(t, "sup-1", actor.RoleSupplier, exp)
	other := token(t, "sup-2", actor.RoleSupplier, exp)

	code, resp := s.do(t, http.MethodPost, "/api/v1/products", owner, map[string]any{
		"name": "Rebar", "category": "steel", "price": 700, "unit": "t", "stock": 0,
	})
	require.Equal(t, http.StatusCreated, code)
	product := decode[idAndStatus](t, resp.Data)
	s.directory.AddToWishlist("buyer-1", product.ID)

	code, _ = s.do(t, http.MethodPatch, "/api/v1/products/"+product.ID, other, map[string]any{"price": "650"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPatch, "/api/v1/products/"+product.ID, owner, map[string]any{"price": "650", "stock": 5})
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/notifications", buyer, nil)
	require.Equal(t, http.StatusOK, code)
	got := decode[[]notificationResponse](t, resp.Data)
	types := make([]string, 0, len(got))
	for _, n := range got {
		types = append(types, n.Type)
	}
	assert.ElementsMatch(t, []string{"price_drop", "back_in_stock"}, types)

	code, resp = s.do(t, http.MethodGet, "/api/v1/products/mine", owner, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]idAndStatus](t, resp.Data), 1)

	code, _ = s.do(t, http.MethodGet, "/api/v1/products/mine", buyer, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodDelete, "/api/v1/products/"+product.ID, owner, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, resp = s.do(t, http.MethodGet, "/api/v1/products/"+product.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "ERR_NOT_FOUND", resp.Error.Code)
}

func TestProductListSearch(t *testing.T) {
	s := newTestServer(t)
	owner := token(t, "sup-1", actor.RoleSupplier, time.Now().Add(time.Hour))

	for _, p := range []map[string]any{
		{"name": "Portland Cement", "category": "construction", "price": 50, "unit": "bag", "stock": 3},
		{"name": "White cement", "category": "construction", "price": 80, "unit": "bag", "stock": 3},
		{"name": "Steel rebar", "category": "steel", "price": 60, "unit": "t", "stock": 3},
	} {
		code, _ := s.do(t, http.MethodPost, "/api/v1/products", owner, p)
		require.Equal(t, http.StatusCreated, code)
	}

	type named struct {
		Name string `json:"name"`
	}
	names := func(raw json.RawMessage) []string {
		out := make([]string, 0)
		for _, p := range decode[[]named](t, raw) {
			out = append(out, p.Name)
		}
		return out
	}

	code, resp := s.do(t, http.MethodGet, "/api/v1/products?q=CEMENT&min_price=40&max_price=60", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"Portland Cement"}, names(resp.Data))

	code, resp = s.do(t, http.MethodGet, "/api/v1/products?sort=rating&max_price=80", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, names(resp.Data), 3)

	code, resp = s.do(t, http.MethodGet, "/api/v1/products?min_price=90&max_price=10", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/products?sort=cheapest", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/products?min_price=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
