package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp/fasthttputil"
	"golang.org/x/crypto/bcrypt"

	"github.com/arzan03/CondoLedger/internal/db"
	"github.com/arzan03/CondoLedger/internal/logging"
	"github.com/arzan03/CondoLedger/internal/services"
	"github.com/arzan03/CondoLedger/internal/session"
)

const testCard = "4539 1488 0343 6467"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	backend, err := db.NewFileBackend(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	ledger := services.NewLedger(db.New(backend),
		services.WithHashCost(bcrypt.MinCost),
		services.WithClock(func() time.Time { return time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC) }),
	)
	created, err := ledger.EnsureAdmin(context.Background(), "Admin", "5550", "root")
	require.NoError(t, err)
	require.True(t, created)

	h := NewHandler(ledger, session.NewMemoryRegistry(), logging.Discard())
	return NewApp(h, AppConfig{BodyLimit: 4 * 1024})
}

type response struct {
	status int
	body   map[string]interface{}
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func login(t *testing.T, app *fiber.App, phone, password string) string {
	t.Helper()
	r := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"phone": phone, "password": password})
	require.Equal(t, http.StatusOK, r.status, r.body)
	token, _ := r.body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func list(r response, key string) []interface{} {
	items, _ := r.body[key].([]interface{})
	return items
}

func TestResidentPaysDue(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "5550", "root")

	r := call(t, app, http.MethodPost, "/api/users", admin, map[string]string{
		"name": "Ayse", "phone": "5551", "role": "resident", "password": "pw",
	})
	require.Equal(t, http.StatusOK, r.status)
	userID := r.body["user"].(map[string]interface{})["id"]
	assert.NotContains(t, r.body["user"], "passwordHash")

	r = call(t, app, http.MethodPost, "/api/apartments", admin, map[string]interface{}{"number": 101, "userId": userID})
	require.Equal(t, http.StatusOK, r.status)
	assert.EqualValues(t, 1, r.body["apartment"].(map[string]interface{})["status"])

	r = call(t, app, http.MethodPost, "/api/dues/apply", admin, map[string]string{"period": "2024-05", "amount": "500"})
	require.Equal(t, http.StatusOK, r.status)
	assert.EqualValues(t, 1, r.body["created"])

	resident := login(t, app, "5551", "pw")
	r = call(t, app, http.MethodGet, "/api/dues", resident, nil)
	require.Equal(t, http.StatusOK, r.status)
	dues := list(r, "dues")
	require.Len(t, dues, 1)
	due := dues[0].(map[string]interface{})
	assert.EqualValues(t, 500, due["amount"])
	assert.EqualValues(t, 0, due["paid"])
	assert.EqualValues(t, 101, due["apartmentNumber"])

	r = call(t, app, http.MethodPost, "/api/payments/pay", resident, map[string]interface{}{
		"dueId": due["id"], "cardNumber": testCard, "amount": 500,
	})
	require.Equal(t, http.StatusOK, r.status, r.body)
	receipt := r.body["receipt"].(map[string]interface{})
	assert.Equal(t, "2024-05", receipt["period"])
	assert.EqualValues(t, 101, receipt["apartmentNumber"])
	assert.Equal(t, "**** **** **** 6467", receipt["cardMasked"])

	r = call(t, app, http.MethodGet, "/api/dues?period=2024-05", resident, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.EqualValues(t, 1, list(r, "dues")[0].(map[string]interface{})["paid"])

	r = call(t, app, http.MethodPost, "/api/payments/pay", resident, map[string]interface{}{
		"dueId": due["id"], "cardNumber": testCard, "amount": 500,
	})
	assert.Equal(t, http.StatusConflict, r.status)
	assert.Equal(t, "conflict", r.body["code"])

	r = call(t, app, http.MethodGet, "/api/payments", resident, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Len(t, list(r, "payments"), 1)

	r = call(t, app, http.MethodGet, "/api/reports/summary", resident, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.EqualValues(t, 500, r.body["totalPaid"])
	assert.EqualValues(t, 0, r.body["totalUnpaid"])
}

func TestAuthorization(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "5550", "root")
	r := call(t, app, http.MethodPost, "/api/users", admin, map[string]string{
		"name": "Ayse", "phone": "5551", "role": "resident", "password": "pw",
	})
	require.Equal(t, http.StatusOK, r.status)
	resident := login(t, app, "5551", "pw")

	r = call(t, app, http.MethodGet, "/api/apartments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "unauthenticated", r.body["code"])

	r = call(t, app, http.MethodGet, "/api/apartments", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)

	r = call(t, app, http.MethodPost, "/api/apartments", resident, map[string]int{"number": 1})
	assert.Equal(t, http.StatusForbidden, r.status)
	assert.Equal(t, "forbidden", r.body["code"])

	r = call(t, app, http.MethodPost, "/api/backup/run", resident, nil)
	assert.Equal(t, http.StatusForbidden, r.status)

	r = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"phone": "5551", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, r.status)

	r = call(t, app, http.MethodGet, "/api/auth/me", resident, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "resident", r.body["user"].(map[string]interface{})["role"])

	r = call(t, app, http.MethodPost, "/api/auth/logout", resident, nil)
	require.Equal(t, http.StatusOK, r.status)
	r = call(t, app, http.MethodGet, "/api/auth/me", resident, nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
}

func TestDeletedUserLosesSession(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "5550", "root")
	r := call(t, app, http.MethodPost, "/api/users", admin, map[string]string{
		"name": "Ayse", "phone": "5551", "role": "resident", "password": "pw",
	})
	require.Equal(t, http.StatusOK, r.status)
	resident := login(t, app, "5551", "pw")

	r = call(t, app, http.MethodDelete, "/api/users/2", admin, nil)
	require.Equal(t, http.StatusOK, r.status)

	r = call(t, app, http.MethodGet, "/api/dues", resident, nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)

	r = call(t, app, http.MethodDelete, "/api/users/2", admin, nil)
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, "not_found", r.body["code"])
}

func TestRequestErrors(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "5550", "root")

	r := call(t, app, http.MethodPost, "/api/apartments", admin, `{"number":`)
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "validation", r.body["code"])

	r = call(t, app, http.MethodPost, "/api/apartments", admin, map[string]int{"number": 7})
	require.Equal(t, http.StatusOK, r.status)
	r = call(t, app, http.MethodPost, "/api/apartments", admin, map[string]int{"number": 7})
	assert.Equal(t, http.StatusConflict, r.status)

	r = call(t, app, http.MethodPut, "/api/apartments/99", admin, map[string]int{"number": 8})
	assert.Equal(t, http.StatusNotFound, r.status)

	r = call(t, app, http.MethodPost, "/api/dues/apply", admin, map[string]string{"period": "2024-13", "amount": "10"})
	assert.Equal(t, http.StatusBadRequest, r.status)

	r = call(t, app, http.MethodPost, "/api/payments/pay", admin, map[string]interface{}{
		"dueId": 999, "cardNumber": testCard, "amount": 10,
	})
	assert.Equal(t, http.StatusNotFound, r.status)

	r = call(t, app, http.MethodGet, "/api/nothing-here", admin, nil)
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, "not_found", r.body["code"])
}

func TestBackupWithoutTargetsFails(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "5550", "root")

	r := call(t, app, http.MethodPost, "/api/backup/run", admin, nil)
	assert.Equal(t, http.StatusInternalServerError, r.status)
	assert.Equal(t, "internal", r.body["code"])
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   services.Kind
	}{
		{services.ErrAlreadyPaid, http.StatusConflict, services.KindConflict},
		{services.ErrNotOwner, http.StatusForbidden, services.KindForbidden},
		{fiber.ErrRequestEntityTooLarge, http.StatusRequestEntityTooLarge, services.KindValidation},
		{fiber.ErrNotFound, http.StatusNotFound, services.KindNotFound},
		{db.ErrStoreUnavailable, http.StatusInternalServerError, services.KindInternal},
		{errors.New("boom"), http.StatusInternalServerError, services.KindInternal},
	}
	for _, tc := range cases {
		status, kind, msg := classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.kind, kind, tc.err.Error())
		assert.NotContains(t, msg, "boom")
	}
}

func TestAmountOutOfRangeIsValidation(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "5550", "root")

	r := call(t, app, http.MethodPost, "/api/dues/apply", admin, `{"period":"2024-05","amount":1e400}`)
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "validation", r.body["code"])

	r = call(t, app, http.MethodPost, "/api/expenses", admin, `{"title":"Roof","amount":"1e400","date":"2024-05-01"}`)
	assert.Equal(t, http.StatusBadRequest, r.status)

	r = call(t, app, http.MethodGet, "/api/expenses", admin, nil)
	assert.Equal(t, http.StatusOK, r.status)
}

func TestPayWithNumericCardNumber(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "5550", "root")

	r := call(t, app, http.MethodPost, "/api/apartments", admin, map[string]interface{}{"number": 1, "userId": 1})
	require.Equal(t, http.StatusOK, r.status)
	r = call(t, app, http.MethodPost, "/api/dues/apply", admin, map[string]interface{}{"period": "2024-05", "amount": 80})
	require.Equal(t, http.StatusOK, r.status)

	body := `{"dueId":1,"cardNumber":4539148803436467,"amount":80}`
	r = call(t, app, http.MethodPost, "/api/payments/pay", admin, body)
	require.Equal(t, http.StatusOK, r.status, r.body)
	assert.Equal(t, "**** **** **** 6467", r.body["receipt"].(map[string]interface{})["cardMasked"])

	r = call(t, app, http.MethodPost, "/api/payments/pay", admin, body)
	assert.Equal(t, http.StatusConflict, r.status)
}

func TestPanicBecomesGenericServerError(t *testing.T) {
	app := newTestApp(t)
	app.Get("/api/explode", func(c *fiber.Ctx) error {
		panic("ledger pointer was nil")
	})

	r := call(t, app, http.MethodGet, "/api/explode", "", nil)
	assert.Equal(t, http.StatusInternalServerError, r.status)
	assert.Equal(t, "internal", r.body["code"])
	assert.Equal(t, "internal server error", r.body["error"])
}

// serve runs app on an in-memory listener so requests go through the real
// fasthttp connection handling, including the body size limit.
func serve(t *testing.T, app *fiber.App) *fasthttputil.InmemoryListener {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return ln
}

func TestOversizedBodyIsRejected(t *testing.T) {
	app := newTestApp(t)
	ln := serve(t, app)

	conn, err := ln.Dial()
	require.NoError(t, err)
	defer conn.Close()

	payload := `{"title":"` + strings.Repeat("x", 16*1024) + `"}`
	raw := "POST /api/announcements HTTP/1.1\r\n" +
		"Host: ledger.test\r\n" +
		"Content-Type: application/json\r\n" +
		"Content-Length: " + strconv.Itoa(len(payload)) + "\r\n" +
		"\r\n" + payload
	go func() { _, _ = conn.Write([]byte(raw)) }()

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "validation", body["code"])
	assert.Equal(t, "request body too large", body["error"])
}
