package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"tradepost/internal/config"
	"tradepost/internal/domain"
	"tradepost/internal/http/handlers"
	"tradepost/internal/repos"
)

type testApp struct {
	app *fiber.App
	db  *sqlx.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, repos.EnsureSchema(db))
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		CancelWindow:    24 * time.Hour,
		StartingBalance: domain.Cents(10000),
	}
	deps := handlers.NewDeps(db, cfg)

	app := fiber.New()
	app.Use(requestid.New())
	app.Post("/signup", deps.AuthHandler.Signup)
	app.Post("/buy/:listing_id", deps.OrderHandler.Buy)
	app.Post("/cancel/:transaction_id", deps.OrderHandler.Cancel)
	app.Get("/profile/:user_id", deps.ProfileHandler.Get)

	return &testApp{app: app, db: db}
}

func (ta *testApp) post(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (ta *testApp) seed(t *testing.T) (buyerID, listingID int64) {
	t.Helper()
	users := repos.NewUserRepo(ta.db)
	listings := repos.NewListingRepo(ta.db)
	seller, err := users.Create("seller", "hash", 0)
	require.NoError(t, err)
	buyer, err := users.Create("buyer", "hash", domain.Cents(10000))
	require.NoError(t, err)
	lid, err := listings.Create(seller, "Game Boy Color", "", domain.Cents(1000), "", 5)
	require.NoError(t, err)
	return buyer, lid
}

func TestBuyAndCancelEndToEnd(t *testing.T) {
	ta := newTestApp(t)
	buyer, lid := ta.seed(t)

	st, body := ta.post(t, fmt.Sprintf("/buy/%d", lid), fiber.Map{
		"user_id":          buyer,
		"quantity":         3,
		"shipping_address": "1 Main St",
	})
	require.Equal(t, fiber.StatusOK, st, body)
	assert.Equal(t, "purchase complete", body["message"])
	assert.NotEmpty(t, body["delivery_estimate"])
	txID := int64(body["transaction_id"].(float64))

	st, body = ta.post(t, fmt.Sprintf("/cancel/%d", txID), nil)
	require.Equal(t, fiber.StatusOK, st, body)

	// second cancel is rejected as a state violation
	st, _ = ta.post(t, fmt.Sprintf("/cancel/%d", txID), nil)
	assert.Equal(t, fiber.StatusForbidden, st)
}

func TestBuyErrorMapping(t *testing.T) {
	ta := newTestApp(t)
	buyer, lid := ta.seed(t)

	// more than available -> 400
	st, body := ta.post(t, fmt.Sprintf("/buy/%d", lid), fiber.Map{
		"user_id": buyer, "quantity": 6, "shipping_address": "1 Main St",
	})
	assert.Equal(t, fiber.StatusBadRequest, st)
	assert.Contains(t, body["error"], "quantity")

	// missing address -> 400
	st, _ = ta.post(t, fmt.Sprintf("/buy/%d", lid), fiber.Map{
		"user_id": buyer, "quantity": 1,
	})
	assert.Equal(t, fiber.StatusBadRequest, st)

	// unknown transaction -> 404
	st, _ = ta.post(t, "/cancel/999", nil)
	assert.Equal(t, fiber.StatusNotFound, st)
}

func TestSignupConflict(t *testing.T) {
	ta := newTestApp(t)

	st, body := ta.post(t, "/signup", fiber.Map{"username": "carol", "password": "Passw0rd!"})
	require.Equal(t, fiber.StatusCreated, st, body)

	st, _ = ta.post(t, "/signup", fiber.Map{"username": "carol", "password": "Passw0rd!"})
	assert.Equal(t, fiber.StatusConflict, st)
}
