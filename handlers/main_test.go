package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/kevmuri/referral_rewards/database"
	"github.com/kevmuri/referral_rewards/models"
	"github.com/kevmuri/referral_rewards/routes"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Business{},
		&models.Campaign{},
		&models.User{},
		&models.CompletedTask{},
		&models.Reward{},
		&models.Referral{},
	))

	database.DB = db
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	setupTestDB(t)

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		StrictRouting: true,
	})
	routes.PublicRoutes(app)
	routes.AuthRoutes(app)
	routes.CampaignRoutes(app)
	routes.ReferralRoutes(app)
	routes.DashboardRoutes(app)
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp, env
}

func registerBusiness(t *testing.T, app *fiber.App, name, email string) (id, token string) {
	t.Helper()

	resp, env := doJSON(t, app, fiber.MethodPost, "/auth/register", "", fiber.Map{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	var data struct {
		ID    string `json:"id"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.ID, data.Token
}

func createCampaign(t *testing.T, app *fiber.App, token string, body fiber.Map) models.Campaign {
	t.Helper()

	resp, env := doJSON(t, app, fiber.MethodPost, "/campaigns", token, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	var campaign models.Campaign
	require.NoError(t, json.Unmarshal(env.Data, &campaign))
	return campaign
}
