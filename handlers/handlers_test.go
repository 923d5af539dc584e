package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/cache"
	"procurement/chat"
	"procurement/config"
	"procurement/database"
	"procurement/gemini"
	"procurement/models"
	"procurement/procurement"
	"procurement/session"
)

func TestReportErrorStates(t *testing.T) {
	svc := procurement.NewService(&database.MemoryWarehouse{}, cache.New(), 4)
	h := New(config.Config{}, svc, chat.NewOrchestrator(&gemini.MockGenerator{}, 10), session.NewStore())

	for _, tc := range []struct {
		err    error
		status int
		state  string
	}{
		{procurement.ErrInsufficientHistory, 200, "insufficient_data"},
		{fmt.Errorf("wrapped: %w", procurement.ErrNoWeeks), 200, "no_data"},
		{procurement.ErrUnknownWeek, 400, ""},
		{errors.New("connection reset"), 502, ""},
	} {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return h.reportError(c, "test", tc.err) })

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		if tc.state != "" {
			assert.Equal(t, "warning", body["status"])
			assert.Equal(t, tc.state, body["state"])
		} else {
			assert.Equal(t, "error", body["status"])
		}
	}
}

func TestBindQueryValidates(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		var q models.ScheduleQuery
		if resp := bindQuery(c, &q); resp != nil {
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
		return c.JSON(q)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?branch=North&lookback=2", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/?branch=North&lookback=99", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/?lookback=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestBindQueryRejectsHugeHistoryPage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		var q models.HistoryQuery
		if resp := bindQuery(c, &q); resp != nil {
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		}
		return c.JSON(q)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?page=92233720368547758&pageSize=200", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/?page=3&pageSize=200", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHandleHealth(t *testing.T) {
	app := fiber.New()
	app.Get("/health", HandleHealth)
	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
