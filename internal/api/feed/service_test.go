package feed

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"

	"github.com/Shourya4641/Lending-Protocol/internal/oracle"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	feeds := map[string]*oracle.ManualFeed{
		"WETH": oracle.NewManualFeed("WETH"),
	}
	app := fiber.New()
	InitializeRoutes(app, NewService(feeds))
	return app
}

func TestUpdateAndReadFeed(t *testing.T) {
	require := require.New(t)
	app := newTestApp(t)

	req, err := http.NewRequest(http.MethodPost, "/v1/feeds/WETH",
		bytes.NewBufferString(`{"price":"200000000000"}`))
	require.NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(err)
	require.Equal(fiber.StatusNoContent, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, "/v1/feeds/WETH", nil)
	require.NoError(err)
	resp, err = app.Test(req)
	require.NoError(err)
	require.Equal(fiber.StatusOK, resp.StatusCode)

	var body FeedShowSchema
	require.NoError(json.NewDecoder(resp.Body).Decode(&body))
	require.Equal("WETH", body.Asset)
	require.Equal(uint64(1), body.RoundID)
	require.Equal("200000000000", body.Price.String())
}

func TestReadFeedWithoutAnswer(t *testing.T) {
	require := require.New(t)
	app := newTestApp(t)

	req, err := http.NewRequest(http.MethodGet, "/v1/feeds/WETH", nil)
	require.NoError(err)
	resp, err := app.Test(req)
	require.NoError(err)
	require.Equal(fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestUpdateFeedGuards(t *testing.T) {
	require := require.New(t)
	app := newTestApp(t)

	// unknown asset
	req, err := http.NewRequest(http.MethodPost, "/v1/feeds/DOGE",
		bytes.NewBufferString(`{"price":"1"}`))
	require.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(err)
	require.Equal(fiber.StatusNotFound, resp.StatusCode)

	// zero price
	req, err = http.NewRequest(http.MethodPost, "/v1/feeds/WETH",
		bytes.NewBufferString(`{"price":"0"}`))
	require.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(err)
	require.Equal(fiber.StatusUnprocessableEntity, resp.StatusCode)
}
