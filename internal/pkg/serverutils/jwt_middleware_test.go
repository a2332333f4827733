package serverutils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware(secret))
	app.Post("/event", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"gateway_id": "gw-1"}).
		SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestGatewayAuthAcceptsSignedToken(t *testing.T) {
	app := newAuthTestApp("topsecret")

	req := httptest.NewRequest("POST", "/event", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "topsecret"))

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestGatewayAuthRejectsWrongSecret(t *testing.T) {
	app := newAuthTestApp("topsecret")

	req := httptest.NewRequest("POST", "/event", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "other"))

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestGatewayAuthRejectsMissingToken(t *testing.T) {
	app := newAuthTestApp("topsecret")

	res, err := app.Test(httptest.NewRequest("POST", "/event", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestGatewayAuthFailsClosedWithoutSecret(t *testing.T) {
	// An unset secret must not degrade to accepting tokens signed with "".
	app := newAuthTestApp("")

	req := httptest.NewRequest("POST", "/event", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, ""))

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}
