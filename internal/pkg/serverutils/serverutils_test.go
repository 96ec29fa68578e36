package serverutils

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"disclosure-engine-be/pkg/disclosure"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{disclosure.ErrSessionNotFound, 404},
		{fmt.Errorf("step: %w", disclosure.ErrStaleAnswer), 409},
		{disclosure.ErrSessionComplete, 409},
		{fmt.Errorf("report: %w", disclosure.ErrSynthesisFailed), 502},
		{disclosure.ErrUnsupportedMedia, 415},
		{disclosure.ErrProductNotEligible, 403},
		{fiber.NewError(fiber.StatusBadRequest, "bad"), 400},
		{fmt.Errorf("boom"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestErrorHandlerMiddlewareEnvelope(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/stale", func(c *fiber.Ctx) error { return disclosure.ErrStaleAnswer })
	app.Get("/boom", func(c *fiber.Ctx) error { return fmt.Errorf("db password leaked") })

	resp, err := app.Test(httptest.NewRequest("GET", "/stale", nil))
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
	var body BaseResponse[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, disclosure.ErrStaleAnswer.Error(), body.Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	body = BaseResponse[any]{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body.Message)
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Name string `validate:"required,max=5"`
	}

	assert.NoError(t, ValidateRequest(req{Name: "ok"}))

	err := ValidateRequest(req{})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 400, fe.Code)
	assert.Contains(t, fe.Message, "Name is required")

	err = ValidateRequest(req{Name: "toolong"})
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "at most 5")
}

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestJwtMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	userID := uuid.New()

	app := fiber.New()
	app.Get("/me", JwtMiddleware, func(c *fiber.Ctx) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})

	send := func(header string) int {
		req := httptest.NewRequest("GET", "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, 200, send("Bearer "+signedToken(t, "test-secret", jwt.MapClaims{"user_id": userID.String()})))
	assert.Equal(t, 401, send(""))
	assert.Equal(t, 401, send("Bearer "+signedToken(t, "other-secret", jwt.MapClaims{"user_id": userID.String()})))
	assert.Equal(t, 401, send("Bearer "+signedToken(t, "test-secret", jwt.MapClaims{"user_id": "not-a-uuid"})))
}
