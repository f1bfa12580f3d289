//go:build e2e

package authtest

import (
	"net/http"
	"testing"

	reqdto "tripcore/internal/handler/dto/request"
	resdto "tripcore/internal/handler/dto/response"
	"tripcore/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// LoginUser authenticates against the running router and returns the access
// token for use in Authorization headers.
func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	body := reqdto.LoginRequest{Email: email, Password: password}
	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login", body, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed for %s: %s", email, w.Body.String())

	var response resdto.LoginResponse
	httptest.DecodeResponseBody(t, w, &response)
	require.NotEmpty(t, response.AccessToken)
	return response.AccessToken
}
