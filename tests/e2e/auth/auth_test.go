//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	reqdto "tripcore/internal/handler/dto/request"
	resdto "tripcore/internal/handler/dto/response"
	"tripcore/internal/pkg/password"
	"tripcore/tests/common/authtest"
	"tripcore/tests/common/dbtest"
	"tripcore/tests/common/httptest"
	"tripcore/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	loginURL    = "/api/auth/login"
	bookingsURL = "/api/bookings"
	tripsURL    = "/api/trips"
)

type authSuite struct {
	e2e.SharedSuite
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			email:          dbtest.DiverEmail,
			password:       dbtest.SeedPassword,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown account",
			email:          "nobody@example.com",
			password:       dbtest.SeedPassword,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password",
			email:          dbtest.DiverEmail,
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty email",
			email:          "",
			password:       dbtest.SeedPassword,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty password",
			email:          dbtest.DiverEmail,
			password:       "",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := reqdto.LoginRequest{Email: tt.email, Password: tt.password}
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, "unexpected status: %s", w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var loginRes resdto.LoginResponse
				httptest.DecodeResponseBody(t, w, &loginRes)
				require.NotEmpty(t, loginRes.AccessToken)
				require.Equal(t, dbtest.DiverAccountID, loginRes.AccountID)
				require.Equal(t, "diver", loginRes.Role)
			}
		})
	}
}

func (s *authSuite) TestMe() {
	s.Run("returns the account behind the token", func() {
		t := s.T()

		token := authtest.LoginUser(t, s.Router, dbtest.GuideEmail, dbtest.SeedPassword)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/auth/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var accountRes resdto.AccountResponse
		httptest.DecodeResponseBody(t, w, &accountRes)
		require.Equal(t, dbtest.GuideAccountID, accountRes.ID)
		require.Equal(t, dbtest.GuideEmail, accountRes.Email)
		require.Equal(t, "guide", accountRes.Role)
		require.NotContains(t, w.Body.String(), "password")
	})
}

func (s *authSuite) TestInactiveAccount() {
	s.Run("inactive account cannot log in", func() {
		t := s.T()

		email := "suspended@example.com"
		hash, err := password.Hash(dbtest.SeedPassword)
		require.NoError(t, err)

		_, err = s.DB.Exec(t.Context(),
			`INSERT INTO accounts (id, email, password_hash, role, is_active)
			 VALUES (gen_random_uuid(), $1, $2, 'diver', FALSE)
			 ON CONFLICT (email) DO UPDATE SET is_active = FALSE`,
			email, hash)
		require.NoError(t, err)

		reqBody := reqdto.LoginRequest{Email: email, Password: dbtest.SeedPassword}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
		// Indistinguishable from bad credentials on purpose.
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestAuthenticationRequired() {
	s.Run("protected endpoints reject missing and invalid tokens", func() {
		t := s.T()

		endpoints := []struct {
			method string
			path   string
		}{
			{http.MethodGet, bookingsURL},
			{http.MethodPost, bookingsURL},
			{http.MethodGet, tripsURL},
			{http.MethodPost, tripsURL},
			{http.MethodGet, "/api/ledger/00000000-0000-0000-0000-000000000000"},
		}

		for _, endpoint := range endpoints {
			w := httptest.PerformRequest(t, s.Router, endpoint.method, endpoint.path, nil, "")
			require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s without token", endpoint.method, endpoint.path)

			w = httptest.PerformRequest(t, s.Router, endpoint.method, endpoint.path, nil, "not-a-jwt")
			require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s with bad token", endpoint.method, endpoint.path)
		}
	})
}
