package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerAlice(t *testing.T, f *fixture) map[string]any {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
		"name":     "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode(t, rec)
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "refreshToken" {
			return cookie
		}
	}
	t.Fatal("refreshToken cookie not set")
	return nil
}

func TestRegisterLoginRefreshLogoutFlow(t *testing.T) {
	f := newFixture(t)

	// Register -> 201 with access token A1 and refresh token R1.
	body := registerAlice(t, f)
	accessA1, _ := body["accessToken"].(string)
	refreshR1, _ := body["refreshToken"].(string)
	require.NotEmpty(t, accessA1)
	require.NotEmpty(t, refreshR1)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "Alice", user["name"])
	assert.NotContains(t, user, "passwordHash")
	assert.EqualValues(t, 900, body["expiresIn"])

	// /auth/me with A1.
	rec := f.do(t, http.MethodGet, "/auth/me", nil, withBearer(accessA1))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", decode(t, rec)["email"])

	// Refresh with R1 yields a new access token A2 != A1.
	*f.now = f.now.Add(time.Minute)
	rec = f.do(t, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": refreshR1})
	require.Equal(t, http.StatusOK, rec.Code)
	refreshedBody := decode(t, rec)
	accessA2, _ := refreshedBody["accessToken"].(string)
	require.NotEmpty(t, accessA2)
	assert.NotEqual(t, accessA1, accessA2)
	assert.NotContains(t, refreshedBody, "refreshToken", "refresh must not rotate the refresh token")

	// Logout with R1.
	rec = f.do(t, http.MethodPost, "/auth/logout", map[string]string{"refreshToken": refreshR1})
	require.Equal(t, http.StatusOK, rec.Code)

	// R1 is now revoked.
	rec = f.do(t, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": refreshR1})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired refresh token", decode(t, rec)["error"])
}

func TestRegisterSetsRefreshCookie(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
		"name":     "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	cookie := refreshCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
	assert.False(t, cookie.Secure, "secure flag is off outside production")
}

func TestRegisterValidationErrors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    "not-an-email",
		"password": "short",
		"name":     "",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fields := decode(t, rec)["error"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "name")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	registerAlice(t, f)

	rec := f.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "different9",
		"name":     "Alice Again",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode(t, rec)["error"].(map[string]any)
	assert.Contains(t, fields, "email")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	registerAlice(t, f)

	wrongPassword := f.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	unknownEmail := f.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "secret123",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, decode(t, wrongPassword)["error"], decode(t, unknownEmail)["error"])
}

func TestRefreshTokenSourcePriority(t *testing.T) {
	f := newFixture(t)
	body := registerAlice(t, f)
	valid := body["refreshToken"].(string)

	t.Run("cookie", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/refresh", nil, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "refreshToken", Value: valid})
		})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("header", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/refresh", nil, func(r *http.Request) {
			r.Header.Set("X-Refresh-Token", valid)
		})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("cookie wins over body", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": "garbage"},
			func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "refreshToken", Value: valid})
			})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("absent everywhere", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/auth/refresh", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Refresh token required", decode(t, rec)["error"])
	})
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	f := newFixture(t)

	for name, mutate := range map[string]func(*http.Request){
		"no token":      func(r *http.Request) {},
		"garbage token": func(r *http.Request) { r.Header.Set("X-Refresh-Token", "garbage") },
	} {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/auth/logout", nil, mutate)
			require.Equal(t, http.StatusOK, rec.Code)

			cookie := refreshCookie(t, rec)
			assert.Empty(t, cookie.Value)
			assert.Negative(t, cookie.MaxAge, "cookie must be cleared")
		})
	}
}
