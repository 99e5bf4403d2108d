package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/folio-be/internal/auth"
	"github.com/isdelr/folio-be/internal/models"
	"github.com/isdelr/folio-be/internal/services"
)

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("project 3: %w", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("email: %w", services.ErrConflict), http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{models.ErrEndBeforeStart, http.StatusBadRequest},
		{fmt.Errorf("insert project: %w", services.ErrOwnerMissing), http.StatusForbidden},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeServiceError(rec, tc.err, "Project")
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
	}

	rec := httptest.NewRecorder()
	writeServiceError(rec, errors.New("pq: secret table name"), "Project")
	assert.NotContains(t, rec.Body.String(), "secret table name")
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	err := validate(&models.Skill{Name: "", Level: 9})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name is required", verr.Fields["name"])
	assert.Equal(t, "level must be at most 5", verr.Fields["level"])

	end := "01/02/2020"
	err = validate(&models.Experience{Company: "A", Role: "B", StartDate: "2020-01-01", EndDate: &end})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "endDate")

	assert.NoError(t, validate(&models.Skill{Name: "Go", Level: 3}))
}

func TestValidate_PasswordBytes(t *testing.T) {
	err := validate(&RegisterPayload{Name: "A", Email: "a@example.com", Password: strings.Repeat("é", 40)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password must be at most 72 bytes", verr.Fields["password"])

	assert.NoError(t, validate(&RegisterPayload{Name: "A", Email: "a@example.com", Password: strings.Repeat("é", 36)}))
	assert.NoError(t, validate(&LoginPayload{Email: "a@example.com", Password: strings.Repeat("a", 72)}))
	assert.Error(t, validate(&ChangePasswordPayload{CurrentPassword: "x", NewPassword: strings.Repeat("a", 73)}))
}

func TestDecode_RejectsBadBodies(t *testing.T) {
	var p models.Project

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	assert.False(t, decode(rec, req, &p))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"","repoUrl":"nope"}`))
	assert.False(t, decode(rec, req, &p))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"repoUrl"`)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://folio.example.com"})

	req := httptest.NewRequest(http.MethodGet, "http://api.example.com/api/ws", nil)
	assert.True(t, check(req), "no Origin header")

	req.Header.Set("Origin", "https://FOLIO.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	req.Header.Set("Origin", "http://api.example.com")
	assert.True(t, check(req), "same host")

	req.Header.Set("Origin", "https://evil.example.com")
	assert.True(t, originChecker([]string{"*"})(req))
}

type stubEvents struct {
	services.EventServiceProvider
	gotUser  int64
	gotLimit int
}

func (s *stubEvents) GetRecentEvents(_ context.Context, userID int64, limit int) ([]models.Event, error) {
	s.gotUser, s.gotLimit = userID, limit
	return []models.Event{}, nil
}

func TestEventHandler_Limit(t *testing.T) {
	cases := map[string]int{
		"":           defaultEventLimit,
		"?limit=abc": defaultEventLimit,
		"?limit=-3":  defaultEventLimit,
		"?limit=7":   7,
		"?limit=500": maxEventLimit,
	}
	for query, want := range cases {
		svc := &stubEvents{}
		h := NewEventHandler(svc)
		req := httptest.NewRequest(http.MethodGet, "/api/events"+query, nil)
		req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{ID: 9}))
		rec := httptest.NewRecorder()

		h.GetRecent(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(9), svc.gotUser)
		assert.Equal(t, want, svc.gotLimit, query)
	}
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("connection refused") }

func TestHealthHandler_DatabaseDown(t *testing.T) {
	h := NewHealthHandler(failingPinger{}, nil)
	rec := httptest.NewRecorder()

	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"unreachable"`)
	assert.NotContains(t, rec.Body.String(), `"host"`)
}

type stubIssuer struct{ err error }

func (s stubIssuer) Issue(models.User) (string, error) { return "tok", s.err }

type stubUsers struct {
	services.UserServiceProvider
	authErr error
}

func (s stubUsers) AuthenticateUser(context.Context, string, string) (models.User, error) {
	if s.authErr != nil {
		return models.User{}, s.authErr
	}
	return models.User{ID: 1, Email: "a@example.com", PasswordHash: "hash", CreatedAt: time.Now()}, nil
}

func TestAuthHandler_Login(t *testing.T) {
	body := `{"email":"a@example.com","password":"pw"}`
	login := func(h *AuthHandler) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))
		return rec
	}

	rec := login(NewAuthHandler(stubUsers{}, stubIssuer{}, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"tok"`)
	assert.NotContains(t, rec.Body.String(), "hash")

	rec = login(NewAuthHandler(stubUsers{authErr: services.ErrInvalidCredentials}, stubIssuer{}, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = login(NewAuthHandler(stubUsers{}, stubIssuer{err: errors.New("sign")}, nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthHandler_LogoutWithoutRevoker(t *testing.T) {
	h := NewAuthHandler(stubUsers{}, stubIssuer{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{ID: 1}))
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
