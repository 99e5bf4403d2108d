package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User", id.Email)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header  string
		want    string
		wantErr bool
	}{
		"absent":       {header: "", wantErr: true},
		"bearer":       {header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		"lowercase":    {header: "bearer abc", want: "abc"},
		"extra spaces": {header: "Bearer   abc  ", want: "abc"},
		"empty token":  {header: "Bearer ", wantErr: true},
		"no scheme":    {header: "abc.def.ghi", wantErr: true},
		"basic":        {header: "Basic dXNlcjpwYXNz", wantErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			got, err := BearerToken(r)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMissingCredential)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQueryOrBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws?token=qqq", nil)
	got, err := QueryOrBearerToken(r)
	require.NoError(t, err)
	assert.Equal(t, "qqq", got)

	r.Header.Set("Authorization", "Bearer hhh")
	got, err = QueryOrBearerToken(r)
	require.NoError(t, err)
	assert.Equal(t, "hhh", got)

	_, err = QueryOrBearerToken(httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestAuthenticate(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	issuer, verifier := newPair(t, clock)
	valid, err := issuer.Issue(testUser)
	require.NoError(t, err)

	foreign, err := NewIssuer(otherSecret)
	require.NoError(t, err)
	forged, err := foreign.Issue(testUser)
	require.NoError(t, err)

	h := Authenticate(verifier)(identityEcho(t))

	cases := map[string]struct {
		header string
		status int
	}{
		"missing header": {header: "", status: http.StatusUnauthorized},
		"wrong scheme":   {header: "Token " + valid, status: http.StatusUnauthorized},
		"valid":          {header: "Bearer " + valid, status: http.StatusNoContent},
		"forged":         {header: "Bearer " + forged, status: http.StatusForbidden},
		"garbage":        {header: "Bearer nope", status: http.StatusForbidden},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, r)
			assert.Equal(t, tc.status, rr.Code)
			if tc.status == http.StatusNoContent {
				assert.Equal(t, testUser.Email, rr.Header().Get("X-User"))
			}
		})
	}
}

func TestAuthenticate_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	issuer, verifier := newPair(t, clock)
	tok, err := issuer.Issue(testUser)
	require.NoError(t, err)

	clock.t = clock.t.Add(TokenTTL + time.Minute)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	Authenticate(verifier)(identityEcho(t)).ServeHTTP(rr, r)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusFor(ErrMissingCredential))
	assert.Equal(t, http.StatusForbidden, StatusFor(ErrInvalidCredential))
	assert.Equal(t, http.StatusForbidden, StatusFor(ErrForbidden))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(assert.AnError))
}
