package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"registration-service/internal/repository/memory"
	"registration-service/internal/security"
	"registration-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_RegistrationLifecycle(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewRegistrationService(store.Requests, service.NewAccountProvisioner(store.Accounts), nil, service.RegistrationOptions{})
	tm := security.NewTokenManager(testSecret)
	router := NewRouter(svc, tm, store)

	admin, err := tm.GenerateAccessToken("root", []string{security.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	submit := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/registration-request", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}
	list := func() listResponse {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/registration-request", nil)
		req.Header.Set("Authorization", "Bearer "+admin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var out listResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}
	review := func(id, status string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/registration-request/"+id, strings.NewReader(`{"status":"`+status+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+admin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, submit(url.Values{"email": {" bob@x.com "}, "fullname": {"Bob"}, "message": {"hi"}}).Code)

	reqs := list().Requests
	require.Len(t, reqs, 1)
	bob := reqs[0]
	assert.Equal(t, "bob@x.com", bob.Email)
	assert.Equal(t, "PENDING", bob.Status)
	assert.Equal(t, "hi", bob.Message)
	assert.InDelta(t, time.Now().UnixMilli(), bob.CreatedDate, float64(time.Minute.Milliseconds()))

	rec := review(bob.ID, "rejected")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "REJECTED", list().Requests[0].Status)

	rec = review(bob.ID, "accepted")
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.Equal(t, http.StatusOK, submit(url.Values{"email": {"alice@x.com"}, "fullname": {"Alice"}}).Code)
	var alice registrationRequestResponse
	for _, r := range list().Requests {
		if r.Email == "alice@x.com" {
			alice = r
		}
	}
	require.NotEmpty(t, alice.ID)
	assert.Equal(t, "", alice.Message)

	rec = review(alice.ID, "ACCEPTED")
	require.Equal(t, http.StatusOK, rec.Code)
	var accepted statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.Len(t, accepted.Password, security.PasswordLength)

	rec = submit(url.Values{"email": {"alice@x.com"}, "fullname": {"Alice"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, TypeAlreadyExistingUsername, decodeError(t, rec).Type)

	rec = review("no-such-id", "rejected")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
