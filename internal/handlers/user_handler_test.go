package handlers_test

import (
	"Testify/internal/model"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func hasAuthCookie(rr *httptest.ResponseRecorder) bool {
	for _, c := range rr.Result().Cookies() {
		if c.Name == "auth_token" && c.Value != "" {
			return true
		}
	}
	return false
}

// --- Tests ---
func TestUser_Register(t *testing.T) {
	m := new(mockUserRepo)
	router := newMockRouter(t, m)

	t.Run("ok", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByLogin", mock.Anything, "john").Return((*model.User)(nil), nil).Once()
		created := &model.User{ID: 42, Login: "john"}
		m.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.Login == "john" && u.Password != "" })).Return(created, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(`{"login":"john","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, hasAuthCookie(rr), "Set-Cookie auth_token expected")
		m.AssertExpectations(t)
	})

	t.Run("conflict", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByLogin", mock.Anything, "john").Return(&model.User{ID: 1, Login: "john"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(`{"login":"john","password":"p"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.JSONEq(t, `{"error":"login already taken"}`, rr.Body.String())
		m.AssertExpectations(t)
	})

	t.Run("empty fields", func(t *testing.T) {
		m.ExpectedCalls = nil
		req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(`{"login":"","password":""}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("broken json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/user/register", strings.NewReader(`{`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUser_Login(t *testing.T) {
	m := new(mockUserRepo)
	router := newMockRouter(t, m)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)

	t.Run("ok", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByLogin", mock.Anything, "alice").Return(&model.User{ID: 2, Login: "alice", Password: string(hash)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(`{"login":"alice","password":"secret"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, hasAuthCookie(rr))
		m.AssertExpectations(t)
	})

	t.Run("unauthorized", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetUserByLogin", mock.Anything, "alice").Return(&model.User{ID: 2, Login: "alice", Password: string(hash)}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(`{"login":"alice","password":"bad"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		m.AssertExpectations(t)
	})
}

func TestUser_Status(t *testing.T) {
	m := new(mockUserRepo)
	router := newMockRouter(t, m)

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			Result string `json:"result"`
		}
		_ = json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&body)
		assert.Equal(t, "anonymous", body.Result)
	})

	t.Run("authorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		addAuthCookie(t, req, 77, "test-secret")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		var body struct {
			Result string `json:"result"`
		}
		_ = json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&body)
		assert.Contains(t, body.Result, "User ID = 77")
	})
}

func TestUser_LogoutAndDelete(t *testing.T) {
	m := new(mockUserRepo)
	router := newMockRouter(t, m)

	t.Run("logout clears cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/user/logout", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.False(t, hasAuthCookie(rr))
	})

	t.Run("delete requires auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/user", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("delete ok", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("DeleteUser", mock.Anything, int64(5)).Return(int64(1), nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/user", nil)
		addAuthCookie(t, req, 5, "test-secret")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		m.AssertExpectations(t)
	})
}
