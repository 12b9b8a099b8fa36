package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecolabs/internal/service"
	"ecolabs/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

func testServer(t *testing.T) *Service {
	t.Helper()

	cfg := &types.Config{
		ServerPort:         0,
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTLMin:  60,
		RefreshTokenTTLHrs: 240,
		CookieHashKey:      base64.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
		CookieBlockKey:     base64.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)),
	}

	logger := logrus.New()
	app := service.New(nil, nil, nil, logger, cfg)

	return New(cfg, logger, app, nil)
}

func issueToken(t *testing.T, s *Service, user *types.User) string {
	t.Helper()

	token, err := s.app.SignAccessToken(user)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestRequireAuth(t *testing.T) {
	s := testServer(t)

	var gotCaller types.Caller
	handler := s.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := s.callerFromContext(r.Context())
		if err != nil {
			t.Fatalf("caller missing from context: %v", err)
		}
		gotCaller = caller
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("no token", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/properties", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}

		var body ApiResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.ErrorMessage == "" {
			t.Fatal("expected an error message")
		}
	})

	t.Run("bearer token", func(t *testing.T) {
		token := issueToken(t, s, &types.User{ID: "user-1", Role: types.RoleLandowner})

		r := httptest.NewRequest("GET", "/api/properties", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
		if gotCaller.ID != "user-1" || gotCaller.Role != types.RoleLandowner {
			t.Fatalf("unexpected caller: %+v", gotCaller)
		}
	})

	t.Run("encrypted cookie", func(t *testing.T) {
		token := issueToken(t, s, &types.User{ID: "user-2", Role: types.RoleAdmin})

		encoded, err := s.cookie.Encode(cookieAccessToken, token)
		if err != nil {
			t.Fatalf("failed to encode cookie: %v", err)
		}

		r := httptest.NewRequest("GET", "/api/properties", nil)
		r.AddCookie(&http.Cookie{Name: cookieAccessToken, Value: encoded})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
		if gotCaller.ID != "user-2" || !gotCaller.IsAdmin() {
			t.Fatalf("unexpected caller: %+v", gotCaller)
		}
	})

	t.Run("tampered cookie", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/properties", nil)
		r.AddCookie(&http.Cookie{Name: cookieAccessToken, Value: "garbage"})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestStripTrailingSlash(t *testing.T) {
	s := testServer(t)

	handler := s.StripTrailingSlash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/api/properties/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/api/properties" {
		t.Fatalf("expected trimmed location, got %q", got)
	}

	r = httptest.NewRequest("GET", "/", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("root path should pass through, got %d", w.Code)
	}
}

func TestRespondErrorMasksInternal(t *testing.T) {
	s := testServer(t)

	w := httptest.NewRecorder()
	s.respondError(w, errors.New("pq: connection refused"))

	var body ApiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.ErrorMessage != "something went wrong" {
		t.Fatalf("internal detail leaked: %q", body.ErrorMessage)
	}

	w = httptest.NewRecorder()
	s.respondError(w, types.ForbiddenError("admins only"))

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if w.Code != 403 || body.ErrorMessage != "admins only" {
		t.Fatalf("expected 403 admins only, got %d %q", w.Code, body.ErrorMessage)
	}

	// Transaction failures surface their underlying cause even at 500.
	w = httptest.NewRecorder()
	s.respondError(w, types.TransactionError(errors.New("failed to delete reports by property: timeout"), "failed to delete landowner"))

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if w.Code != 500 || body.ErrorMessage != "failed to delete reports by property: timeout" {
		t.Fatalf("expected underlying cause at 500, got %d %q", w.Code, body.ErrorMessage)
	}
}
