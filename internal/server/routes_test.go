package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// Each protected route must be registered: an unauthenticated request
// reaches the auth middleware and gets a 401 instead of the router's
// 404 or 405.
func TestProtectedRoutesRegistered(t *testing.T) {
	s := testServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/landowners/lo1"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/bids/b1"},
		{http.MethodGet, "/api/universities/uni1"},
		{http.MethodGet, "/api/universities/uni1/researchers"},
		{http.MethodGet, "/api/properties/p1/bid-status"},
		{http.MethodPatch, "/api/properties/p1/transfer"},
	}

	for _, route := range routes {
		r := httptest.NewRequest(route.method, route.path, nil)
		w := httptest.NewRecorder()
		s.server.Handler.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, w.Code)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	w := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown path should 404, got %d", w.Code)
	}
}
