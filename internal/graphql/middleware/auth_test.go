package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookshelf/internal/auth"
)

func identityProbe(t *testing.T, got *auth.Identity, found *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		*got = id
		*found = ok
	})
}

func TestAuthAttachesIdentity(t *testing.T) {
	const secret = "test-secret"
	token, err := auth.SignToken(secret, time.Hour, "user-123", "alice", "a@x.com")
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	var got auth.Identity
	var found bool
	h := Auth(secret)(identityProbe(t, &got, &found))

	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !found {
		t.Fatal("expected identity on context")
	}
	if got.ID != "user-123" || got.Username != "alice" {
		t.Fatalf("identity = %+v, want user-123/alice", got)
	}
}

func TestAuthAnonymousPassthrough(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not.a.token"},
		{name: "wrong secret", header: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			header := tc.header
			if tc.name == "wrong secret" {
				token, err := auth.SignToken("other-secret", time.Hour, "user-123", "alice", "a@x.com")
				if err != nil {
					t.Fatalf("SignToken: %v", err)
				}
				header = "Bearer " + token
			}

			var got auth.Identity
			var found bool
			h := Auth("test-secret")(identityProbe(t, &got, &found))

			req := httptest.NewRequest(http.MethodPost, "/query", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if found {
				t.Fatalf("expected anonymous context, got identity %+v", got)
			}
		})
	}
}
