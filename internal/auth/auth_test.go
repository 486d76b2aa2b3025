package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ledger/internal/access"
)

const secret = "0123456789abcdef"

func TestIssueVerifyRoundTrip(t *testing.T) {
	tokens := NewTokens(secret, time.Hour)
	in := access.Caller{Name: "Ahmed", Role: access.RoleInvestor, InvestorID: "INV001"}

	signed, err := tokens.Issue(in)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	out, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if out != in {
		t.Fatalf("caller = %+v, want %+v", out, in)
	}
}

func TestVerifyRejects(t *testing.T) {
	tokens := NewTokens(secret, time.Hour)
	good, _ := tokens.Issue(access.Caller{Name: "a", Role: access.RoleAdmin})

	expired := NewTokens(secret, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue(access.Caller{Name: "a", Role: access.RoleAdmin})

	other, _ := NewTokens("another-secret-value", time.Hour).Issue(access.Caller{Name: "a", Role: access.RoleAdmin})

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Name: "a", Role: "Admin"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"garbage":     "not-a-token",
		"expired":     old,
		"wrong key":   other,
		"alg none":    unsigned,
		"tampered":    good[:len(good)-2] + "xx",
		"no expiry":   mustSign(t, Claims{Name: "a", Role: "Admin"}),
		"empty name":  mustSign(t, Claims{Role: "Admin", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}),
	}
	for name, token := range cases {
		if _, err := tokens.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestUnknownRoleParsesToUnknown(t *testing.T) {
	tokens := NewTokens(secret, time.Hour)
	token := mustSign(t, Claims{Name: "x", Role: "superuser", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	caller, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if caller.Role != access.RoleUnknown {
		t.Fatalf("role = %v, want unknown", caller.Role)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		err    error
	}{
		{"Bearer abc", "abc", nil},
		{"bearer  abc ", "abc", nil},
		{"", "", ErrMissingToken},
		{"Basic abc", "", ErrMissingToken},
		{"Bearer ", "", ErrMissingToken},
	}
	for _, tc := range cases {
		got, err := BearerToken(tc.header)
		if got != tc.want || !errors.Is(err, tc.err) {
			t.Errorf("BearerToken(%q) = %q, %v; want %q, %v", tc.header, got, err, tc.want, tc.err)
		}
	}
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokens(secret, time.Hour)
	var seen access.Caller
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	reject := func(w http.ResponseWriter, _ *http.Request, err error) {
		http.Error(w, err.Error(), http.StatusUnauthorized)
	}
	h := Middleware(tokens, reject)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", rec.Code)
	}

	signed, _ := tokens.Issue(access.Caller{Name: "Fatima", Role: access.RoleAssistant})
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("valid token: status = %d", rec.Code)
	}
	if seen.Name != "Fatima" || seen.Role != access.RoleAssistant {
		t.Fatalf("caller = %+v", seen)
	}
}

func mustSign(t *testing.T, c Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}
