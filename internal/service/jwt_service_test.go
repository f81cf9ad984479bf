package service

import (
	"errors"
	"testing"
	"time"

	"buildshare/internal/domain"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	user := domain.User{ID: "11111111-aaaa-4bbb-8ccc-000000000001", Name: "Ana Dev", UserType: domain.UserTypeDeveloper}

	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != user.ID || claims.Name != user.Name || claims.UserType != user.UserType {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Issuer != "buildshare" || claims.Subject != user.ID {
		t.Fatalf("unexpected registered claims %+v", claims.RegisteredClaims)
	}
}

func TestJWT_ExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Nanosecond)
	token, err := svc.GenerateAccessToken(domain.User{ID: "u1"})
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := svc.ParseAccessToken(token); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("expected ErrJWTExpired, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"  Bearer   abc  ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := BearerToken(tc.header); got != tc.want {
			t.Fatalf("header %q: expected %q, got %q", tc.header, tc.want, got)
		}
	}
}

func TestJWT_WrongSecretAndGarbage(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, err := issuer.GenerateAccessToken(domain.User{ID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.ParseAccessToken(token); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for wrong secret, got %v", err)
	}
	if _, err := issuer.ParseAccessToken("ni.siquiera.jwt"); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for garbage, got %v", err)
	}
	if _, err := issuer.ParseAccessToken(""); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for empty token, got %v", err)
	}
}
