package services

import (
	"errors"
	"testing"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/mocks"
)

func authenticatedAlice() *domain.UserIdentity {
	return &domain.UserIdentity{
		UserID:   1,
		LoginID:  "alice",
		UserName: "Alice",
		Email:    "a@x.com",
		UserType: 1,
	}
}

func TestTokenServiceImpl_Issue(t *testing.T) {
	codec := mocks.NewMockTokenCodec()
	var signedClaims *domain.TokenClaims
	codec.SignAccessFunc = func(claims *domain.TokenClaims) (string, error) {
		signedClaims = claims
		return "signed-access", nil
	}
	codec.SignRefreshFunc = func(claims *domain.TokenClaims) (string, error) {
		return "signed-refresh", nil
	}

	svc := NewTokenService(codec)
	issued, pair, err := svc.Issue(authenticatedAlice())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if pair.TokenType != "bearer" {
		t.Errorf("token_type = %q, want %q", pair.TokenType, "bearer")
	}
	if pair.AccessToken != "signed-access" || pair.RefreshToken != "signed-refresh" {
		t.Errorf("pair = %+v, want signed tokens", pair)
	}

	if issued.AccessToken != "signed-access" || issued.RefreshToken != "signed-refresh" {
		t.Errorf("issued identity tokens = %q/%q", issued.AccessToken, issued.RefreshToken)
	}
	if issued.TokenType != "bearer" {
		t.Errorf("issued token_type = %q, want %q", issued.TokenType, "bearer")
	}

	if signedClaims.UserID != 1 || signedClaims.LoginID != "alice" ||
		signedClaims.UserName != "Alice" || signedClaims.UserType != 1 {
		t.Errorf("claims = %+v, want identity fields", signedClaims)
	}
}

func TestTokenServiceImpl_IssueDoesNotMutateInput(t *testing.T) {
	svc := NewTokenService(mocks.NewMockTokenCodec())

	user := authenticatedAlice()
	issued, _, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Issuance produces a derived copy, never a mutation of the stored
	// record.
	if user.AccessToken != "" || user.RefreshToken != "" || user.TokenType != "" {
		t.Errorf("input identity was mutated: %+v", user)
	}
	if issued == user {
		t.Error("issued identity must be a distinct value")
	}
}

func TestTokenServiceImpl_IssueSignFailure(t *testing.T) {
	codec := mocks.NewMockTokenCodec()
	codec.SignAccessFunc = func(claims *domain.TokenClaims) (string, error) {
		return "", errors.New("sign failed")
	}

	svc := NewTokenService(codec)
	issued, pair, err := svc.Issue(authenticatedAlice())
	if err == nil {
		t.Fatal("Issue() error = nil, want sign failure")
	}
	if issued != nil || pair != nil {
		t.Error("results must be nil on failure")
	}
}
