package auth

import "testing"

func initTestSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_ACCESS_TOKEN_SECRET", "test-access-secret")
	t.Setenv("JWT_REFRESH_TOKEN_SECRET", "test-refresh-secret")
	if err := InitJWTSecrets(); err != nil {
		t.Fatalf("init secrets: %v", err)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	initTestSecrets(t)

	tokenString, err := GenerateAccessToken(42, "alice@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	token, err := VerifyAccessToken(tokenString)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	userID, err := UserIDFromToken(token)
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	initTestSecrets(t)

	refresh, err := GenerateRefreshToken(42)
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}

	if _, err := VerifyAccessToken(refresh); err == nil {
		t.Error("refresh token verified with access secret")
	}
	if _, err := VerifyRefreshToken(refresh); err != nil {
		t.Errorf("refresh token failed its own verification: %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	initTestSecrets(t)

	if _, err := VerifyAccessToken("not.a.token"); err == nil {
		t.Error("garbage token verified")
	}
}
