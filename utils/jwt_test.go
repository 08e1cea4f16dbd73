package utils

import "testing"

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("RESET_TOKEN_SECRET", "reset-secret")
}

func TestTokenRoundTrip(t *testing.T) {
	setSecrets(t)

	for _, kind := range []TokenKind{AccessToken, RefreshToken, ResetToken} {
		signed, err := GenerateToken(kind, "user-1", "admin")
		if err != nil {
			t.Fatalf("GenerateToken(%s): %v", kind, err)
		}
		userID, role, err := ParseToken(kind, signed)
		if err != nil {
			t.Fatalf("ParseToken(%s): %v", kind, err)
		}
		if userID != "user-1" || role != "admin" {
			t.Errorf("%s: got (%s, %s), want (user-1, admin)", kind, userID, role)
		}
	}
}

func TestTokenKindIsolation(t *testing.T) {
	setSecrets(t)

	refresh, err := GenerateToken(RefreshToken, "user-1", "member")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, _, err := ParseToken(AccessToken, refresh); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	setSecrets(t)
	t.Setenv("ACCESS_TOKEN_EXP_MIN", "-1")

	signed, err := GenerateToken(AccessToken, "user-1", "member")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, _, err := ParseToken(AccessToken, signed); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestMissingSecret(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	if _, err := GenerateToken(AccessToken, "user-1", "member"); err == nil {
		t.Fatal("token generated without a configured secret")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	setSecrets(t)

	signed, err := GenerateToken(AccessToken, "user-1", "member")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	tampered := signed[:len(signed)-2] + "xx"
	if _, _, err := ParseToken(AccessToken, tampered); err == nil {
		t.Fatal("tampered token accepted")
	}
}
