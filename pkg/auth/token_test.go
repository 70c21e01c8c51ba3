package auth

import (
	"testing"
	"time"

	"labbook/pkg/model"
)

const secret = "test-secret-key"

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(secret, "64a000000000000000000001", model.RoleLabIncharge, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	actor, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if actor.ID != "64a000000000000000000001" {
		t.Errorf("actor ID = %q", actor.ID)
	}
	if actor.Role != model.RoleLabIncharge {
		t.Errorf("actor role = %q", actor.Role)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := IssueToken(secret, "64a000000000000000000001", model.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := ParseToken("another-secret", token); err == nil {
		t.Error("token signed with a different secret must be rejected")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := IssueToken(secret, "64a000000000000000000001", model.RoleAdmin, -time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := ParseToken(secret, token); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken(secret, "not.a.token"); err == nil {
		t.Error("malformed token must be rejected")
	}
}
