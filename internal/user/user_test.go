package user

import (
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	pw := "supersecret"
	hash, err := HashPassword(pw)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if err := CheckPassword(hash, pw); err != nil {
		t.Errorf("check should succeed: %v", err)
	}
	if err := CheckPassword(hash, "wrongpw"); err == nil {
		t.Errorf("expected failure for wrong password")
	}
}

func TestHashPasswordCostClamped(t *testing.T) {
	hash, err := HashPasswordCost("pw123456", 0)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if err := CheckPassword(hash, "pw123456"); err != nil {
		t.Errorf("check should succeed with clamped cost: %v", err)
	}
}

func TestRoleRanking(t *testing.T) {
	if !RoleAdmin.AtLeast(RoleEditor) {
		t.Error("ADMIN should satisfy EDITOR")
	}
	if !RoleEditor.AtLeast(RoleEditor) {
		t.Error("EDITOR should satisfy EDITOR")
	}
	if RoleVisitor.AtLeast(RoleEditor) {
		t.Error("VISITOR should not satisfy EDITOR")
	}
	if Role("SUPERUSER").Valid() {
		t.Error("unknown role should not be valid")
	}
	for _, r := range []Role{RoleVisitor, RoleEditor, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("role %s should be valid", r)
		}
	}
}

func TestCreatePayloadValidation(t *testing.T) {
	good := CreatePayload{Username: "alice", Email: "alice@example.com", Password: "secret1"}
	if err := good.Validate(); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
	cases := []CreatePayload{
		{Username: "al", Email: "alice@example.com", Password: "secret1"},    // username too short
		{Username: "alice", Email: "not-an-email", Password: "secret1"},      // bad email
		{Username: "alice", Email: "alice@example.com", Password: "short"},   // password too short
		{Username: "alice", Email: "alice@example.com", Password: "secret1", Role: "WIZARD"},
	}
	for i, c := range cases {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
