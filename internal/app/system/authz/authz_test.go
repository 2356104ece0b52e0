package authz

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/planhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	role, email, uid, ok := UserCtx(req)
	if ok {
		t.Fatal("expected ok=false for unauthenticated request")
	}
	if role != "visitor" {
		t.Errorf("role: got %q, want %q", role, "visitor")
	}
	if email != "" {
		t.Errorf("email: got %q, want empty", email)
	}
	if uid != primitive.NilObjectID {
		t.Error("expected NilObjectID")
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "not-a-hex-id", Role: "admin"})

	if _, _, _, ok := UserCtx(req); ok {
		t.Error("expected ok=false for malformed user ID (fail closed)")
	}
}

func TestUserCtx_Valid(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID: id.Hex(), Email: "a@b.com", Role: "Admin",
	})

	role, email, uid, ok := UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "admin" {
		t.Errorf("role: got %q, want lowercased %q", role, "admin")
	}
	if email != "a@b.com" {
		t.Errorf("email: got %q, want %q", email, "a@b.com")
	}
	if uid != id {
		t.Errorf("uid: got %v, want %v", uid, id)
	}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"user", false},
		{"admin", true},
		{"superadmin", true},
		{"visitor", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req = auth.WithTestUser(req, &auth.SessionUser{
				ID: primitive.NewObjectID().Hex(), Role: tt.role,
			})
			if got := IsAdmin(req); got != tt.want {
				t.Errorf("IsAdmin(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestIsSuperAdmin(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID: primitive.NewObjectID().Hex(), Role: "admin",
	})
	if IsSuperAdmin(req) {
		t.Error("admin must not be superadmin")
	}
}

func TestAllowList(t *testing.T) {
	al := NewAllowList("Boot@Example.com", "  ops@example.com ", "")

	if !al.Contains("boot@example.com") {
		t.Error("expected normalized boot@example.com to be allow-listed")
	}
	if !al.Contains("OPS@EXAMPLE.COM") {
		t.Error("Contains should normalize its argument")
	}
	if al.Contains("other@example.com") {
		t.Error("unexpected member")
	}
	if al.Contains("") {
		t.Error("blank email must never match")
	}
}

func TestParseAllowList(t *testing.T) {
	al := ParseAllowList("a@x.com, b@x.com ,")
	if !al.Contains("a@x.com") || !al.Contains("b@x.com") {
		t.Error("expected both entries parsed")
	}
	if len(al) != 2 {
		t.Errorf("len: got %d, want 2", len(al))
	}
}

func TestAllowList_Nil(t *testing.T) {
	var al AllowList
	if al.Contains("a@x.com") {
		t.Error("nil allow-list must contain nothing")
	}
}
