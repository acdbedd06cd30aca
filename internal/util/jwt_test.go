package util

import (
	"testing"
	"time"

	"learnmate_backend/internal/model"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Email:     "student@example.com",
		Role:      model.Student,
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "student@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != model.Student {
		t.Errorf("Role = %q", claims.Role)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}}
	token, err := GenerateJWT(user, "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "secret-b"); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}}
	token, err := GenerateJWT(user, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "secret"); err == nil {
		t.Fatal("expected error for expired token")
	}
}
