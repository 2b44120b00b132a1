package utils

import (
	"testing"
	"time"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken("user123", "student", "acme", "stu_1", "test-secret-key", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() erreur = %v", err)
	}
	if token == "" {
		t.Error("GenerateToken() ne doit pas retourner une chaîne vide")
	}
}

func TestValidateToken(t *testing.T) {
	secret := "test-secret-key"

	token, err := GenerateToken("user456", "partner", "acme", "ptn_9", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() erreur = %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken() erreur = %v", err)
	}
	if claims.Subject != "user456" {
		t.Errorf("Subject = %v, attendu user456", claims.Subject)
	}
	if claims.Role != "partner" {
		t.Errorf("Role = %v, attendu partner", claims.Role)
	}
	if claims.Tenant != "acme" {
		t.Errorf("Tenant = %v, attendu acme", claims.Tenant)
	}
	if claims.EntityID != "ptn_9" {
		t.Errorf("EntityID = %v, attendu ptn_9", claims.EntityID)
	}
}

func TestValidateTokenMauvaisSecret(t *testing.T) {
	token, _ := GenerateToken("u", "admin", "t", "e", "secret1", time.Hour)
	_, err := ValidateToken(token, "secret2")
	if err == nil {
		t.Error("ValidateToken() devrait échouer avec un mauvais secret")
	}
}

func TestValidateTokenExpire(t *testing.T) {
	token, _ := GenerateToken("u", "student", "t", "e", "secret", -time.Minute)
	_, err := ValidateToken(token, "secret")
	if err == nil {
		t.Error("ValidateToken() devrait échouer avec un token expiré")
	}
}

func TestValidateTokenInvalide(t *testing.T) {
	_, err := ValidateToken("invalid-token", "secret")
	if err == nil {
		t.Error("ValidateToken() devrait échouer avec un token invalide")
	}
}
