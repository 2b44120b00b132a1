package utils

import (
	"testing"
)

func TestGenerateNumericCode(t *testing.T) {
	code, err := GenerateNumericCode(6)
	if err != nil {
		t.Fatalf("GenerateNumericCode() erreur = %v", err)
	}
	if len(code) != 6 {
		t.Errorf("longueur = %d, attendu 6", len(code))
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			t.Errorf("le code doit être numérique, obtenu %q", code)
		}
	}
}

func TestGenerateNumericCodeVarie(t *testing.T) {
	// Deux tirages consécutifs identiques sont possibles mais 20 tirages
	// identiques signaleraient un générateur cassé
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateNumericCode(6)
		if err != nil {
			t.Fatalf("GenerateNumericCode() erreur = %v", err)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("GenerateNumericCode() retourne toujours le même code")
	}
}

func TestHashCode(t *testing.T) {
	h1 := HashCode("123456")
	h2 := HashCode("123456")
	h3 := HashCode("654321")

	if h1 != h2 {
		t.Error("HashCode() doit être déterministe")
	}
	if h1 == h3 {
		t.Error("HashCode() doit différencier deux codes distincts")
	}
	if len(h1) != 64 {
		t.Errorf("HashCode() doit retourner 64 caractères hex, obtenu %d", len(h1))
	}
	if h1 == "123456" {
		t.Error("HashCode() ne doit pas retourner le code en clair")
	}
}
