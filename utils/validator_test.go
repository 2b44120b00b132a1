package utils

import (
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"email valide", "user@example.com", false},
		{"email valide avec sous-domaine", "user@mail.example.com", false},
		{"email vide", "", true},
		{"email sans @", "userexample.com", true},
		{"email sans domaine", "user@", true},
		{"email format invalide", "invalid", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name    string
		cpf     string
		wantErr bool
	}{
		{"CPF valide", "52998224725", false},
		{"CPF valide formaté", "529.982.247-25", false},
		{"CPF vide", "", true},
		{"CPF trop court", "5299822472", true},
		{"CPF chiffres identiques", "11111111111", true},
		{"CPF mauvais chiffre de contrôle", "52998224726", true},
		{"CPF avec lettres", "5299822472a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCPF(tt.cpf)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCPF(%q) error = %v, wantErr %v", tt.cpf, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCNPJ(t *testing.T) {
	tests := []struct {
		name    string
		cnpj    string
		wantErr bool
	}{
		{"CNPJ valide", "11222333000181", false},
		{"CNPJ valide formaté", "11.222.333/0001-81", false},
		{"CNPJ vide", "", true},
		{"CNPJ trop court", "1122233300018", true},
		{"CNPJ chiffres identiques", "11111111111111", true},
		{"CNPJ mauvais chiffre de contrôle", "11222333000182", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCNPJ(tt.cnpj)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCNPJ(%q) error = %v, wantErr %v", tt.cnpj, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeDocument(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"529.982.247-25", "52998224725"},
		{"11.222.333/0001-81", "11222333000181"},
		{" 123 ", "123"},
		{"abc", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDocument(tt.in); got != tt.want {
			t.Errorf("NormalizeDocument(%q) = %q, attendu %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr bool
	}{
		{"champ rempli", "name", "John", false},
		{"champ vide", "name", "", true},
		{"champ espaces uniquement", "name", "   ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.field, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
