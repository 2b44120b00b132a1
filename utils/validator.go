package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var digitsOnlyRegex = regexp.MustCompile(`[^0-9]`)

// ValidationError représente une erreur de validation
type ValidationError struct {
	Field   string
	Message string
}

// Error implémente l'interface error
func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidateEmail valide un email
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "l'email est requis"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "format d'email invalide"}
	}
	return nil
}

// ValidatePassword valide un mot de passe
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "le mot de passe est requis"}
	}
	if len(password) < 6 {
		return ValidationError{Field: "password", Message: "le mot de passe doit contenir au moins 6 caractères"}
	}
	return nil
}

// ValidateRequired valide qu'un champ n'est pas vide
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: fmt.Sprintf("le champ %s est requis", field)}
	}
	return nil
}

// NormalizeDocument retire la ponctuation usuelle d'un CPF/CNPJ (points,
// tirets, barres, espaces) et ne garde que les chiffres
func NormalizeDocument(doc string) string {
	return digitsOnlyRegex.ReplaceAllString(doc, "")
}

// ValidateCPF valide un CPF brésilien (11 chiffres + 2 chiffres de contrôle mod 11)
func ValidateCPF(cpf string) error {
	cpf = NormalizeDocument(cpf)
	if len(cpf) != 11 {
		return ValidationError{Field: "cpf", Message: "le CPF doit contenir 11 chiffres"}
	}
	if allSameDigits(cpf) {
		return ValidationError{Field: "cpf", Message: "CPF invalide"}
	}
	if digit(cpf, 9) != cpfCheckDigit(cpf, 9) || digit(cpf, 10) != cpfCheckDigit(cpf, 10) {
		return ValidationError{Field: "cpf", Message: "chiffres de contrôle du CPF invalides"}
	}
	return nil
}

// ValidateCNPJ valide un CNPJ brésilien (14 chiffres + 2 chiffres de contrôle mod 11)
func ValidateCNPJ(cnpj string) error {
	cnpj = NormalizeDocument(cnpj)
	if len(cnpj) != 14 {
		return ValidationError{Field: "cnpj", Message: "le CNPJ doit contenir 14 chiffres"}
	}
	if allSameDigits(cnpj) {
		return ValidationError{Field: "cnpj", Message: "CNPJ invalide"}
	}
	if digit(cnpj, 12) != cnpjCheckDigit(cnpj, 12) || digit(cnpj, 13) != cnpjCheckDigit(cnpj, 13) {
		return ValidationError{Field: "cnpj", Message: "chiffres de contrôle du CNPJ invalides"}
	}
	return nil
}

func digit(s string, i int) int {
	return int(s[i] - '0')
}

func allSameDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// cpfCheckDigit calcule le chiffre de contrôle à la position pos (9 ou 10)
func cpfCheckDigit(cpf string, pos int) int {
	sum := 0
	for i := 0; i < pos; i++ {
		sum += digit(cpf, i) * (pos + 1 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		rest = 0
	}
	return rest
}

// cnpjCheckDigit calcule le chiffre de contrôle à la position pos (12 ou 13)
func cnpjCheckDigit(cnpj string, pos int) int {
	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	offset := len(weights) - pos
	sum := 0
	for i := 0; i < pos; i++ {
		sum += digit(cnpj, i) * weights[i+offset]
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}
