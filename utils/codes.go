package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

// GenerateNumericCode génère un code numérique aléatoire de n chiffres
// avec crypto/rand. rand.Int garantit un tirage uniforme de chaque
// chiffre (un modulo sur un octet favoriserait les chiffres 0 à 5).
func GenerateNumericCode(n int) (string, error) {
	ten := big.NewInt(10)

	buffer := make([]byte, n)
	for i := range buffer {
		digit, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buffer[i] = byte('0' + digit.Int64())
	}

	return string(buffer), nil
}

// HashCode retourne le SHA-256 hex d'un code de validation.
// Le hash est déterministe pour permettre la recherche par égalité au moment
// de la remise ; le code en clair n'est jamais stocké.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
