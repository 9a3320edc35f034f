package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"staybook/internal/models"
)

// DigitCodeGenerator produces fixed-length decimal codes, each digit drawn
// independently and uniformly. Codes are not globally unique; the store
// tolerates collisions by returning every match on lookup.
type DigitCodeGenerator struct {
	length int
}

func NewCodeGenerator() *DigitCodeGenerator {
	return &DigitCodeGenerator{length: models.CodeLength}
}

var ten = big.NewInt(10)

func (g *DigitCodeGenerator) Generate() (string, error) {
	buf := make([]byte, g.length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}
