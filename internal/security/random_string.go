package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var (
	errNegativeLength = errors.New("random string length must not be negative")
	errEmptyAlphabet  = errors.New("random string alphabet must not be empty")
)

// RandomString draws length characters uniformly from alphabet using the
// operating system's entropy source. Each position is sampled independently
// with rand.Int, so no character is favored by modulo bias.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", errNegativeLength
	case length == 0:
		return "", nil
	case alphabet == "":
		return "", errEmptyAlphabet
	}

	out := make([]byte, length)
	size := big.NewInt(int64(len(alphabet)))
	for position := range out {
		drawn, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		out[position] = alphabet[drawn.Int64()]
	}
	return string(out), nil
}
