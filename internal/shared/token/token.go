package token

import (
	"crypto/rand"
	"math/big"
)

const (
	Upper        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lower        = "abcdefghijklmnopqrstuvwxyz"
	Digits       = "0123456789"
	Symbols      = "!@#$%"
	InviteCode   = Upper + Digits
	TempPassword = Upper + Lower + Digits + Symbols
)

var reader = rand.Reader

// Generate returns n characters drawn uniformly from alphabet.
func Generate(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
