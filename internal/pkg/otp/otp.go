// Package otp generates the numeric one-time codes sent by email.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Length is the number of digits in a code.
const Length = 6

var ten = big.NewInt(10)

// Generate returns a code of Length decimal digits drawn from crypto/rand.
func Generate() (string, error) {
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}

// Format splits a code in two halves for display, e.g. "123-456".
func Format(code string) string {
	half := len(code) / 2
	return code[:half] + "-" + code[half:]
}
