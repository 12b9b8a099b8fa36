package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	passwordLower   = "abcdefghijklmnopqrstuvwxyz"
	passwordUpper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	passwordDigits  = "0123456789"
	passwordSymbols = "@#$!"
	passwordLength  = 12
)

// GeneratePassword builds a system password for accounts created on a
// user's behalf. The result always carries at least one lowercase letter,
// one uppercase letter, one digit and one symbol.
func GeneratePassword() string {

	pools := []string{passwordLower, passwordUpper, passwordDigits, passwordSymbols}
	all := passwordLower + passwordUpper + passwordDigits + passwordSymbols

	chars := make([]byte, 0, passwordLength)
	for _, pool := range pools {
		chars = append(chars, pool[randIndex(len(pool))])
	}

	for len(chars) < passwordLength {
		chars = append(chars, all[randIndex(len(all))])
	}

	for i := len(chars) - 1; i > 0; i-- {
		j := randIndex(i + 1)
		chars[i], chars[j] = chars[j], chars[i]
	}

	return string(chars)

}

// GenerateOTP builds a 6-digit one-time code for password resets.
func GenerateOTP() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = passwordDigits[randIndex(len(passwordDigits))]
	}
	return string(code)
}

func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(v.Int64())
}
