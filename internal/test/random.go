package test

import "math/rand/v2"

const loginAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomString returns n characters drawn from alphabet.
func RandomString(alphabet string, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphabet[rand.N(len(alphabet))]
	}
	return string(buf)
}

// RandomLogin returns a lowercase staff login of 6 to 12 characters.
func RandomLogin() string {
	return RandomString(loginAlphabet, 6+rand.N(7))
}
