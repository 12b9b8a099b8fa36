package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var runes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func NanoID() string {
	return gonanoid.MustGenerate(runes, 32)
}
