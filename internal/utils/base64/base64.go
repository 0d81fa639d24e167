package base64

import (
	"encoding/base64"
	"strings"
)

// EncodeToBase64 returns the standard-alphabet encoding of input.
func EncodeToBase64(input string) string {
	return base64.StdEncoding.EncodeToString([]byte(input))
}

// DecodeFromBase64 decodes values that usually arrive through env vars, so it
// tolerates surrounding whitespace and the URL-safe alphabet.
func DecodeFromBase64(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	data, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		data, err = base64.URLEncoding.DecodeString(trimmed)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
