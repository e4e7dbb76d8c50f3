package telegram

import "crypto/hmac"

const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// VerifySecret compares the header Telegram sent with the configured secret.
// With no secret configured every delivery is accepted.
func VerifySecret(expected, provided string) bool {
	if expected == "" {
		return true
	}
	return hmac.Equal([]byte(expected), []byte(provided))
}
