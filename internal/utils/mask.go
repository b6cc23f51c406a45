package utils

// MaskAPIKey masks an API key for display, keeping only the first and last
// four characters. Keys of eight characters or fewer are fully masked.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
