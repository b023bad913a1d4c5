package llm

// EstimateTokens approximates a token count at ~4 characters per token, rounded up.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}
