package textsplit

// EstimateTokens gives a rough token count using the ~4 chars/token
// heuristic for English text. Sizing decisions don't need exact
// tokenization, only a consistent approximation.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	tokens := len(text) / 4
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
