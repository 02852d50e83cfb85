package port

// TokenCounter estimates or counts the number of model tokens in a text.
type TokenCounter interface {
	CountTokens(text string) int
}
