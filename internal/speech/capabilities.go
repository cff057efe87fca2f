package speech

// RecognitionAvailable reports whether speech input can work: a key is set and the recorder exists.
func RecognitionAvailable(apiKey, recorder string) bool {
	return apiKey != "" && CommandAvailable(recorder)
}

// SynthesisAvailable reports whether speech output can work: a key is set and the player exists.
func SynthesisAvailable(apiKey, player string) bool {
	return apiKey != "" && CommandAvailable(player)
}
