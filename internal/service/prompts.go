package service

import (
	"fmt"
	"strconv"
)

const (
	// DefaultCity is used when the extraction stage yields nothing usable.
	DefaultCity = "Magok-dong"
	// FallbackResponse is used when the generation stage yields nothing usable.
	FallbackResponse = "Sorry, I couldn't generate a weather response."

	generateSystemPrompt = "You are a helpful weather assistant."

	extractMaxTokens  = 50
	generateMaxTokens = 200
	samplingTemp      = 0.7
	samplingTopP      = 0.95
)

func extractSystemPrompt(defaultCity string) string {
	return fmt.Sprintf("Extract the location (city/town/district/neighborhood) in English from the user's sentence. "+
		"If the user does not specify any location, return '%s'. "+
		"Return ONLY the location text, with no extra words, punctuation, or formatting.", defaultCity)
}

func generateUserPrompt(userInput, city, weatherDesc string, temperature float64) string {
	return fmt.Sprintf("You are a weather assistant. Based on the following information, generate a natural language response for the user.\n"+
		"User input: \"%s\"\n"+
		"City: %s\n"+
		"Weather: %s\n"+
		"Temperature: %s°C\n"+
		"Respond in a friendly and informative way. Answer in the same language as the user's input.",
		userInput, city, weatherDesc, FormatTemperature(temperature))
}

// FormatTemperature prints t in its shortest form, e.g. 22.5 or 18.
func FormatTemperature(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
