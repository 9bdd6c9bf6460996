package prompt

import (
	"errors"
	"fmt"
	"strings"
)

const (
	reasonGenerate      = "generate"
	reasonEmptyResponse = "empty_response"
)

// ErrEmptyResponse is returned by generators whose response carries no text.
var ErrEmptyResponse = errors.New("prompt: empty response")

const enhanceTemplate = `Enhance this image description to make it more detailed and artistic.
Focus on visual elements, style, and artistic details. Keep it concise but descriptive.
Original prompt: %s

Enhanced prompt should include:
1. Main subject and composition
2. Artistic style and mood
3. Key visual elements and details
4. Lighting and atmosphere

Return only the enhanced prompt without any explanations or additional text.`

// BuildEnhancementPrompt embeds the raw description in the fixed instruction
// template sent to the text service.
func BuildEnhancementPrompt(description string) string {
	return fmt.Sprintf(enhanceTemplate, description)
}

func warningFor(err error) string {
	return fmt.Sprintf("Could not enhance prompt: %s. Using original prompt.", describe(err))
}

func describe(err error) string {
	if err == nil {
		return "unknown error"
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "unknown error"
	}
	return msg
}
