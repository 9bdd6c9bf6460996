package sketch

import (
	"fmt"
	"strings"
)

// Level is the severity of a notice shown on the result page.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is one message rendered to the user.
type Notice struct {
	Level Level
	Text  string
}

const (
	msgEmptyDescription = "Please enter a description for your sketch."
	msgSuccess          = "✨ Sketch created successfully!"
	msgJobFailed        = "❌ Sketch generation failed"
	accountURL          = "https://magic.hour/account"
)

// InsufficientCreditsMessage is shown when the image service reports a frame shortfall.
func InsufficientCreditsMessage(costFrames int) string {
	lines := []string{
		"⚠️ Insufficient frames to generate sketch!",
		"",
		fmt.Sprintf("Each sketch generation costs %d frames.", costFrames),
		fmt.Sprintf("Please visit %s to:", accountURL),
		"1. Check your current frame balance",
		"2. Upgrade your plan to get more frames",
		"3. Contact support for assistance",
	}
	return strings.Join(lines, "\n")
}

// GenericErrorMessage echoes the failure text verbatim.
func GenericErrorMessage(err error) string {
	if err == nil {
		return "An error occurred"
	}
	return "An error occurred: " + err.Error()
}

func timeoutMessage(attempts int) string {
	return fmt.Sprintf("Sketch generation timed out after %d status checks.", attempts)
}

func downloadErrorMessage(err error) string {
	return "Could not download sketch: " + err.Error()
}

func enhancedPromptMessage(prompt string) string {
	return "Enhanced prompt: " + prompt
}

func submittedMessage(jobID string, frameCost int) string {
	return fmt.Sprintf("Sketch job %s submitted. Estimated cost: %d frames.", jobID, frameCost)
}
