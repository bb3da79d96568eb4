// Package console is the interactive terminal surface of the installer:
// colored severity output, prompts, masked secret entry and the final
// wait-for-keypress pause.
package console

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// bannerWidth is the width of the startup banner.
const bannerWidth = 45

// Banner prints the symmetrical startup banner.
func Banner(title string) {
	line := strings.Repeat("=", bannerWidth)
	padding := (bannerWidth - len(title)) / 2
	if padding < 0 {
		padding = 0
	}

	pterm.FgCyan.Println(line)
	pterm.FgCyan.Println(strings.Repeat(" ", padding) + title)
	pterm.FgCyan.Println(line)
	pterm.Println()
}

// SetTitle sets the terminal window title via the OSC 0 escape sequence.
func SetTitle(title string) {
	fmt.Printf("\033]0;%s\007", title)
}

// Info prints a neutral progress message.
func Info(message string) {
	pterm.FgBlue.Println(message)
}

// Success prints a completed-step message.
func Success(message string) {
	pterm.FgGreen.Println(message)
}

// Warn prints a notice the user should read but that does not stop the run.
func Warn(message string) {
	pterm.FgYellow.Println(message)
}

// Error prints a failure message.
func Error(message string) {
	pterm.FgRed.Println(message)
}

// Line prints a raw child-process output line without styling.
func Line(message string) {
	pterm.Println(message)
}

// ErrorLine prints a child-process error-stream line, visually distinguished.
func ErrorLine(message string) {
	pterm.FgRed.Println(message)
}

// PromptLine asks for a line of input, returning defaultValue on empty answer.
func PromptLine(prompt, defaultValue string) (string, error) {
	answer, err := pterm.DefaultInteractiveTextInput.Show(prompt)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return defaultValue, nil
	}

	return answer, nil
}

// PromptRequired asks until a non-empty line is entered.
func PromptRequired(prompt string) (string, error) {
	for {
		answer, err := PromptLine(prompt, "")
		if err != nil {
			return "", err
		}

		if answer != "" {
			return answer, nil
		}

		Warn(prompt + " is required.")
	}
}

// PromptSecret asks for a line of input while masking the echo.
func PromptSecret(prompt string) (string, error) {
	answer, err := pterm.DefaultInteractiveTextInput.
		WithMask("*").
		Show(prompt)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}

	return strings.TrimSpace(answer), nil
}

// Confirm asks a yes/no question. Only an affirmative answer returns true.
func Confirm(question string) bool {
	answer, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(question)
	if err != nil {
		return false
	}

	return answer
}

// Pause blocks until the user presses Enter. It is the last thing the
// installer does on both success and failure paths.
func Pause() {
	pterm.Println("Press Enter to exit...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}
