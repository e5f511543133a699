package lib

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var errorLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Render("Error:")

// PrintError writes err to w behind a red "Error:" label.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, errorLabel, err)
}

// Exit prints the error and exits the program with code 1
func Exit(err error) {
	PrintError(os.Stderr, err)
	os.Exit(1)
}
