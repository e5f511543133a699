package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/ktr0731/go-fuzzyfinder"

	"savedfile/cmd/savedfile/store"
)

// confirmPrompt asks a yes/no question on the terminal. Yes is preselected.
func confirmPrompt(title string) (bool, error) {
	answer := true
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer).
		Run()
	return answer, err
}

// pickEntry lets the user fuzzy-search the saved files and returns the one
// selected. fuzzyfinder.ErrAbort is returned when the user cancels.
func pickEntry(entries []store.Entry) (store.Entry, error) {
	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string {
			return entries[i].Key()
		},
		fuzzyfinder.WithPromptString("Select saved file: "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 {
				return ""
			}
			return describeEntry(entries[i])
		}),
	)
	if err != nil {
		return store.Entry{}, err
	}
	return entries[idx], nil
}

// describeEntry renders an entry's fields one per line.
func describeEntry(e store.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "name:      %s\n", e.Name)
	if e.Version != nil {
		fmt.Fprintf(&b, "version:   %s\n", *e.Version)
	} else {
		fmt.Fprintf(&b, "version:   (default)\n")
	}
	fmt.Fprintf(&b, "save as:   %s\n", e.DefaultSaveName)
	fmt.Fprintf(&b, "original:  %s\n", e.OriginalPath)
	if e.StoredPath != nil {
		fmt.Fprintf(&b, "stored:    %s\n", *e.StoredPath)
	}
	return b.String()
}
