// Package tui holds the terminal presentation pieces shared by the CLI
// verbs: the step-view blocks printed while walking a machine, the numbered
// transition menu of the interactive mode, the banner and the markdown
// renderer. Color degrades to plain text automatically off-TTY via termenv
// profiles.
package tui
