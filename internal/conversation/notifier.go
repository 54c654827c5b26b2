package conversation

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottocode/internal/domain"
	"github.com/hammamikhairi/ottocode/internal/logger"
)

// Compile-time interface check.
var _ domain.Display = (*CLINotifier)(nil)

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// CLINotifier writes user-facing output with ANSI formatting.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewCLINotifier creates a terminal notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &CLINotifier{log: log, printFn: printFn}
}

// ShowCode prints a code block under a language header.
func (n *CLINotifier) ShowCode(language, code string) {
	n.log.Debug("show code: %s (%d chars)", language, len(code))
	n.printFn("%s%s── %s ──%s", dim, cyan, language, reset)
	for _, line := range strings.Split(code, "\n") {
		n.printFn("  %s", line)
	}
	n.printFn("%s%s──────%s", dim, cyan, reset)
}

// Info prints a normal message.
func (n *CLINotifier) Info(message string) {
	n.log.Debug("info: %s", message)
	n.printFn("%s%s%s%s", cyan, bold, message, reset)
}

// Warn prints a warning in yellow.
func (n *CLINotifier) Warn(message string) {
	n.log.Debug("warn: %s", message)
	n.printFn("%s%s%s", yellow, message, reset)
}

// Error prints an error in bold red.
func (n *CLINotifier) Error(message string) {
	n.log.Debug("error: %s", message)
	n.printFn("%s%s%s%s", red, bold, message, reset)
}
