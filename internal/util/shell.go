// Package util provides common utility functions used across the codebase.
package util

import "strings"

// ShellQuote wraps a string in single quotes, escaping any existing single quotes.
// This is safe for use in shell commands where the string should be treated literally.
func ShellQuote(s string) string {
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// ExpandPlaceholders replaces each {{name}} in command with the shell-quoted
// value from vars. Unknown placeholders are left as-is.
func ExpandPlaceholders(command string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(command, "{{") {
		return command
	}
	pairs := make([]string, 0, 2*len(vars))
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", ShellQuote(value))
	}
	return strings.NewReplacer(pairs...).Replace(command)
}
