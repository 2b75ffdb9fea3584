package winjector

import "strings"

// quoteArg implements the MSVCRT/CommandLineToArgvW-compatible quoting rule
// spec.md §6 describes: every token is wrapped in quotes; a literal quote is
// escaped with one extra backslash; a run of backslashes is doubled only
// when it immediately precedes a quote (embedded or closing); all other
// characters pass through verbatim.
func quoteArg(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	backslashes := 0
	for _, r := range s {
		switch r {
		case '\\':
			backslashes++
			b.WriteByte('\\')
		case '"':
			for i := 0; i < backslashes; i++ {
				b.WriteByte('\\')
			}
			b.WriteByte('\\')
			b.WriteByte('"')
			backslashes = 0
		default:
			backslashes = 0
			b.WriteRune(r)
		}
	}
	for i := 0; i < backslashes; i++ {
		b.WriteByte('\\')
	}
	b.WriteByte('"')
	return b.String()
}

// buildCommandLine joins prog and args into a single Win32 command-line
// string, quoting every token including the program name (spec.md §6).
func buildCommandLine(prog string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(prog))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}
