package export

import "strings"

// SplitStatements splits a SQL script into its statements. Statements end with a semicolon
// outside of string literals. Comments starting with "--" outside of string literals are dropped,
// as are empty statements. The returned statements do not include the semicolon.
func SplitStatements(script string) []string {
	var statements []string
	var current strings.Builder
	inLiteral := false
	inComment := false

	flush := func() {
		statement := strings.TrimSpace(current.String())
		if statement != "" {
			statements = append(statements, statement)
		}
		current.Reset()
	}

	for i := 0; i < len(script); i++ {
		ch := script[i]
		switch {
		case inComment:
			if ch == '\n' {
				inComment = false
				current.WriteByte(ch)
			}
		case inLiteral:
			current.WriteByte(ch)
			// A doubled quote is an escaped quote and keeps the literal open.
			if ch == '\'' {
				if i+1 < len(script) && script[i+1] == '\'' {
					current.WriteByte('\'')
					i++
				} else {
					inLiteral = false
				}
			}
		case ch == '\'':
			inLiteral = true
			current.WriteByte(ch)
		case ch == '-' && i+1 < len(script) && script[i+1] == '-':
			inComment = true
		case ch == ';':
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return statements
}
