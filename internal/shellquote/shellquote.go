// Package shellquote splits and quotes command lines with shell-style
// quoting rules. Whitespace separates tokens, single and double quotes
// group, backslash escapes the next character; '#' is not special.
package shellquote

import (
	"fmt"
	"strings"
)

// Split tokenizes a command line. It returns an error for an unterminated
// quote or a trailing backslash.
func Split(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inToken := false
	quote := byte(0)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else if c == '\\' && quote == '"' {
				i++
				if i >= len(line) {
					return nil, fmt.Errorf("trailing backslash")
				}
				cur.WriteByte(line[i])
			} else {
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inToken = true
		case c == '\\':
			i++
			if i >= len(line) {
				return nil, fmt.Errorf("trailing backslash")
			}
			cur.WriteByte(line[i])
			inToken = true
		case c == ' ' || c == '\t':
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteByte(c)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// CurrentToken returns the partially typed final token of line, with
// quoting resolved, or "" when line ends outside a token. Unlike Split
// it tolerates unterminated quotes and trailing backslashes: completion
// runs on lines that are still being typed.
func CurrentToken(line string) string {
	var cur strings.Builder
	inToken := false
	quote := byte(0)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else if c == '\\' && quote == '"' && i+1 < len(line) {
				i++
				cur.WriteByte(line[i])
			} else {
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inToken = true
		case c == '\\':
			if i+1 < len(line) {
				i++
				cur.WriteByte(line[i])
			}
			inToken = true
		case c == ' ' || c == '\t':
			cur.Reset()
			inToken = false
		default:
			cur.WriteByte(c)
			inToken = true
		}
	}
	if !inToken {
		return ""
	}
	return cur.String()
}

// Quote wraps s in single quotes, escaping any internal single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuoteIfNeeded quotes strings that contain whitespace or quoting
// characters, and returns everything else unchanged.
func QuoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"'\\") {
		return Quote(s)
	}
	return s
}
