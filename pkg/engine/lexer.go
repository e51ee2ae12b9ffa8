package engine

import (
	"strings"
)

type tokenKind int

const (
	tEOL tokenKind = iota
	tWord
	tString

	tConfig
	tMenuconfig
	tChoice
	tEndchoice
	tMenu
	tEndmenu
	tIf
	tEndif
	tComment
	tSource
	tRsource
	tOsource
	tOrsource
	tMainmenu
	tBool
	tTristate
	tStringKw
	tInt
	tHex
	tDefBool
	tDefTristate
	tDefInt
	tDefHex
	tDefString
	tDefault
	tDepends
	tOn
	tSelect
	tImply
	tRange
	tOption
	tVisible
	tHelp
	tOptional
	tPrompt

	tAndAnd
	tOrOr
	tNot
	tEq
	tNeq
	tLt
	tLe
	tGt
	tGe
	tLParen
	tRParen
)

var keywords = map[string]tokenKind{
	"config":       tConfig,
	"menuconfig":   tMenuconfig,
	"choice":       tChoice,
	"endchoice":    tEndchoice,
	"menu":         tMenu,
	"endmenu":      tEndmenu,
	"if":           tIf,
	"endif":        tEndif,
	"comment":      tComment,
	"source":       tSource,
	"rsource":      tRsource,
	"osource":      tOsource,
	"orsource":     tOrsource,
	"mainmenu":     tMainmenu,
	"bool":         tBool,
	"boolean":      tBool, // accepted for backward compatibility
	"tristate":     tTristate,
	"string":       tStringKw,
	"int":          tInt,
	"hex":          tHex,
	"def_bool":     tDefBool,
	"def_tristate": tDefTristate,
	"def_int":      tDefInt,
	"def_hex":      tDefHex,
	"def_string":   tDefString,
	"default":      tDefault,
	"depends":      tDepends,
	"on":           tOn,
	"select":       tSelect,
	"imply":        tImply,
	"range":        tRange,
	"option":       tOption,
	"visible":      tVisible,
	"help":         tHelp,
	"---help---":   tHelp,
	"optional":     tOptional,
	"prompt":       tPrompt,
}

type token struct {
	kind tokenKind
	text string
}

// tokenize splits one preprocessed line into tokens. A # outside quotes
// starts a comment; quoted strings support backslash escapes and carry
// their unescaped content.
func tokenize(line string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			i++

		case c == '#':
			return tokens, nil

		case c == '"' || c == '\'':
			quote := c
			var b strings.Builder
			j := i + 1
			for j < len(line) {
				if line[j] == '\\' && j+1 < len(line) {
					b.WriteByte(line[j+1])
					j += 2
					continue
				}
				if line[j] == quote {
					break
				}
				b.WriteByte(line[j])
				j++
			}
			if j >= len(line) {
				return nil, newError(ErrorClassSyntax, "unterminated string literal")
			}
			tokens = append(tokens, token{tString, b.String()})
			i = j + 1

		case c == '&':
			if i+1 >= len(line) || line[i+1] != '&' {
				return nil, newError(ErrorClassSyntax, "stray & (did you mean &&?)")
			}
			tokens = append(tokens, token{kind: tAndAnd})
			i += 2

		case c == '|':
			if i+1 >= len(line) || line[i+1] != '|' {
				return nil, newError(ErrorClassSyntax, "stray | (did you mean ||?)")
			}
			tokens = append(tokens, token{kind: tOrOr})
			i += 2

		case c == '!':
			if i+1 < len(line) && line[i+1] == '=' {
				tokens = append(tokens, token{kind: tNeq})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tNot})
				i++
			}

		case c == '=':
			tokens = append(tokens, token{kind: tEq})
			i++

		case c == '<':
			if i+1 < len(line) && line[i+1] == '=' {
				tokens = append(tokens, token{kind: tLe})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tLt})
				i++
			}

		case c == '>':
			if i+1 < len(line) && line[i+1] == '=' {
				tokens = append(tokens, token{kind: tGe})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tGt})
				i++
			}

		case c == '(':
			tokens = append(tokens, token{kind: tLParen})
			i++

		case c == ')':
			tokens = append(tokens, token{kind: tRParen})
			i++

		case isWordByte(c):
			j := i
			for j < len(line) && isWordByte(line[j]) {
				j++
			}
			word := line[i:j]
			if kind, ok := keywords[word]; ok {
				tokens = append(tokens, token{kind: kind, text: word})
			} else {
				tokens = append(tokens, token{kind: tWord, text: word})
			}
			i = j

		default:
			return nil, newError(ErrorClassSyntax, "unexpected character %q", string(c))
		}
	}
	return tokens, nil
}

// isWordByte matches symbol names, numbers, and the path characters used by
// unquoted source arguments.
func isWordByte(c byte) bool {
	return c == '_' || c == '-' || c == '.' || c == '/' || c == '*' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// isNumber reports whether a word token is a numeric literal (decimal,
// negative decimal, or 0x hex).
func isNumber(s string) bool {
	if s == "" {
		return false
	}
	body := s
	if body[0] == '-' {
		body = body[1:]
	}
	if strings.HasPrefix(strings.ToLower(body), "0x") {
		body = body[2:]
		if body == "" {
			return false
		}
		for i := 0; i < len(body); i++ {
			c := body[i]
			if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
				return false
			}
		}
		return true
	}
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return false
		}
	}
	return body != ""
}
