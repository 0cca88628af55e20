package extract

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	rtfControlWords = regexp.MustCompile(`\\[a-z]+(-?\d+)? ?`)
	rtfPunctuation  = regexp.MustCompile(`[{}\\|]`)
)

// RTFExtractor strips rich-text control sequences via pattern substitution.
// When that yields nothing usable it falls back to a dedicated control-word
// parser; only when both tiers come up empty does it return a diagnostic
// combining the two failure reasons.
type RTFExtractor struct{}

// Extract reads the file and strips its markup.
func (e *RTFExtractor) Extract(ctx context.Context, path string) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Text: failDiag("RTF", err), Method: "rtf"}
	}

	text := rtfControlWords.ReplaceAllString(string(content), " ")
	text = rtfPunctuation.ReplaceAllString(text, "")
	if strings.TrimSpace(text) != "" {
		return Result{Text: text, Method: "rtf"}
	}

	stripErr := fmt.Errorf("pattern substitution produced no text")
	plain, err := rtfToText(string(content))
	if err != nil {
		return Result{Text: failDiag("RTF", fmt.Errorf("%v, %v", stripErr, err)), Method: "rtf"}
	}
	return Result{Text: plain, Method: "rtf"}
}

// rtfToText is the second-tier conversion: a small tokenizer that walks the
// RTF stream, honoring the control words that affect visible text and
// discarding the rest.
func rtfToText(content string) (string, error) {
	var sb strings.Builder
	i := 0
	n := len(content)

	for i < n {
		c := content[i]
		switch c {
		case '{', '}':
			i++
		case '\\':
			i++
			if i >= n {
				break
			}
			switch {
			case content[i] == '\'':
				// Hex escape: \'hh, decoded as a single Western byte.
				if i+2 < n {
					if b, err := strconv.ParseUint(content[i+1:i+3], 16, 8); err == nil {
						sb.WriteRune(rune(b))
					}
					i += 3
				} else {
					i = n
				}
			case isRTFLetter(content[i]):
				word, param, next := readControlWord(content, i)
				i = next
				switch word {
				case "par", "line":
					sb.WriteByte('\n')
				case "tab":
					sb.WriteByte('\t')
				case "u":
					// Unicode escape carries the code point as its parameter.
					if param != 0 {
						sb.WriteRune(rune(param))
					}
				}
			default:
				// Escaped literal such as \{, \} or \\.
				sb.WriteByte(content[i])
				i++
			}
		case '\r', '\n':
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("no text recovered from control-word parse")
	}
	return sb.String(), nil
}

// readControlWord consumes a control word starting at i and returns the word,
// its numeric parameter (0 when absent) and the index after it.
func readControlWord(content string, i int) (string, int, int) {
	start := i
	for i < len(content) && isRTFLetter(content[i]) {
		i++
	}
	word := content[start:i]

	numStart := i
	if i < len(content) && content[i] == '-' {
		i++
	}
	for i < len(content) && content[i] >= '0' && content[i] <= '9' {
		i++
	}
	param := 0
	if i > numStart {
		param, _ = strconv.Atoi(content[numStart:i])
	}

	// A single space after a control word is part of it.
	if i < len(content) && content[i] == ' ' {
		i++
	}
	return word, param, i
}

func isRTFLetter(c byte) bool {
	return c >= 'a' && c <= 'z'
}
