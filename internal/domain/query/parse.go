package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads one query. Keywords are case-insensitive.
func Parse(text string) (Query, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return Query{}, err
	}
	if len(tokens) == 0 {
		return Query{}, fmt.Errorf("%w: empty input", ErrInvalidQuery)
	}

	head, args := strings.ToLower(tokens[0]), tokens[1:]
	switch {
	case head == "player":
		if len(args) == 0 {
			return Query{}, fmt.Errorf("%w: player needs a name", ErrInvalidQuery)
		}
		return ByName(strings.Join(args, " ")), nil

	case head == "user":
		if len(args) != 1 {
			return Query{}, fmt.Errorf("%w: user needs exactly one id", ErrInvalidQuery)
		}
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return Query{}, fmt.Errorf("%w: user id %q: %v", ErrInvalidQuery, args[0], err)
		}
		return ByUser(uint32(id)), nil

	case head == "tags":
		q := WithTags(args...)
		if len(q.Tags) == 0 {
			return Query{}, fmt.Errorf("%w: tags needs at least one tag", ErrInvalidQuery)
		}
		return q, nil

	case strings.HasPrefix(head, "top"):
		return parseTop(strings.TrimPrefix(head, "top"), args)

	default:
		return Query{}, fmt.Errorf("%w: unknown command %q", ErrInvalidQuery, tokens[0])
	}
}

// parseTop accepts "top10 'ST'" and "top 10 ST".
func parseTop(suffix string, args []string) (Query, error) {
	if suffix == "" {
		if len(args) == 0 {
			return Query{}, fmt.Errorf("%w: top needs a count", ErrInvalidQuery)
		}
		suffix, args = args[0], args[1:]
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return Query{}, fmt.Errorf("%w: top count %q: %v", ErrInvalidQuery, suffix, err)
	}
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return Query{}, fmt.Errorf("%w: top needs exactly one position", ErrInvalidQuery)
	}
	return TopN(n, args[0]), nil
}

// tokenize splits on whitespace. A single or double quote at the start of a
// token groups words up to the matching quote that ends a token; quotes
// anywhere else are literal, so names like N'Golo pass through untouched.
func tokenize(text string) ([]string, error) {
	var (
		tokens  []string
		cur     strings.Builder
		quote   rune
		started bool
	)
	flush := func() {
		if started {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
		started = false
	}
	runes := []rune(text)
	for i, r := range runes {
		switch {
		case quote != 0:
			if r == quote && (i+1 == len(runes) || isSpace(runes[i+1])) {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case isSpace(r):
			flush()
		case !started && (r == '\'' || r == '"'):
			quote = r
			started = true
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("%w: unterminated %c quote", ErrInvalidQuery, quote)
	}
	flush()
	return tokens, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
