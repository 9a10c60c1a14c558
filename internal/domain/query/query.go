// Package query defines the four query shapes the database answers and the
// textual grammar used by the terminal:
//
//	player <name words...>
//	user <id>
//	top<N> '<POS>'     (or: top <N> <POS>)
//	tags '<tag>' ...   (unquoted words are separate tags)
package query

import (
	"strconv"
	"strings"
)

// Kind identifies the query shape.
type Kind uint8

const (
	KindPlayer Kind = iota + 1
	KindUser
	KindTop
	KindTags
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindUser:
		return "user"
	case KindTop:
		return "top"
	case KindTags:
		return "tags"
	default:
		return "unknown"
	}
}

// Query is one request. Only the fields of its Kind are meaningful.
type Query struct {
	Kind     Kind
	Name     string
	UserID   uint32
	Limit    int
	Position string
	Tags     []string
}

// ByName searches players whose name starts with name.
func ByName(name string) Query {
	return Query{Kind: KindPlayer, Name: strings.Join(strings.Fields(name), " ")}
}

// ByUser fetches a user and the ratings they gave.
func ByUser(id uint32) Query {
	return Query{Kind: KindUser, UserID: id}
}

// TopN ranks the n best rated popular players for a position.
func TopN(n int, position string) Query {
	return Query{Kind: KindTop, Limit: n, Position: strings.ToUpper(strings.TrimSpace(position))}
}

// WithTags returns players carrying every one of tags.
func WithTags(tags ...string) Query {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return Query{Kind: KindTags, Tags: out}
}

// String renders q in the textual grammar; Parse(q.String()) yields q.
func (q Query) String() string {
	switch q.Kind {
	case KindPlayer:
		return "player " + q.Name
	case KindUser:
		return "user " + strconv.FormatUint(uint64(q.UserID), 10)
	case KindTop:
		return "top" + strconv.Itoa(q.Limit) + " " + quote(q.Position)
	case KindTags:
		var b strings.Builder
		b.WriteString("tags")
		for _, t := range q.Tags {
			b.WriteByte(' ')
			b.WriteString(quote(t))
		}
		return b.String()
	default:
		return ""
	}
}

func quote(s string) string {
	if strings.Contains(s, "'") {
		return `"` + s + `"`
	}
	return "'" + s + "'"
}
