package model

// RecordKind identifies the payload of a Record.
type RecordKind uint8

const (
	RecordPlayer RecordKind = iota + 1
	RecordRating
	RecordTag
)

func (k RecordKind) String() string {
	switch k {
	case RecordPlayer:
		return "player"
	case RecordRating:
		return "rating"
	case RecordTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Record is one ingested row on its way from a source to the store.
// Only the field matching Kind is set.
type Record struct {
	Kind   RecordKind
	Source string // file the row came from
	Line   int

	Player Player
	Rating Rating
	Tag    Tag
}
