package repository

import (
	"errors"
	"fmt"

	"github.com/okian/scoutdb/internal/domain/btree"
	"github.com/okian/scoutdb/internal/domain/hashtable"
	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/internal/domain/trie"
)

// PlayerStore keeps players by id with three secondary indexes: names for
// prefix search, tags to player ids, and one rating tree per position.
type PlayerStore struct {
	players   *hashtable.HashTable[uint32, model.Player]
	names     *trie.MultiTrie[uint32]
	tags      *hashtable.HashTable[string, []uint32]
	positions *hashtable.HashTable[string, *btree.BTree]

	popularity uint32
	treeOpts   []btree.Option
}

func newPlayerStore(d *Database) *PlayerStore {
	s := &PlayerStore{
		players:    hashtable.New[uint32, model.Player](d.playerCapacity),
		names:      trie.NewMulti[uint32](),
		tags:       hashtable.New[string, []uint32](d.tagCapacity),
		positions:  hashtable.New[string, *btree.BTree](d.positionCapacity),
		popularity: d.popularity,
	}
	if d.btreeOrder > 0 {
		s.treeOpts = append(s.treeOpts, btree.WithOrder(d.btreeOrder))
	}
	return s
}

// Insert stores p and indexes its name.
func (s *PlayerStore) Insert(p model.Player) error {
	if s.players.Contains(p.ID) {
		return fmt.Errorf("%w: %d", ErrDuplicatePlayer, p.ID)
	}
	if err := s.names.Insert(p.Name, p.ID); err != nil {
		return fmt.Errorf("player %d name: %w", p.ID, err)
	}
	p = p.Clone()
	positions := p.Positions[:0]
	for _, code := range p.Positions {
		if code = model.NormalizePosition(code); code != "" {
			positions = append(positions, code)
		}
	}
	p.Positions = positions
	s.players.Insert(p.ID, p)
	return nil
}

// Get returns a copy of the player.
func (s *PlayerStore) Get(id uint32) (model.Player, error) {
	p, ok := s.players.Get(id)
	if !ok {
		return model.Player{}, fmt.Errorf("%w: %d", ErrPlayerNotFound, id)
	}
	return p.Clone(), nil
}

// AddRating folds score into the player's mean rating.
func (s *PlayerStore) AddRating(id uint32, score float64) error {
	p, ok := s.players.GetMut(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrPlayerNotFound, id)
	}
	p.AddRating(score)
	return nil
}

// AddTag records the tag on the player and in the tag index.
func (s *PlayerStore) AddTag(t model.Tag) error {
	key := trie.Normalize(t.Text)
	if key == "" {
		return fmt.Errorf("%w: player %d", ErrEmptyTag, t.PlayerID)
	}
	p, ok := s.players.GetMut(t.PlayerID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrPlayerNotFound, t.PlayerID)
	}
	ids, err := s.tags.GetOrInsertDefault(key)
	if err != nil {
		return fmt.Errorf("tag %q: %w", key, err)
	}
	if !containsID(*ids, t.PlayerID) {
		*ids = append(*ids, t.PlayerID)
	}
	p.AddTag(t.Text)
	return nil
}

// Tagged returns the ids carrying tag, in first-tagged order.
func (s *PlayerStore) Tagged(tag string) ([]uint32, error) {
	ids, ok := s.tags.Get(trie.Normalize(tag))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTagNotFound, tag)
	}
	return ids, nil
}

// SearchByName returns players whose name starts with prefix.
func (s *PlayerStore) SearchByName(prefix string) []model.Player {
	return s.resolve(s.names.Find(prefix))
}

// BuildRankIndex inserts every player rated more than the popularity
// threshold into the tree of each of its positions.
func (s *PlayerStore) BuildRankIndex() error {
	var err error
	s.players.ForEach(func(id uint32, p model.Player) bool {
		if p.RatingCount <= s.popularity {
			return true
		}
		for _, code := range p.Positions {
			var tree **btree.BTree
			if tree, err = s.positions.GetOrInsertDefault(code); err != nil {
				return false
			}
			if *tree == nil {
				if *tree, err = btree.New(s.treeOpts...); err != nil {
					return false
				}
			}
			(*tree).Insert(p.Rating, id)
		}
		return true
	})
	return err
}

// Top returns the n best rated players indexed under position.
func (s *PlayerStore) Top(n int, position string) ([]model.Player, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	code := model.NormalizePosition(position)
	tree, ok := s.positions.Get(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPositionNotIndexed, code)
	}
	return s.resolve(tree.GreatestN(n)), nil
}

// WithTags returns players carrying every tag. An unknown tag or an empty
// intersection yields an empty list.
func (s *PlayerStore) WithTags(tags []string) ([]model.Player, error) {
	if len(tags) == 0 {
		return nil, ErrEmptyQuery
	}
	var acc []uint32
	for i, tag := range tags {
		ids, err := s.Tagged(tag)
		if errors.Is(err, ErrTagNotFound) {
			return []model.Player{}, nil
		}
		if i == 0 {
			acc = uniqueIDs(ids)
		} else {
			acc = intersect(acc, ids)
		}
		if len(acc) == 0 {
			return []model.Player{}, nil
		}
	}
	return s.resolve(acc), nil
}

// Len is the number of players.
func (s *PlayerStore) Len() int { return s.players.Len() }

// TagCount is the number of distinct tags.
func (s *PlayerStore) TagCount() int { return s.tags.Len() }

// PositionCount is the number of indexed positions.
func (s *PlayerStore) PositionCount() int { return s.positions.Len() }

func (s *PlayerStore) resolve(ids []uint32) []model.Player {
	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.players.Get(id); ok {
			out = append(out, p.Clone())
		}
	}
	return out
}

func containsID(ids []uint32, id uint32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// uniqueIDs keeps the first occurrence of each id.
func uniqueIDs(ids []uint32) []uint32 {
	seen := make(map[uint32]struct{}, len(ids))
	out := make([]uint32, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// intersect keeps the ids of acc that also appear in ids, in acc order.
func intersect(acc, ids []uint32) []uint32 {
	set := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	out := acc[:0]
	for _, id := range acc {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
