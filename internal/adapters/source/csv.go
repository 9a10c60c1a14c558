package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/pkg/logger"
	"github.com/okian/scoutdb/pkg/metrics"
)

const ctxCheckEvery = 4096

// Column names in the dataset headers.
const (
	colPlayerID  = "sofifa_id"
	colName      = "name"
	colPositions = "player_positions"
	colUserID    = "user_id"
	colRating    = "rating"
	colTag       = "tag"
)

// CSV reads the datasets from a directory. Columns are matched by header
// name, so extra columns and any column order are accepted.
type CSV struct {
	dir           string
	playersFile   string
	ratingsFile   string
	tagsFile      string
	skipMalformed bool
	logger        logger.Logger
}

var _ Source = (*CSV)(nil)

// NewCSV creates a CSV source rooted at dir.
func NewCSV(dir string, opts ...Option) *CSV {
	c := &CSV{
		dir:         dir,
		playersFile: DefaultPlayersFile,
		ratingsFile: DefaultRatingsFile,
		tagsFile:    DefaultTagsFile,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("source")
	}
	return c
}

// Players reads sofifa_id, name and player_positions.
func (c *CSV) Players(ctx context.Context, emit Emit) error {
	return c.read(ctx, c.playersFile, model.RecordPlayer,
		[]string{colPlayerID, colName, colPositions}, nil,
		func(row fieldRow) (model.Record, error) {
			id, err := row.uintField(colPlayerID)
			if err != nil {
				return model.Record{}, err
			}
			return model.Record{Player: model.Player{
				ID:        id,
				Name:      strings.TrimSpace(row.get(colName)),
				Positions: model.ParsePositions(row.get(colPositions)),
			}}, nil
		}, emit)
}

// Ratings reads user_id, sofifa_id and rating.
func (c *CSV) Ratings(ctx context.Context, emit Emit) error {
	return c.read(ctx, c.ratingsFile, model.RecordRating,
		[]string{colUserID, colPlayerID, colRating}, nil,
		func(row fieldRow) (model.Record, error) {
			user, err := row.uintField(colUserID)
			if err != nil {
				return model.Record{}, err
			}
			id, err := row.uintField(colPlayerID)
			if err != nil {
				return model.Record{}, err
			}
			score, err := row.floatField(colRating)
			if err != nil {
				return model.Record{}, err
			}
			return model.Record{Rating: model.Rating{UserID: user, PlayerID: id, Score: score}}, nil
		}, emit)
}

// Tags reads sofifa_id and tag; user_id is optional.
func (c *CSV) Tags(ctx context.Context, emit Emit) error {
	return c.read(ctx, c.tagsFile, model.RecordTag,
		[]string{colPlayerID, colTag}, []string{colUserID},
		func(row fieldRow) (model.Record, error) {
			id, err := row.uintField(colPlayerID)
			if err != nil {
				return model.Record{}, err
			}
			var user uint32
			if row.has(colUserID) && strings.TrimSpace(row.get(colUserID)) != "" {
				if user, err = row.uintField(colUserID); err != nil {
					return model.Record{}, err
				}
			}
			return model.Record{Tag: model.Tag{UserID: user, PlayerID: id, Text: strings.TrimSpace(row.get(colTag))}}, nil
		}, emit)
}

type parseFunc func(row fieldRow) (model.Record, error)

func (c *CSV) read(ctx context.Context, name string, kind model.RecordKind, required, optional []string, parse parseFunc, emit Emit) error {
	path := filepath.Join(c.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", kind, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("%s: read header: %w", name, err)
	}
	cols, err := columns(header, required, optional)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	rows := 0
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var line int
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return fmt.Errorf("%s: %w", name, err)
			}
			line = perr.Line
		} else {
			line, _ = r.FieldPos(0)
		}
		if err == nil {
			rows++
			if rows%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			var rec model.Record
			if rec, err = parse(fieldRow{cols: cols, fields: fields}); err == nil {
				rec.Kind, rec.Source, rec.Line = kind, name, line
				if err := emit(rec); err != nil {
					return err
				}
				continue
			}
		}

		bad := fmt.Errorf("%w: %s line %d: %v", ErrMalformedRecord, name, line, err)
		if !c.skipMalformed {
			return bad
		}
		metrics.RecordSkipped(kind.String(), "malformed")
		c.logger.Warn(ctx, "malformed row skipped", logger.Error(bad))
	}
	return nil
}

// columns maps header names to indexes.
func columns(header, required, optional []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	cols := make(map[string]int, len(required)+len(optional))
	for _, name := range required {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		cols[name] = i
	}
	for _, name := range optional {
		if i, ok := idx[name]; ok {
			cols[name] = i
		}
	}
	return cols, nil
}

type fieldRow struct {
	cols   map[string]int
	fields []string
}

func (r fieldRow) has(col string) bool {
	i, ok := r.cols[col]
	return ok && i < len(r.fields)
}

func (r fieldRow) get(col string) string {
	if !r.has(col) {
		return ""
	}
	return r.fields[r.cols[col]]
}

func (r fieldRow) uintField(col string) (uint32, error) {
	if !r.has(col) {
		return 0, fmt.Errorf("%s: missing field", col)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(r.get(col)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return uint32(v), nil
}

func (r fieldRow) floatField(col string) (float64, error) {
	if !r.has(col) {
		return 0, fmt.Errorf("%s: missing field", col)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(r.get(col)), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return v, nil
}
