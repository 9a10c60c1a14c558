// Package dataset writes synthetic players, ratings and tags files in the
// layout the CSV source reads.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scoutdb/internal/adapters/source"
	"github.com/okian/scoutdb/pkg/logger"
)

// PlayerIDBase is the id of the first generated player.
const PlayerIDBase = 1000

const (
	ctxCheckEvery = 4096
	scoreStep     = 0.5
	minScore      = 0.5
	maxScore      = 5.0
	maxPositions  = 3
)

// tier shapes the scores a player receives.
type tier struct {
	mean   float64
	spread float64
	weight int
}

// Tiers by frequency: most players are average, a few are elite.
var tiers = []tier{
	{mean: 3.0, spread: 1.0, weight: 5}, // average
	{mean: 3.8, spread: 0.8, weight: 2}, // high
	{mean: 2.0, spread: 1.0, weight: 2}, // low
	{mean: 4.5, spread: 0.5, weight: 1}, // elite
}

var (
	firstNames = []string{
		"Lionel", "Cristiano", "Neymar", "Kylian", "Kevin", "Robert", "Mohamed", "Sadio",
		"Virgil", "Luka", "Sergio", "Jonas", "Jonny", "Joao", "Harry", "Marco",
		"Bruno", "Erling", "Paulo", "Thiago", "Karim", "Antoine", "Heung-min", "Andres",
	}
	lastNames = []string{
		"Silva", "Santos", "Muller", "Hofmann", "Evans", "Kane", "Reus", "Fernandes",
		"Haaland", "Dybala", "Alcantara", "Benzema", "Griezmann", "Son", "Iniesta", "Modric",
		"Ramos", "van Dijk", "Mane", "Salah", "Lewandowski", "De Bruyne", "Mbappe", "Felix",
	}
	positions = []string{
		"GK", "CB", "LB", "RB", "LWB", "RWB", "CDM", "CM",
		"CAM", "LM", "RM", "LW", "RW", "CF", "ST",
	}
	tagWords = []string{
		"Brazil", "Argentina", "Portugal", "Dribbler", "Playmaker", "Clinical Finisher",
		"Speedster", "Leader", "Strength", "Aerial Threat", "Distance Shooter", "Engine",
		"Crosser", "Tackling", "FK Specialist", "Acrobat",
	}
)

// Summary describes one generated dataset.
type Summary struct {
	RunID   string        `json:"run_id"`
	Dir     string        `json:"dir"`
	Players int           `json:"players"`
	Users   int           `json:"users"`
	Ratings int           `json:"ratings"`
	Tags    int           `json:"tags"`
	Elapsed time.Duration `json:"elapsed"`
}

// Generator writes one dataset per Generate call.
type Generator struct {
	players        int
	users          int
	ratingsPerUser int
	tags           int
	hotPlayers     int
	hotRatings     int
	seed           uint64

	playersFile string
	ratingsFile string
	tagsFile    string

	logger logger.Logger
}

// New constructs a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		players:        DefaultPlayers,
		users:          DefaultUsers,
		ratingsPerUser: DefaultRatingsPerUser,
		tags:           DefaultTags,
		hotPlayers:     DefaultHotPlayers,
		hotRatings:     DefaultHotRatings,
		seed:           DefaultSeed,
		playersFile:    source.DefaultPlayersFile,
		ratingsFile:    source.DefaultRatingsFile,
		tagsFile:       source.DefaultTagsFile,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logger.Get().Named("dataset")
	}
	return g
}

// Validate reports the first setting that cannot produce a dataset.
func (g *Generator) Validate() error {
	switch {
	case g.players < 1:
		return fmt.Errorf("%w: players must be positive, got %d", ErrInvalidConfig, g.players)
	case g.users < 1:
		return fmt.Errorf("%w: users must be positive, got %d", ErrInvalidConfig, g.users)
	case g.ratingsPerUser < 0 || g.ratingsPerUser > g.players:
		return fmt.Errorf("%w: ratings per user must be within [0, %d], got %d", ErrInvalidConfig, g.players, g.ratingsPerUser)
	case g.tags < 0:
		return fmt.Errorf("%w: tags must not be negative, got %d", ErrInvalidConfig, g.tags)
	case g.hotPlayers < 0 || g.hotPlayers > g.players:
		return fmt.Errorf("%w: hot players must be within [0, %d], got %d", ErrInvalidConfig, g.players, g.hotPlayers)
	case g.hotRatings < 0:
		return fmt.Errorf("%w: hot ratings must not be negative, got %d", ErrInvalidConfig, g.hotRatings)
	}
	return nil
}

// Generate writes the three files into dir, creating it when missing.
func (g *Generator) Generate(ctx context.Context, dir string) (Summary, error) {
	if err := g.Validate(); err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create %s: %w", dir, err)
	}

	start := time.Now()
	sum := Summary{RunID: uuid.NewString(), Dir: dir}
	log := g.logger.With(logger.String("run_id", sum.RunID))
	log.Info(ctx, "generating dataset",
		logger.String("dir", dir),
		logger.Int("players", g.players),
		logger.Int("users", g.users),
		logger.Int("ratings_per_user", g.ratingsPerUser),
		logger.Int("hot_players", g.hotPlayers),
	)

	rng := rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15)) //nolint:gosec // reproducible synthetic data
	playerTiers := make([]tier, g.players)

	err := writeCSV(ctx, filepath.Join(dir, g.playersFile), []string{"sofifa_id", "name", "player_positions"},
		func(row func(...string) error) error {
			for i := range g.players {
				playerTiers[i] = pickTier(rng)
				if err := row(playerID(i), playerName(rng), strings.Join(pickPositions(rng), ", ")); err != nil {
					return err
				}
			}
			sum.Players = g.players
			return nil
		})
	if err != nil {
		return Summary{}, err
	}

	err = writeCSV(ctx, filepath.Join(dir, g.ratingsFile), []string{"user_id", "sofifa_id", "rating"},
		func(row func(...string) error) error {
			return g.writeRatings(rng, playerTiers, &sum, row)
		})
	if err != nil {
		return Summary{}, err
	}

	err = writeCSV(ctx, filepath.Join(dir, g.tagsFile), []string{"user_id", "sofifa_id", "tag"},
		func(row func(...string) error) error {
			for range g.tags {
				user := strconv.Itoa(1 + rng.IntN(g.users))
				if err := row(user, playerID(rng.IntN(g.players)), tagWords[rng.IntN(len(tagWords))]); err != nil {
					return err
				}
			}
			sum.Tags = g.tags
			return nil
		})
	if err != nil {
		return Summary{}, err
	}

	sum.Elapsed = time.Since(start)
	log.Info(ctx, "dataset generated",
		logger.Int("ratings", sum.Ratings),
		logger.Int("users", sum.Users),
		logger.Int("tags", sum.Tags),
		logger.Duration("elapsed", sum.Elapsed),
	)
	return sum, nil
}

// writeRatings gives every pool user ratingsPerUser distinct players, then
// adds hotRatings fans, each of whom rates every hot player.
func (g *Generator) writeRatings(rng *rand.Rand, playerTiers []tier, sum *Summary, row func(...string) error) error {
	picked := make(map[int]struct{}, g.ratingsPerUser)
	for u := 1; u <= g.users; u++ {
		clear(picked)
		user := strconv.Itoa(u)
		for len(picked) < g.ratingsPerUser {
			p := rng.IntN(g.players)
			if _, ok := picked[p]; ok {
				continue
			}
			picked[p] = struct{}{}
			if err := row(user, playerID(p), formatScore(score(rng, playerTiers[p]))); err != nil {
				return err
			}
			sum.Ratings++
		}
	}
	sum.Users = g.users

	if g.hotPlayers == 0 || g.hotRatings == 0 {
		return nil
	}
	for k := range g.hotRatings {
		user := strconv.Itoa(g.users + 1 + k)
		for p := range g.hotPlayers {
			if err := row(user, playerID(p), formatScore(score(rng, playerTiers[p]))); err != nil {
				return err
			}
			sum.Ratings++
		}
	}
	sum.Users += g.hotRatings
	return nil
}

// writeCSV creates path, writes header and lets fill append rows. The
// returned row function checks ctx every few thousand rows.
func writeCSV(ctx context.Context, path string, header []string, fill func(row func(...string) error) error) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is built from the caller's output directory
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	n := 0
	row := func(fields ...string) error {
		n++
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return w.Write(fields)
	}
	if err := fill(row); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func playerID(i int) string {
	return strconv.Itoa(PlayerIDBase + i)
}

func playerName(rng *rand.Rand) string {
	return firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))]
}

func pickPositions(rng *rand.Rand) []string {
	n := 1 + rng.IntN(maxPositions)
	out := make([]string, 0, n)
	for _, i := range rng.Perm(len(positions))[:n] {
		out = append(out, positions[i])
	}
	return out
}

func pickTier(rng *rand.Rand) tier {
	total := 0
	for _, t := range tiers {
		total += t.weight
	}
	n := rng.IntN(total)
	for _, t := range tiers {
		if n < t.weight {
			return t
		}
		n -= t.weight
	}
	return tiers[0]
}

// score draws a rating around the tier mean, snapped to half points.
func score(rng *rand.Rand, t tier) float64 {
	s := t.mean + (rng.Float64()*2-1)*t.spread
	s = math.Round(s/scoreStep) * scoreStep
	return min(max(s, minScore), maxScore)
}

func formatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', 1, 64)
}
