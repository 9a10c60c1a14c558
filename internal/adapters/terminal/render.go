package terminal

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	service "github.com/okian/scoutdb/internal/app"
	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/internal/domain/types"
)

// PlayerLookup resolves the players a user rated.
type PlayerLookup func(id uint32) (model.Player, error)

// response is the JSON document written per query.
type response struct {
	Query     string        `json:"query"`
	ElapsedMs float64       `json:"elapsed_ms"`
	Result    *types.Result `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 4, 64)
}

// RenderResult draws res as text. Player lists and user ratings are cut to
// maxResults rows when maxResults > 0.
func RenderResult(res types.Result, maxResults int, lookup PlayerLookup) string { //nolint:gocritic // hugeParam: Result is read-only here
	switch res.Kind {
	case types.KindSinglePlayer:
		return RenderPlayer(*res.Player)
	case types.KindPlayerList:
		return RenderPlayers(res.Players, maxResults)
	case types.KindUser:
		return RenderUser(*res.User, maxResults, lookup)
	default:
		return errorStyle.Render("unknown result")
	}
}

// RenderPlayer draws one player as a labelled panel.
func RenderPlayer(p model.Player) string { //nolint:gocritic // hugeParam: read-only
	content := titleStyle.Render(p.Name) + "\n\n"
	content += labelStyle.Render("Id:") + " " + valueStyle.Render(strconv.FormatUint(uint64(p.ID), 10)) + "\n"
	content += labelStyle.Render("Positions:") + " " + valueStyle.Render(strings.Join(p.Positions, ", ")) + "\n"
	content += labelStyle.Render("Rating:") + " " + valueStyle.Render(formatRating(p.Rating)) + "\n"
	content += labelStyle.Render("Ratings:") + " " + valueStyle.Render(strconv.FormatUint(uint64(p.RatingCount), 10))
	if len(p.Tags) > 0 {
		content += "\n" + labelStyle.Render("Tags:")
		for _, t := range p.Tags {
			content += "\n  " + tagStyle.Render(t)
		}
	}
	return panelStyle.Render(content)
}

// RenderPlayers draws players as a table.
func RenderPlayers(ps []model.Player, maxResults int) string {
	if len(ps) == 0 {
		return mutedStyle.Render("no players found")
	}
	shown := ps
	if maxResults > 0 && len(shown) > maxResults {
		shown = shown[:maxResults]
	}

	rows := make([][]string, 0, len(shown))
	for i, p := range shown {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			strings.Join(p.Positions, ", "),
			formatRating(p.Rating),
			strconv.FormatUint(uint64(p.RatingCount), 10),
		})
	}
	out := newTable(4).
		Headers("#", "ID", "NAME", "POSITIONS", "RATING", "COUNT").
		Rows(rows...).
		String()
	return out + "\n" + footer(len(shown), len(ps), "players")
}

type userRow struct {
	rating model.Rating
	player model.Player
	known  bool
}

// RenderUser draws the ratings a user gave, highest score first, next to the
// player's overall rating.
func RenderUser(u model.User, maxResults int, lookup PlayerLookup) string {
	head := titleStyle.Render(fmt.Sprintf("User %d", u.ID)) + " " +
		mutedStyle.Render(fmt.Sprintf("rated %d players", len(u.Ratings)))
	if len(u.Ratings) == 0 {
		return head
	}

	entries := make([]userRow, 0, len(u.Ratings))
	for _, r := range u.Ratings {
		e := userRow{rating: r}
		if lookup != nil {
			if p, err := lookup(r.PlayerID); err == nil {
				e.player, e.known = p, true
			}
		}
		entries = append(entries, e)
	}
	slices.SortStableFunc(entries, func(a, b userRow) int {
		return cmp.Compare(b.rating.Score, a.rating.Score)
	})
	shown := entries
	if maxResults > 0 && len(shown) > maxResults {
		shown = shown[:maxResults]
	}

	rows := make([][]string, 0, len(shown))
	for _, e := range shown {
		name, overall, count := "?", "-", "-"
		if e.known {
			name = e.player.Name
			overall = formatRating(e.player.Rating)
			count = strconv.FormatUint(uint64(e.player.RatingCount), 10)
		}
		rows = append(rows, []string{
			strconv.FormatUint(uint64(e.rating.PlayerID), 10),
			name,
			strconv.FormatFloat(e.rating.Score, 'f', 1, 64),
			overall,
			count,
		})
	}
	out := newTable(2).
		Headers("ID", "PLAYER", "SCORE", "OVERALL", "COUNT").
		Rows(rows...).
		String()
	return head + "\n" + out + "\n" + footer(len(shown), len(entries), "ratings")
}

// RenderStats draws service statistics as a labelled panel.
func RenderStats(st service.Stats) string { //nolint:gocritic // hugeParam: read-only
	loaded := "no"
	if st.Loaded {
		loaded = "yes"
	}
	lines := [][2]string{
		{"Loaded:", loaded},
		{"Load time:", st.LoadDuration.Round(time.Millisecond).String()},
		{"Applied:", strconv.Itoa(st.Applied)},
		{"Skipped:", strconv.Itoa(st.Skipped)},
		{"Players:", strconv.Itoa(st.Dataset.Players)},
		{"Users:", strconv.Itoa(st.Dataset.Users)},
		{"Tags:", strconv.Itoa(st.Dataset.Tags)},
		{"Positions:", strconv.Itoa(st.Dataset.Positions)},
	}
	content := titleStyle.Render("DATASET")
	content += "\n"
	for _, l := range lines {
		content += "\n" + labelStyle.Render(l[0]) + " " + valueStyle.Render(l[1])
	}
	return panelStyle.Render(content)
}

// RenderError draws err with a short prefix.
func RenderError(prefix string, err error) string {
	return errorStyle.Render(prefix+":") + " " + err.Error()
}

// RenderElapsed reports how long a query took.
func RenderElapsed(d time.Duration) string {
	return mutedStyle.Render("query ran in " + d.String())
}

// newTable styles a table; ratingCol is highlighted.
func newTable(ratingCol int) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == ratingCol:
				return ratingCellStyle
			default:
				return tableCellStyle
			}
		})
}

func footer(shown, total int, noun string) string {
	if shown == total {
		return mutedStyle.Render(fmt.Sprintf("%d %s", total, noun))
	}
	return mutedStyle.Render(fmt.Sprintf("showing %d of %d %s", shown, total, noun))
}
