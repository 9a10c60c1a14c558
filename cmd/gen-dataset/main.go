package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/scoutdb/internal/dataset"
	"github.com/okian/scoutdb/pkg/logger"
)

func main() {
	var (
		dir            = flag.String("dir", "data", "Output directory for the CSV files")
		players        = flag.Int("players", dataset.DefaultPlayers, "Number of players")
		users          = flag.Int("users", dataset.DefaultUsers, "Number of users rating random players")
		ratingsPerUser = flag.Int("ratings-per-user", dataset.DefaultRatingsPerUser, "Distinct players each user rates")
		tags           = flag.Int("tags", dataset.DefaultTags, "Number of tag rows")
		hotPlayers     = flag.Int("hot-players", dataset.DefaultHotPlayers, "Players that receive extra ratings")
		hotRatings     = flag.Int("hot-ratings", dataset.DefaultHotRatings, "Extra ratings per hot player")
		seed           = flag.Uint64("seed", dataset.DefaultSeed, "Random seed; equal seeds write equal files")
		jsonLogs       = flag.Bool("json", false, "Log as JSON lines")
		verbose        = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithJSON(*jsonLogs)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := dataset.New(
		dataset.WithPlayers(*players),
		dataset.WithUsers(*users),
		dataset.WithRatingsPerUser(*ratingsPerUser),
		dataset.WithTags(*tags),
		dataset.WithHotPlayers(*hotPlayers, *hotRatings),
		dataset.WithSeed(*seed),
	)
	sum, err := gen.Generate(ctx, *dir)
	if err != nil {
		os.Stderr.WriteString("generation failed: " + err.Error() + "\n")
		stop()
		os.Exit(1) //nolint:gocritic // stop already ran
	}
	fmt.Printf("wrote %d players, %d ratings from %d users and %d tags to %s (run %s)\n",
		sum.Players, sum.Ratings, sum.Users, sum.Tags, sum.Dir, sum.RunID)
}
