// apps/go-server/cmd/solve/main.go
//
// Command-line front end for the numbers solver.
//
//	solve -numbers 100,75,50,25,6,3 -target 952 -limit 10
//
// Prints every solution found (up to -limit), or the nearest reachable value
// when the target cannot be made. -reachable lists the whole reachable set.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wingo/apps/go-server/internal/solver"
)

func main() {
	var (
		numbers   string
		target    int
		limit     int
		timeout   time.Duration
		reachable bool
		verbose   bool
	)
	flag.StringVar(&numbers, "numbers", "", "comma separated input numbers (1 to 6 of them)")
	flag.IntVar(&target, "target", 0, "target value")
	flag.IntVar(&limit, "limit", solver.DefaultMaxSolutions, "max solutions printed (0 = all)")
	flag.DurationVar(&timeout, "timeout", time.Minute, "give up after this long")
	flag.BoolVar(&reachable, "reachable", false, "print every reachable value instead of solving")
	flag.BoolVar(&verbose, "verbose", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	nums, err := parseNumbers(numbers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Syntax : %s -numbers 100,75,50,25,6,3 -target 952 [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if reachable {
		err = printReachable(ctx, nums)
	} else {
		err = solve(ctx, solver.Solver{MaxSolutions: limit}, nums, target)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("done")
	if err != nil {
		log.Error().Err(err).Ints("numbers", nums).Int("target", target).Msg("solve failed")
		os.Exit(1)
	}
}

func solve(ctx context.Context, s solver.Solver, nums []int, target int) error {
	res, err := s.Solve(ctx, nums, target)
	if err != nil {
		return err
	}
	if len(res.Solutions) > 0 {
		for _, e := range res.Solutions {
			fmt.Printf("%s = %d\n", e, target)
		}
		return nil
	}
	best, err := s.Nearest(ctx, nums, target)
	if err != nil {
		return err
	}
	fmt.Printf("no solution; nearest %s = %d (%d away, scores %d)\n",
		best.Expr, best.Value, abs(best.Value-target), solver.Score(best.Value, target))
	return nil
}

func printReachable(ctx context.Context, nums []int) error {
	all, err := solver.Reachable(ctx, nums)
	if err != nil {
		return err
	}
	values := make([]int, 0, len(all))
	for v := range all {
		values = append(values, v)
	}
	sort.Ints(values)
	for _, v := range values {
		fmt.Printf("%d = %s\n", v, all[v])
	}
	return nil
}

// parseNumbers reads "100,75,50" (spaces allowed) into ints.
func parseNumbers(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("no numbers given")
	}
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("cannot parse number %q: %w", f, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
