// Command arena plays the omok engine against itself and answers best-move
// queries for boards stored as text.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

var (
	games        int
	boardSize    int
	blackDepth   int
	whiteDepth   int
	seed         int64
	openingPlies int
	timeBudgetMs int

	boardFile  string
	colorName  string
	bestDepth  int
	remoteURL  string
	remoteWait time.Duration

	rootCmd = &cobra.Command{
		Use:          "arena",
		Short:        "Self-play and analysis tools for the omok engine",
		SilenceUsage: true,
	}

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play engine-vs-engine games from seeded openings",
		RunE:  runPlay,
	}

	bestCmd = &cobra.Command{
		Use:   "best",
		Short: "Print the engine's move for a text board",
		RunE:  runBest,
	}
)

func init() {
	playCmd.Flags().IntVar(&games, "games", 10, "number of games")
	playCmd.Flags().IntVar(&boardSize, "size", omok.DefaultBoardSize, "board size")
	playCmd.Flags().IntVar(&blackDepth, "black-depth", omok.DefaultDepth, "search depth for black")
	playCmd.Flags().IntVar(&whiteDepth, "white-depth", omok.DefaultDepth, "search depth for white")
	playCmd.Flags().Int64Var(&seed, "seed", 1, "opening seed")
	playCmd.Flags().IntVar(&openingPlies, "opening-plies", 2, "random stones placed near the centre before the engines take over")
	playCmd.Flags().IntVar(&timeBudgetMs, "time-budget-ms", 1000, "per-move time budget, 0 for none")

	bestCmd.Flags().StringVar(&boardFile, "board", "", "board file (X black, O white, . empty), - for stdin")
	bestCmd.Flags().StringVar(&colorName, "color", "black", "colour to move")
	bestCmd.Flags().IntVar(&bestDepth, "depth", omok.DefaultDepth, "search depth")
	bestCmd.Flags().StringVar(&remoteURL, "remote", "", "ask a running backend instead of searching locally")
	bestCmd.Flags().DurationVar(&remoteWait, "remote-timeout", 30*time.Second, "HTTP timeout for --remote")
	_ = bestCmd.MarkFlagRequired("board")

	rootCmd.AddCommand(playCmd, bestCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("[arena] %v", err)
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	if boardSize < omok.WinLength {
		return fmt.Errorf("--size must be at least %d", omok.WinLength)
	}
	if blackDepth < 1 || whiteDepth < 1 {
		return omok.ErrInvalidDepth
	}
	if games < 0 {
		return fmt.Errorf("--games must not be negative")
	}
	if openingPlies < 0 {
		return fmt.Errorf("--opening-plies must not be negative")
	}
	opts := matchOptions{
		Size:         boardSize,
		BlackDepth:   blackDepth,
		WhiteDepth:   whiteDepth,
		OpeningPlies: openingPlies,
		TimeBudget:   time.Duration(timeBudgetMs) * time.Millisecond,
	}
	renderer := newBoardRenderer(cmd.OutOrStdout())
	rng := rand.New(rand.NewSource(seed))
	suite := buildOpeningSuite(rng, opts.Size, opts.OpeningPlies, games)

	var summary matchSummary
	for i, opening := range suite {
		start := time.Now()
		result, err := playGame(cmd.Context(), opts, opening)
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		summary.add(result)
		outcome := "draw"
		if result.HasWinner {
			outcome = result.Winner.String() + " wins"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "game %d: %s after %d plies (%s)\n", i+1, outcome, result.Plies, time.Since(start).Round(time.Millisecond))
		renderer.Render(result.Board, result.Line)
	}
	renderer.Summary(summary)
	return nil
}

func runBest(cmd *cobra.Command, args []string) error {
	board, err := readBoardFile(boardFile)
	if err != nil {
		return err
	}
	color, err := omok.ParseColor(colorName)
	if err != nil {
		return err
	}
	if bestDepth < 1 {
		return omok.ErrInvalidDepth
	}

	out := cmd.OutOrStdout()
	if remoteURL != "" {
		response, err := newRemoteEngine(remoteURL, remoteWait).BestMove(cmd.Context(), board, color, bestDepth)
		if err != nil {
			return err
		}
		if response.Move == nil {
			fmt.Fprintf(out, "no move (%s)\n", response.Reason)
			return nil
		}
		fmt.Fprintf(out, "%s plays %s (%s depth=%d nodes=%d)\n", color, response.Move, response.Reason, response.Depth, response.Nodes)
		return nil
	}

	decision, err := omok.NewEngine(omok.DefaultLimits().WithDepth(bestDepth), omok.DefaultEvaluator()).Decide(cmd.Context(), board, color)
	switch {
	case errors.Is(err, omok.ErrNoLegalMoves), errors.Is(err, omok.ErrGameOver):
		fmt.Fprintf(out, "no move (%v)\n", err)
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(out, "%s plays %s (%s depth=%d nodes=%d)\n", color, decision.Move, decision.Reason, decision.Depth, decision.Stats.Nodes)
	return nil
}

func readBoardFile(path string) (*omok.Board, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	board, err := omok.ParseBoard(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse board %s: %w", path, err)
	}
	return board, nil
}
