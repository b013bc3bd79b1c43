package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: $OMOK_CONFIG or the XDG config dir)")
	flag.Parse()

	config, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("[backend] %v", err)
	}
	configStore.Update(config)

	viewers := NewHub()
	analysis := NewAnalysisHub()
	relay := NewMoveRelay(config)
	game := &gameServer{
		store:   NewSessionStore(func() int { return GetConfig().BoardSize }, engineFactory(analysis)),
		viewers: viewers,
		relay:   relay,
	}

	server := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           newRouter(game, analysis),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	group, ctx := errgroup.WithContext(sigCtx)

	group.Go(func() error { return viewers.Run(ctx) })
	group.Go(func() error { return analysis.Run(ctx) })
	group.Go(func() error { return relay.Run(ctx) })
	group.Go(func() error {
		log.Printf("[backend] listening on %s", config.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Printf("[backend] shutting down: %v", context.Cause(ctx))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[backend] graceful shutdown failed: %v", err)
			return server.Close()
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Printf("[backend] exiting after error: %v", err)
		os.Exit(1)
	}
}

// engineFactory builds a fresh engine per AI turn from the live config, so
// POST /api/config takes effect on the next move.
func engineFactory(analysis *AnalysisHub) EngineFactory {
	return func(sessionID string) Decider {
		config := GetConfig()
		limits := config.SearchLimits()
		listener := analysis.IterationListener(sessionID)
		if config.AiLogSearchStats {
			limits.OnIteration = func(info omok.IterationInfo) {
				log.Printf("[ai] session=%s depth=%d best=%v score=%d nodes=%d elapsed=%s",
					sessionID, info.Depth, info.Result.Move, info.Result.Score, info.Nodes, info.Elapsed.Round(time.Microsecond))
				if listener != nil {
					listener(info)
				}
			}
		} else {
			limits.OnIteration = listener
		}
		return omok.NewEngine(limits, config.Evaluator())
	}
}
