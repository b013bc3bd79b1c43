package main

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/PrestigeLulu/OmokWeb/backend/omok"
)

var (
	aiDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "omok_ai_decisions_total",
		Help: "AI decisions by outcome (win, search, fallback, none, game_over, error)",
	}, []string{"reason"})

	aiDecisionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "omok_ai_decision_duration_seconds",
		Help:    "Wall time of one AI decision",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	})

	aiSearchNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "omok_ai_search_nodes",
		Help:    "Nodes visited per AI search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 12),
	})

	aiCompletedDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "omok_ai_completed_depth",
		Help:    "Deepest fully searched iteration per AI decision",
		Buckets: prometheus.LinearBuckets(0, 1, 9),
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "omok_sessions_active",
		Help: "Open player sessions",
	})

	relayEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "omok_relay_events_total",
		Help: "Move relay events by result (sent, failed, dropped, disabled)",
	}, []string{"result"})
)

func observeDecision(decision omok.Decision, err error, elapsed time.Duration) {
	aiDecisionDuration.Observe(elapsed.Seconds())
	switch {
	case err == nil:
		aiDecisions.WithLabelValues(string(decision.Reason)).Inc()
		if decision.Reason != omok.ReasonWin {
			aiSearchNodes.Observe(float64(decision.Stats.Nodes))
			aiCompletedDepth.Observe(float64(decision.Depth))
		}
	case errors.Is(err, omok.ErrNoLegalMoves):
		aiDecisions.WithLabelValues("none").Inc()
	case errors.Is(err, omok.ErrGameOver):
		aiDecisions.WithLabelValues("game_over").Inc()
	default:
		aiDecisions.WithLabelValues("error").Inc()
	}
}
