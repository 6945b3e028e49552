package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "parley"
	subsystem = "negotiation_api"
)

var (
	// GenerationAttempts counts individual model calls in the generation
	// race, by outcome (valid, invalid, error).
	GenerationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "generation_attempts_total",
		Help:      "Tree generation model calls by outcome.",
	}, []string{"outcome"})

	// GenerationRaces counts whole generation rounds, by result (won,
	// fallback).
	GenerationRaces = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "generation_races_total",
		Help:      "Tree generation rounds by result.",
	}, []string{"result"})

	// GenerationDuration observes how long a generation round takes, from
	// fan-out to winning response or fallback.
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "generation_duration_seconds",
		Help:      "Tree generation round duration.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// MessagesCreated counts messages inserted into dialogue trees, by
	// source (generated, manual, summarized).
	MessagesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "messages_created_total",
		Help:      "Messages inserted into dialogue trees by source.",
	}, []string{"source"})

	// MessagesDeleted counts messages removed by tree mutations, by kind
	// (subtree, trim).
	MessagesDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "messages_deleted_total",
		Help:      "Messages removed from dialogue trees by mutation kind.",
	}, []string{"kind"})
)

const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"

	ResultWon      = "won"
	ResultFallback = "fallback"

	SourceGenerated  = "generated"
	SourceManual     = "manual"
	SourceSummarized = "summarized"

	KindSubtree = "subtree"
	KindTrim    = "trim"
)
