// Command snapshot-check normalizes a persisted workspace snapshot offline
// and reports what a load would keep, repair, or drop. With -out it writes
// the normalized snapshot, which is what the service would persist back.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"mattercore/internal/core"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("snapshot-check", flag.ContinueOnError)
	in := fs.String("in", "", "path to the snapshot JSON file (required)")
	out := fs.String("out", "", "write the normalized snapshot to this path")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	logger := buildLogger(*verbose)
	defer func() { _ = logger.Sync() }()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "snapshot-check: -in is required")
		fs.Usage()
		return 2
	}
	raw, err := os.ReadFile(*in)
	if err != nil {
		logger.Error("read snapshot", zap.String("path", *in), zap.Error(err))
		return 1
	}

	// Count raw array elements without validating them; the normalizer
	// decides what survives.
	var incoming struct {
		Clients     []json.RawMessage `json:"clients"`
		Cases       []json.RawMessage `json:"cases"`
		Documents   []json.RawMessage `json:"documents"`
		Research    []json.RawMessage `json:"research"`
		TimeEntries []json.RawMessage `json:"timeEntries"`
		Activity    []json.RawMessage `json:"activity"`
	}
	if err := json.Unmarshal(raw, &incoming); err != nil {
		logger.Warn("snapshot is not a JSON object, treating as empty", zap.Error(err))
	}

	state := core.NewNormalizer().Normalize(raw)
	logger.Info("normalized",
		zap.Int("clientsIn", len(incoming.Clients)), zap.Int("clientsKept", len(state.Clients)),
		zap.Int("casesIn", len(incoming.Cases)), zap.Int("casesKept", len(state.Cases)),
		zap.Int("documentsIn", len(incoming.Documents)), zap.Int("documentsKept", len(state.Documents)),
		zap.Int("researchIn", len(incoming.Research)), zap.Int("researchKept", len(state.Research)),
		zap.Int("timeEntriesIn", len(incoming.TimeEntries)), zap.Int("timeEntriesKept", len(state.TimeEntries)),
		zap.Int("activityIn", len(incoming.Activity)), zap.Int("activityKept", len(state.Activity)))

	if *out != "" {
		payload, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			logger.Error("marshal normalized snapshot", zap.Error(err))
			return 1
		}
		if err := os.WriteFile(*out, payload, 0o600); err != nil {
			logger.Error("write normalized snapshot", zap.String("path", *out), zap.Error(err))
			return 1
		}
		logger.Info("wrote normalized snapshot", zap.String("path", *out))
	}
	return 0
}

func buildLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
