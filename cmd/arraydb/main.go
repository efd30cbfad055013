package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/bietkhonhungvandi212/lruk-exhash/internal/storage/buffer"
	util "github.com/bietkhonhungvandi212/lruk-exhash/internal/utils"
)

func main() {
	opts := util.LoadOptionsFromEnv()
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid options: %v\n", err)
		os.Exit(1)
	}
	level, _ := opts.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(opts, logger); err != nil {
		logger.Error("workload failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// run drives a skewed page-access workload through a buffer pool and logs
// how the replacer and the page table behaved.
func run(opts util.Options, logger *slog.Logger) error {
	replacer := buffer.NewLRUKReplacer(opts.NumFrames, opts.ReplacerK, buffer.WithLogger(logger))
	bp := buffer.NewBufferPool(opts.NumFrames, replacer, opts.BucketSize, buffer.WithLogger(logger))

	rng := rand.New(rand.NewSource(opts.WorkloadSeed))
	zipf := rand.NewZipf(rng, 1.1, 1, uint64(opts.WorkloadPages-1))

	hits := 0
	for i := 0; i < opts.WorkloadOps; i++ {
		pageID := util.PageID(zipf.Uint64())
		if _, resident := bp.PinCount(pageID); resident {
			hits++
		}
		if _, err := bp.FetchPage(pageID); err != nil {
			return fmt.Errorf("fetch page %d: %w", pageID, err)
		}
		if err := bp.UnpinPage(pageID); err != nil {
			return fmt.Errorf("unpin page %d: %w", pageID, err)
		}
	}

	hitRate := 0.0
	if opts.WorkloadOps > 0 {
		hitRate = float64(hits) / float64(opts.WorkloadOps)
	}
	logger.Info("workload finished",
		slog.Int("ops", opts.WorkloadOps),
		slog.Int("pages", opts.WorkloadPages),
		slog.Int("frames", bp.Size()),
		slog.Int("resident", bp.Resident()),
		slog.Float64("hit_rate", hitRate))

	replacer.Stats().LogStats(logger)
	bp.PageTableStats().LogStats(logger, opts.BucketSize)
	return nil
}
