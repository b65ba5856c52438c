package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/repository"
)

// revalidateLimit caps the number of stores re-resolved per batch.
const revalidateLimit = 100

// RevalidateReport summarises a revalidation batch.
type RevalidateReport struct {
	Processed int `json:"processed"`
	Resolved  int `json:"resolved"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"` // Stores changed by someone else while they were resolved
}

// Revalidate fetches pending stores that are still unresolved, starts a worker pool to resolve
// them again and waits for all workers to finish. Failures are counted on the store so that a
// store is given up on after repeated misses.
func (s *StoreService) Revalidate(ctx context.Context) (RevalidateReport, error) {
	stores, err := s.repo.FetchStoresForResolution(ctx, revalidateLimit)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch stores", "error", err)
		return RevalidateReport{}, err
	}
	if len(stores) == 0 {
		s.log.InfoContext(ctx, "No stores to revalidate.")
		return RevalidateReport{}, nil
	}

	s.log.InfoContext(
		ctx,
		"Found stores to revalidate. Starting worker pool.",
		"jobs",
		len(stores),
		"num_workers",
		s.numWorkers,
	)

	jobs := make(chan models.Store, len(stores))
	var (
		wgr    sync.WaitGroup
		counts revalidateCounts
	)

	for i := 1; i <= s.numWorkers; i++ {
		wgr.Add(1)
		go s.worker(ctx, i, &wgr, jobs, &counts)
	}

	for _, store := range stores {
		jobs <- store
	}
	close(jobs)

	wgr.Wait()
	report := RevalidateReport{
		Processed: len(stores),
		Resolved:  int(counts.resolved.Load()),
		Failed:    int(counts.failed.Load()),
		Skipped:   int(counts.skipped.Load()),
	}
	s.log.InfoContext(ctx, "Revalidation batch finished",
		"resolved", report.Resolved, "failed", report.Failed, "skipped", report.Skipped)

	return report, ctx.Err()
}

type revalidateCounts struct {
	resolved, failed, skipped atomic.Int64
}

// worker resolves stores from the jobs channel. On a miss it increments the failure count of the
// store; on a hit it saves the new location unless the store was modified in the meantime.
func (s *StoreService) worker(
	ctx context.Context,
	idx int,
	wg *sync.WaitGroup,
	jobs <-chan models.Store,
	counts *revalidateCounts,
) {
	defer wg.Done()
	for store := range jobs {
		if ctx.Err() != nil {
			counts.failed.Add(1)
			continue
		}

		s.metrics.ActiveWorkers.Inc()
		s.log.DebugContext(ctx, "Processing store", "worker", idx, "store", store.ID)

		loc, err := s.policy.Retry(ctx, store.Location())
		if err != nil {
			s.log.WarnContext(ctx, "Failed to resolve store", "worker", idx, "store", store.ID, "error", err)
			counts.failed.Add(1)

			if err = s.repo.IncrementFailureCount(ctx, store.ID, err.Error()); err != nil {
				s.log.ErrorContext(
					ctx,
					"Could not update failure count for store",
					"worker", idx,
					"store", store.ID,
					"error", err,
				)
			}
			s.metrics.ActiveWorkers.Dec()
			continue
		}

		err = s.repo.UpdateLocation(ctx, store.ID, loc, store.UpdatedAt)
		switch {
		case errors.Is(err, repository.ErrStoreChanged):
			counts.skipped.Add(1)
			s.log.InfoContext(ctx, "Store changed while it was resolved, result dropped", "worker", idx, "store", store.ID)
		case err != nil:
			s.log.ErrorContext(
				ctx,
				"Failed to save location for store",
				"worker", idx,
				"store", store.ID,
				"error", err,
			)
			counts.failed.Add(1)
		default:
			counts.resolved.Add(1)
			s.log.DebugContext(ctx, "Worker successfully resolved the store", "worker", idx, "store", store.ID)
		}

		s.metrics.ActiveWorkers.Dec()
	}
}
