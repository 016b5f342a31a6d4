package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReputationResolver resolves the reputation of a set of links with a
// bounded worker pool. It is safe for concurrent use across requests:
// all mutable state is per-call.
type ReputationResolver struct {
	client     ReputationClient
	cache      ReputationCache // nil when caching is disabled
	enabled    bool            // capability flag: client configured and usable
	maxWorkers int
	pollDelay  time.Duration
	logger     *zap.Logger
}

// NewReputationResolver creates a new resolver. When enabled is false
// the resolver never touches the network and marks every link as
// resolved with empty stats, leaving degraded coverage to diagnostics.
func NewReputationResolver(
	client ReputationClient,
	cache ReputationCache,
	enabled bool,
	maxWorkers int,
	pollDelay time.Duration,
	logger *zap.Logger,
) *ReputationResolver {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &ReputationResolver{
		client:     client,
		cache:      cache,
		enabled:    enabled && client != nil,
		maxWorkers: maxWorkers,
		pollDelay:  pollDelay,
		logger:     logger,
	}
}

// Enabled reports whether the reputation service is configured.
func (r *ReputationResolver) Enabled() bool {
	return r.enabled
}

// Resolve produces one record per unique link, in normalized input
// order regardless of worker completion order. It never fails the
// request: individual lookup failures become error records.
func (r *ReputationResolver) Resolve(ctx context.Context, links []string) *ReputationBatch {
	unique := NormalizeLinks(links)
	records := make([]*LinkRecord, len(unique))

	if !r.enabled {
		// "Could not check" rather than "checked, found nothing":
		// records are uniform resolved-empty, the flag carries the
		// difference to the scorer and diagnostics.
		for i, link := range unique {
			records[i] = &LinkRecord{
				Link:             link,
				NormalizedDomain: LinkDomain(link),
				State:            LinkResolved,
				Stats:            map[string]int{},
			}
		}
		return &ReputationBatch{Records: records, ServiceAvailable: false}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxWorkers)
	for i, link := range unique {
		i, link := i, link
		g.Go(func() error {
			records[i] = r.resolveOne(gctx, link)
			return nil
		})
	}
	// Workers never return errors; Wait is a join point only.
	_ = g.Wait()

	return &ReputationBatch{Records: records, ServiceAvailable: true}
}

// resolveOne runs the lookup -> submit -> single-poll sequence for one
// link. Retrying beyond the one poll would block the caller, so every
// other outcome is recorded as-is.
func (r *ReputationResolver) resolveOne(ctx context.Context, link string) *LinkRecord {
	rec := &LinkRecord{
		Link:             link,
		NormalizedDomain: LinkDomain(link),
	}

	if r.cache != nil {
		if stats, err := r.cache.Get(ctx, link); err == nil {
			r.logger.Debug("Reputation cache hit", zap.String("url", link))
			rec.State = LinkResolved
			rec.Stats = stats
			return rec
		}
	}

	stats, err := r.client.Lookup(ctx, link)
	if err == nil {
		return r.resolved(ctx, rec, stats)
	}
	if !errors.Is(err, ErrNotFound) {
		r.logger.Warn("Reputation lookup failed",
			zap.String("url", link),
			zap.Error(err))
		rec.State = LinkError
		rec.ErrorDetail = fmt.Sprintf("lookup failed: %v", err)
		return rec
	}

	// Unknown URL: submit it and poll exactly once after a fixed delay.
	if err := r.client.Submit(ctx, link); err != nil {
		r.logger.Warn("Reputation submission failed",
			zap.String("url", link),
			zap.Error(err))
		rec.State = LinkError
		rec.ErrorDetail = fmt.Sprintf("submission failed: %v", err)
		return rec
	}

	select {
	case <-ctx.Done():
		rec.State = LinkError
		rec.ErrorDetail = "cancelled before analysis completed"
		return rec
	case <-time.After(r.pollDelay):
	}

	stats, err = r.client.Lookup(ctx, link)
	switch {
	case err == nil:
		return r.resolved(ctx, rec, stats)
	case errors.Is(err, ErrNotFound):
		// Analysis still pending after the poll window.
		rec.State = LinkSubmitted
	default:
		rec.State = LinkError
		rec.ErrorDetail = fmt.Sprintf("post-submission lookup failed: %v", err)
	}
	return rec
}

func (r *ReputationResolver) resolved(ctx context.Context, rec *LinkRecord, stats map[string]int) *LinkRecord {
	if stats == nil {
		stats = map[string]int{}
	}
	rec.State = LinkResolved
	rec.Stats = stats
	if r.cache != nil {
		if err := r.cache.Set(ctx, rec.Link, stats); err != nil {
			r.logger.Error("Failed to update reputation cache", zap.Error(err))
		}
	}
	return rec
}
