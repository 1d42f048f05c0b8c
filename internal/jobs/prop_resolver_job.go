package jobs

import (
	"context"
	"log"
	"time"

	"prop-tracker/internal/repository"
	"prop-tracker/internal/services"
)

// PropResolver periodically resolves props whose game date has passed but
// whose result is still unset.
type PropResolver struct {
	resolveService *services.ResolveService
	repo           *repository.Repository
	interval       time.Duration
	batchSize      int
	captureStats   bool
	stopChan       chan struct{}
}

// NewPropResolver creates a new prop resolver job
func NewPropResolver(resolveService *services.ResolveService, repo *repository.Repository, interval time.Duration, batchSize int, captureStats bool) *PropResolver {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &PropResolver{
		resolveService: resolveService,
		repo:           repo,
		interval:       interval,
		batchSize:      batchSize,
		captureStats:   captureStats,
		stopChan:       make(chan struct{}),
	}
}

// Start begins the prop resolution loop
func (pr *PropResolver) Start() {
	log.Printf("[PropResolver] Starting prop resolution job (interval: %v)", pr.interval)

	ticker := time.NewTicker(pr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pr.resolvePendingProps()
		case <-pr.stopChan:
			log.Println("[PropResolver] Stopping prop resolution job")
			return
		}
	}
}

// Stop stops the prop resolution loop
func (pr *PropResolver) Stop() {
	close(pr.stopChan)
}

// resolvePendingProps finds unresolved props with past game dates and runs
// a resolution batch over them. Provider pacing bounds the batch size.
func (pr *PropResolver) resolvePendingProps() {
	ctx := context.Background()
	today := time.Now().Format("2006-01-02")

	props, err := pr.repo.ListUnresolvedPropsThrough(ctx, today, pr.batchSize)
	if err != nil {
		log.Printf("[PropResolver] Error fetching unresolved props: %v", err)
		return
	}
	if len(props) == 0 {
		return
	}

	log.Printf("[PropResolver] Resolving %d pending props", len(props))

	propIDs := make([]uint, len(props))
	for i, p := range props {
		propIDs[i] = p.ID
	}

	results := pr.resolveService.BatchResolve(ctx, propIDs, pr.captureStats)

	resolved, notFound, failed := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Error != "":
			failed++
		case !r.Found:
			notFound++
		default:
			resolved++
		}
	}
	log.Printf("[PropResolver] Batch done: %d resolved, %d without game data, %d failed", resolved, notFound, failed)
}
