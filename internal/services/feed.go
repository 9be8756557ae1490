// Package services contains business logic layers.
// Services are called by handlers and interact with the store.
package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/store"
)

// DefaultResolvedWindow is how long a Resolved complaint stays visible in
// feeds that apply the split policy.
const DefaultResolvedWindow = 3 * 24 * time.Hour

// activeStatuses are the non-terminal statuses. The store cannot express
// "status != Resolved" in one request, so the active half of the split
// policy issues one sub-query per entry.
var activeStatuses = []string{models.StatusPending, models.StatusInProgress}

// FeedService assembles the per-audience complaint feeds: personal history,
// floor/mess community feed, and the warden's filtered view.
//
// Every feed applies the split policy: non-terminal complaints surface
// regardless of age, Resolved complaints only while recently resolved.
// Feeds that need more than one underlying query run them concurrently and
// merge through mergeSortCap, since the store guarantees neither
// cross-request ordering nor disjunctive predicates.
type FeedService struct {
	store          store.Store
	logger         *zap.SugaredLogger
	resolvedWindow time.Duration
}

// NewFeedService creates a feed service. A zero resolvedWindow selects the
// default of three days.
func NewFeedService(s store.Store, logger *zap.SugaredLogger, resolvedWindow time.Duration) *FeedService {
	if resolvedWindow <= 0 {
		resolvedWindow = DefaultResolvedWindow
	}
	return &FeedService{store: s, logger: logger, resolvedWindow: resolvedWindow}
}

func (s *FeedService) resolvedCutoff() int64 {
	return time.Now().Add(-s.resolvedWindow).UnixMilli()
}

// FetchMyComplaints returns the personal feed: everything the student still
// has open, plus anything resolved within the recency window.
func (s *FeedService) FetchMyComplaints(ctx context.Context, uid string) ([]models.Complaint, error) {
	return s.runMerged(ctx, s.splitQueries(store.NewQuery().WhereEq("uid", uid)))
}

// FetchCommunityComplaints returns the shared-facility feed for a floor:
// washroom complaints on that floor, united with mess complaints from the
// whole hostel (mess facilities are not floor-scoped).
func (s *FeedService) FetchCommunityComplaints(ctx context.Context, floor int) ([]models.Complaint, error) {
	washroom := store.NewQuery().
		WhereFloor(floor).
		WhereEq("locationType", models.LocationWashroom)
	mess := store.NewQuery().
		WhereEq("locationType", models.LocationMess)

	queries := append(s.splitQueries(washroom), s.splitQueries(mess)...)
	return s.runMerged(ctx, queries)
}

// FetchFilteredComplaints returns the warden's management feed. Floor 0
// means all floors and an empty or "All" category is skipped. A concrete
// status issues exactly one query, with the resolved-age window applied
// only when that status is Resolved; no status applies the split policy.
func (s *FeedService) FetchFilteredComplaints(ctx context.Context, floor int, category, status string) ([]models.Complaint, error) {
	base := store.NewQuery().WhereFloor(floor)
	if category != "" && category != "All" {
		base = base.WhereEq("complaintCategory", category)
	}

	if status != "" {
		q := base.WhereEq("status", status)
		if status == models.StatusResolved {
			q = q.SinceMillis(s.resolvedCutoff())
		}
		return s.store.QueryComplaints(ctx, q)
	}

	return s.runMerged(ctx, s.splitQueries(base))
}

// splitQueries expands a base predicate set into the split policy's
// sub-queries: one per active status with no age bound, plus Resolved
// bounded by the recency window.
func (s *FeedService) splitQueries(base store.Query) []store.Query {
	queries := make([]store.Query, 0, len(activeStatuses)+1)
	for _, status := range activeStatuses {
		queries = append(queries, base.WhereEq("status", status))
	}
	queries = append(queries,
		base.WhereEq("status", models.StatusResolved).SinceMillis(s.resolvedCutoff()))
	return queries
}

// runMerged issues the sub-queries concurrently and merges the results.
// The first store error wins; partial results are discarded.
func (s *FeedService) runMerged(ctx context.Context, queries []store.Query) ([]models.Complaint, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		results  = make([][]models.Complaint, len(queries))
	)

	for i, q := range queries {
		wg.Add(1)
		go func(i int, q store.Query) {
			defer wg.Done()
			out, err := s.store.QueryComplaints(ctx, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[i] = out
		}(i, q)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return mergeSortCap(results, store.FetchLimit), nil
}

// mergeSortCap concatenates the result sets of independent queries,
// re-sorts newest-first, and truncates to the global cap. Necessary because
// the store cannot express the union in one request and gives no ordering
// guarantee across requests.
func mergeSortCap(lists [][]models.Complaint, limit int) []models.Complaint {
	merged := []models.Complaint{}
	for _, l := range lists {
		merged = append(merged, l...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
