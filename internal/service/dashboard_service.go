package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tmtperez/track-my-bids/internal/model/entity"
	"github.com/tmtperez/track-my-bids/internal/repository"
)

const (
	metricsCacheKey = "dashboard:metrics"
	metricsCacheTTL = 5 * time.Minute
)

// DashboardService computes the pipeline rollups and the month-bucketed
// chart series. The headline metrics are cached in redis and invalidated
// whenever a bid is written.
type DashboardService struct {
	bidRepo *repository.BidRepository
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewDashboardService(bidRepo *repository.BidRepository, rdb *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{bidRepo: bidRepo, rdb: rdb, logger: logger}
}

// Metrics is the headline dashboard payload.
type Metrics struct {
	ActivePipelineValue     float64 `json:"active_pipeline_value"`
	TotalValueWonActiveBids float64 `json:"total_value_won_active_bids"`
	ActiveWinLossRatio      float64 `json:"active_win_loss_ratio"`
	ActiveWonCount          int     `json:"active_won_count"`
	ActiveLostCount         int     `json:"active_lost_count"`
	PendingCount            int     `json:"pending_count"`
}

// ComputeMetrics rolls all bids up into the headline numbers. Pending value
// and count span every bid; won/lost totals count only scopes on Active bids.
func ComputeMetrics(bids []entity.Bid) Metrics {
	var m Metrics
	for i := range bids {
		b := &bids[i]
		for _, s := range b.Scopes {
			if s.Status == entity.ScopeStatusPending {
				m.ActivePipelineValue += s.Cost
				m.PendingCount++
			}
			if b.BidStatus == entity.BidStatusActive {
				switch s.Status {
				case entity.ScopeStatusWon:
					m.TotalValueWonActiveBids += s.Cost
					m.ActiveWonCount++
				case entity.ScopeStatusLost:
					m.ActiveLostCount++
				}
			}
		}
	}
	if decided := m.ActiveWonCount + m.ActiveLostCount; decided > 0 {
		m.ActiveWinLossRatio = float64(m.ActiveWonCount) / float64(decided)
	}
	return m
}

// Metrics returns the headline rollups, served from cache when possible.
// Cache failures degrade to a direct computation rather than an error.
func (s *DashboardService) Metrics(ctx context.Context) (*Metrics, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, metricsCacheKey).Result()
		if err == nil {
			var m Metrics
			if jsonErr := json.Unmarshal([]byte(cached), &m); jsonErr == nil {
				return &m, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	bids, err := s.bidRepo.ListWithScopes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bids for metrics: %w", err)
	}
	m := ComputeMetrics(bids)

	if s.rdb != nil {
		if payload, err := json.Marshal(&m); err == nil {
			if err := s.rdb.Set(ctx, metricsCacheKey, payload, metricsCacheTTL).Err(); err != nil {
				s.logger.Warn("dashboard cache write failed", zap.Error(err))
			}
		}
	}
	return &m, nil
}

// Invalidate drops the cached metrics after a bid write.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s == nil || s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, metricsCacheKey).Err(); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

// ChartRange is a resolved [Start, End] window for the chart endpoints.
type ChartRange struct {
	Start time.Time
	End   time.Time
}

// ResolveChartRange interprets the optional start/end query values. When
// either is absent the window defaults to the last 12 calendar months,
// ending today.
func ResolveChartRange(startRaw, endRaw string, now time.Time) ChartRange {
	start := ParseDateLoose(startRaw)
	end := ParseDateLoose(endRaw)
	if start != nil && end != nil {
		return ChartRange{
			Start: *start,
			End:   end.Add(24*time.Hour - time.Nanosecond),
		}
	}

	now = now.UTC()
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999_000_000, time.UTC)
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	return ChartRange{Start: windowStart, End: dayEnd}
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// monthSpan lists every YYYY-MM bucket from the start month through the end
// month inclusive, so sparse data still produces a continuous series.
func monthSpan(r ChartRange) []string {
	var keys []string
	cur := time.Date(r.Start.Year(), r.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(r.End.Year(), r.End.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		keys = append(keys, monthKey(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return keys
}

// chartDate picks the bucketing date for a bid: proposal date when present,
// creation time otherwise.
func chartDate(b *entity.Bid) time.Time {
	if b.ProposalDate != nil {
		return *b.ProposalDate
	}
	return b.CreatedAt
}

// MonthPoint is one bucket of the bids-over and value-over series.
type MonthPoint struct {
	Month string  `json:"month"`
	Count int     `json:"count,omitempty"`
	Total float64 `json:"total"`
}

// BidsOver counts bids per month of their chart date within the range.
func (s *DashboardService) BidsOver(ctx context.Context, r ChartRange) ([]MonthPoint, error) {
	bids, err := s.bidRepo.ListInProposalRange(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("load bids for chart: %w", err)
	}
	return BucketBidCounts(bids, r), nil
}

// BucketBidCounts is the pure bucketing step behind BidsOver.
func BucketBidCounts(bids []entity.Bid, r ChartRange) []MonthPoint {
	byMonth := make(map[string]int)
	keys := monthSpan(r)
	for _, k := range keys {
		byMonth[k] = 0
	}
	for i := range bids {
		d := chartDate(&bids[i])
		if d.Before(r.Start) || d.After(r.End) {
			continue
		}
		if k := monthKey(d); hasKey(byMonth, k) {
			byMonth[k]++
		}
	}

	points := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, MonthPoint{Month: k, Count: byMonth[k]})
	}
	return points
}

// ValueOver sums each bid's total scope value into its month bucket.
func (s *DashboardService) ValueOver(ctx context.Context, r ChartRange) ([]MonthPoint, error) {
	bids, err := s.bidRepo.ListInProposalRange(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("load bids for chart: %w", err)
	}
	return BucketBidValues(bids, r), nil
}

// BucketBidValues is the pure bucketing step behind ValueOver.
func BucketBidValues(bids []entity.Bid, r ChartRange) []MonthPoint {
	byMonth := make(map[string]float64)
	keys := monthSpan(r)
	for _, k := range keys {
		byMonth[k] = 0
	}
	for i := range bids {
		b := &bids[i]
		d := chartDate(b)
		if d.Before(r.Start) || d.After(r.End) {
			continue
		}
		if k := monthKey(d); hasKey(byMonth, k) {
			byMonth[k] += TotalAmount(b.Scopes)
		}
	}

	points := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, MonthPoint{Month: k, Total: byMonth[k]})
	}
	return points
}

// ScopeTotal is one row of the won-value-by-scope-name breakdown.
type ScopeTotal struct {
	Scope string  `json:"scope"`
	Total float64 `json:"total"`
}

// ScopeTotals sums Won scope value by scope name across bids whose chart
// date falls in the range.
func (s *DashboardService) ScopeTotals(ctx context.Context, r ChartRange) ([]ScopeTotal, error) {
	bids, err := s.bidRepo.ListInProposalRange(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("load bids for chart: %w", err)
	}
	return BucketScopeTotals(bids, r), nil
}

// BucketScopeTotals is the pure aggregation step behind ScopeTotals.
func BucketScopeTotals(bids []entity.Bid, r ChartRange) []ScopeTotal {
	totals := make(map[string]float64)
	for i := range bids {
		b := &bids[i]
		d := chartDate(b)
		if d.Before(r.Start) || d.After(r.End) {
			continue
		}
		for _, sc := range b.Scopes {
			if sc.Status == entity.ScopeStatusWon {
				totals[sc.Name] += sc.Cost
			}
		}
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]ScopeTotal, 0, len(names))
	for _, name := range names {
		rows = append(rows, ScopeTotal{Scope: name, Total: totals[name]})
	}
	return rows
}

func hasKey[V any](m map[string]V, key string) bool {
	_, ok := m[key]
	return ok
}
