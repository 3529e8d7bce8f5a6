package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

const (
	AnalysisPerformanceOverview = "performance_overview"
	AnalysisPatternAnalysis     = "pattern_analysis"
	AnalysisRecommendations     = "recommendations"
)

// TradeFilter narrows an analytics run to one account and/or a date_open range.
type TradeFilter struct {
	AccountID *uint64
	Since     *time.Time
	Until     *time.Time
}

type TradingPeriod struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type PerformanceOverview struct {
	TotalTrades   int             `json:"total_trades"`
	WinCount      int             `json:"win_count"`
	LossCount     int             `json:"loss_count"`
	OpenCount     int             `json:"open_count"`
	WinRate       float64         `json:"win_rate"`
	AvgProfit     decimal.Decimal `json:"avg_profit"`
	AvgLoss       decimal.Decimal `json:"avg_loss"`
	AvgRiskReward decimal.Decimal `json:"avg_risk_reward"`
	LargestProfit decimal.Decimal `json:"largest_profit"`
	LargestLoss   decimal.Decimal `json:"largest_loss"`
	TradingPeriod TradingPeriod   `json:"trading_period"`
}

// BucketStats counts outcomes within one grouping bucket. WinRate only
// considers decided trades; open trades contribute to Total alone.
type BucketStats struct {
	Total   int     `json:"total"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"`
}

type PairStats struct {
	Pair string `json:"pair"`
	BucketStats
	AvgProfit decimal.Decimal `json:"avg_profit"`
	AvgLoss   decimal.Decimal `json:"avg_loss"`
}

type DirectionStats struct {
	Direction string `json:"direction"`
	BucketStats
}

type TimeAnalysis struct {
	ByHour  map[int]BucketStats    `json:"by_hour"`
	ByDay   map[string]BucketStats `json:"by_day"`
	ByMonth map[string]BucketStats `json:"by_month"`
}

type PatternAnalysis struct {
	Pairs        []PairStats      `json:"pairs"`
	Directions   []DirectionStats `json:"directions"`
	TimeAnalysis TimeAnalysis     `json:"time_analysis"`
}

type Recommendation struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	Category    string  `json:"category"`
}

type Recommendations struct {
	Recommendations []Recommendation `json:"recommendations"`
}

type AnalyticsService struct {
	Repo            repository.Repository
	Logger          *zap.Logger
	SnapshotEnabled bool
}

// Overview aggregates win/loss counts and money stats over the filtered
// trade set and, when enabled, persists the result as a history snapshot.
func (s *AnalyticsService) Overview(ctx context.Context, userID uint64, f TradeFilter) (*PerformanceOverview, error) {
	trades, err := s.listTrades(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	overview := computeOverview(trades)
	s.snapshot(ctx, userID, AnalysisPerformanceOverview, overview)
	return overview, nil
}

// Patterns groups the filtered trades by currency pair, direction and
// open time (hour, weekday, month).
func (s *AnalyticsService) Patterns(ctx context.Context, userID uint64, f TradeFilter) (*PatternAnalysis, error) {
	trades, err := s.listTrades(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	patterns := computePatterns(trades)
	s.snapshot(ctx, userID, AnalysisPatternAnalysis, patterns)
	return patterns, nil
}

// Recommendations evaluates heuristics over the user's full trade history.
func (s *AnalyticsService) Recommendations(ctx context.Context, userID uint64) (*Recommendations, error) {
	trades, err := s.Repo.ListTrades(ctx, repository.ListTradesParams{UserID: userID})
	if err != nil {
		return nil, err
	}
	recs := computeRecommendations(trades)
	if len(trades) > 0 {
		s.snapshot(ctx, userID, AnalysisRecommendations, recs)
	}
	return recs, nil
}

// History returns persisted snapshots, newest first.
func (s *AnalyticsService) History(ctx context.Context, userID uint64, analysisType string, limit int) ([]models.AnalysisResult, error) {
	params := repository.ListAnalysisResultsParams{UserID: userID, Limit: limit}
	if analysisType != "" {
		params.AnalysisType = &analysisType
	}
	return s.Repo.ListAnalysisResults(ctx, params)
}

func (s *AnalyticsService) listTrades(ctx context.Context, userID uint64, f TradeFilter) ([]models.Trade, error) {
	return s.Repo.ListTrades(ctx, repository.ListTradesParams{
		UserID:    userID,
		AccountID: f.AccountID,
		Since:     f.Since,
		Until:     f.Until,
	})
}

func (s *AnalyticsService) snapshot(ctx context.Context, userID uint64, analysisType string, result any) {
	if !s.SnapshotEnabled {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.Logger.Warn("marshal analysis snapshot", zap.String("type", analysisType), zap.Error(err))
		return
	}
	record := &models.AnalysisResult{
		UserID:       userID,
		AnalysisType: analysisType,
		ResultData:   datatypes.JSON(payload),
	}
	if err := s.Repo.InsertAnalysisResult(ctx, record); err != nil {
		s.Logger.Warn("persist analysis snapshot",
			zap.Uint64("user_id", userID),
			zap.String("type", analysisType),
			zap.Error(err))
	}
}

func computeOverview(trades []models.Trade) *PerformanceOverview {
	o := &PerformanceOverview{TotalTrades: len(trades)}

	var (
		profitSum, lossSum, rrSum decimal.Decimal
		profitN, lossN, rrN       int64
	)
	for _, t := range trades {
		switch t.WinLoss {
		case models.WinLossWin:
			o.WinCount++
		case models.WinLossLoss:
			o.LossCount++
		case models.WinLossOpen:
			o.OpenCount++
		}
		if t.ProfitAmount != nil {
			profitSum = profitSum.Add(*t.ProfitAmount)
			profitN++
			if t.ProfitAmount.GreaterThan(o.LargestProfit) {
				o.LargestProfit = *t.ProfitAmount
			}
		}
		if t.LossAmount != nil {
			lossSum = lossSum.Add(*t.LossAmount)
			lossN++
			if t.LossAmount.GreaterThan(o.LargestLoss) {
				o.LargestLoss = *t.LossAmount
			}
		}
		if t.RiskReward != nil {
			rrSum = rrSum.Add(*t.RiskReward)
			rrN++
		}

		open := t.DateOpen
		if o.TradingPeriod.Start == nil || open.Before(*o.TradingPeriod.Start) {
			start := open
			o.TradingPeriod.Start = &start
		}
		if t.DateClosed != nil {
			closed := *t.DateClosed
			if o.TradingPeriod.End == nil || closed.After(*o.TradingPeriod.End) {
				end := closed
				o.TradingPeriod.End = &end
			}
		}
	}

	o.WinRate = winRate(o.WinCount, o.LossCount)
	if profitN > 0 {
		o.AvgProfit = profitSum.Div(decimal.NewFromInt(profitN)).Round(amountScale)
	}
	if lossN > 0 {
		o.AvgLoss = lossSum.Div(decimal.NewFromInt(lossN)).Round(amountScale)
	}
	if rrN > 0 {
		o.AvgRiskReward = rrSum.Div(decimal.NewFromInt(rrN)).Round(ratioScale)
	}
	return o
}

func computePatterns(trades []models.Trade) *PatternAnalysis {
	type pairAcc struct {
		stats              BucketStats
		profitSum, lossSum decimal.Decimal
		profitN, lossN     int64
	}
	pairs := map[string]*pairAcc{}
	directions := map[string]*BucketStats{
		models.DirectionLong:  {},
		models.DirectionShort: {},
	}
	byHour := map[int]BucketStats{}
	byDay := map[string]BucketStats{}
	byMonth := map[string]BucketStats{}

	bump := func(b *BucketStats, winLoss string) {
		b.Total++
		switch winLoss {
		case models.WinLossWin:
			b.Wins++
		case models.WinLossLoss:
			b.Losses++
		}
		b.WinRate = winRate(b.Wins, b.Losses)
	}
	bumpKeyed := func(m map[string]BucketStats, key, winLoss string) {
		b := m[key]
		bump(&b, winLoss)
		m[key] = b
	}

	for _, t := range trades {
		acc, ok := pairs[t.CurrencyPair]
		if !ok {
			acc = &pairAcc{}
			pairs[t.CurrencyPair] = acc
		}
		bump(&acc.stats, t.WinLoss)
		if t.WinLoss == models.WinLossWin && t.ProfitAmount != nil {
			acc.profitSum = acc.profitSum.Add(*t.ProfitAmount)
			acc.profitN++
		}
		if t.WinLoss == models.WinLossLoss && t.LossAmount != nil {
			acc.lossSum = acc.lossSum.Add(*t.LossAmount)
			acc.lossN++
		}

		if b, ok := directions[t.Direction]; ok {
			bump(b, t.WinLoss)
		}

		hb := byHour[t.DateOpen.Hour()]
		bump(&hb, t.WinLoss)
		byHour[t.DateOpen.Hour()] = hb

		bumpKeyed(byDay, t.DateOpen.Weekday().String(), t.WinLoss)
		bumpKeyed(byMonth, t.DateOpen.Month().String(), t.WinLoss)
	}

	out := &PatternAnalysis{
		TimeAnalysis: TimeAnalysis{ByHour: byHour, ByDay: byDay, ByMonth: byMonth},
	}
	for pair, acc := range pairs {
		p := PairStats{Pair: pair, BucketStats: acc.stats}
		if acc.profitN > 0 {
			p.AvgProfit = acc.profitSum.Div(decimal.NewFromInt(acc.profitN)).Round(amountScale)
		}
		if acc.lossN > 0 {
			p.AvgLoss = acc.lossSum.Div(decimal.NewFromInt(acc.lossN)).Round(amountScale)
		}
		out.Pairs = append(out.Pairs, p)
	}
	sort.Slice(out.Pairs, func(i, j int) bool { return out.Pairs[i].Pair < out.Pairs[j].Pair })

	for _, direction := range []string{models.DirectionLong, models.DirectionShort} {
		out.Directions = append(out.Directions, DirectionStats{
			Direction:   direction,
			BucketStats: *directions[direction],
		})
	}
	return out
}

func computeRecommendations(trades []models.Trade) *Recommendations {
	out := &Recommendations{Recommendations: []Recommendation{}}
	if len(trades) == 0 {
		return out
	}

	wins, losses := 0, 0
	var rrSum decimal.Decimal
	var rrN int64
	pairs := map[string]struct{}{}
	tradeDays := map[string]struct{}{}
	for _, t := range trades {
		switch t.WinLoss {
		case models.WinLossWin:
			wins++
		case models.WinLossLoss:
			losses++
		}
		if t.RiskReward != nil {
			rrSum = rrSum.Add(*t.RiskReward)
			rrN++
		}
		pairs[t.CurrencyPair] = struct{}{}
		tradeDays[t.DateOpen.Format("2006-01-02")] = struct{}{}
	}

	if wins+losses > 0 {
		rate := winRate(wins, losses)
		if rate < 0.3 {
			out.Recommendations = append(out.Recommendations, Recommendation{
				Title:       "Low Win Rate",
				Description: "Your win rate is below 30%. Consider reviewing your trading strategy or focusing on the currency pairs with higher win rates.",
				Confidence:  0.9,
				Category:    "Performance",
			})
		} else if rate > 0.7 {
			out.Recommendations = append(out.Recommendations, Recommendation{
				Title:       "Excellent Win Rate",
				Description: "Your win rate is above 70%. Consider increasing your position sizes to maximize profits.",
				Confidence:  0.9,
				Category:    "Performance",
			})
		}
	}

	if rrN > 0 && rrSum.Div(decimal.NewFromInt(rrN)).LessThan(decimal.NewFromInt(1)) {
		out.Recommendations = append(out.Recommendations, Recommendation{
			Title:       "Low Risk/Reward Ratio",
			Description: "Your average risk/reward ratio is below 1:1. Consider adjusting your take profit and stop loss levels to aim for at least 1:2.",
			Confidence:  0.8,
			Category:    "Risk Management",
		})
	}

	if len(pairs) > 10 && len(trades) < 50 {
		out.Recommendations = append(out.Recommendations, Recommendation{
			Title:       "Too Many Currency Pairs",
			Description: "You're trading too many different currency pairs relative to your total trade count. Consider focusing on fewer pairs to develop expertise.",
			Confidence:  0.7,
			Category:    "Strategy",
		})
	}

	if len(trades) > 50 && float64(len(trades))/float64(len(tradeDays)) > 5 {
		out.Recommendations = append(out.Recommendations, Recommendation{
			Title:       "Potential Overtrading",
			Description: "You're averaging more than 5 trades per trading day. Consider quality over quantity and being more selective.",
			Confidence:  0.6,
			Category:    "Behavior",
		})
	}
	return out
}

// winRate returns wins over decided trades as a 0..1 fraction,
// 0 when nothing has been decided yet.
func winRate(wins, losses int) float64 {
	if wins+losses == 0 {
		return 0
	}
	return float64(wins) / float64(wins+losses)
}
