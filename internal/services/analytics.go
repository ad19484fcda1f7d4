package services

import (
	"github.com/dastin52/bet-diary-app-sub000/internal/ledger"
	"github.com/dastin52/bet-diary-app-sub000/internal/models"
)

// Summary is the derived analytics projection. It is recomputed from the
// wager list on every read and never stored.
type Summary struct {
	TotalWagers int `json:"total_wagers"`
	Pending     int `json:"pending"`
	Won         int `json:"won"`
	Lost        int `json:"lost"`
	Void        int `json:"void"`
	CashedOut   int `json:"cashed_out"`

	TotalStaked float64 `json:"total_staked"`
	NetProfit   float64 `json:"net_profit"`
	ROI         float64 `json:"roi"`
	WinRate     float64 `json:"win_rate"`

	ProfitBySport map[string]float64 `json:"profit_by_sport"`
}

func Summarize(agg *models.Aggregate) *Summary {
	s := &Summary{ProfitBySport: map[string]float64{}}
	for _, w := range agg.Wagers {
		s.TotalWagers++
		switch w.Status {
		case models.WagerStatusPending:
			s.Pending++
			continue
		case models.WagerStatusWon:
			s.Won++
		case models.WagerStatusLost:
			s.Lost++
		case models.WagerStatusVoid:
			s.Void++
		case models.WagerStatusCashedOut:
			s.CashedOut++
		}
		profit := ledger.SettlementProfit(w)
		s.TotalStaked += w.Stake
		s.NetProfit += profit
		s.ProfitBySport[w.Sport] += profit
	}
	if s.TotalStaked > 0 {
		s.ROI = s.NetProfit / s.TotalStaked * 100
	}
	if decided := s.Won + s.Lost; decided > 0 {
		s.WinRate = float64(s.Won) / float64(decided) * 100
	}
	return s
}
