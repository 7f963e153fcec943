package usecase

import (
	"context"
	"math"
	"time"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
)

const (
	abuseReasonClientHighFrequency  = "client_high_frequency"
	abuseReasonSellerHighFrequency  = "seller_high_frequency"
	abuseReasonClientLowSuccessRate = "client_low_success_rate"

	lowSuccessRateMinDisputes = 3
	lowSuccessRateCutoff      = 0.2
)

// AbuseSignalEvaluator computes the risk snapshot frozen into a dispute at
// filing time. It is advisory metadata for admin review and never blocks
// creation.
type AbuseSignalEvaluator struct {
	disputeRepo     repository.DisputeRepository
	clientThreshold int
	sellerThreshold int
}

func NewAbuseSignalEvaluator(disputeRepo repository.DisputeRepository, clientThreshold, sellerThreshold int) *AbuseSignalEvaluator {
	return &AbuseSignalEvaluator{
		disputeRepo:     disputeRepo,
		clientThreshold: clientThreshold,
		sellerThreshold: sellerThreshold,
	}
}

// Evaluate runs just before the dispute insert, so the monthly counts include
// the dispute being filed. Month boundaries are computed in UTC.
func (e *AbuseSignalEvaluator) Evaluate(ctx context.Context, clientID, sellerID string, now time.Time) (entity.AbuseSignals, error) {
	monthStart := startOfMonthUTC(now)

	priorClient, err := e.disputeRepo.CountByClientSince(ctx, clientID, monthStart)
	if err != nil {
		return entity.AbuseSignals{}, err
	}

	priorSeller, err := e.disputeRepo.CountBySellerSince(ctx, sellerID, monthStart)
	if err != nil {
		return entity.AbuseSignals{}, err
	}

	terminal, won, err := e.disputeRepo.ClientOutcomeCounts(ctx, clientID)
	if err != nil {
		return entity.AbuseSignals{}, err
	}

	successRate := 0.0
	if terminal > 0 {
		successRate = math.Round(float64(won)/float64(terminal)*10000) / 10000
	}

	signals := entity.AbuseSignals{
		ClientMonthlyCount: priorClient + 1,
		ClientSuccessRate:  successRate,
		SellerMonthlyCount: priorSeller + 1,
	}

	if signals.ClientMonthlyCount >= e.clientThreshold {
		signals.Reasons = append(signals.Reasons, abuseReasonClientHighFrequency)
	}
	if signals.SellerMonthlyCount >= e.sellerThreshold {
		signals.Reasons = append(signals.Reasons, abuseReasonSellerHighFrequency)
	}
	if signals.ClientMonthlyCount >= lowSuccessRateMinDisputes && successRate < lowSuccessRateCutoff {
		signals.Reasons = append(signals.Reasons, abuseReasonClientLowSuccessRate)
	}

	signals.Suspicious = len(signals.Reasons) > 0

	return signals, nil
}

func startOfMonthUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
