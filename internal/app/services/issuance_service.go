package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/errors"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/pkg"
)

const (
	codeCollisionRetries = 3
	claimPollAttempts    = 5
)

// IssuanceService is the only writer of voucher rows. It guarantees at most
// one voucher fan-out per order no matter how often the paid event is
// redelivered or how many workers race on it.
type IssuanceService struct {
	orders   OrderStore
	vouchers VoucherStore

	claimPollInterval time.Duration
}

func NewIssuanceService(orders OrderStore, vouchers VoucherStore) *IssuanceService {
	return &IssuanceService{
		orders:            orders,
		vouchers:          vouchers,
		claimPollInterval: 200 * time.Millisecond,
	}
}

// TryIssue derives and persists the vouchers for an order unless a previous
// or concurrent pass already did. Issued is true only for the single caller
// that actually created rows; everyone else gets the existing set.
func (s *IssuanceService) TryIssue(ctx context.Context, externalOrderID string) (*models.IssuanceResult, error) {
	existing, err := s.vouchers.FindByOrder(ctx, externalOrderID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &models.IssuanceResult{Issued: false, Vouchers: existing}, nil
	}

	order, err := s.orders.FindByExternalID(ctx, externalOrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NewNotFoundError("Order not found for issuance")
	}

	requests := DeriveVouchers(order)
	if len(requests) == 0 {
		return &models.IssuanceResult{Issued: false}, nil
	}

	for attempt := 0; ; attempt++ {
		rows := buildVouchers(order, requests)
		claim := &models.IssuanceClaim{
			ExternalOrderID: externalOrderID,
			VoucherCount:    len(rows),
		}

		err := s.vouchers.CreateIssuance(ctx, claim, rows)
		if err == nil {
			issued := make([]models.Voucher, len(rows))
			for i, v := range rows {
				issued[i] = *v
			}
			logrus.WithFields(logrus.Fields{
				"external_order_id": externalOrderID,
				"voucher_count":     len(issued),
			}).Info("vouchers issued")
			return &models.IssuanceResult{Issued: true, Vouchers: issued}, nil
		}

		if errors.Is(err, ErrIssuanceClaimed) {
			return s.awaitWinner(ctx, externalOrderID)
		}
		if errors.Is(err, ErrVoucherCodeCollision) && attempt < codeCollisionRetries {
			logrus.WithField("external_order_id", externalOrderID).
				Warn("voucher code collision, regenerating batch")
			continue
		}
		return nil, err
	}
}

// awaitWinner is the race-loser path: the winning transaction holds the claim
// but its voucher rows may not be visible yet, so poll a bounded number of
// times before giving up and leaning on event redelivery.
func (s *IssuanceService) awaitWinner(ctx context.Context, externalOrderID string) (*models.IssuanceResult, error) {
	for i := 0; i < claimPollAttempts; i++ {
		vouchers, err := s.vouchers.FindByOrder(ctx, externalOrderID)
		if err != nil {
			return nil, err
		}
		if len(vouchers) > 0 {
			return &models.IssuanceResult{Issued: false, Vouchers: vouchers}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.claimPollInterval):
		}
	}

	logrus.WithField("external_order_id", externalOrderID).
		Warn("lost issuance race but winner's vouchers not yet visible")
	return &models.IssuanceResult{Issued: false}, nil
}

func buildVouchers(order *models.Order, requests []models.VoucherRequest) []*models.Voucher {
	codes := pkg.UniqueVoucherCodes(len(requests), nil)
	rows := make([]*models.Voucher, len(requests))
	for i, req := range requests {
		title := req.ProductTitle
		rows[i] = &models.Voucher{
			Code:            codes[i],
			ExternalOrderID: order.ExternalOrderID,
			CustomerEmail:   order.CustomerEmail,
			ProductTitle:    &title,
			Type:            req.Type,
		}
	}
	return rows
}
