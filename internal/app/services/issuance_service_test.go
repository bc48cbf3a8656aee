package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

func seedPaidOrder(t *testing.T, orders *memOrderStore, externalID string) *models.Order {
	t.Helper()
	email := "a@b.com"
	order, err := orders.Upsert(context.Background(), &models.Order{
		ExternalOrderID: externalID,
		CustomerEmail:   &email,
		PaymentStatus:   models.PaymentStatusPaid,
		Currency:        "USD",
		LineItems: models.LineItems{
			{Title: "Basic Voucher", Quantity: 3, VariantTitle: "2 Pack", ItemType: models.VoucherTypeVoucher},
		},
	})
	require.NoError(t, err)
	return order
}

func newIssuance(orders *memOrderStore, vouchers *memVoucherStore) *IssuanceService {
	service := NewIssuanceService(orders, vouchers)
	service.claimPollInterval = time.Millisecond
	return service
}

func TestTryIssue_FirstPassIssues(t *testing.T) {
	orders := newMemOrderStore()
	vouchers := newMemVoucherStore()
	seedPaidOrder(t, orders, "9001")

	result, err := newIssuance(orders, vouchers).TryIssue(context.Background(), "9001")
	require.NoError(t, err)

	assert.True(t, result.Issued)
	require.Len(t, result.Vouchers, 6)
	codes := make(map[string]struct{})
	for _, voucher := range result.Vouchers {
		assert.Equal(t, "9001", voucher.ExternalOrderID)
		assert.Equal(t, models.VoucherTypeVoucher, voucher.Type)
		assert.False(t, voucher.Notified)
		codes[voucher.Code] = struct{}{}
	}
	assert.Len(t, codes, 6)
}

func TestTryIssue_ReplayReturnsExistingSet(t *testing.T) {
	orders := newMemOrderStore()
	vouchers := newMemVoucherStore()
	seedPaidOrder(t, orders, "9001")
	service := newIssuance(orders, vouchers)

	first, err := service.TryIssue(context.Background(), "9001")
	require.NoError(t, err)
	require.True(t, first.Issued)

	second, err := service.TryIssue(context.Background(), "9001")
	require.NoError(t, err)
	assert.False(t, second.Issued)
	require.Len(t, second.Vouchers, 6)

	stored, err := vouchers.FindByOrder(context.Background(), "9001")
	require.NoError(t, err)
	assert.Len(t, stored, 6)
}

func TestTryIssue_ConcurrentCallersIssueOnce(t *testing.T) {
	orders := newMemOrderStore()
	vouchers := newMemVoucherStore()
	seedPaidOrder(t, orders, "9001")
	service := newIssuance(orders, vouchers)

	const callers = 8
	results := make([]*models.IssuanceResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = service.TryIssue(context.Background(), "9001")
		}(i)
	}
	wg.Wait()

	issued := 0
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		if results[i].Issued {
			issued++
		}
	}
	assert.Equal(t, 1, issued)

	stored, err := vouchers.FindByOrder(context.Background(), "9001")
	require.NoError(t, err)
	assert.Len(t, stored, 6)
}

func TestTryIssue_RaceLoserPollsForWinner(t *testing.T) {
	orders := newMemOrderStore()
	vouchers := newMemVoucherStore()
	order := seedPaidOrder(t, orders, "9001")
	service := newIssuance(orders, vouchers)

	// The winner holds the claim; its voucher rows land a moment later.
	vouchers.claimWithoutVouchers("9001")
	go func() {
		time.Sleep(2 * time.Millisecond)
		vouchers.insertVouchers(&models.Voucher{
			Code:            "AAAA-0001",
			ExternalOrderID: order.ExternalOrderID,
			Type:            models.VoucherTypeVoucher,
		})
	}()

	result, err := service.TryIssue(context.Background(), "9001")
	require.NoError(t, err)
	assert.False(t, result.Issued)
	require.Len(t, result.Vouchers, 1)
	assert.Equal(t, "AAAA-0001", result.Vouchers[0].Code)
}

func TestTryIssue_RaceLoserGivesUpAfterBoundedPolls(t *testing.T) {
	orders := newMemOrderStore()
	vouchers := newMemVoucherStore()
	seedPaidOrder(t, orders, "9001")
	service := newIssuance(orders, vouchers)

	vouchers.claimWithoutVouchers("9001")

	result, err := service.TryIssue(context.Background(), "9001")
	require.NoError(t, err)
	assert.False(t, result.Issued)
	assert.Empty(t, result.Vouchers)
}

func TestTryIssue_RetriesOnCodeCollision(t *testing.T) {
	orders := newMemOrderStore()
	vouchers := newMemVoucherStore()
	seedPaidOrder(t, orders, "9001")
	vouchers.collideFirst = 2

	result, err := newIssuance(orders, vouchers).TryIssue(context.Background(), "9001")
	require.NoError(t, err)
	assert.True(t, result.Issued)
	assert.Len(t, result.Vouchers, 6)
	assert.Equal(t, 3, vouchers.createCalls)
}

func TestTryIssue_CollisionRetriesExhausted(t *testing.T) {
	orders := newMemOrderStore()
	vouchers := newMemVoucherStore()
	seedPaidOrder(t, orders, "9001")
	vouchers.collideFirst = codeCollisionRetries + 1

	_, err := newIssuance(orders, vouchers).TryIssue(context.Background(), "9001")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVoucherCodeCollision)
}

func TestTryIssue_UnknownOrder(t *testing.T) {
	orders := newMemOrderStore()
	vouchers := newMemVoucherStore()

	_, err := newIssuance(orders, vouchers).TryIssue(context.Background(), "missing")
	require.Error(t, err)
}

func TestTryIssue_NoDerivableVouchers(t *testing.T) {
	orders := newMemOrderStore()
	vouchers := newMemVoucherStore()
	_, err := orders.Upsert(context.Background(), &models.Order{
		ExternalOrderID: "9001",
		PaymentStatus:   models.PaymentStatusPaid,
	})
	require.NoError(t, err)

	result, err := newIssuance(orders, vouchers).TryIssue(context.Background(), "9001")
	require.NoError(t, err)
	assert.False(t, result.Issued)
	assert.Empty(t, result.Vouchers)
}
