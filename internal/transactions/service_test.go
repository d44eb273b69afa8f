package transactions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/budget-pipeline/internal/categorize"
	"github.com/joseph-ayodele/budget-pipeline/internal/common"
	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
)

type stubTxnStore struct {
	mu       sync.Mutex
	inserted []*entity.Transaction
	err      error
}

func (s *stubTxnStore) Insert(ctx context.Context, txn *entity.Transaction) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, txn)
	return nil
}

func (s *stubTxnStore) ListForExport(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*entity.Transaction, error) {
	return nil, nil
}

type emptyRules struct{}

func (emptyRules) ActiveMerchantRules(ctx context.Context) ([]*entity.MerchantRule, error) {
	return nil, nil
}

func (emptyRules) ActiveKeywordRules(ctx context.Context) ([]*entity.KeywordRule, error) {
	return nil, nil
}

func newService(store *stubTxnStore) *Service {
	return NewService(store, categorize.NewEngine(emptyRules{}, nil), nil)
}

func TestCreateExplicitCategory(t *testing.T) {
	store := &stubTxnStore{}
	svc := newService(store)

	txn, err := svc.Create(context.Background(), CreateRequest{
		UserID:       uuid.New(),
		Merchant:     "Starbucks Coffee",
		TxnDate:      time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		TotalCents:   575,
		CurrencyCode: "USD",
		Category:     "gifts",
	})
	require.NoError(t, err)

	// Caller-supplied category is taken as-is; the engine never runs.
	assert.Equal(t, "gifts", txn.Category)
	assert.Equal(t, "manual", txn.Source)
	require.NotNil(t, txn.Merchant)
	assert.Equal(t, "Starbucks Coffee", *txn.Merchant)
	require.Len(t, store.inserted, 1)
}

func TestCreateEngineCategorizes(t *testing.T) {
	store := &stubTxnStore{}
	svc := newService(store)

	txn, err := svc.Create(context.Background(), CreateRequest{
		UserID:     uuid.New(),
		Merchant:   "Starbucks Coffee",
		TotalCents: 575,
	})
	require.NoError(t, err)
	assert.Equal(t, "dining", txn.Category)
}

func TestCreateDefaultsDate(t *testing.T) {
	store := &stubTxnStore{}
	svc := newService(store)

	before := time.Now().UTC().Truncate(24 * time.Hour)
	txn, err := svc.Create(context.Background(), CreateRequest{
		UserID:     uuid.New(),
		TotalCents: 100,
		Category:   "other",
	})
	require.NoError(t, err)
	assert.False(t, txn.TxnDate.Before(before))
}

func TestCreateValidation(t *testing.T) {
	svc := newService(&stubTxnStore{})

	_, err := svc.Create(context.Background(), CreateRequest{TotalCents: 100})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))

	_, err = svc.Create(context.Background(), CreateRequest{UserID: uuid.New(), TotalCents: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))

	_, err = svc.Create(context.Background(), CreateRequest{UserID: uuid.New(), TotalCents: -50})
	assert.Error(t, err)
}

func TestCreateInsertFailure(t *testing.T) {
	store := &stubTxnStore{err: errors.New("unique violation")}
	svc := newService(store)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID:     uuid.New(),
		TotalCents: 100,
		Category:   "other",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create transaction")
}
