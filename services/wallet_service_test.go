package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plotvest/plotvest/models"
)

// MockWalletStore is a testify mock of the WalletStore interface.
type MockWalletStore struct {
	mock.Mock
}

func (m *MockWalletStore) GetWallet(ctx context.Context, userID int64) (*models.Wallet, error) {
	args := m.Called(userID)
	if w, ok := args.Get(0).(*models.Wallet); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWalletStore) GetOrCreateWallet(ctx context.Context, userID int64, address, cryptoType string) (*models.Wallet, error) {
	args := m.Called(userID, address, cryptoType)
	if w, ok := args.Get(0).(*models.Wallet); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWalletStore) CreateDeposit(ctx context.Context, dep *models.Deposit) error {
	args := m.Called(dep)
	return args.Error(0)
}

func (m *MockWalletStore) GetDepositBySignature(ctx context.Context, signature string) (*models.Deposit, error) {
	args := m.Called(signature)
	if d, ok := args.Get(0).(*models.Deposit); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWalletStore) ListUserDeposits(ctx context.Context, userID int64) ([]models.Deposit, error) {
	args := m.Called(userID)
	if ds, ok := args.Get(0).([]models.Deposit); ok {
		return ds, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWalletStore) PendingDeposits(ctx context.Context, limit int) ([]models.Deposit, error) {
	args := m.Called(limit)
	if ds, ok := args.Get(0).([]models.Deposit); ok {
		return ds, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWalletStore) ConfirmDeposit(ctx context.Context, dep *models.Deposit, amount decimal.Decimal) error {
	args := m.Called(dep, amount)
	return args.Error(0)
}

func (m *MockWalletStore) FailDeposit(ctx context.Context, dep *models.Deposit) error {
	args := m.Called(dep)
	return args.Error(0)
}

// MockChain is a testify mock of the ChainVerifier interface.
type MockChain struct {
	mock.Mock
}

func (m *MockChain) VerifyDeposit(ctx context.Context, signature string) (decimal.Decimal, bool, error) {
	args := m.Called(signature)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func newTestWalletService(store WalletStore, chain ChainVerifier) *WalletService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewWalletService(store, chain, testRates(), log, "SOL", time.Hour)
}

func TestWalletDerivesRupeeBalance(t *testing.T) {
	store := new(MockWalletStore)
	svc := newTestWalletService(store, new(MockChain))

	store.On("GetWallet", int64(1)).
		Return(&models.Wallet{ID: 5, UserID: 1, Balance: decimal.NewFromFloat(2.5)}, nil).Once()

	w, err := svc.Wallet(context.Background(), 1)
	require.NoError(t, err)
	// 2.5 SOL at 12500 INR/SOL.
	assert.True(t, w.BalanceInRupees.Equal(decimal.NewFromInt(31250)), w.BalanceInRupees.String())
	store.AssertNotCalled(t, "GetOrCreateWallet", mock.Anything, mock.Anything, mock.Anything)
}

// An address keypair is generated only on first access; reads of an existing
// wallet never mint a new one.
func TestWalletGeneratesAddressOnlyOnFirstAccess(t *testing.T) {
	store := new(MockWalletStore)
	svc := newTestWalletService(store, new(MockChain))

	wallet := &models.Wallet{ID: 5, UserID: 1, Balance: decimal.Zero}
	store.On("GetWallet", int64(1)).Return(nil, models.ErrNotFound).Once()
	store.On("GetOrCreateWallet", int64(1), mock.AnythingOfType("string"), "SOL").
		Return(wallet, nil).Once()
	store.On("GetWallet", int64(1)).Return(wallet, nil).Once()

	_, err := svc.Wallet(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.Wallet(context.Background(), 1)
	require.NoError(t, err)

	store.AssertNumberOfCalls(t, "GetOrCreateWallet", 1)
	store.AssertExpectations(t)
}

func TestSubmitDepositConfirmsImmediately(t *testing.T) {
	store := new(MockWalletStore)
	chain := new(MockChain)
	svc := newTestWalletService(store, chain)

	amount := decimal.NewFromFloat(1.25)
	store.On("GetWallet", int64(1)).Return(&models.Wallet{ID: 5, UserID: 1, Balance: decimal.Zero}, nil).Once()
	store.On("CreateDeposit", mock.AnythingOfType("*models.Deposit")).Return(nil).Once()
	chain.On("VerifyDeposit", "sig-1").Return(amount, true, nil).Once()
	store.On("ConfirmDeposit", mock.AnythingOfType("*models.Deposit"), amount).
		Run(func(args mock.Arguments) {
			dep := args.Get(0).(*models.Deposit)
			dep.Status = models.DepositConfirmed
			dep.Amount = amount
		}).Return(nil).Once()

	dep, err := svc.SubmitDeposit(context.Background(), 1, "sig-1")
	require.NoError(t, err)
	assert.Equal(t, models.DepositConfirmed, dep.Status)
	assert.True(t, dep.Amount.Equal(amount))
	store.AssertExpectations(t)
	chain.AssertExpectations(t)
}

func TestSubmitDepositStaysPendingUntilFinalized(t *testing.T) {
	store := new(MockWalletStore)
	chain := new(MockChain)
	svc := newTestWalletService(store, chain)

	store.On("GetWallet", int64(1)).Return(&models.Wallet{ID: 5, UserID: 1, Balance: decimal.Zero}, nil).Once()
	store.On("CreateDeposit", mock.AnythingOfType("*models.Deposit")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.Deposit).Status = models.DepositPending
		}).Return(nil).Once()
	chain.On("VerifyDeposit", "sig-2").Return(decimal.Zero, false, nil).Once()

	dep, err := svc.SubmitDeposit(context.Background(), 1, "sig-2")
	require.NoError(t, err)
	assert.Equal(t, models.DepositPending, dep.Status)
	store.AssertNotCalled(t, "ConfirmDeposit", mock.Anything, mock.Anything)
}

func TestSubmitDepositIdempotentBySignature(t *testing.T) {
	store := new(MockWalletStore)
	svc := newTestWalletService(store, new(MockChain))

	prior := &models.Deposit{ID: 9, UserID: 1, Signature: "sig-3", Status: models.DepositConfirmed}
	store.On("GetWallet", int64(1)).Return(&models.Wallet{ID: 5, UserID: 1}, nil).Once()
	store.On("CreateDeposit", mock.AnythingOfType("*models.Deposit")).
		Return(models.ErrDuplicateKey).Once()
	store.On("GetDepositBySignature", "sig-3").Return(prior, nil).Once()

	dep, err := svc.SubmitDeposit(context.Background(), 1, "sig-3")
	require.NoError(t, err)
	assert.Equal(t, int64(9), dep.ID)
}

func TestSubmitDepositRejectsForeignSignature(t *testing.T) {
	store := new(MockWalletStore)
	svc := newTestWalletService(store, new(MockChain))

	prior := &models.Deposit{ID: 9, UserID: 2, Signature: "sig-4"}
	store.On("GetWallet", int64(1)).Return(&models.Wallet{ID: 5, UserID: 1}, nil).Once()
	store.On("CreateDeposit", mock.AnythingOfType("*models.Deposit")).
		Return(models.ErrDuplicateKey).Once()
	store.On("GetDepositBySignature", "sig-4").Return(prior, nil).Once()

	_, err := svc.SubmitDeposit(context.Background(), 1, "sig-4")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestConfirmPendingFailsInvalidDeposits(t *testing.T) {
	store := new(MockWalletStore)
	chain := new(MockChain)
	svc := newTestWalletService(store, chain)

	pending := []models.Deposit{
		{ID: 1, UserID: 1, Signature: "good", Status: models.DepositPending, CreatedAt: time.Now()},
		{ID: 2, UserID: 2, Signature: "bad", Status: models.DepositPending, CreatedAt: time.Now()},
	}
	store.On("PendingDeposits", sweepBatchSize).Return(pending, nil).Once()
	chain.On("VerifyDeposit", "good").Return(decimal.NewFromInt(1), true, nil).Once()
	store.On("ConfirmDeposit", mock.AnythingOfType("*models.Deposit"), decimal.NewFromInt(1)).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.Deposit).Status = models.DepositConfirmed
		}).Return(nil).Once()
	chain.On("VerifyDeposit", "bad").
		Return(decimal.Zero, false, models.ErrInvalidInput).Once()
	store.On("FailDeposit", mock.AnythingOfType("*models.Deposit")).Return(nil).Once()

	confirmed, err := svc.ConfirmPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)
	store.AssertExpectations(t)
	chain.AssertExpectations(t)
}

func TestConfirmPendingExpiresOldDeposits(t *testing.T) {
	store := new(MockWalletStore)
	chain := new(MockChain)
	svc := newTestWalletService(store, chain)

	pending := []models.Deposit{
		{ID: 1, UserID: 1, Signature: "slow", Status: models.DepositPending,
			CreatedAt: time.Now().Add(-2 * time.Hour)},
	}
	store.On("PendingDeposits", sweepBatchSize).Return(pending, nil).Once()
	chain.On("VerifyDeposit", "slow").Return(decimal.Zero, false, nil).Once()
	store.On("FailDeposit", mock.AnythingOfType("*models.Deposit")).Return(nil).Once()

	confirmed, err := svc.ConfirmPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, confirmed)
	store.AssertExpectations(t)
}
