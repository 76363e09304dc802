package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"popcat/models"
)

func newEconomyFixture(t *testing.T) (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockAccountRepository, *MockInventoryRepository, *MockBalanceEntryRepository, *MockCooldownStore) {
	t.Helper()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockInventoryRepo := new(MockInventoryRepository)
	mockEntryRepo := new(MockBalanceEntryRepository)
	mockCooldowns := new(MockCooldownStore)

	mockUoW.SetRepositories(mockAccountRepo, mockInventoryRepo, mockEntryRepo)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockUoW, mockFactory, mockAccountRepo, mockInventoryRepo, mockEntryRepo, mockCooldowns
}

func expectEnsureAccount(mockAccountRepo *MockAccountRepository, account *models.Account) {
	mockAccountRepo.On("CreateIfAbsent", mock.Anything, account.UserID, int64(0)).Return(false, nil)
	mockAccountRepo.On("GetByUserID", mock.Anything, account.UserID).Return(account, nil)
}

func TestEconomyService_Grant_NewUser(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 123456})
	mockAccountRepo.On("AddPocket", ctx, int64(123456), int64(100)).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.UserID == 123456 &&
			e.PocketBefore == 0 &&
			e.PocketAfter == 100 &&
			e.ChangeAmount == 100 &&
			e.TransactionType == models.TransactionTypeGive
	})).Return(nil)

	err := svc.Grant(ctx, 123456, 100)

	assert.NoError(t, err)
	mockAccountRepo.AssertExpectations(t)
	mockEntryRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestEconomyService_Grant_RejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockAccountRepo, _, _, mockCooldowns := newEconomyFixture(t)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	for _, amount := range []int64{0, -5} {
		err := svc.Grant(ctx, 123456, amount)
		assert.ErrorIs(t, err, models.ErrValidation)
	}
	mockAccountRepo.AssertNotCalled(t, "AddPocket")
}

func TestEconomyService_Deposit(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 42, Pocket: 100})
	mockAccountRepo.On("Deposit", ctx, int64(42), int64(40)).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.PocketBefore == 100 && e.PocketAfter == 60 &&
			e.BankBefore == 0 && e.BankAfter == 40 &&
			e.TransactionType == models.TransactionTypeDeposit
	})).Return(nil)

	err := svc.Deposit(ctx, 42, 40)

	assert.NoError(t, err)
	mockAccountRepo.AssertExpectations(t)
	mockEntryRepo.AssertExpectations(t)
}

func TestEconomyService_Withdraw_InsufficientBank(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	// Pocket 60, bank 40: withdrawing 100 must fail and record nothing.
	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 42, Pocket: 60, Bank: 40})
	mockAccountRepo.On("Withdraw", ctx, int64(42), int64(100)).Return(models.ErrInsufficientFunds)

	err := svc.Withdraw(ctx, 42, 100)

	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	mockEntryRepo.AssertNotCalled(t, "Record")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestEconomyService_Transfer_InsufficientFundsLeavesRecipientUntouched(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 1, Pocket: 50})
	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 2, Pocket: 0})
	mockAccountRepo.On("DeductPocket", ctx, int64(1), int64(100)).Return(models.ErrInsufficientFunds)

	err := svc.Transfer(ctx, 1, 2, 100)

	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	mockAccountRepo.AssertNotCalled(t, "AddPocket")
	mockEntryRepo.AssertNotCalled(t, "Record")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestEconomyService_Transfer_RejectsSelf(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockAccountRepo, _, _, mockCooldowns := newEconomyFixture(t)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	err := svc.Transfer(ctx, 7, 7, 10)

	assert.ErrorIs(t, err, models.ErrValidation)
	mockAccountRepo.AssertNotCalled(t, "DeductPocket")
}

func TestEconomyService_Transfer_RecordsBothSides(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 1, Pocket: 500})
	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 2, Pocket: 20})
	mockAccountRepo.On("DeductPocket", ctx, int64(1), int64(100)).Return(nil)
	mockAccountRepo.On("AddPocket", ctx, int64(2), int64(100)).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.UserID == 1 && e.ChangeAmount == -100 && e.PocketAfter == 400
	})).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.UserID == 2 && e.ChangeAmount == 100 && e.PocketAfter == 120
	})).Return(nil)

	err := svc.Transfer(ctx, 1, 2, 100)

	assert.NoError(t, err)
	mockEntryRepo.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
}

func TestEconomyService_OpenAccount_Idempotent(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	existing := &models.Account{UserID: 9, Pocket: 1234}
	mockAccountRepo.On("CreateIfAbsent", ctx, int64(9), InitialPocket).Return(false, nil)
	mockAccountRepo.On("GetByUserID", ctx, int64(9)).Return(existing, nil)

	account, created, err := svc.OpenAccount(ctx, 9)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing, account)
	mockEntryRepo.AssertNotCalled(t, "Record")
}

func TestEconomyService_OpenAccount_UsesConfiguredStartingBalance(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, 5000)

	opened := &models.Account{UserID: 9, Pocket: 5000}
	mockAccountRepo.On("CreateIfAbsent", ctx, int64(9), int64(5000)).Return(true, nil)
	mockAccountRepo.On("GetByUserID", ctx, int64(9)).Return(opened, nil)
	mockEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.UserID == 9 && e.PocketAfter == 5000 && e.ChangeAmount == 5000 &&
			e.TransactionType == models.TransactionTypeInitial
	})).Return(nil)

	account, created, err := svc.OpenAccount(ctx, 9)

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, opened, account)
	mockAccountRepo.AssertExpectations(t)
	mockEntryRepo.AssertExpectations(t)
}

func TestEconomyService_Daily_ClaimsOncePerWindow(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket).(*economyService)
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	windowStart := StartOfUTCDay(now).Unix()

	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 5, Pocket: 10})
	mockAccountRepo.On("ClaimWindowed", ctx, int64(5), models.ClaimDaily, DailyReward, windowStart).Return(true, nil).Once()
	mockEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.TransactionType == models.TransactionTypeDaily && e.ChangeAmount == DailyReward
	})).Return(nil)

	amount, _, err := svc.Daily(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, DailyReward, amount)

	// Second claim inside the same UTC day is refused with the time left.
	mockAccountRepo.On("ClaimWindowed", ctx, int64(5), models.ClaimDaily, DailyReward, windowStart).Return(false, nil).Once()

	_, remaining, err := svc.Daily(ctx, 5)
	assert.ErrorIs(t, err, models.ErrOnCooldown)
	assert.Equal(t, 8, remaining.Hours)
	assert.Equal(t, 30, remaining.Minutes)
}

func TestEconomyService_Beg_GatedByCooldown(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockAccountRepo, _, _, mockCooldowns := newEconomyFixture(t)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	mockCooldowns.On("Check", ctx, int64(3), CooldownBeg).Return(models.Remaining{Seconds: 4}, true, nil)

	_, remaining, err := svc.Beg(ctx, 3)

	assert.ErrorIs(t, err, models.ErrOnCooldown)
	assert.Equal(t, 4, remaining.Seconds)
	mockAccountRepo.AssertNotCalled(t, "AddPocket")
}

func TestEconomyService_Beg_PaysAndArmsCooldown(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket).(*economyService)
	svc.randInt = func(min, max int64) int64 { return 42 }

	mockCooldowns.On("Check", ctx, int64(3), CooldownBeg).Return(models.Remaining{}, false, nil)
	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 3})
	mockAccountRepo.On("AddPocket", ctx, int64(3), int64(42)).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.Anything).Return(nil)
	mockCooldowns.On("Set", ctx, int64(3), CooldownBeg, BegCooldown).Return(nil)

	amount, _, err := svc.Beg(ctx, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(42), amount)
	mockCooldowns.AssertExpectations(t)
}

func TestEconomyService_BuyItem_PaymentAndGrantShareTransaction(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockInventoryRepo, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 8, Pocket: 10000})
	mockAccountRepo.On("DeductPocket", ctx, int64(8), int64(2000)).Return(nil)
	mockInventoryRepo.On("Add", ctx, int64(8), models.ItemCat, int64(2)).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.TransactionType == models.TransactionTypePurchase && e.ChangeAmount == -2000
	})).Return(nil)

	cost, err := svc.BuyItem(ctx, 8, models.ItemCat, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(2000), cost)
	mockInventoryRepo.AssertExpectations(t)
}

func TestEconomyService_BuyItem_InsufficientFundsGrantsNothing(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockInventoryRepo, _, mockCooldowns := newEconomyFixture(t)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 8, Pocket: 10})
	mockAccountRepo.On("DeductPocket", ctx, int64(8), int64(20000)).Return(models.ErrInsufficientFunds)

	_, err := svc.BuyItem(ctx, 8, models.ItemMansion, 1)

	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	mockInventoryRepo.AssertNotCalled(t, "Add")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestEconomyService_BuyItem_RejectsUnsellableItem(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockAccountRepo, _, _, mockCooldowns := newEconomyFixture(t)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	// Fish can be sold but never bought.
	_, err := svc.BuyItem(ctx, 8, models.ItemFish, 1)

	assert.ErrorIs(t, err, models.ErrValidation)
	mockAccountRepo.AssertNotCalled(t, "DeductPocket")
}

func TestEconomyService_SellFish(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockInventoryRepo, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 6, Pocket: 0})
	mockInventoryRepo.On("Deduct", ctx, int64(6), models.ItemFish, int64(3)).Return(nil)
	mockAccountRepo.On("AddPocket", ctx, int64(6), int64(75)).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.Anything).Return(nil)

	payout, err := svc.SellFish(ctx, 6, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(75), payout)
}

func TestEconomyService_SellKarma_InsufficientKarma(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 6, Karma: 1})
	mockAccountRepo.On("SellKarma", ctx, int64(6), int64(10), int64(20)).Return(models.ErrInsufficientInventory)

	_, err := svc.SellKarma(ctx, 6, 10)

	assert.ErrorIs(t, err, models.ErrInsufficientInventory)
	mockEntryRepo.AssertNotCalled(t, "Record")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestEconomyService_Slots_LossIsGuardedDeduct(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket).(*economyService)
	// Force distinct reels so the spin loses.
	var i int64
	svc.randInt = func(min, max int64) int64 {
		v := i % int64(len(SlotSymbols))
		i++
		return v
	}

	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 2, Pocket: 500})
	mockAccountRepo.On("DeductPocket", ctx, int64(2), int64(100)).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.TransactionType == models.TransactionTypeSlots && e.ChangeAmount == -100
	})).Return(nil)

	result, err := svc.Slots(ctx, 2, 100)

	require.NoError(t, err)
	assert.False(t, result.Won)
	assert.Equal(t, int64(-100), result.Payout)
}

func TestEconomyService_Slots_WinPaysDouble(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, _, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket).(*economyService)
	svc.randInt = func(min, max int64) int64 { return 0 }

	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 2, Pocket: 500})
	mockAccountRepo.On("AddPocket", ctx, int64(2), int64(200)).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.Anything).Return(nil)

	result, err := svc.Slots(ctx, 2, 100)

	require.NoError(t, err)
	assert.True(t, result.Won)
	assert.Equal(t, int64(200), result.Payout)
	mockAccountRepo.AssertNotCalled(t, "DeductPocket")
}

func TestEconomyService_UseItem_UnknownItem(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, _, _, mockCooldowns := newEconomyFixture(t)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	_, _, err := svc.UseItem(ctx, 1, models.Item("Spaceship"))

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestEconomyService_UseItem_CatRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockInventoryRepo, _, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	mockCooldowns.On("Check", ctx, int64(4), CooldownCat).Return(models.Remaining{}, false, nil)
	mockInventoryRepo.On("Quantity", ctx, int64(4), models.ItemCat).Return(int64(0), nil)

	_, _, err := svc.UseItem(ctx, 4, models.ItemCat)

	assert.ErrorIs(t, err, models.ErrInsufficientInventory)
	mockAccountRepo.AssertNotCalled(t, "AddPocket")
}

func TestEconomyService_UseItem_CatPaysBlessing(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockInventoryRepo, mockEntryRepo, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket)

	mockCooldowns.On("Check", ctx, int64(4), CooldownCat).Return(models.Remaining{}, false, nil)
	mockInventoryRepo.On("Quantity", ctx, int64(4), models.ItemCat).Return(int64(1), nil)
	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 4, Pocket: 0})
	mockAccountRepo.On("AddPocket", ctx, int64(4), CatBlessing).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.Anything).Return(nil)
	mockCooldowns.On("Set", ctx, int64(4), CooldownCat, CatCooldown).Return(nil)

	outcome, _, err := svc.UseItem(ctx, 4, models.ItemCat)

	require.NoError(t, err)
	assert.Equal(t, CatBlessing, outcome.Coins)
	mockCooldowns.AssertExpectations(t)
}

func TestEconomyService_PostMeme_LaptopCanBreak(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockInventoryRepo, _, mockCooldowns := newEconomyFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewEconomyService(mockFactory, mockCooldowns, InitialPocket).(*economyService)
	svc.randInt = func(min, max int64) int64 { return 1500 }
	svc.randFloat = func() float64 { return 0.01 } // below the break chance

	mockCooldowns.On("Check", ctx, int64(4), CooldownPostMeme).Return(models.Remaining{}, false, nil)
	mockInventoryRepo.On("Quantity", ctx, int64(4), models.ItemLaptop).Return(int64(1), nil)
	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 4})
	mockAccountRepo.On("AddKarma", ctx, int64(4), int64(1500)).Return(nil)
	mockInventoryRepo.On("Deduct", ctx, int64(4), models.ItemLaptop, int64(1)).Return(nil)
	mockCooldowns.On("Set", ctx, int64(4), CooldownPostMeme, PostMemeCooldown).Return(nil)

	outcome, _, err := svc.PostMeme(ctx, 4)

	require.NoError(t, err)
	assert.Equal(t, int64(1500), outcome.Karma)
	assert.True(t, outcome.LaptopBroke)
	mockInventoryRepo.AssertExpectations(t)
}
