package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"popcat/models"
)

// UseOutcome describes what using a shop item produced.
type UseOutcome struct {
	Item  models.Item
	Coins int64
	Fish  int64
}

// MemeOutcome describes one meme post.
type MemeOutcome struct {
	Karma       int64
	LaptopBroke bool
}

// SlotsResult describes one spin.
type SlotsResult struct {
	Reels  [3]string
	Won    bool
	Payout int64
}

// EconomyService defines the interface for ledger operations. Gated
// operations return the structured time remaining alongside ErrOnCooldown so
// callers can format it themselves.
type EconomyService interface {
	// OpenAccount creates the user's account with the starting balance,
	// reporting whether this call created it
	OpenAccount(ctx context.Context, userID int64) (*models.Account, bool, error)

	// Balance returns the user's account, creating an empty one on first
	// touch
	Balance(ctx context.Context, userID int64) (*models.Account, error)

	// Inventory returns the user's non-empty item stacks
	Inventory(ctx context.Context, userID int64) ([]*models.InventoryEntry, error)

	// History returns the user's most recent ledger entries, newest first
	History(ctx context.Context, userID int64, limit int) ([]*models.BalanceEntry, error)

	// Grant adds coins to a user's pocket (administrative)
	Grant(ctx context.Context, userID int64, amount int64) error

	// Take removes coins from a user's pocket (administrative)
	Take(ctx context.Context, userID int64, amount int64) error

	// Transfer moves pocket coins between two users
	Transfer(ctx context.Context, fromID, toID int64, amount int64) error

	// Deposit moves pocket coins into the bank
	Deposit(ctx context.Context, userID int64, amount int64) error

	// Withdraw moves bank coins back to the pocket
	Withdraw(ctx context.Context, userID int64, amount int64) error

	// Daily claims the once-per-UTC-day reward
	Daily(ctx context.Context, userID int64) (int64, models.Remaining, error)

	// Beg earns a small random amount on a short cooldown
	Beg(ctx context.Context, userID int64) (int64, models.Remaining, error)

	// Work earns a larger random amount on a longer cooldown
	Work(ctx context.Context, userID int64) (int64, models.Remaining, error)

	// BuyItem purchases quantity of a shop item with pocket coins,
	// returning the total cost
	BuyItem(ctx context.Context, userID int64, item models.Item, quantity int64) (int64, error)

	// UseItem applies an owned item's effect
	UseItem(ctx context.Context, userID int64, item models.Item) (*UseOutcome, models.Remaining, error)

	// PostMeme earns karma with the laptop, which sometimes breaks
	PostMeme(ctx context.Context, userID int64) (*MemeOutcome, models.Remaining, error)

	// Slots bets pocket coins on a three-reel spin
	Slots(ctx context.Context, userID int64, bet int64) (*SlotsResult, error)

	// SellFish trades fish for coins at the fixed rate
	SellFish(ctx context.Context, userID int64, quantity int64) (int64, error)

	// SellKarma trades karma for coins at the fixed rate
	SellKarma(ctx context.Context, userID int64, quantity int64) (int64, error)

	// RichestByPocket returns the pocket leaderboard
	RichestByPocket(ctx context.Context, limit int) ([]*models.Account, error)

	// RichestByBank returns the bank leaderboard
	RichestByBank(ctx context.Context, limit int) ([]*models.Account, error)
}

// economyService implements the EconomyService interface
type economyService struct {
	uowFactory    UnitOfWorkFactory
	cooldowns     CooldownStore
	initialPocket int64
	now           func() time.Time
	randInt       func(min, max int64) int64
	randFloat     func() float64
}

// NewEconomyService creates a new economy service. initialPocket is what a
// freshly opened account starts with; non-positive falls back to the
// standard opening balance.
func NewEconomyService(uowFactory UnitOfWorkFactory, cooldowns CooldownStore, initialPocket int64) EconomyService {
	if initialPocket <= 0 {
		initialPocket = InitialPocket
	}
	return &economyService{
		uowFactory:    uowFactory,
		cooldowns:     cooldowns,
		initialPocket: initialPocket,
		now:           time.Now,
		randInt: func(min, max int64) int64 {
			return min + rand.Int63n(max-min+1)
		},
		randFloat: rand.Float64,
	}
}

// runInTx wraps fn in one unit of work. Rollback after a successful commit
// is a no-op.
func runInTx(ctx context.Context, f UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow := f.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit()
}

// ensureAccount lazily creates an empty account on first economic
// interaction and returns the current state.
func ensureAccount(ctx context.Context, uow UnitOfWork, userID int64) (*models.Account, error) {
	if _, err := uow.AccountRepository().CreateIfAbsent(ctx, userID, 0); err != nil {
		return nil, err
	}
	account, err := uow.AccountRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account for user %d vanished after creation", models.ErrNotFound, userID)
	}
	return account, nil
}

func (s *economyService) OpenAccount(ctx context.Context, userID int64) (*models.Account, bool, error) {
	var account *models.Account
	var created bool

	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		created, err = uow.AccountRepository().CreateIfAbsent(ctx, userID, s.initialPocket)
		if err != nil {
			return err
		}

		account, err = uow.AccountRepository().GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if !created {
			return nil
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    0,
			PocketAfter:     s.initialPocket,
			BankBefore:      0,
			BankAfter:       0,
			ChangeAmount:    s.initialPocket,
			TransactionType: models.TransactionTypeInitial,
		})
	})
	if err != nil {
		return nil, false, err
	}
	return account, created, nil
}

func (s *economyService) Balance(ctx context.Context, userID int64) (*models.Account, error) {
	var account *models.Account
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		account, err = ensureAccount(ctx, uow, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *economyService) Inventory(ctx context.Context, userID int64) ([]*models.InventoryEntry, error) {
	var entries []*models.InventoryEntry
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		entries, err = uow.InventoryRepository().List(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *economyService) History(ctx context.Context, userID int64, limit int) ([]*models.BalanceEntry, error) {
	var entries []*models.BalanceEntry
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		entries, err = uow.BalanceEntryRepository().ListByUser(ctx, userID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *economyService) Grant(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	return runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if err := uow.AccountRepository().AddPocket(ctx, userID, amount); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket + amount,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank,
			ChangeAmount:    amount,
			TransactionType: models.TransactionTypeGive,
		})
	})
}

func (s *economyService) Take(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	return runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if err := uow.AccountRepository().DeductPocket(ctx, userID, amount); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket - amount,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank,
			ChangeAmount:    -amount,
			TransactionType: models.TransactionTypeRemove,
		})
	})
}

func (s *economyService) Transfer(ctx context.Context, fromID, toID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}
	if fromID == toID {
		return fmt.Errorf("%w: cannot share coins with yourself", models.ErrValidation)
	}

	return runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		sender, err := ensureAccount(ctx, uow, fromID)
		if err != nil {
			return err
		}
		recipient, err := ensureAccount(ctx, uow, toID)
		if err != nil {
			return err
		}

		// The guarded deduct runs first so an underfunded sender leaves
		// both accounts untouched.
		if err := uow.AccountRepository().DeductPocket(ctx, fromID, amount); err != nil {
			return err
		}
		if err := uow.AccountRepository().AddPocket(ctx, toID, amount); err != nil {
			return err
		}

		meta := map[string]any{"counterparty": toID}
		if err := RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          fromID,
			PocketBefore:    sender.Pocket,
			PocketAfter:     sender.Pocket - amount,
			BankBefore:      sender.Bank,
			BankAfter:       sender.Bank,
			ChangeAmount:    -amount,
			TransactionType: models.TransactionTypeTransfer,
			Metadata:        meta,
		}); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          toID,
			PocketBefore:    recipient.Pocket,
			PocketAfter:     recipient.Pocket + amount,
			BankBefore:      recipient.Bank,
			BankAfter:       recipient.Bank,
			ChangeAmount:    amount,
			TransactionType: models.TransactionTypeTransfer,
			Metadata:        map[string]any{"counterparty": fromID},
		})
	})
}

func (s *economyService) Deposit(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	return runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if err := uow.AccountRepository().Deposit(ctx, userID, amount); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket - amount,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank + amount,
			ChangeAmount:    amount,
			TransactionType: models.TransactionTypeDeposit,
		})
	})
}

func (s *economyService) Withdraw(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	return runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if err := uow.AccountRepository().Withdraw(ctx, userID, amount); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket + amount,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank - amount,
			ChangeAmount:    amount,
			TransactionType: models.TransactionTypeWithdraw,
		})
	})
}

func (s *economyService) Daily(ctx context.Context, userID int64) (int64, models.Remaining, error) {
	now := s.now()
	windowStart := StartOfUTCDay(now).Unix()

	var claimed bool
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}

		claimed, err = uow.AccountRepository().ClaimWindowed(ctx, userID, models.ClaimDaily, DailyReward, windowStart)
		if err != nil || !claimed {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket + DailyReward,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank,
			ChangeAmount:    DailyReward,
			TransactionType: models.TransactionTypeDaily,
		})
	})
	if err != nil {
		return 0, models.Remaining{}, err
	}
	if !claimed {
		remaining := models.RemainingUntil(NextUTCDay(now), now)
		return 0, remaining, fmt.Errorf("%w: daily reward already collected", models.ErrOnCooldown)
	}
	return DailyReward, models.Remaining{}, nil
}

func (s *economyService) Beg(ctx context.Context, userID int64) (int64, models.Remaining, error) {
	amount := s.randInt(BegMin, BegMax)
	return s.gatedEarn(ctx, userID, CooldownBeg, BegCooldown, amount, models.TransactionTypeGive,
		map[string]any{"source": "beg"})
}

func (s *economyService) Work(ctx context.Context, userID int64) (int64, models.Remaining, error) {
	amount := s.randInt(WorkMin, WorkMax)
	return s.gatedEarn(ctx, userID, CooldownWork, WorkCooldown, amount, models.TransactionTypeGive,
		map[string]any{"source": "work"})
}

// gatedEarn pays amount into pocket if the named cooldown has expired, then
// arms it again.
func (s *economyService) gatedEarn(ctx context.Context, userID int64, action string, cooldown time.Duration, amount int64, txType models.TransactionType, meta map[string]any) (int64, models.Remaining, error) {
	remaining, gated, err := s.cooldowns.Check(ctx, userID, action)
	if err != nil {
		return 0, models.Remaining{}, err
	}
	if gated {
		return 0, remaining, fmt.Errorf("%w: %s", models.ErrOnCooldown, action)
	}

	err = runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if err := uow.AccountRepository().AddPocket(ctx, userID, amount); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket + amount,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank,
			ChangeAmount:    amount,
			TransactionType: txType,
			Metadata:        meta,
		})
	})
	if err != nil {
		return 0, models.Remaining{}, err
	}

	if err := s.cooldowns.Set(ctx, userID, action, cooldown); err != nil {
		return 0, models.Remaining{}, err
	}
	return amount, models.Remaining{}, nil
}

func (s *economyService) BuyItem(ctx context.Context, userID int64, item models.Item, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}
	if !item.Purchasable() {
		return 0, fmt.Errorf("%w: %s is not sold in the shop", models.ErrValidation, item)
	}

	cost := item.Price() * quantity
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}

		// Payment and inventory grant share the transaction, so a failure
		// of either leaves neither applied.
		if err := uow.AccountRepository().DeductPocket(ctx, userID, cost); err != nil {
			return err
		}
		if err := uow.InventoryRepository().Add(ctx, userID, item, quantity); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket - cost,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank,
			ChangeAmount:    -cost,
			TransactionType: models.TransactionTypePurchase,
			Metadata:        map[string]any{"item": string(item), "quantity": quantity},
		})
	})
	if err != nil {
		return 0, err
	}
	return cost, nil
}

func (s *economyService) UseItem(ctx context.Context, userID int64, item models.Item) (*UseOutcome, models.Remaining, error) {
	switch item {
	case models.ItemCat:
		return s.useEarningItem(ctx, userID, item, CooldownCat, CatCooldown, CatBlessing)
	case models.ItemCar:
		return s.useEarningItem(ctx, userID, item, CooldownCar, CarCooldown, s.randInt(CarDriveMin, CarDriveMax))
	case models.ItemMinecraft:
		return s.useEarningItem(ctx, userID, item, CooldownMinecraft, MinecraftCooldown, s.randInt(MinecraftMin, MinecraftMax))
	case models.ItemFishingRod:
		return s.useFishingRod(ctx, userID)
	case models.ItemMansion:
		return s.collectRent(ctx, userID)
	default:
		return nil, models.Remaining{}, fmt.Errorf("%w: %s cannot be used", models.ErrValidation, item)
	}
}

// useEarningItem covers the items whose effect is a cooldown-gated coin
// payout.
func (s *economyService) useEarningItem(ctx context.Context, userID int64, item models.Item, action string, cooldown time.Duration, amount int64) (*UseOutcome, models.Remaining, error) {
	remaining, gated, err := s.cooldowns.Check(ctx, userID, action)
	if err != nil {
		return nil, models.Remaining{}, err
	}
	if gated {
		return nil, remaining, fmt.Errorf("%w: %s", models.ErrOnCooldown, action)
	}

	if err := s.requireItem(ctx, userID, item); err != nil {
		return nil, models.Remaining{}, err
	}

	err = runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if err := uow.AccountRepository().AddPocket(ctx, userID, amount); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket + amount,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank,
			ChangeAmount:    amount,
			TransactionType: models.TransactionTypeItemUse,
			Metadata:        map[string]any{"item": string(item)},
		})
	})
	if err != nil {
		return nil, models.Remaining{}, err
	}

	if err := s.cooldowns.Set(ctx, userID, action, cooldown); err != nil {
		return nil, models.Remaining{}, err
	}
	return &UseOutcome{Item: item, Coins: amount}, models.Remaining{}, nil
}

func (s *economyService) useFishingRod(ctx context.Context, userID int64) (*UseOutcome, models.Remaining, error) {
	remaining, gated, err := s.cooldowns.Check(ctx, userID, CooldownFishing)
	if err != nil {
		return nil, models.Remaining{}, err
	}
	if gated {
		return nil, remaining, fmt.Errorf("%w: fishing", models.ErrOnCooldown)
	}

	if err := s.requireItem(ctx, userID, models.ItemFishingRod); err != nil {
		return nil, models.Remaining{}, err
	}

	// Zero fish is a valid catch: you fell into the water.
	caught := s.randInt(0, FishCatchMax)
	if caught > 0 {
		err = runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
			if _, err := ensureAccount(ctx, uow, userID); err != nil {
				return err
			}
			return uow.InventoryRepository().Add(ctx, userID, models.ItemFish, caught)
		})
		if err != nil {
			return nil, models.Remaining{}, err
		}
	}

	if err := s.cooldowns.Set(ctx, userID, CooldownFishing, FishingCooldown); err != nil {
		return nil, models.Remaining{}, err
	}
	return &UseOutcome{Item: models.ItemFishingRod, Fish: caught}, models.Remaining{}, nil
}

func (s *economyService) collectRent(ctx context.Context, userID int64) (*UseOutcome, models.Remaining, error) {
	if err := s.requireItem(ctx, userID, models.ItemMansion); err != nil {
		return nil, models.Remaining{}, err
	}

	now := s.now()
	windowStart := StartOfUTCWeek(now).Unix()
	rent := s.randInt(MansionRentMin, MansionRentMax)

	var claimed bool
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}

		claimed, err = uow.AccountRepository().ClaimWindowed(ctx, userID, models.ClaimMansion, rent, windowStart)
		if err != nil || !claimed {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket + rent,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank,
			ChangeAmount:    rent,
			TransactionType: models.TransactionTypeRent,
		})
	})
	if err != nil {
		return nil, models.Remaining{}, err
	}
	if !claimed {
		remaining := models.RemainingUntil(NextUTCWeek(now), now)
		return nil, remaining, fmt.Errorf("%w: rent already collected this week", models.ErrOnCooldown)
	}
	return &UseOutcome{Item: models.ItemMansion, Coins: rent}, models.Remaining{}, nil
}

// requireItem fails with ErrInsufficientInventory if the user does not own
// item.
func (s *economyService) requireItem(ctx context.Context, userID int64, item models.Item) error {
	var quantity int64
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		quantity, err = uow.InventoryRepository().Quantity(ctx, userID, item)
		return err
	})
	if err != nil {
		return err
	}
	if quantity < 1 {
		return fmt.Errorf("%w: user %d does not own a %s", models.ErrInsufficientInventory, userID, item)
	}
	return nil
}

func (s *economyService) PostMeme(ctx context.Context, userID int64) (*MemeOutcome, models.Remaining, error) {
	remaining, gated, err := s.cooldowns.Check(ctx, userID, CooldownPostMeme)
	if err != nil {
		return nil, models.Remaining{}, err
	}
	if gated {
		return nil, remaining, fmt.Errorf("%w: postmeme", models.ErrOnCooldown)
	}

	if err := s.requireItem(ctx, userID, models.ItemLaptop); err != nil {
		return nil, models.Remaining{}, err
	}

	karma := s.randInt(0, MemeKarmaMax)
	broke := s.randFloat() < LaptopBreakChance

	err = runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		if _, err := ensureAccount(ctx, uow, userID); err != nil {
			return err
		}
		if karma > 0 {
			if err := uow.AccountRepository().AddKarma(ctx, userID, karma); err != nil {
				return err
			}
		}
		if broke {
			if err := uow.InventoryRepository().Deduct(ctx, userID, models.ItemLaptop, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, models.Remaining{}, err
	}

	if err := s.cooldowns.Set(ctx, userID, CooldownPostMeme, PostMemeCooldown); err != nil {
		return nil, models.Remaining{}, err
	}
	return &MemeOutcome{Karma: karma, LaptopBroke: broke}, models.Remaining{}, nil
}

func (s *economyService) Slots(ctx context.Context, userID int64, bet int64) (*SlotsResult, error) {
	if bet <= 0 {
		return nil, fmt.Errorf("%w: bet must be positive", models.ErrValidation)
	}

	var reels [3]string
	for i := range reels {
		reels[i] = SlotSymbols[s.randInt(0, int64(len(SlotSymbols)-1))]
	}
	won := reels[0] == reels[1] && reels[1] == reels[2]

	result := &SlotsResult{Reels: reels, Won: won}
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}

		if won {
			result.Payout = bet * 2
			if err := uow.AccountRepository().AddPocket(ctx, userID, result.Payout); err != nil {
				return err
			}
		} else {
			result.Payout = -bet
			if err := uow.AccountRepository().DeductPocket(ctx, userID, bet); err != nil {
				return err
			}
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket + result.Payout,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank,
			ChangeAmount:    result.Payout,
			TransactionType: models.TransactionTypeSlots,
			Metadata:        map[string]any{"bet": bet, "won": won},
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *economyService) SellFish(ctx context.Context, userID int64, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	payout := quantity * models.FishSellRate
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if err := uow.InventoryRepository().Deduct(ctx, userID, models.ItemFish, quantity); err != nil {
			return err
		}
		if err := uow.AccountRepository().AddPocket(ctx, userID, payout); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket + payout,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank,
			ChangeAmount:    payout,
			TransactionType: models.TransactionTypeSale,
			Metadata:        map[string]any{"item": string(models.ItemFish), "quantity": quantity},
		})
	})
	if err != nil {
		return 0, err
	}
	return payout, nil
}

func (s *economyService) SellKarma(ctx context.Context, userID int64, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	payout := quantity * models.KarmaSellRate
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if err := uow.AccountRepository().SellKarma(ctx, userID, quantity, payout); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket + payout,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank,
			ChangeAmount:    payout,
			TransactionType: models.TransactionTypeSale,
			Metadata:        map[string]any{"item": "karma", "quantity": quantity},
		})
	})
	if err != nil {
		return 0, err
	}
	return payout, nil
}

func (s *economyService) RichestByPocket(ctx context.Context, limit int) ([]*models.Account, error) {
	var accounts []*models.Account
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		accounts, err = uow.AccountRepository().TopByPocket(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *economyService) RichestByBank(ctx context.Context, limit int) ([]*models.Account, error) {
	var accounts []*models.Account
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		accounts, err = uow.AccountRepository().TopByBank(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}
