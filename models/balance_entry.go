package models

import "time"

// TransactionType categorizes a ledger mutation for the audit trail.
type TransactionType string

const (
	TransactionTypeInitial   TransactionType = "initial"
	TransactionTypeGive      TransactionType = "give"
	TransactionTypeRemove    TransactionType = "remove"
	TransactionTypeTransfer  TransactionType = "transfer"
	TransactionTypeDeposit   TransactionType = "deposit"
	TransactionTypeWithdraw  TransactionType = "withdraw"
	TransactionTypeDaily     TransactionType = "daily"
	TransactionTypeRent      TransactionType = "rent"
	TransactionTypePurchase  TransactionType = "purchase"
	TransactionTypeItemUse   TransactionType = "item_use"
	TransactionTypeSale      TransactionType = "sale"
	TransactionTypeSlots     TransactionType = "slots"
	TransactionTypeStockBuy  TransactionType = "stock_buy"
	TransactionTypeStockSell TransactionType = "stock_sell"
)

// BalanceEntry is one row of the ledger audit trail. Every pocket or bank
// mutation records an entry in the same transaction that applied it.
type BalanceEntry struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	PocketBefore    int64           `db:"pocket_before"`
	PocketAfter     int64           `db:"pocket_after"`
	BankBefore      int64           `db:"bank_before"`
	BankAfter       int64           `db:"bank_after"`
	ChangeAmount    int64           `db:"change_amount"`
	TransactionType TransactionType `db:"transaction_type"`
	Metadata        map[string]any  `db:"metadata"`
	CreatedAt       time.Time       `db:"created_at"`
}
