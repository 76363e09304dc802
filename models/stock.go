package models

import "time"

// StockAction distinguishes the two transaction directions.
type StockAction string

const (
	StockActionBuy  StockAction = "buy"
	StockActionSell StockAction = "sell"
)

// StockTransaction is one element of a holding's append-only transaction
// log. Immutable once written; the net position is recomputed on read.
type StockTransaction struct {
	ID        int64       `db:"id"`
	UserID    int64       `db:"user_id"`
	Symbol    string      `db:"symbol"`
	Action    StockAction `db:"action"`
	Shares    float64     `db:"shares"`
	Price     float64     `db:"price"`
	CreatedAt time.Time   `db:"created_at"`
}

// SignedShares is the share delta this transaction applies to the position.
func (t *StockTransaction) SignedShares() float64 {
	if t.Action == StockActionSell {
		return -t.Shares
	}
	return t.Shares
}

// Holding is the derived position for one symbol.
type Holding struct {
	Symbol       string
	Shares       float64
	CostBasis    float64
	Transactions []*StockTransaction
}

// Portfolio maps symbol to derived holding.
type Portfolio map[string]*Holding

// BuildPortfolio folds a transaction log into per-symbol positions.
func BuildPortfolio(txns []*StockTransaction) Portfolio {
	p := make(Portfolio)
	for _, txn := range txns {
		h := p[txn.Symbol]
		if h == nil {
			h = &Holding{Symbol: txn.Symbol}
			p[txn.Symbol] = h
		}
		h.Shares += txn.SignedShares()
		h.CostBasis += txn.SignedShares() * txn.Price
		h.Transactions = append(h.Transactions, txn)
	}
	return p
}

// InvestedValue ranks one user by net coins committed to stock positions.
type InvestedValue struct {
	UserID   int64
	Invested float64
}

// Quote is a point-in-time price snapshot from the quote API.
type Quote struct {
	Symbol  string
	Current float64
	Open    float64
	High    float64
	Low     float64
}
