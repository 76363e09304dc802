package testutil

import (
	"popcat/models"
)

// CreateTestWarning creates a test warning with default values
func CreateTestWarning(guildID, userID int64, reason string) *models.Warning {
	return &models.Warning{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: 999,
		Reason:      reason,
	}
}

// CreateTestStockTransaction creates a test trade log row
func CreateTestStockTransaction(userID int64, symbol string, action models.StockAction, shares, price float64) *models.StockTransaction {
	return &models.StockTransaction{
		UserID: userID,
		Symbol: symbol,
		Action: action,
		Shares: shares,
		Price:  price,
	}
}

// CreateTestBalanceEntry creates a test ledger entry with default values
func CreateTestBalanceEntry(userID int64, transactionType models.TransactionType) *models.BalanceEntry {
	return &models.BalanceEntry{
		UserID:          userID,
		PocketBefore:    2000,
		PocketAfter:     1000,
		ChangeAmount:    -1000,
		TransactionType: transactionType,
		Metadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestCustomCommand creates a test trigger/response pair
func CreateTestCustomCommand(guildID int64, trigger string) *models.CustomCommand {
	return &models.CustomCommand{
		GuildID:  guildID,
		Trigger:  trigger,
		Response: "response for " + trigger,
	}
}
