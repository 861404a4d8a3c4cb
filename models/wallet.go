package models

import "time"

type Wallet struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	TotalCoins int    `json:"totalCoins"`
}

// NewWallet returns the zero-balance wallet for a user.
func NewWallet(userID string) Wallet {
	return Wallet{
		ID:     "wallet_" + userID,
		UserID: userID,
	}
}

// WalletHistory is one ledger record. Entries are only ever appended.
type WalletHistory struct {
	ID          string    `json:"id"`
	ActionType  string    `json:"actionType"`
	CoinsEarned int       `json:"coinsEarned"`
	DateTime    time.Time `json:"dateTime"`
}

// LedgerTotal sums the coins of every ledger entry.
func LedgerTotal(history []WalletHistory) int {
	total := 0
	for _, h := range history {
		total += h.CoinsEarned
	}
	return total
}
