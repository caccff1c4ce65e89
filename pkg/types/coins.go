package types

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

type Coin struct {
	CoinType            string `json:"coinType"`
	CoinObjectID        string `json:"coinObjectId"`
	Version             string `json:"version"`
	Digest              string `json:"digest"`
	Balance             string `json:"balance"`
	PreviousTransaction string `json:"previousTransaction"`
}

func (c *Coin) BalanceU64() (uint64, error) {
	v, err := strconv.ParseUint(c.Balance, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid balance %q for coin %s: %w", c.Balance, c.CoinObjectID, err)
	}
	return v, nil
}

func (c *Coin) String() string {
	return fmt.Sprintf("<< coin type: %s, balance: %s, id: %s >>", c.CoinType, c.Balance, c.CoinObjectID)
}

type CoinsPage struct {
	Data        []Coin  `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// FirstAbove returns the first coin whose balance is strictly greater than minimum.
// Coins with unparseable balances are skipped.
func (p *CoinsPage) FirstAbove(minimum uint64) (*Coin, bool) {
	for i := range p.Data {
		balance, err := p.Data[i].BalanceU64()
		if err != nil {
			continue
		}
		if balance > minimum {
			return &p.Data[i], true
		}
	}
	return nil, false
}

// Balance is one entry of suix_getAllBalances. TotalBalance is a u128 sent as a string.
type Balance struct {
	CoinType        string          `json:"coinType"`
	CoinObjectCount int             `json:"coinObjectCount"`
	TotalBalance    string          `json:"totalBalance"`
	LockedBalance   json.RawMessage `json:"lockedBalance,omitempty"`
}

func (b *Balance) Total() (*uint256.Int, error) {
	if b.TotalBalance == "" {
		return uint256.NewInt(0), nil
	}
	v, err := uint256.FromDecimal(b.TotalBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid total balance %q for %s: %w", b.TotalBalance, b.CoinType, err)
	}
	return v, nil
}
