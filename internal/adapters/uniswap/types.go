package uniswap

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jatsharma/stackera-project/internal/domain/token"
)

// TokenDTO mirrors the subgraph Token entity. BigDecimal and BigInt fields
// arrive as JSON strings; an absent or null one leaves Valid false.
type TokenDTO struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Symbol             string              `json:"symbol"`
	TotalLiquidity     decimal.NullDecimal `json:"totalLiquidity"`
	TotalSupply        decimal.NullDecimal `json:"totalSupply"`
	TradeVolume        decimal.NullDecimal `json:"tradeVolume"`
	TradeVolumeUSD     decimal.NullDecimal `json:"tradeVolumeUSD"`
	TxCount            string              `json:"txCount"`
	UntrackedVolumeUSD decimal.NullDecimal `json:"untrackedVolumeUSD"`
}

type TokensData struct {
	Tokens []TokenDTO `json:"tokens"`
}

type BundleData struct {
	Bundle *struct {
		ETHPrice *string `json:"ethPrice"`
	} `json:"bundle"`
}

func (d TokenDTO) ToDomain() (*token.Token, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("%w: token without id", ErrMalformedResponse)
	}
	txCount, err := strconv.ParseInt(d.TxCount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: token %s txCount %q", ErrMalformedResponse, d.ID, d.TxCount)
	}

	numbers := []struct {
		name  string
		value decimal.NullDecimal
	}{
		{"totalLiquidity", d.TotalLiquidity},
		{"totalSupply", d.TotalSupply},
		{"tradeVolume", d.TradeVolume},
		{"tradeVolumeUSD", d.TradeVolumeUSD},
		{"untrackedVolumeUSD", d.UntrackedVolumeUSD},
	}
	for _, n := range numbers {
		if !n.value.Valid {
			return nil, fmt.Errorf("%w: token %s missing %s", ErrMalformedResponse, d.ID, n.name)
		}
	}

	return &token.Token{
		ID:                 d.ID,
		Name:               d.Name,
		Symbol:             d.Symbol,
		TotalLiquidity:     d.TotalLiquidity.Decimal,
		TotalSupply:        d.TotalSupply.Decimal,
		TradeVolume:        d.TradeVolume.Decimal,
		TradeVolumeUSD:     d.TradeVolumeUSD.Decimal,
		TxCount:            txCount,
		UntrackedVolumeUSD: d.UntrackedVolumeUSD.Decimal,
	}, nil
}
