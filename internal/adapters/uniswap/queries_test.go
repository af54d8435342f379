package uniswap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func TestQueriesParse(t *testing.T) {
	queries := map[string]string{
		"eth price":    ETHPriceQuery,
		"tokens":       TokensQuery(""),
		"tokens args":  TokensQuery("(orderBy: totalLiquidity, orderDirection: desc, first: 50, skip: 50)"),
		"tokens page":  TokensPageQuery(1000, 5000),
		"recent swaps": RecentSwapsQuery(time.Unix(1700000000, 0), 10000),
	}

	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			_, err := parser.ParseQuery(&ast.Source{Input: q})
			require.Nil(t, err)
		})
	}
}

func TestTokensPageQuery(t *testing.T) {
	q := TokensPageQuery(1000, 2000)
	assert.Contains(t, q, "tokens(orderBy: totalSupply, orderDirection: desc, first: 1000, skip: 2000)")
	assert.Contains(t, q, "untrackedVolumeUSD")
}

func TestRecentSwapsQuery(t *testing.T) {
	q := RecentSwapsQuery(time.Unix(1700000000, 0), 10000)
	assert.Contains(t, q, "where: {timestamp_gte: 1700000000, amountUSD_gt: 10000}")
}
