package uniswap

import (
	"fmt"
	"time"
)

const tokenFields = `id
    name
    symbol
    totalLiquidity
    totalSupply
    tradeVolume
    tradeVolumeUSD
    txCount
    untrackedVolumeUSD`

// ETHPriceQuery reads the ETH/USD price from the singleton bundle entity.
const ETHPriceQuery = `{
  bundle(id: "1") {
    ethPrice
  }
}`

// TokensQuery selects every token field. arguments is a parenthesized
// argument list or empty.
func TokensQuery(arguments string) string {
	return fmt.Sprintf(`{
  tokens%s {
    %s
  }
}`, arguments, tokenFields)
}

// TokensPageQuery is the sync page query, ordered by total supply.
func TokensPageQuery(first, skip int) string {
	return TokensQuery(fmt.Sprintf("(orderBy: totalSupply, orderDirection: desc, first: %d, skip: %d)", first, skip))
}

// RecentSwapsQuery selects swaps at or after since worth more than minAmountUSD.
func RecentSwapsQuery(since time.Time, minAmountUSD int) string {
	return fmt.Sprintf(`{
  swaps(orderBy: timestamp, orderDirection: desc, where: {timestamp_gte: %d, amountUSD_gt: %d}) {
    id
    timestamp
    amount0In
    amount1In
    amount0Out
    amount1Out
    amountUSD
    pair {
      id
      token0 {
        symbol
        decimals
      }
      token1 {
        symbol
        decimals
      }
    }
  }
}`, since.Unix(), minAmountUSD)
}
