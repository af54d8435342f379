package listing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jatsharma/stackera-project/internal/adapters/uniswap"
	"github.com/jatsharma/stackera-project/internal/domain"
)

type SortField string

const (
	SortTradeVolumeUSD     SortField = "tradeVolumeUSD"
	SortTotalLiquidity     SortField = "totalLiquidity"
	SortUntrackedVolumeUSD SortField = "untrackedVolumeUSD"
)

// SortFields lists the accepted sortBy values in the order they are reported.
var SortFields = []SortField{SortTradeVolumeUSD, SortTotalLiquidity, SortUntrackedVolumeUSD}

const (
	DefaultLimit = 100
	MaxLimit     = 1000
	// MaxSkip is the deepest offset the subgraph serves.
	MaxSkip = 5000
)

// ValidationError carries the client-facing message. Kind is
// domain.ErrInvalidParameter or domain.ErrOutOfRange.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Kind }

func invalid(msg string) error {
	return &ValidationError{Kind: domain.ErrInvalidParameter, Message: msg}
}

// Params are the raw query string values. Empty means absent.
type Params struct {
	SortBy string
	Limit  string
	Page   string
}

type Query struct {
	SortBy *SortField
	Limit  int
	Page   *int
}

// Build validates p and turns it into a Query. Checks run in a fixed order
// and the first failure is returned.
func Build(p Params) (Query, error) {
	q := Query{Limit: DefaultLimit}

	if p.Limit != "" {
		limit, err := strconv.Atoi(strings.TrimSpace(p.Limit))
		if err != nil {
			return Query{}, invalid("Please provide limit as an integer.")
		}
		q.Limit = limit
	}

	if p.SortBy != "" {
		field, ok := parseSortField(p.SortBy)
		if !ok {
			return Query{}, invalid(fmt.Sprintf("Please enter sortBy values from these only: %v", SortFields))
		}
		q.SortBy = &field
	} else if p.Page != "" {
		return Query{}, invalid("Please provide key to sort by so that pagination data can be consistent.")
	}

	if p.Page != "" {
		page, err := strconv.Atoi(strings.TrimSpace(p.Page))
		if err != nil {
			return Query{}, invalid("Please provide page as an integer.")
		}
		q.Page = &page
	}

	if q.Limit > MaxLimit {
		return Query{}, invalid("Please provide limit less than 1000.")
	}
	if q.Limit < 1 {
		return Query{}, invalid("Please provide limit greater than 0.")
	}

	if q.Page != nil {
		if *q.Page < 1 {
			return Query{}, invalid("Please provide page greater than 0.")
		}
		// (page-1)*limit > MaxSkip, compared without multiplying so huge pages cannot wrap.
		if *q.Page-1 > MaxSkip/q.Limit {
			return Query{}, &ValidationError{
				Kind: domain.ErrOutOfRange,
				Message: fmt.Sprintf("Page number out of range, please provide page no. less than %d for the same limit.",
					MaxSkip/q.Limit+2),
			}
		}
	}

	return q, nil
}

func parseSortField(s string) (SortField, bool) {
	for _, f := range SortFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Skip is the row offset for the requested page. ok is false without a page.
func (q Query) Skip() (skip int, ok bool) {
	if q.Page == nil {
		return 0, false
	}
	return (*q.Page - 1) * q.Limit, true
}

// Fragment renders the argument list of the tokens field, e.g.
// "(orderBy: totalLiquidity, orderDirection: desc, first: 50, skip: 50)".
func (q Query) Fragment() string {
	var parts []string
	if q.SortBy != nil {
		parts = append(parts, "orderBy: "+string(*q.SortBy), "orderDirection: desc")
	}
	if q.Limit > 0 {
		parts = append(parts, fmt.Sprintf("first: %d", q.Limit))
	}
	if skip, ok := q.Skip(); ok {
		parts = append(parts, fmt.Sprintf("skip: %d", skip))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Document is the full GraphQL request for this listing.
func (q Query) Document() string {
	return uniswap.TokensQuery(q.Fragment())
}
