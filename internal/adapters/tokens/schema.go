package tokens

import (
	"embed"
	"fmt"

	"github.com/shopspring/decimal"
)

//go:embed schema/*.sql
var schemaFS embed.FS

func schema(driver string) (string, error) {
	data, err := schemaFS.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return "", fmt.Errorf("read %s schema: %w", driver, err)
	}
	return string(data), nil
}

// decimals parses the five decimal columns in table order.
func decimals(id string, raw ...string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(raw))
	for i, s := range raw {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("token %s: invalid decimal %q: %w", id, s, err)
		}
		out[i] = d
	}
	return out, nil
}
