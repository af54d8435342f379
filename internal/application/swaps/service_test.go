package swaps

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatsharma/stackera-project/internal/domain"
)

type fakeUpstream struct {
	body    []byte
	err     error
	queries []string
}

func (f *fakeUpstream) Query(_ context.Context, _, query string) ([]byte, error) {
	f.queries = append(f.queries, query)
	return f.body, f.err
}

func (f *fakeUpstream) Decode(context.Context, string, string, interface{}) error {
	return errors.New("not used")
}

func TestService_RecentSwaps(t *testing.T) {
	now := time.Unix(1700000000, 0)
	upstream := &fakeUpstream{body: []byte(`{"data":{"swaps":[]}}`)}
	svc := NewService(upstream, nil)
	svc.now = func() time.Time { return now }

	body, err := svc.RecentSwaps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"data":{"swaps":[]}}`, string(body))

	require.Len(t, upstream.queries, 1)
	want := fmt.Sprintf("timestamp_gte: %d, amountUSD_gt: 10000", now.Add(-4*time.Hour).Unix())
	assert.Contains(t, upstream.queries[0], want)
	assert.Contains(t, upstream.queries[0], "orderBy: timestamp, orderDirection: desc")
}

func TestService_RecentSwapsFailure(t *testing.T) {
	upstream := &fakeUpstream{err: fmt.Errorf("%w: status 503", domain.ErrUpstreamFailure)}
	svc := NewService(upstream, nil)

	_, err := svc.RecentSwaps(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
}
