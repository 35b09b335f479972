package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StakeBanner/internal/calculator"
	"StakeBanner/internal/model"
	"StakeBanner/internal/reward"
)

var start = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

func newTestCollector(t *testing.T, f Fetcher) *Collector {
	t.Helper()
	log, _ := test.NewNullLogger()
	w, err := calculator.NewWindow(start, calculator.DefaultBucketWidth)
	require.NoError(t, err)
	c := NewCollector(f, 42, w, calculator.ModeStrict, reward.NewEngine(reward.ReferencePeriod, log), log)
	c.Now = func() time.Time { return start.Add(time.Hour) }
	return c
}

func TestIndexerFetcher_FetchAccounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/scs/accounts", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("parentId"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accounts":[{"global_deadline":1711929600,"global_initial":"5000000","global_period":13}]}`))
	}))
	defer srv.Close()

	f := NewIndexerFetcher(srv.URL, 5*time.Second, "")
	accounts, err := f.FetchAccounts(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(1711929600), accounts[0].Deadline)
	assert.True(t, accounts[0].Initial.Equal(decimal.NewFromInt(5_000_000)))
	assert.Equal(t, int64(13), accounts[0].Period)
	assert.Equal(t, "indexer", f.Name())
}

func TestIndexerFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewIndexerFetcher(srv.URL, 5*time.Second, "").FetchAccounts(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestIndexerFetcher_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accounts":`))
	}))
	defer srv.Close()

	_, err := NewIndexerFetcher(srv.URL, 5*time.Second, "").FetchAccounts(context.Background(), 1)
	assert.ErrorContains(t, err, "decode accounts")
}

func TestCollect_AggregatesIntoReport(t *testing.T) {
	t1 := start.Unix() + 7*24*3600
	f := &MockFetcher{Accounts: []model.Account{
		{Deadline: t1 - 1, Initial: decimal.NewFromInt(1_000_000), Period: 10},
		{Deadline: t1 - 2, Initial: decimal.NewFromInt(2_000_000), Period: 10},
		{Deadline: t1 - 3, Initial: decimal.NewFromInt(3_000_000), Period: 10},
	}}

	report, err := newTestCollector(t, f).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.Calls)
	assert.Equal(t, uint64(42), report.ContractID)
	assert.Equal(t, 3, report.AccountCount)
	assert.Equal(t, start, report.WindowStart)
	assert.True(t, report.TotalStake.Equal(decimal.NewFromInt(6_000_000)))
	require.Len(t, report.Stats, model.WeekCount)

	week1, ok := report.Week(1)
	require.True(t, ok)
	assert.Equal(t, 3, week1.Accounts)
	assert.Equal(t, int64(10), week1.AvgPeriod)
	assert.True(t, week1.AvgStake.Equal(decimal.NewFromInt(2_000_000)))
}

func TestCollect_EmptyAccounts(t *testing.T) {
	report, err := newTestCollector(t, &MockFetcher{}).Collect(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.Zero(t, report.AccountCount)
}

func TestCollect_FetchError(t *testing.T) {
	_, err := newTestCollector(t, &MockFetcher{Err: errors.New("boom")}).Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mock")
	assert.Contains(t, err.Error(), "boom")
}
