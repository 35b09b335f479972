package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"StakeBanner/internal/model"
)

// IndexerFetcher implements Fetcher against the smart-contract indexer REST API.
type IndexerFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewIndexerFetcher creates a new fetcher with optional proxy support.
func NewIndexerFetcher(baseURL string, timeout time.Duration, proxyURL string) *IndexerFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &IndexerFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *IndexerFetcher) Name() string { return "indexer" }

// FetchAccounts lists every account created under the given parent contract.
func (f *IndexerFetcher) FetchAccounts(ctx context.Context, contractID uint64) ([]model.Account, error) {
	endpoint := fmt.Sprintf("%s/v1/scs/accounts?parentId=%s", f.BaseURL, strconv.FormatUint(contractID, 10))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch accounts: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result model.AccountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return result.Accounts, nil
}
