package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"MVPScreener/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooStore reads daily bars for a fixed symbol list from the Yahoo Finance chart API.
type YahooStore struct {
	Client  *http.Client
	BaseURL string
	Symbols []string
	limiter *rate.Limiter
}

// NewYahooStore creates a store issuing at most two chart requests per second.
func NewYahooStore(symbols []string, proxyURL string) *YahooStore {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooStore{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: yahooBaseURL,
		Symbols: symbols,
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
}

func (y *YahooStore) Name() string { return "yahoo" }

func (y *YahooStore) Close() error { return nil }

type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// FetchObservations fetches each symbol in turn; one failing symbol fails the fetch.
func (y *YahooStore) FetchObservations(ctx context.Context, depth int) ([]model.Observation, error) {
	rng := "1mo"
	if depth > 20 {
		rng = "3mo"
	}
	var out []model.Observation
	for _, sym := range y.Symbols {
		if err := y.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		obs, err := y.fetchDaily(ctx, sym, rng)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sym, err)
		}
		if len(obs) > depth {
			obs = obs[len(obs)-depth:]
		}
		out = append(out, obs...)
	}
	return out, nil
}

// fetchDaily returns daily closes oldest first, skipping null bars.
func (y *YahooStore) fetchDaily(ctx context.Context, symbol, rng string) ([]model.Observation, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s", y.BaseURL, url.PathEscape(symbol), rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	obs := make([]model.Observation, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || i >= len(quote.Volume) {
			break
		}
		c, ok := toFloat(quote.Close[i])
		if !ok {
			continue // holidays and halts come back as null
		}
		vol, _ := toFloat(quote.Volume[i])
		t := time.Unix(ts, 0).UTC()
		obs = append(obs, model.Observation{
			Symbol: symbol,
			Date:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Price:  decimal.NewFromFloat(c),
			Volume: int64(vol),
		})
	}

	sort.Slice(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	return obs, nil
}
