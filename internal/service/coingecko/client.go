package coingecko

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"CoinScreen/internal/domain/models"
	"CoinScreen/internal/service/ratelimit"
	pkghttp "CoinScreen/pkg/http"
	applogger "CoinScreen/pkg/logger"
	"CoinScreen/pkg/util"
)

// Client fetches the coin universe and daily price history from the
// CoinGecko REST API. Calls are throttled through a shared token bucket
// so bulk backfills stay inside the public-tier rate limit.
type Client struct {
	baseURL   string
	apiKey    string
	perMinute float64
	http      *pkghttp.Client
	limiter   *ratelimit.Limiter
	l         *applogger.Logger
}

// New creates a CoinGecko client. requestsPerMinute <= 0 disables
// throttling.
func New(baseURL, apiKey string, requestsPerMinute int, timeout time.Duration, l *applogger.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		perMinute: float64(requestsPerMinute),
		http:      pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		limiter:   ratelimit.New(),
		l:         l,
	}
}

type marketCoin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type marketChart struct {
	Prices [][]float64 `json:"prices"`
}

// TopCoins returns the universe: the top coins by market cap across the
// requested number of pages.
func (c *Client) TopCoins(ctx context.Context, vsCurrency string, pages, perPage int) ([]models.Coin, error) {
	if pages <= 0 {
		pages = 1
	}
	if perPage <= 0 {
		perPage = 250
	}

	out := make([]models.Coin, 0, pages*perPage)
	for page := 1; page <= pages; page++ {
		if err := c.waitForToken(ctx); err != nil {
			return nil, err
		}
		var coins []marketCoin
		err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
			Method:  pkghttp.MethodGet,
			URL:     c.baseURL + "/coins/markets",
			Headers: c.headers(),
			QueryParams: map[string][]string{
				"vs_currency": {vsCurrency},
				"order":       {"market_cap_desc"},
				"per_page":    {strconv.Itoa(perPage)},
				"page":        {strconv.Itoa(page)},
			},
		}, &coins)
		if err != nil {
			return nil, fmt.Errorf("coingecko markets page %d: %w", page, err)
		}
		for _, mc := range coins {
			out = append(out, models.Coin{ID: mc.ID, Symbol: mc.Symbol, Name: mc.Name})
		}
		if len(coins) < perPage {
			break
		}
	}
	if c.l != nil {
		c.l.Info("coingecko universe fetched", applogger.Int("coins", len(out)))
	}
	return out, nil
}

// MarketChart returns one coin's full daily close history, one point
// per UTC day in ascending order. Intraday duplicates collapse to the
// last observation of the day.
func (c *Client) MarketChart(ctx context.Context, coinID, vsCurrency string) ([]models.PricePoint, error) {
	if err := c.waitForToken(ctx); err != nil {
		return nil, err
	}
	var chart marketChart
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:  pkghttp.MethodGet,
		URL:     fmt.Sprintf("%s/coins/%s/market_chart", c.baseURL, coinID),
		Headers: c.headers(),
		QueryParams: map[string][]string{
			"vs_currency": {vsCurrency},
			"days":        {"max"},
			"interval":    {"daily"},
		},
	}, &chart)
	if err != nil {
		return nil, fmt.Errorf("coingecko market_chart %s: %w", coinID, err)
	}

	out := make([]models.PricePoint, 0, len(chart.Prices))
	for _, pair := range chart.Prices {
		if len(pair) < 2 {
			continue
		}
		day := util.Day(time.UnixMilli(int64(pair[0])))
		p := models.PricePoint{Date: day, Price: pair[1]}
		if n := len(out); n > 0 && out[n-1].Date.Equal(day) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		h["x-cg-demo-api-key"] = c.apiKey
	}
	return h
}

// waitForToken blocks until the shared bucket yields a token or the
// context is done.
func (c *Client) waitForToken(ctx context.Context) error {
	if c.perMinute <= 0 {
		return nil
	}
	for {
		if c.limiter.Allow("coingecko", c.perMinute, c.perMinute/60) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}
