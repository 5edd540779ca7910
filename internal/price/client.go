package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultURL CoinGecko 免费行情接口
const DefaultURL = "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd&include_24hr_change=true"

// Quote SOL/USD 报价
type Quote struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
}

// Client 第三方行情客户端，失败不重试（上层有缓存兜底）
type Client struct {
	url  string
	http *http.Client
}

func New(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Fetch 拉取当前报价
func (c *Client) Fetch(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Quote{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("fetch sol price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("fetch sol price: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Solana *struct {
			USD       float64 `json:"usd"`
			Change24h float64 `json:"usd_24h_change"`
		} `json:"solana"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Quote{}, fmt.Errorf("decode sol price: %w", err)
	}
	if body.Solana == nil {
		return Quote{}, fmt.Errorf("price data not available")
	}

	return Quote{Price: body.Solana.USD, Change24h: body.Solana.Change24h}, nil
}
