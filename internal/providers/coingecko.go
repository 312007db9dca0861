package providers

import (
	"context"
	"strings"
	"time"

	"agri-report-workers/internal/common/config"
	commonhttp "agri-report-workers/internal/common/http"
	"agri-report-workers/internal/models"
)

const coinGeckoProvider = "coingecko"

// CoinGecko reads ethereum and bitcoin spot prices in USD.
type CoinGecko struct {
	http    *commonhttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
}

func NewCoinGecko(cfg config.EndpointConfig) *CoinGecko {
	timeout := endpointTimeout(cfg.Timeout)
	return &CoinGecko{
		http:    commonhttp.NewClient(timeout),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: timeout,
	}
}

func (c *CoinGecko) CryptoPrices(ctx context.Context) (models.CryptoPrices, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp map[string]map[string]float64
	err := c.http.GetJSON(ctx,
		c.baseURL+"/simple/price?ids=ethereum,bitcoin&vs_currencies=usd",
		&resp,
		commonhttp.WithHeader("x-cg-demo-api-key", c.apiKey),
	)
	if err := wrapError(coinGeckoProvider, err); err != nil {
		return models.CryptoPrices{}, err
	}
	return models.CryptoPrices{
		Ethereum: resp["ethereum"]["usd"],
		Bitcoin:  resp["bitcoin"]["usd"],
	}, nil
}
