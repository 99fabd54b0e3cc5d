package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const defaultBaseUrl = "https://query1.finance.yahoo.com/v8/finance/chart"

type Client struct {
	HttpClient *http.Client
	// BaseUrl overrides the chart endpoint, for tests
	BaseUrl string
}

type ChartMeta struct {
	Currency           string   `json:"currency"`
	Symbol             string   `json:"symbol"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	PreviousClose      float64  `json:"previousClose"`
	ChartPreviousClose float64  `json:"chartPreviousClose"`
}

type ChartQuote struct {
	// Close has one entry per timestamp; the feed reports halted or
	// not-yet-settled bars as null
	Close []*float64 `json:"close"`
}

type ChartIndicators struct {
	Quote []ChartQuote `json:"quote"`
}

type ChartResult struct {
	Meta       ChartMeta       `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators ChartIndicators `json:"indicators"`
}

// Closes returns the close series aligned with Timestamp, or nil when the
// payload carries no quote block.
func (r ChartResult) Closes() []*float64 {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	return r.Indicators.Quote[0].Close
}

type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e ChartError) Error() string {
	return fmt.Sprintf("chart api error %s: %s", e.Code, e.Description)
}

type chartResponse struct {
	Chart struct {
		Result []*ChartResult `json:"result"`
		Error  *ChartError    `json:"error"`
	} `json:"chart"`
}

// GetChart fetches the daily chart for a symbol. Five days of history is
// enough for previous-close derivation.
func (c Client) GetChart(symbol string) (*ChartResult, error) {
	httpClient := c.HttpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseUrl := c.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}

	requestUrl := fmt.Sprintf("%s/%s?interval=1d&range=5d", baseUrl, url.PathEscape(symbol))
	req, err := http.NewRequest(http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, err
	}
	// the feed rejects requests without a browser user agent
	req.Header.Set("User-Agent", "Mozilla/5.0")

	response, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}
	if response.StatusCode != 200 {
		return nil, fmt.Errorf("failed with status code %d: %s", response.StatusCode, string(responseBytes))
	}

	responseJson := chartResponse{}
	if err := json.Unmarshal(responseBytes, &responseJson); err != nil {
		return nil, fmt.Errorf("failed to parse chart response for %s: %w", symbol, err)
	}

	if responseJson.Chart.Error != nil {
		return nil, *responseJson.Chart.Error
	}
	if len(responseJson.Chart.Result) == 0 || responseJson.Chart.Result[0] == nil {
		return nil, fmt.Errorf("no chart result for %s", symbol)
	}

	return responseJson.Chart.Result[0], nil
}
