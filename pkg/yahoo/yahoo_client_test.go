package yahoo

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const chartFixture = `{
	"chart": {
		"result": [{
			"meta": {
				"currency": "USD",
				"symbol": "AAPL",
				"regularMarketPrice": 189.95,
				"previousClose": 188.01,
				"chartPreviousClose": 185.5
			},
			"timestamp": [1704202200, 1704288600, 1704375000],
			"indicators": {
				"quote": [{
					"close": [185.64, null, 189.95]
				}]
			}
		}],
		"error": null
	}
}`

func TestClient_GetChart(t *testing.T) {
	t.Run("decodes the chart payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/AAPL", r.URL.Path)
			require.Equal(t, "1d", r.URL.Query().Get("interval"))
			require.Equal(t, "5d", r.URL.Query().Get("range"))
			require.NotEmpty(t, r.Header.Get("User-Agent"))
			fmt.Fprint(w, chartFixture)
		}))
		defer server.Close()

		result, err := Client{BaseUrl: server.URL}.GetChart("AAPL")
		require.NoError(t, err)

		price := 189.95
		firstClose := 185.64
		lastClose := 189.95
		require.Equal(
			t,
			"",
			cmp.Diff(
				&ChartResult{
					Meta: ChartMeta{
						Currency:           "USD",
						Symbol:             "AAPL",
						RegularMarketPrice: &price,
						PreviousClose:      188.01,
						ChartPreviousClose: 185.5,
					},
					Timestamp: []int64{1704202200, 1704288600, 1704375000},
					Indicators: ChartIndicators{
						Quote: []ChartQuote{
							{Close: []*float64{&firstClose, nil, &lastClose}},
						},
					},
				},
				result,
			),
		)
	})

	t.Run("chart-level error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
		}))
		defer server.Close()

		_, err := Client{BaseUrl: server.URL}.GetChart("NOPE")
		require.ErrorContains(t, err, "No data found")
	})

	t.Run("empty result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
		}))
		defer server.Close()

		_, err := Client{BaseUrl: server.URL}.GetChart("NOPE")
		require.ErrorContains(t, err, "no chart result")
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := Client{BaseUrl: server.URL}.GetChart("AAPL")
		require.ErrorContains(t, err, "status code 429")
	})
}
