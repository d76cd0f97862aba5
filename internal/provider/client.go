package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultBaseURL  = "https://api.ramp.com/developer/v1"
	DefaultTokenURL = "https://api.ramp.com/developer/v1/token"
	DefaultPageSize = 100

	clearedState = "CLEARED"
	dateLayout   = "2006-01-02"
)

var ErrMalformedPayload = errors.New("malformed provider payload")

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return "provider authentication failed, check client credentials"
	case e.StatusCode == http.StatusForbidden:
		return "provider access forbidden, verify granted scopes"
	case e.StatusCode == http.StatusTooManyRequests:
		return "provider rate limit exceeded"
	case e.StatusCode >= 500:
		return fmt.Sprintf("provider server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error (%d): %s", e.StatusCode, e.Message)
}

type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	PageSize     int
	Timeout      time.Duration
}

// Transaction is a provider record with the sign convention already
// normalized: Amount is always the spend magnitude.
type Transaction struct {
	ExternalID   string
	MerchantName string
	Amount       decimal.Decimal
	OccurredAt   time.Time
	Memo         string
	Category     string
	CardSuffix   string
	EmployeeName string
}

type Client struct {
	baseURL  string
	pageSize int
	http     *http.Client
}

// NewClient builds a client that authenticates with the OAuth2 client
// credentials grant. Tokens are cached and refreshed by the oauth2 transport.
// ctx scopes the token-fetching HTTP client only.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("provider client id and secret are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"transactions:read"}
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	httpClient := cc.Client(ctx)
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		pageSize: cfg.PageSize,
		http:     httpClient,
	}, nil
}

// FetchMonth returns every cleared transaction dated within the calendar month.
func (c *Client) FetchMonth(ctx context.Context, year int, month time.Month) ([]Transaction, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return c.FetchTransactions(ctx, start, start.AddDate(0, 1, -1))
}

// FetchTransactions pages through every cleared transaction between start and
// end (inclusive dates). Any bad record fails the whole fetch.
func (c *Client) FetchTransactions(ctx context.Context, start, end time.Time) ([]Transaction, error) {
	var out []Transaction
	cursor := ""
	for {
		params := url.Values{}
		params.Set("from_date", start.Format(dateLayout))
		params.Set("to_date", end.Format(dateLayout))
		params.Set("state", clearedState)
		params.Set("page_size", strconv.Itoa(c.pageSize))
		if cursor != "" {
			params.Set("page_cursor", cursor)
		}

		var page transactionPage
		if err := c.get(ctx, "/transactions", params, &page); err != nil {
			return nil, fmt.Errorf("FetchTransactions: %w", err)
		}

		for _, raw := range page.Data {
			tx, err := raw.normalize()
			if err != nil {
				return nil, fmt.Errorf("FetchTransactions: %w", err)
			}
			out = append(out, tx)
		}

		if page.Page.Next == "" || page.Page.Next == cursor {
			return out, nil
		}
		cursor = page.Page.Next
	}
}

// Ping issues a single one-record request to verify credentials and connectivity.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("page_size", "1")
	var page transactionPage
	if err := c.get(ctx, "/transactions", params, &page); err != nil {
		return fmt.Errorf("Ping: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}
