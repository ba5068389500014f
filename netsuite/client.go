// Package netsuite клиент для выгрузки справочника поставщиков и счетов
// через SuiteQL API. Клиент работает только на чтение: никакие операции
// записи во внешнюю систему не выполняются.
package netsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client клиент SuiteQL API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
	maxRetries int
	retryDelay time.Duration
}

// ClientConfig конфигурация клиента
type ClientConfig struct {
	AccountID  string
	Token      string
	BaseURL    string // переопределяет URL, выведенный из AccountID (для тестов)
	Timeout    time.Duration
	RateLimit  rate.Limit
	PageSize   int
	MaxRetries int
	RetryDelay time.Duration
}

// NewClient создает новый клиент SuiteQL
func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = fmt.Sprintf("https://%s.suitetalk.api.netsuite.com", config.AccountID)
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(time.Second) // 1 запрос в секунду
	}
	if config.PageSize <= 0 || config.PageSize > 1000 {
		config.PageSize = 1000 // максимум страницы SuiteQL
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 2 * time.Second
	}

	return &Client{
		baseURL: config.BaseURL,
		token:   config.Token,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter:    rate.NewLimiter(config.RateLimit, 1),
		pageSize:   config.PageSize,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
	}
}

// QueryAll выполняет запрос SuiteQL и собирает все страницы результата
func (c *Client) QueryAll(ctx context.Context, query string) ([]SuiteQLRow, error) {
	var items []SuiteQLRow
	offset := 0

	for {
		page, err := c.queryPage(ctx, query, offset)
		if err != nil {
			return nil, err
		}

		items = append(items, page.Items...)
		if !page.HasMore {
			break
		}
		offset += c.pageSize
	}

	return items, nil
}

// queryPage выполняет запрос одной страницы с повторами при временных сбоях
func (c *Client) queryPage(ctx context.Context, query string, offset int) (*SuiteQLResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		page, retryable, err := c.doQuery(ctx, query, offset)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, fmt.Errorf("query failed after %d retries: %w", c.maxRetries, lastErr)
}

// doQuery выполняет один HTTP-запрос к SuiteQL API
func (c *Client) doQuery(ctx context.Context, query string, offset int) (*SuiteQLResponse, bool, error) {
	// Проверка лимита запросов
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("rate limit wait failed: %w", err)
	}

	body, err := json.Marshal(suiteQLRequest{Query: query})
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal query: %w", err)
	}

	fullURL := fmt.Sprintf("%s/services/rest/query/v1/suiteql?limit=%d&offset=%d",
		c.baseURL, c.pageSize, offset)

	req, err := http.NewRequestWithContext(ctx, "POST", fullURL, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "transient")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Сетевые ошибки считаем временными
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(detail))
	}

	var page SuiteQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}

	return &page, false, nil
}
