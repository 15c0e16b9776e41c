package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/projectchronos/chronos/internal/models"
)

// EdgarClient enriches entities with data from the SEC EDGAR full-text
// search API. SEC requires a descriptive User-Agent identifying the
// calling application and a contact address.
type EdgarClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

// NewEdgarClient creates an EDGAR client.
func NewEdgarClient(baseURL, appName, contactEmail string, timeout time.Duration, logger *slog.Logger) *EdgarClient {
	return &EdgarClient{
		baseURL:   baseURL,
		userAgent: fmt.Sprintf("%s (+%s)", appName, contactEmail),
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type edgarHit struct {
	Source struct {
		CIK          string   `json:"cik"`
		DisplayNames []string `json:"display_names"`
		FileType     string   `json:"file_type"`
		FileDate     string   `json:"file_date"`
	} `json:"_source"`
}

type edgarSearchResponse struct {
	Hits struct {
		Hits []edgarHit `json:"hits"`
	} `json:"hits"`
}

// search runs a full-text query against EDGAR.
func (c *EdgarClient) search(ctx context.Context, query string) ([]edgarHit, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("%q", query))

	reqURL := c.baseURL + "/search-index?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating edgar request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling edgar API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("edgar API returned %d: %s", resp.StatusCode, string(body))
	}

	var payload edgarSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding edgar response: %w", err)
	}
	return payload.Hits.Hits, nil
}

// EnrichEntity looks the entity up on EDGAR and appends CIK and latest
// filing details to its notes. An entity with no EDGAR presence is left
// unchanged and is not an error.
func (c *EdgarClient) EnrichEntity(ctx context.Context, e *models.CorporateEntity) (bool, error) {
	hits, err := c.search(ctx, e.Name)
	if err != nil {
		return false, fmt.Errorf("enriching %q: %w", e.Name, err)
	}
	if len(hits) == 0 {
		c.logger.Debug("no edgar filings found", "entity", e.Name)
		return false, nil
	}

	top := hits[0].Source
	if top.CIK != "" {
		e.AppendNote("SEC CIK: " + top.CIK)
	}
	if top.FileType != "" {
		note := "latest SEC filing: " + top.FileType
		if top.FileDate != "" {
			note += " (" + top.FileDate + ")"
		}
		e.AppendNote(note)
	}

	c.logger.Info("entity enriched from edgar", "entity", e.Name, "cik", top.CIK)
	return true, nil
}
