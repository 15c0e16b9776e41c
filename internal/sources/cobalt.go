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

// CobaltSource queries the Cobalt Intelligence API, which aggregates
// Secretary-of-State registrations across all US states.
type CobaltSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewCobaltSource creates a Cobalt client.
func NewCobaltSource(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *CobaltSource {
	if apiKey == "" {
		logger.Warn("cobalt source created without an API key")
	}
	return &CobaltSource{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type cobaltResult struct {
	Title                  string `json:"title"`
	BusinessName           string `json:"businessName"`
	SearchResultTitle      string `json:"searchResultTitle"`
	StateOfSOSRegistration string `json:"stateOfSosRegistration"`
	StateOfFormation       string `json:"stateOfFormation"`
	PhysicalAddressState   string `json:"physicalAddressState"`
	State                  string `json:"state"`
	Status                 string `json:"status"`
	FormationDate          string `json:"formationDate"`
	Officers               []struct {
		Name string `json:"name"`
	} `json:"officers"`
}

type cobaltSearchResponse struct {
	Results []cobaltResult `json:"results"`
}

// Search queries the provider and normalizes each hit. Hits without a
// usable name are skipped; a payload with no results is not an error.
func (c *CobaltSource) Search(ctx context.Context, name, state string) ([]*models.CorporateEntity, error) {
	q := url.Values{}
	q.Set("searchQuery", name)
	if state != "" {
		q.Set("state", state)
	}
	q.Set("liveData", "true")

	reqURL := c.baseURL + "/search?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating cobalt request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling cobalt API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cobalt API returned %d: %s", resp.StatusCode, string(body))
	}

	var payload cobaltSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding cobalt response: %w", err)
	}

	var entities []*models.CorporateEntity
	for i := range payload.Results {
		e, err := c.normalize(&payload.Results[i])
		if err != nil {
			c.logger.Warn("skipping cobalt result", "error", err)
			continue
		}
		entities = append(entities, e)
	}

	c.logger.Info("cobalt search complete", "query", name, "state", state, "hits", len(entities))
	return entities, nil
}

func (c *CobaltSource) normalize(r *cobaltResult) (*models.CorporateEntity, error) {
	name := firstNonEmpty(r.Title, r.BusinessName, r.SearchResultTitle)
	if name == "" {
		return nil, fmt.Errorf("result has no business name")
	}

	jurisdiction := firstNonEmpty(
		r.StateOfSOSRegistration,
		r.StateOfFormation,
		r.PhysicalAddressState,
		r.State,
	)

	formed := time.Time{}
	if r.FormationDate != "" {
		parsed, err := time.Parse("2006-01-02", r.FormationDate)
		if err == nil && !parsed.After(time.Now()) {
			formed = parsed
		}
	}

	e := &models.CorporateEntity{
		Name:         name,
		Jurisdiction: jurisdiction,
		Formed:       formed,
		Status:       StatusFromFiling(r.Status),
	}
	for _, o := range r.Officers {
		if o.Name != "" {
			e.Officers = append(e.Officers, o.Name)
		}
	}
	return e, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
