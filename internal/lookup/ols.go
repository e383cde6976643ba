package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"biovalid/pkg/domain"
)

// DefaultOLSBaseURL is the EBI Ontology Lookup Service API root.
const DefaultOLSBaseURL = "https://www.ebi.ac.uk/ols/api"

// OLSClient queries the ontology search endpoint for candidate labels.
type OLSClient struct {
	base string
	http *http.Client
}

// NewOLSClient constructs a client against base (DefaultOLSBaseURL when
// empty). The HTTP client timeout backstops the per-call context timeout.
func NewOLSClient(base string, timeout time.Duration) *OLSClient {
	if base == "" {
		base = DefaultOLSBaseURL
	}
	if timeout <= 0 {
		timeout = domain.DefaultLookupTimeout
	}
	return &OLSClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

type olsSearchResponse struct {
	Response struct {
		Docs []struct {
			Label        string `json:"label"`
			OntologyName string `json:"ontology_name"`
		} `json:"docs"`
	} `json:"response"`
}

// SearchTerm queries the search endpoint with the underscore form of the
// term identifier (the service indexes UBERON_0002107, not
// UBERON:0002107) and returns every candidate label document.
func (c *OLSClient) SearchTerm(ctx context.Context, id string) ([]domain.TermLabel, error) {
	query := strings.Replace(id, ":", "_", 1)
	endpoint := fmt.Sprintf("%s/search?q=%s&rows=100", c.base, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build ols request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ols search %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ols search %s: status %d", id, resp.StatusCode)
	}

	var body olsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode ols response for %s: %w", id, err)
	}

	labels := make([]domain.TermLabel, 0, len(body.Response.Docs))
	for _, doc := range body.Response.Docs {
		if doc.Label == "" {
			continue
		}
		labels = append(labels, domain.TermLabel{Label: doc.Label, Ontology: doc.OntologyName})
	}
	return labels, nil
}
