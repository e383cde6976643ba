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

// DefaultBioSamplesBaseURL is the EBI BioSamples API root.
const DefaultBioSamplesBaseURL = "https://www.ebi.ac.uk/biosamples"

// Relationship types that count as derivation edges on a repository sample.
var derivationRelationshipTypes = map[string]struct{}{
	"child of":     {},
	"derived from": {},
}

// BioSamplesClient fetches repository accessions.
type BioSamplesClient struct {
	base string
	http *http.Client
}

// NewBioSamplesClient constructs a client against base
// (DefaultBioSamplesBaseURL when empty).
func NewBioSamplesClient(base string, timeout time.Duration) *BioSamplesClient {
	if base == "" {
		base = DefaultBioSamplesBaseURL
	}
	if timeout <= 0 {
		timeout = domain.DefaultLookupTimeout
	}
	return &BioSamplesClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

type biosampleDocument struct {
	Characteristics map[string][]struct {
		Text string `json:"text"`
	} `json:"characteristics"`
	Relationships []struct {
		Source string `json:"source"`
		Type   string `json:"type"`
		Target string `json:"target"`
	} `json:"relationships"`
}

// FetchSample retrieves one accession. A 404 is a normal outcome and maps
// to StatusNotFound with a nil error; only transport and decode problems
// are errors.
func (c *BioSamplesClient) FetchSample(ctx context.Context, id string) (domain.ExternalSample, error) {
	endpoint := fmt.Sprintf("%s/samples/%s", c.base, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ExternalSample{Status: domain.StatusNotFound}, fmt.Errorf("build biosamples request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ExternalSample{Status: domain.StatusNotFound}, fmt.Errorf("biosamples fetch %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ExternalSample{Status: domain.StatusNotFound}, nil
	case resp.StatusCode != http.StatusOK:
		return domain.ExternalSample{Status: domain.StatusNotFound}, fmt.Errorf("biosamples fetch %s: status %d", id, resp.StatusCode)
	}

	var doc biosampleDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return domain.ExternalSample{Status: domain.StatusNotFound}, fmt.Errorf("decode biosample %s: %w", id, err)
	}

	sample := domain.ExternalSample{Status: domain.StatusFound}
	if texts := doc.Characteristics["organism"]; len(texts) > 0 {
		sample.Organism = texts[0].Text
	}
	if texts := doc.Characteristics["material"]; len(texts) > 0 {
		sample.MaterialKind = strings.ToLower(texts[0].Text)
	}
	for _, rel := range doc.Relationships {
		if rel.Source != id {
			continue
		}
		if _, ok := derivationRelationshipTypes[rel.Type]; ok {
			sample.References = append(sample.References, rel.Target)
		}
	}
	return sample, nil
}
