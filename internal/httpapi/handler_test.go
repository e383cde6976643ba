package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"biovalid/internal/blob"
	"biovalid/internal/validator"
	"biovalid/pkg/domain"
)

type stubResolver struct{}

func (stubResolver) ResolveTerm(context.Context, string) domain.TermResult {
	return domain.TermResult{Status: domain.StatusNotFound}
}

func (stubResolver) ResolveTerms(_ context.Context, ids []string) map[string]domain.TermResult {
	out := make(map[string]domain.TermResult, len(ids))
	for _, id := range ids {
		out[id] = domain.TermResult{Status: domain.StatusNotFound}
	}
	return out
}

func (stubResolver) ResolveExternalSample(context.Context, string) domain.ExternalSample {
	return domain.ExternalSample{Status: domain.StatusNotFound}
}

func (stubResolver) ResolveExternalSamples(_ context.Context, ids []string) map[string]domain.ExternalSample {
	out := make(map[string]domain.ExternalSample, len(ids))
	for _, id := range ids {
		out[id] = domain.ExternalSample{Status: domain.StatusNotFound}
	}
	return out
}

func newTestHandler(opts ...Option) *Handler {
	engine := validator.New(stubResolver{}, domain.DefaultConfig(), nil)
	return NewHandler(engine, opts...)
}

const organismPayload = `{
	"data": {
		"organism": [{
			"Sample Name": "O1",
			"Material": "organism",
			"Term Source ID": "OBI_0100026",
			"Project": "FAANG",
			"Organism": "Sus scrofa",
			"Organism Term Source ID": "NCBITaxon_9823",
			"Sex": "male",
			"Sex Term Source ID": "PATO_0000384",
			"Birth Date": "2024-01-01",
			"Breed": "Duroc",
			"Breed Term Source ID": "LBO_0000358",
			"Health Status": "healthy"
		}]
	},
	"validate_ontology_text": false
}`

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("body = %v", body)
	}
}

func TestSupportedTypes(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/supported-types", nil))

	var body struct {
		SampleTypes []string `json:"sample_types"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.SampleTypes) != 5 || body.SampleTypes[0] != "organism" {
		t.Errorf("sample types = %v", body.SampleTypes)
	}
}

func TestValidateJSONBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(organismPayload))
	newTestHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Results domain.BatchResult `json:"results"`
		Report  string             `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Results.Summary.Total != 1 || body.Results.Summary.Valid != 1 {
		t.Errorf("summary = %+v", body.Results.Summary)
	}
	if !strings.Contains(body.Report, "Organism Validation Report") {
		t.Errorf("report = %q", body.Report)
	}
}

func TestValidateRejectsBadBody(t *testing.T) {
	for _, payload := range []string{"not json", `{"data": {}}`, `{"data": {"nothing_known": []}}`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(payload))
		newTestHandler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("payload %q: status = %d", payload, rec.Code)
		}
	}
}

func TestValidateFileUpload(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "batch.json")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	batchJSON := `{"organism": [{"Sample Name": "O1", "Material": "organism"}]}`
	if _, err := part.Write([]byte(batchJSON)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate-file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	newTestHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Results domain.BatchResult `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	// Record is missing most required fields, so it validates as invalid.
	if body.Results.Summary.Total != 1 || body.Results.Summary.Invalid != 1 {
		t.Errorf("summary = %+v", body.Results.Summary)
	}
}

func TestValidateFileRejectsUnknownExtension(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "batch.csv")
	_, _ = part.Write([]byte("a,b"))
	_ = mw.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate-file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	newTestHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestValidateArchivesReport(t *testing.T) {
	store := blob.NewMemory()
	handler := newTestHandler(WithArchive(store))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(organismPayload))
	handler.ServeHTTP(rec, req)

	var body struct {
		ReportKey string `json:"report_key"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ReportKey == "" {
		t.Fatalf("expected report_key in response: %s", rec.Body.String())
	}
	if _, _, err := store.Get(req.Context(), body.ReportKey); err != nil {
		t.Fatalf("archived report missing: %v", err)
	}
}

func TestExportReturnsBioSamples(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader(organismPayload))
	newTestHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		BioSamples map[string][]validator.BioSample `json:"biosamples"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	samples := body.BioSamples["organism"]
	if len(samples) != 1 || samples[0].Name != "O1" {
		t.Fatalf("biosamples = %+v", body.BioSamples)
	}
}
