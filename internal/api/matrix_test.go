package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/qfdstudio/hoq/internal/qfd"
	"github.com/qfdstudio/hoq/internal/store"
)

func createCustomerViaAPI(t *testing.T, router http.Handler, p *store.Project, body string) *qfd.CustomerRequirement {
	t.Helper()
	w := doRequest(router, "POST", "/api/v1/projects/"+p.ID.String()+"/customer-requirements", p.OwnerID, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create customer requirement: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var cr qfd.CustomerRequirement
	if err := json.NewDecoder(w.Body).Decode(&cr); err != nil {
		t.Fatalf("decode customer requirement: %v", err)
	}
	return &cr
}

func createTechnicalViaAPI(t *testing.T, router http.Handler, p *store.Project, body string) *qfd.TechnicalRequirement {
	t.Helper()
	w := doRequest(router, "POST", "/api/v1/projects/"+p.ID.String()+"/technical-requirements", p.OwnerID, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create technical requirement: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var tr qfd.TechnicalRequirement
	if err := json.NewDecoder(w.Body).Decode(&tr); err != nil {
		t.Fatalf("decode technical requirement: %v", err)
	}
	return &tr
}

func listRelationships(t *testing.T, router http.Handler, p *store.Project) []qfd.Relationship {
	t.Helper()
	w := doRequest(router, "GET", "/api/v1/projects/"+p.ID.String()+"/relationships", p.OwnerID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list relationships: expected 200, got %d", w.Code)
	}
	var rels []qfd.Relationship
	json.NewDecoder(w.Body).Decode(&rels)
	return rels
}

func listCorrelations(t *testing.T, router http.Handler, p *store.Project) []qfd.TechnicalCorrelation {
	t.Helper()
	w := doRequest(router, "GET", "/api/v1/projects/"+p.ID.String()+"/correlations", p.OwnerID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list correlations: expected 200, got %d", w.Code)
	}
	var corrs []qfd.TechnicalCorrelation
	json.NewDecoder(w.Body).Decode(&corrs)
	return corrs
}

func TestCreateCustomerRequirement(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle","competitors":["Acme","Globex"]}`)

	cr := createCustomerViaAPI(t, router, p, `{"description":"quiet operation","importance":5,"ratings":[3,4]}`)

	if cr.Description != "quiet operation" {
		t.Errorf("expected description, got '%s'", cr.Description)
	}
	if cr.Importance != 5 {
		t.Errorf("expected importance 5, got %d", cr.Importance)
	}
	if len(cr.Ratings) != 2 {
		t.Errorf("expected 2 ratings, got %d", len(cr.Ratings))
	}
}

func TestCreateCustomerRequirementValidation(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle","competitors":["Acme"]}`)

	tests := []struct {
		name string
		body string
	}{
		{"importance zero", `{"description":"quiet","importance":0}`},
		{"importance six", `{"description":"quiet","importance":6}`},
		{"empty description", `{"description":"","importance":3}`},
		{"missing importance", `{"description":"quiet"}`},
		{"rating out of range", `{"description":"quiet","importance":3,"ratings":[6]}`},
		{"more ratings than competitors", `{"description":"quiet","importance":3,"ratings":[3,4]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "POST", "/api/v1/projects/"+p.ID.String()+"/customer-requirements", "mara", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateCustomerRequirement(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle","competitors":["Acme"]}`)
	cr := createCustomerViaAPI(t, router, p, `{"description":"quiet operation","importance":2}`)

	w := doRequest(router, "PATCH", "/api/v1/projects/"+p.ID.String()+"/customer-requirements/"+cr.ID.String(), "mara", `{"importance":5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated qfd.CustomerRequirement
	json.NewDecoder(w.Body).Decode(&updated)
	if updated.Importance != 5 {
		t.Errorf("expected importance 5, got %d", updated.Importance)
	}
	if updated.Description != "quiet operation" {
		t.Errorf("expected description preserved, got '%s'", updated.Description)
	}

	w = doRequest(router, "PATCH", "/api/v1/projects/"+p.ID.String()+"/customer-requirements/"+cr.ID.String(), "mara", `{"importance":9}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for importance 9, got %d", w.Code)
	}
}

func TestCreateTechnicalRequirement(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle"}`)

	tr := createTechnicalViaAPI(t, router, p, `{"description":"motor insulation","unit":"dB","target":"<30","difficulty":4}`)

	if tr.Unit != "dB" {
		t.Errorf("expected unit 'dB', got '%s'", tr.Unit)
	}
	if tr.Difficulty != 4 {
		t.Errorf("expected difficulty 4, got %d", tr.Difficulty)
	}

	w := doRequest(router, "POST", "/api/v1/projects/"+p.ID.String()+"/technical-requirements", "mara", `{"description":"motor","difficulty":0}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for difficulty 0, got %d", w.Code)
	}
}

func TestDeleteTechnicalRequirement(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle"}`)
	tr := createTechnicalViaAPI(t, router, p, `{"description":"motor insulation","difficulty":2}`)

	w := doRequest(router, "DELETE", "/api/v1/projects/"+p.ID.String()+"/technical-requirements/"+tr.ID.String(), "mara", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = doRequest(router, "DELETE", "/api/v1/projects/"+p.ID.String()+"/technical-requirements/"+tr.ID.String(), "mara", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for second delete, got %d", w.Code)
	}
}

func TestPutRelationship(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle"}`)
	cr := createCustomerViaAPI(t, router, p, `{"description":"quiet operation","importance":5}`)
	tr := createTechnicalViaAPI(t, router, p, `{"description":"motor insulation","difficulty":3}`)

	body := `{"customer_requirement_id":"` + cr.ID.String() + `","technical_requirement_id":"` + tr.ID.String() + `","strength":9}`
	w := doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/relationships", "mara", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	rels := listRelationships(t, router, p)
	if len(rels) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(rels))
	}
	if rels[0].Strength != qfd.StrengthStrong {
		t.Errorf("expected strength 9, got %d", rels[0].Strength)
	}
}

func TestPutRelationshipUpserts(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle"}`)
	cr := createCustomerViaAPI(t, router, p, `{"description":"quiet operation","importance":5}`)
	tr := createTechnicalViaAPI(t, router, p, `{"description":"motor insulation","difficulty":3}`)

	pair := `"customer_requirement_id":"` + cr.ID.String() + `","technical_requirement_id":"` + tr.ID.String() + `"`
	doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/relationships", "mara", `{`+pair+`,"strength":3}`)
	doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/relationships", "mara", `{`+pair+`,"strength":9}`)

	rels := listRelationships(t, router, p)
	if len(rels) != 1 {
		t.Fatalf("expected 1 relationship after upsert, got %d", len(rels))
	}
	if rels[0].Strength != qfd.StrengthStrong {
		t.Errorf("expected strength 9 after upsert, got %d", rels[0].Strength)
	}
}

func TestPutRelationshipZeroClearsCell(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle"}`)
	cr := createCustomerViaAPI(t, router, p, `{"description":"quiet operation","importance":5}`)
	tr := createTechnicalViaAPI(t, router, p, `{"description":"motor insulation","difficulty":3}`)

	pair := `"customer_requirement_id":"` + cr.ID.String() + `","technical_requirement_id":"` + tr.ID.String() + `"`
	doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/relationships", "mara", `{`+pair+`,"strength":9}`)

	w := doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/relationships", "mara", `{`+pair+`,"strength":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if rels := listRelationships(t, router, p); len(rels) != 0 {
		t.Errorf("expected empty matrix after strength 0, got %d cells", len(rels))
	}
}

func TestPutRelationshipRejectsBadInput(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle"}`)
	cr := createCustomerViaAPI(t, router, p, `{"description":"quiet operation","importance":5}`)
	tr := createTechnicalViaAPI(t, router, p, `{"description":"motor insulation","difficulty":3}`)

	pair := `"customer_requirement_id":"` + cr.ID.String() + `","technical_requirement_id":"` + tr.ID.String() + `"`
	tests := []struct {
		name string
		body string
	}{
		{"strength not in scale", `{` + pair + `,"strength":2}`},
		{"strength negative", `{` + pair + `,"strength":-1}`},
		{"unknown customer requirement", `{"customer_requirement_id":"7c9e6679-7425-40de-944b-e07fc1f90ae7","technical_requirement_id":"` + tr.ID.String() + `","strength":3}`},
		{"missing strength", `{` + pair + `}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/relationships", "mara", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteRelationshipCell(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle"}`)
	cr := createCustomerViaAPI(t, router, p, `{"description":"quiet operation","importance":5}`)
	tr := createTechnicalViaAPI(t, router, p, `{"description":"motor insulation","difficulty":3}`)

	body := `{"customer_requirement_id":"` + cr.ID.String() + `","technical_requirement_id":"` + tr.ID.String() + `","strength":9}`
	doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/relationships", "mara", body)

	w := doRequest(router, "DELETE", "/api/v1/projects/"+p.ID.String()+"/relationships/"+cr.ID.String()+"/"+tr.ID.String(), "mara", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	if rels := listRelationships(t, router, p); len(rels) != 0 {
		t.Errorf("expected empty matrix after delete, got %d cells", len(rels))
	}
}

func TestPutCorrelationCanonicalOrder(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle"}`)
	t1 := createTechnicalViaAPI(t, router, p, `{"description":"motor insulation","difficulty":2}`)
	t2 := createTechnicalViaAPI(t, router, p, `{"description":"cell density","difficulty":4}`)

	first, second := qfd.CanonicalPair(t1.ID, t2.ID)

	// Submit in reversed order; the stored record must still be canonical.
	body := `{"requirement1_id":"` + second.String() + `","requirement2_id":"` + first.String() + `","correlation":2}`
	w := doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/correlations", "mara", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var returned qfd.TechnicalCorrelation
	json.NewDecoder(w.Body).Decode(&returned)
	if returned.Req1ID != first || returned.Req2ID != second {
		t.Errorf("expected canonical pair order in response, got %s, %s", returned.Req1ID, returned.Req2ID)
	}

	// Upsert via the other order updates the same record.
	body = `{"requirement1_id":"` + first.String() + `","requirement2_id":"` + second.String() + `","correlation":-1}`
	doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/correlations", "mara", body)

	corrs := listCorrelations(t, router, p)
	if len(corrs) != 1 {
		t.Fatalf("expected 1 correlation, got %d", len(corrs))
	}
	if corrs[0].Correlation != qfd.CorrelationNegative {
		t.Errorf("expected correlation -1 after upsert, got %d", corrs[0].Correlation)
	}
}

func TestPutCorrelationRejectsSelfPair(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle"}`)
	t1 := createTechnicalViaAPI(t, router, p, `{"description":"motor insulation","difficulty":2}`)

	body := `{"requirement1_id":"` + t1.ID.String() + `","requirement2_id":"` + t1.ID.String() + `","correlation":1}`
	w := doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/correlations", "mara", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for self correlation, got %d", w.Code)
	}
}

func TestPutCorrelationZeroClearsRoofCell(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle"}`)
	t1 := createTechnicalViaAPI(t, router, p, `{"description":"motor insulation","difficulty":2}`)
	t2 := createTechnicalViaAPI(t, router, p, `{"description":"cell density","difficulty":4}`)

	pair := `"requirement1_id":"` + t1.ID.String() + `","requirement2_id":"` + t2.ID.String() + `"`
	doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/correlations", "mara", `{`+pair+`,"correlation":2}`)
	doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/correlations", "mara", `{`+pair+`,"correlation":0}`)

	if corrs := listCorrelations(t, router, p); len(corrs) != 0 {
		t.Errorf("expected empty roof after correlation 0, got %d cells", len(corrs))
	}
}

func TestDeleteCorrelationReversedOrder(t *testing.T) {
	router, _, _ := setupTestRouter()
	p := createProjectViaAPI(t, router, "mara", `{"name":"Kettle"}`)
	t1 := createTechnicalViaAPI(t, router, p, `{"description":"motor insulation","difficulty":2}`)
	t2 := createTechnicalViaAPI(t, router, p, `{"description":"cell density","difficulty":4}`)

	pair := `"requirement1_id":"` + t1.ID.String() + `","requirement2_id":"` + t2.ID.String() + `"`
	doRequest(router, "PUT", "/api/v1/projects/"+p.ID.String()+"/correlations", "mara", `{`+pair+`,"correlation":2}`)

	first, second := qfd.CanonicalPair(t1.ID, t2.ID)
	w := doRequest(router, "DELETE", "/api/v1/projects/"+p.ID.String()+"/correlations/"+second.String()+"/"+first.String(), "mara", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	if corrs := listCorrelations(t, router, p); len(corrs) != 0 {
		t.Errorf("expected empty roof after reversed delete, got %d cells", len(corrs))
	}
}
