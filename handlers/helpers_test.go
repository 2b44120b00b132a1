package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantLimit  int64
		wantOffset int64
	}{
		{"valeurs par défaut", "/v1/partners", 20, 0},
		{"valeurs explicites", "/v1/partners?limit=50&offset=10", 50, 10},
		{"limite plafonnée à 100", "/v1/partners?limit=5000", 100, 0},
		{"valeurs négatives ignorées", "/v1/partners?limit=-5&offset=-3", 20, 0},
		{"valeurs non numériques ignorées", "/v1/partners?limit=abc&offset=xyz", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			limit, offset := ParsePagination(r)
			if limit != tt.wantLimit {
				t.Errorf("ParsePagination() limit = %d, want %d", limit, tt.wantLimit)
			}
			if offset != tt.wantOffset {
				t.Errorf("ParsePagination() offset = %d, want %d", offset, tt.wantOffset)
			}
		})
	}
}

func TestParseObjectIDVar(t *testing.T) {
	rr := httptest.NewRecorder()
	_, ok := ParseObjectIDVar(rr, map[string]string{"id": "pas-un-objectid"}, "id", "ID invalide")
	if ok {
		t.Error("ParseObjectIDVar() devrait échouer sur un ID invalide")
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("ParseObjectIDVar() status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	rr = httptest.NewRecorder()
	id, ok := ParseObjectIDVar(rr, map[string]string{"id": "507f1f77bcf86cd799439011"}, "id", "ID invalide")
	if !ok {
		t.Fatal("ParseObjectIDVar() devrait accepter un ObjectID valide")
	}
	if id.Hex() != "507f1f77bcf86cd799439011" {
		t.Errorf("ParseObjectIDVar() id = %s", id.Hex())
	}
}
