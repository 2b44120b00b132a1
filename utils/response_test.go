package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, http.StatusNotFound, "NOT_FOUND", "Partenaire non trouvé")

	if rr.Code != http.StatusNotFound {
		t.Errorf("Code = %v, attendu %v", rr.Code, http.StatusNotFound)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Content-Type = %v", ct)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
			Msg  string `json:"msg"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body JSON invalide: %v", err)
	}
	if body.Error.Code != "NOT_FOUND" {
		t.Errorf("error.code = %v, attendu NOT_FOUND", body.Error.Code)
	}
	if body.Error.Msg != "Partenaire non trouvé" {
		t.Errorf("error.msg = %v", body.Error.Msg)
	}
}

func TestRespondData(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondData(rr, http.StatusOK, map[string]string{"id": "123"})

	if rr.Code != http.StatusOK {
		t.Errorf("Code = %v, attendu 200", rr.Code)
	}

	var body struct {
		Data map[string]string `json:"data"`
		Msg  string            `json:"msg"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body JSON invalide: %v", err)
	}
	if body.Msg != "ok" {
		t.Errorf("msg = %v, attendu ok", body.Msg)
	}
	if body.Data["id"] != "123" {
		t.Errorf("data.id = %v, attendu 123", body.Data["id"])
	}
}

func TestRespondList(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondList(rr, []string{"a", "b"}, 42, 20, 0)

	var body struct {
		Data struct {
			Items  []string `json:"items"`
			Total  int64    `json:"total"`
			Limit  int64    `json:"limit"`
			Offset int64    `json:"offset"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body JSON invalide: %v", err)
	}
	if body.Data.Total != 42 || body.Data.Limit != 20 || body.Data.Offset != 0 {
		t.Errorf("pagination inattendue: %+v", body.Data)
	}
	if len(body.Data.Items) != 2 {
		t.Errorf("items = %v", body.Data.Items)
	}
}
