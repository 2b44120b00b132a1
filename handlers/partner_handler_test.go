package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"avantages-backend/models"
)

func TestValidatePromotionRequest(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		req  models.PromotionRequest
		want bool
	}{
		{
			"fenêtre valide",
			models.PromotionRequest{Title: "Happy hour", ValidFrom: now, ValidTo: now.Add(24 * time.Hour)},
			true,
		},
		{
			"titre manquant",
			models.PromotionRequest{ValidFrom: now, ValidTo: now.Add(24 * time.Hour)},
			false,
		},
		{
			"fenêtre inversée",
			models.PromotionRequest{Title: "Happy hour", ValidFrom: now.Add(24 * time.Hour), ValidTo: now},
			false,
		},
		{
			"fenêtre vide",
			models.PromotionRequest{Title: "Happy hour", ValidFrom: now, ValidTo: now},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			got := validatePromotionRequest(rr, &tt.req)
			if got != tt.want {
				t.Errorf("validatePromotionRequest() = %v, want %v", got, tt.want)
			}
			if !tt.want {
				var resp models.ErrorResponse
				if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
					t.Fatalf("décodage de la réponse d'erreur: %v", err)
				}
				if resp.Error.Code != "VALIDATION_ERROR" {
					t.Errorf("code d'erreur = %s, want VALIDATION_ERROR", resp.Error.Code)
				}
			}
		})
	}
}
