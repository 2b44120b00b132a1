package utils

import (
	"encoding/json"
	"net/http"

	"avantages-backend/models"
)

// RespondJSON envoie une réponse JSON
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	// S'assurer que les en-têtes ne sont pas déjà écrits
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}

	// Écrire le code de statut
	if statusCode > 0 {
		w.WriteHeader(statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	// Encoder et envoyer les données
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Si l'encodage échoue, essayer d'envoyer une erreur simple
			// Mais seulement si les en-têtes n'ont pas encore été écrits
			if statusCode == http.StatusOK {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":{"code":"SERVER_ERROR","msg":"Erreur lors de l'encodage JSON"}}`))
			}
		}
	}
}

// RespondError envoie l'enveloppe d'erreur {"error": {"code": ..., "msg": ...}}
func RespondError(w http.ResponseWriter, statusCode int, code, msg string) {
	RespondJSON(w, statusCode, models.ErrorResponse{
		Error: models.ErrorBody{
			Code: code,
			Msg:  msg,
		},
	})
}

// RespondData envoie l'enveloppe de succès {"data": ..., "msg": "ok"}
func RespondData(w http.ResponseWriter, statusCode int, data interface{}) {
	RespondJSON(w, statusCode, models.DataResponse{
		Data: data,
		Msg:  "ok",
	})
}

// RespondList envoie une liste paginée dans l'enveloppe de succès
func RespondList(w http.ResponseWriter, items interface{}, total, limit, offset int64) {
	RespondData(w, http.StatusOK, models.PagedList{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}
