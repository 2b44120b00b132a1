package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"avantages-backend/constants"
	"avantages-backend/utils"
)

// ParseObjectIDVar extrait et valide un ObjectID depuis les vars (clé et message configurables)
func ParseObjectIDVar(w http.ResponseWriter, vars map[string]string, key, errMsg string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(vars[key])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.CodeValidationError, errMsg)
		return primitive.NilObjectID, false
	}
	return id, true
}

// DecodeJSON décode le body JSON. Retourne false et écrit l'erreur si non.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.CodeValidationError, constants.ErrInvalidJSONBody)
		return false
	}
	return true
}

// ParsePagination lit limit/offset de la query string avec bornes.
// limit: 20 par défaut, plafonné à 100. offset: 0 par défaut.
func ParsePagination(r *http.Request) (limit, offset int64) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			offset = n
		}
	}

	return limit, offset
}
