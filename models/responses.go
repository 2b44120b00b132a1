package models

// ErrorBody porte le code machine et le message d'une erreur
type ErrorBody struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// ErrorResponse représente l'enveloppe d'erreur {"error": {"code": ..., "msg": ...}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// DataResponse représente l'enveloppe de succès {"data": ..., "msg": "ok"}
type DataResponse struct {
	Data interface{} `json:"data"`
	Msg  string      `json:"msg"`
}

// PagedList est la forme commune des listes paginées
type PagedList struct {
	Items  interface{} `json:"items"`
	Total  int64       `json:"total"`
	Limit  int64       `json:"limit"`
	Offset int64       `json:"offset"`
}
