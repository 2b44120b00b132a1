package constants

// Codes d'erreur machine renvoyés dans l'enveloppe {"error": {"code": ..., "msg": ...}}
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidCode      = "INVALID_CODE"
	CodeCodeUsed         = "CODE_USED"
	CodeExpired          = "EXPIRED"
	CodeInvalidCPF       = "INVALID_CPF"
	CodeInvalidCNPJ      = "INVALID_CNPJ"
	CodeInvalidPartner   = "INVALID_PARTNER"
	CodeInactiveStudent  = "INACTIVE_STUDENT"
	CodeInactiveEmployee = "INACTIVE_EMPLOYEE"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeServerError      = "SERVER_ERROR"
)

// Messages d'erreur courants
const (
	ErrMethodNotAllowed   = "Méthode non autorisée"
	ErrServerError        = "Erreur serveur"
	ErrInvalidData        = "Données invalides"
	ErrInvalidJSONBody    = "Body JSON invalide"
	ErrNotAuthenticated   = "Non authentifié"
	ErrInvalidToken       = "Token invalide ou expiré"
	ErrAccessDenied       = "Accès refusé"
	ErrPartnerNotFound    = "Partenaire non trouvé"
	ErrPartnerInactive    = "Partenaire désactivé"
	ErrStudentNotFound    = "Étudiant non trouvé"
	ErrEmployeeNotFound   = "Employé non trouvé"
	ErrPromotionNotFound  = "Promotion non trouvée"
	ErrBenefitNotFound    = "Avantage non trouvé"
	ErrUserNotFound       = "Utilisateur introuvable"
	ErrInvalidID          = "ID invalide"
	ErrPartnerIDRequired  = "ID de partenaire requis"
	ErrInactiveStudent    = "Inscription étudiante expirée"
	ErrInactiveEmployee   = "Contrat employé expiré"
	ErrCodeNotFound       = "Code de validation introuvable ou déjà utilisé"
	ErrCodeExpired        = "Code de validation expiré"
	ErrInvalidCPF         = "CPF invalide"
	ErrInvalidCNPJ        = "CNPJ invalide"
	ErrDocumentMismatch   = "Le document ne correspond pas au bénéficiaire"
	ErrNotPromotionOwner  = "Cette promotion appartient à un autre partenaire"
	ErrInvalidDateRange   = "La date de début doit précéder la date de fin"
	ErrFavoriteNotFound   = "Partenaire absent des favoris"
	ErrTooManyRequests    = "Trop de requêtes, réessayez plus tard"
	ErrEmailAlreadyUsed   = "Cet email est déjà utilisé"
	ErrInvalidCredentials = "Email ou mot de passe incorrect"
	ErrUnknownEntity      = "Entité inconnue"
)

// En-têtes HTTP
const (
	HeaderContentType     = "Content-Type"
	HeaderApplicationJSON = "application/json"
)
