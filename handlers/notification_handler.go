package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/mongo"

	"avantages-backend/constants"
	"avantages-backend/database"
	"avantages-backend/middleware"
	"avantages-backend/models"
	"avantages-backend/utils"
)

// NotificationHandler gère les abonnements Web Push (VAPID)
type NotificationHandler struct {
	subscriptionRepo *database.SubscriptionRepository
	vapidPublicKey   string
	vapidPrivateKey  string
	vapidSubject     string
}

// NewNotificationHandler crée une nouvelle instance de NotificationHandler
func NewNotificationHandler(db *mongo.Database, vapidPublicKey, vapidPrivateKey, vapidSubject string) *NotificationHandler {
	return &NotificationHandler{
		subscriptionRepo: database.NewSubscriptionRepository(db),
		vapidPublicKey:   vapidPublicKey,
		vapidPrivateKey:  vapidPrivateKey,
		vapidSubject:     vapidSubject,
	}
}

// Subscribe enregistre l'abonnement Web Push du compte connecté
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	var req models.SubscribeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Subscription.Endpoint == "" {
		utils.RespondError(w, http.StatusUnprocessableEntity, constants.CodeValidationError, constants.ErrInvalidData)
		return
	}

	subscription := &models.PushSubscription{
		UserID:   claims.EntityID,
		Endpoint: req.Subscription.Endpoint,
		Keys:     req.Subscription.Keys,
	}

	if err := h.subscriptionRepo.Create(subscription); err != nil {
		log.Printf("Erreur lors de la création de l'abonnement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Abonnement Web Push enregistré pour: %s", claims.EntityID)
	utils.RespondData(w, http.StatusCreated, subscription)
}

// Unsubscribe supprime un abonnement Web Push par endpoint
func (h *NotificationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.subscriptionRepo.Delete(req.Endpoint); err != nil {
		log.Printf("Erreur lors de la suppression de l'abonnement: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.CodeServerError, constants.ErrServerError)
		return
	}

	log.Printf("✓ Abonnement supprimé: %s", req.Endpoint)
	utils.RespondData(w, http.StatusOK, map[string]interface{}{
		"unsubscribed": true,
	})
}

// GetVAPIDPublicKey retourne la clé publique VAPID
func (h *NotificationHandler) GetVAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	utils.RespondData(w, http.StatusOK, map[string]string{
		"publicKey": h.vapidPublicKey,
	})
}

// BroadcastWebPush pousse une notification à tous les abonnés navigateurs.
// Les endpoints expirés (410) sont purgés au passage.
func (h *NotificationHandler) BroadcastWebPush(title, body string, data map[string]string) (sent, failed int) {
	if h.vapidPublicKey == "" || h.vapidPrivateKey == "" {
		return 0, 0
	}

	subscriptions, err := h.subscriptionRepo.FindAll()
	if err != nil {
		log.Printf("Erreur lors de la récupération des abonnements: %v", err)
		return 0, 0
	}

	payload := models.NotificationPayload{
		Title: title,
		Body:  body,
		Icon:  "/icon-192x192.png",
		Badge: "/badge-72x72.png",
		Data:  data,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Erreur lors de la création du payload: %v", err)
		return 0, 0
	}

	for _, sub := range subscriptions {
		s := &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.Keys.P256dh,
				Auth:   sub.Keys.Auth,
			},
		}

		resp, err := webpush.SendNotification(payloadBytes, s, &webpush.Options{
			Subscriber:      h.vapidSubject,
			VAPIDPublicKey:  h.vapidPublicKey,
			VAPIDPrivateKey: h.vapidPrivateKey,
			TTL:             86400, // 24 heures
			Urgency:         webpush.UrgencyHigh,
		})

		if err != nil {
			failed++
			if resp != nil && resp.StatusCode == http.StatusGone {
				log.Printf("🗑️  Suppression de l'abonnement invalide: %s", sub.Endpoint)
				_ = h.subscriptionRepo.Delete(sub.Endpoint)
			}
			if resp != nil {
				resp.Body.Close()
			}
			continue
		}

		if resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK {
			sent++
		} else {
			log.Printf("⚠️  Réponse inattendue pour %s: %d", sub.UserID, resp.StatusCode)
			failed++
		}
		resp.Body.Close()
	}

	log.Printf("📊 Web Push: %d envoyés, %d échecs sur %d abonnés", sent, failed, len(subscriptions))
	return sent, failed
}
