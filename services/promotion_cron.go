package services

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"

	"avantages-backend/database"
	"avantages-backend/models"
)

// PromotionCron notifie les utilisateurs ayant mis un partenaire en favori
// quand une de ses promotions entre dans sa fenêtre de validité
type PromotionCron struct {
	promotionRepo *database.PromotionRepository
	favoriteRepo  *database.FavoriteRepository
	fcmTokenRepo  *database.FCMTokenRepository
	fcmService    *FCMService
	cron          *cron.Cron
}

// NewPromotionCron crée une nouvelle instance
func NewPromotionCron(db *mongo.Database, fcmService *FCMService) *PromotionCron {
	return &PromotionCron{
		promotionRepo: database.NewPromotionRepository(db),
		favoriteRepo:  database.NewFavoriteRepository(db),
		fcmTokenRepo:  database.NewFCMTokenRepository(db),
		fcmService:    fcmService,
		cron:          cron.New(),
	}
}

// Start démarre le cron job
func (pc *PromotionCron) Start() {
	// Vérifier toutes les minutes si des promotions viennent de s'ouvrir
	pc.cron.AddFunc("@every 1m", pc.checkPromotionOpenings)
	pc.cron.Start()
	log.Println("✓ Cron job promotions démarré (vérification toutes les minutes)")
}

// Stop arrête le cron job
func (pc *PromotionCron) Stop() {
	pc.cron.Stop()
}

// checkPromotionOpenings recherche les promotions entrées dans leur
// fenêtre de validité et pas encore annoncées
func (pc *PromotionCron) checkPromotionOpenings() {
	promotions, err := pc.promotionRepo.FindOpening(time.Now())
	if err != nil {
		log.Printf("Erreur recherche promotions à annoncer: %v", err)
		return
	}

	if len(promotions) == 0 {
		return // Rien à faire
	}

	log.Printf("🔔 %d promotion(s) à annoncer", len(promotions))

	for _, promotion := range promotions {
		pc.sendPromotionOpeningNotification(promotion)

		// Marquer comme annoncée même si l'envoi a partiellement échoué:
		// on ne renvoie jamais deux fois la même annonce
		if err := pc.promotionRepo.MarkOpeningNotified(promotion.ID); err != nil {
			log.Printf("Erreur marquage promotion %s: %v", promotion.ID.Hex(), err)
		}
	}
}

// sendPromotionOpeningNotification notifie les utilisateurs ayant le partenaire en favori
func (pc *PromotionCron) sendPromotionOpeningNotification(promotion models.Promotion) {
	owners, err := pc.favoriteRepo.FindOwnersByPartner(promotion.PartnerID)
	if err != nil {
		log.Printf("Erreur récupération favoris du partenaire %s: %v", promotion.PartnerID, err)
		return
	}

	if len(owners) == 0 {
		return
	}

	fcmTokens, err := pc.fcmTokenRepo.FindByUserIDs(owners)
	if err != nil {
		log.Printf("Erreur récupération tokens FCM: %v", err)
		return
	}

	if len(fcmTokens) == 0 {
		log.Printf("⚠️  Aucun token FCM pour les favoris de '%s'", promotion.Title)
		return
	}

	var tokens []string
	for _, t := range fcmTokens {
		tokens = append(tokens, t.Token)
	}

	title := "🎉 Nouvelle promotion !"
	message := fmt.Sprintf("La promotion '%s' d'un de vos partenaires favoris est disponible !", promotion.Title)
	data := map[string]string{
		"action":       "promotion_opening",
		"url":          "/#promotions",
		"promotion_id": promotion.ID.Hex(),
		"partner_id":   promotion.PartnerID,
	}

	success, failed, failedTokens := pc.fcmService.SendToAll(tokens, title, message, data)
	log.Printf("📧 Annonce promotion '%s' envoyée: %d succès, %d échecs", promotion.Title, success, failed)

	// Purger les tokens que Firebase a refusés
	for _, token := range failedTokens {
		if err := pc.fcmTokenRepo.Delete(token); err != nil {
			log.Printf("Erreur suppression token invalide: %v", err)
		}
	}
}
