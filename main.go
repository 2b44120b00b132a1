package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"avantages-backend/config"
	"avantages-backend/database"
	"avantages-backend/handlers"
	"avantages-backend/middleware"
	"avantages-backend/redis"
	"avantages-backend/services"
)

func main() {
	// Charger la configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Erreur lors du chargement de la configuration: %v", err)
	}

	// Connexion à MongoDB
	mongoClient, db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("❌ Erreur de connexion à MongoDB: %v", err)
	}
	defer database.Close(mongoClient)

	// Connexion à Redis (optionnelle : sans Redis, pas de limitation de débit)
	var redisClient *redis.Client
	if cfg.RateLimitEnabled {
		redisClient, err = redis.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("⚠️  Redis indisponible: %v", err)
			log.Println("⚠️  Le serveur démarre SANS limitation de débit")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// Initialiser Firebase Cloud Messaging (optionnel)
	fcmService, err := services.NewFCMService(cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Printf("⚠️  Erreur d'initialisation Firebase: %v", err)
		log.Println("⚠️  Le serveur démarre SANS notifications push")
		fcmService = services.NewDisabledFCMService()
	}

	// Cron d'annonce des promotions
	promotionCron := services.NewPromotionCron(db, fcmService)
	if fcmService.Enabled() {
		promotionCron.Start()
		defer promotionCron.Stop()
	}

	// Service Slack pour les alertes
	slackService := services.NewSlackService(cfg.SlackWebhookURL)

	// Créer le routeur
	router := mux.NewRouter()
	router.Use(middleware.Logging(slackService))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Créer les handlers
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret, cfg.TokenTTL)
	studentHandler := handlers.NewStudentHandler(db, cfg.StudentCodeTTL)
	employeeHandler := handlers.NewEmployeeHandler(db, cfg.EmployeeCodeTTL)
	partnerHandler := handlers.NewPartnerHandler(db)
	notificationHandler := handlers.NewNotificationHandler(
		db,
		cfg.VAPIDPublicKey,
		cfg.VAPIDPrivateKey,
		cfg.VAPIDSubject,
	)
	fcmHandler := handlers.NewFCMHandler(db)
	adminHandler := handlers.NewAdminHandler(db, fcmService, notificationHandler)
	alertHandler := handlers.NewAlertHandler(slackService)
	healthHandler := handlers.NewHealthHandler(
		cfg.Environment,
		func() error { return database.Ping(mongoClient) },
		pingRedis(redisClient),
	)

	// Middlewares
	guestMiddleware := middleware.Guest(cfg.JWTSecret)
	authMiddleware := middleware.Auth(cfg.JWTSecret)
	redeemLimiter := middleware.NewRateLimiter(nil, 0, 0, "")
	if redisClient != nil {
		redeemLimiter = middleware.NewRateLimiter(
			redisClient,
			cfg.RateLimitMax,
			cfg.RateLimitWindow,
			"redeem",
		)
	}

	// Routes publiques
	router.Handle("/v1/auth/login", guestMiddleware(http.HandlerFunc(authHandler.Login))).Methods("POST", "OPTIONS")
	router.HandleFunc("/v1/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/v1/alerts/critical", alertHandler.SendCriticalAlert).Methods("POST", "OPTIONS")
	router.HandleFunc("/v1/notifications/vapid-public-key", notificationHandler.GetVAPIDPublicKey).Methods("GET", "OPTIONS")

	// Routes étudiant (Auth + rôle student)
	studentRouter := router.PathPrefix("/v1/student").Subrouter()
	studentRouter.Use(authMiddleware)
	studentRouter.Use(middleware.RequireRole("student"))
	registerBorrowerRoutes(studentRouter, studentHandler, "students")

	// Routes employé (Auth + rôle employee)
	employeeRouter := router.PathPrefix("/v1/employee").Subrouter()
	employeeRouter.Use(authMiddleware)
	employeeRouter.Use(middleware.RequireRole("employee"))
	registerBorrowerRoutes(employeeRouter, employeeHandler, "employees")

	// Routes partenaire (Auth + rôle partner)
	partnerRouter := router.PathPrefix("/v1/partner").Subrouter()
	partnerRouter.Use(authMiddleware)
	partnerRouter.Use(middleware.RequireRole("partner"))
	partnerRouter.Handle("/redeem", redeemLimiter.Middleware(http.HandlerFunc(partnerHandler.Redeem))).Methods("POST", "OPTIONS")
	partnerRouter.HandleFunc("/promotions", partnerHandler.ListPromotions).Methods("GET", "OPTIONS")
	partnerRouter.HandleFunc("/promotions", partnerHandler.CreatePromotion).Methods("POST", "OPTIONS")
	partnerRouter.HandleFunc("/promotions/{id}", partnerHandler.UpdatePromotion).Methods("PUT", "OPTIONS")
	partnerRouter.HandleFunc("/promotions/{id}", partnerHandler.DeletePromotion).Methods("DELETE", "OPTIONS")
	partnerRouter.HandleFunc("/reports", partnerHandler.Reports).Methods("GET", "OPTIONS")

	// Routes admin (Auth + rôle admin)
	adminRouter := router.PathPrefix("/v1/admin").Subrouter()
	adminRouter.Use(authMiddleware)
	adminRouter.Use(middleware.RequireRole("admin"))

	adminRouter.HandleFunc("/students", adminHandler.ListStudents).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/students", adminHandler.CreateStudent).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/students/{id}", adminHandler.UpdateStudent).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/students/{id}", adminHandler.DeleteStudent).Methods("DELETE", "OPTIONS")

	adminRouter.HandleFunc("/employees", adminHandler.ListEmployees).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/employees", adminHandler.CreateEmployee).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/employees/{id}", adminHandler.UpdateEmployee).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/employees/{id}", adminHandler.DeleteEmployee).Methods("DELETE", "OPTIONS")

	adminRouter.HandleFunc("/partners", adminHandler.ListPartners).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/partners", adminHandler.CreatePartner).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/partners/{id}", adminHandler.UpdatePartner).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/partners/{id}", adminHandler.DeletePartner).Methods("DELETE", "OPTIONS")

	adminRouter.HandleFunc("/promotions", adminHandler.ListPromotions).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/promotions", adminHandler.CreatePromotion).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/promotions/{id}", adminHandler.UpdatePromotion).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/promotions/{id}", adminHandler.DeletePromotion).Methods("DELETE", "OPTIONS")

	adminRouter.HandleFunc("/benefits", adminHandler.ListBenefits).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/benefits", adminHandler.CreateBenefit).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/benefits/{id}", adminHandler.UpdateBenefit).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/benefits/{id}", adminHandler.DeleteBenefit).Methods("DELETE", "OPTIONS")

	adminRouter.HandleFunc("/users", adminHandler.ListUsers).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/users", adminHandler.CreateUser).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/users/{id}", adminHandler.UpdateUser).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/users/{id}", adminHandler.DeleteUser).Methods("DELETE", "OPTIONS")

	adminRouter.HandleFunc("/metrics", adminHandler.GetMetrics).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/notifications/send", adminHandler.SendNotification).Methods("POST", "OPTIONS")

	// Notifications (authentifié, tous rôles)
	notifRouter := router.PathPrefix("/v1/notifications").Subrouter()
	notifRouter.Use(authMiddleware)
	notifRouter.HandleFunc("/subscribe", notificationHandler.Subscribe).Methods("POST", "OPTIONS")
	notifRouter.HandleFunc("/unsubscribe", notificationHandler.Unsubscribe).Methods("DELETE", "OPTIONS")
	notifRouter.HandleFunc("/fcm-token", fcmHandler.RegisterToken).Methods("POST", "OPTIONS")
	notifRouter.HandleFunc("/fcm-token", fcmHandler.UnregisterToken).Methods("DELETE", "OPTIONS")

	// Démarrer le serveur
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Serveur démarré sur http://%s", addr)
		log.Printf("📝 Environnement: %s", cfg.Environment)
		log.Printf("🗄️  Base de données: MongoDB")
		log.Println("📋 Routes disponibles:")
		log.Println("   POST   /v1/auth/login                  - Connexion")
		log.Println("   GET    /v1/health                      - Health check")
		log.Println("   POST   /v1/alerts/critical             - Alertes frontend (public)")
		log.Println("")
		log.Println("   🎓 Étudiant / 💼 Employé (authentifié):")
		log.Println("   GET    /v1/{role}/partners             - Catalogue partenaires")
		log.Println("   GET    /v1/{role}/partners/{id}        - Fiche partenaire")
		log.Println("   POST   /v1/{role}/validation-codes     - Émettre un code")
		log.Println("   GET    /v1/{role}/{role}s/me/history   - Historique des remises")
		log.Println("   GET    /v1/{role}/{role}s/me/fav       - Favoris")
		log.Println("")
		log.Println("   🏪 Partenaire:")
		log.Println("   POST   /v1/partner/redeem              - Remise d'un code (5/min/IP)")
		log.Println("   GET    /v1/partner/promotions          - Promotions du partenaire")
		log.Println("   GET    /v1/partner/reports             - Rapport d'activité")
		log.Println("")
		log.Println("   👑 Admin:")
		log.Println("   CRUD   /v1/admin/{students,employees,partners,promotions,benefits,users}")
		log.Println("   GET    /v1/admin/metrics               - Compteurs globaux")
		log.Println("   POST   /v1/admin/notifications/send    - Diffusion FCM + Web Push")
		log.Println("\n✨ Le serveur est prêt à recevoir des requêtes!")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Erreur du serveur: %v", err)
		}
	}()

	// Attendre le signal d'arrêt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n🛑 Arrêt du serveur...")
	if err := server.Close(); err != nil {
		log.Printf("❌ Erreur lors de l'arrêt du serveur: %v", err)
	}
	log.Println("✓ Serveur arrêté proprement")
}

// registerBorrowerRoutes monte la surface commune étudiant/employé.
// entity est le segment d'URL des routes "me" (students ou employees).
func registerBorrowerRoutes(r *mux.Router, h *handlers.BorrowerHandler, entity string) {
	r.HandleFunc("/partners", h.ListPartners).Methods("GET", "OPTIONS")
	r.HandleFunc("/partners/{id}", h.GetPartner).Methods("GET", "OPTIONS")
	r.HandleFunc("/validation-codes", h.CreateValidationCode).Methods("POST", "OPTIONS")
	r.HandleFunc("/"+entity+"/me/history", h.History).Methods("GET", "OPTIONS")
	r.HandleFunc("/"+entity+"/me/fav", h.ListFavorites).Methods("GET", "OPTIONS")
	r.HandleFunc("/"+entity+"/me/fav", h.AddFavorite).Methods("POST", "OPTIONS")
	r.HandleFunc("/"+entity+"/me/fav/{id}", h.RemoveFavorite).Methods("DELETE", "OPTIONS")
}

// pingRedis retourne la fonction de ping du health check, ou nil si Redis
// n'est pas configuré
func pingRedis(client *redis.Client) func() error {
	if client == nil {
		return nil
	}
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx)
	}
}
