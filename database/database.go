package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect établit la connexion à MongoDB et retourne le client et la base.
// Le handle est injecté dans les handlers par main : pas de variable globale.
func Connect(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Options de connexion
	clientOptions := options.Client().ApplyURI(uri)

	// Connexion à MongoDB
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("erreur lors de la connexion à MongoDB: %w", err)
	}

	// Vérifier la connexion
	if err = client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("erreur lors du ping MongoDB: %w", err)
	}

	db := client.Database(dbName)

	log.Println("✓ Connexion à MongoDB établie")

	// Créer les index
	if err = createIndexes(db); err != nil {
		return nil, nil, fmt.Errorf("erreur lors de la création des index: %w", err)
	}

	return client, db, nil
}

// Ping vérifie que la connexion MongoDB est active
func Ping(client *mongo.Client) error {
	if client == nil {
		return fmt.Errorf("client MongoDB non initialisé")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx, nil)
}

// Close ferme la connexion à la base de données
func Close(client *mongo.Client) error {
	if client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return client.Disconnect(ctx)
	}
	return nil
}

// createIndexes crée les index nécessaires
func createIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Index unique sur l'email des comptes
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'index email: %w", err)
	}

	// La remise cherche un code par (code_hash, partner_id, used_at)
	_, err = db.Collection("validation_codes").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "code_hash", Value: 1},
			{Key: "partner_id", Value: 1},
			{Key: "used_at", Value: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'index codes: %w", err)
	}

	// Historique et rapports lisent par emprunteur et par partenaire
	_, err = db.Collection("redemptions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "borrower_id", Value: 1}, {Key: "used_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'index remises: %w", err)
	}
	_, err = db.Collection("redemptions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "partner_id", Value: 1}, {Key: "used_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'index remises partenaire: %w", err)
	}

	// Les promotions sont listées par partenaire
	_, err = db.Collection("promotions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "partner_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'index promotions: %w", err)
	}

	log.Println("✓ Index MongoDB créés")
	return nil
}
