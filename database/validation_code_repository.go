package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"avantages-backend/models"
)

// ValidationCodeRepository gère les opérations sur les codes de validation
type ValidationCodeRepository struct {
	collection *mongo.Collection
}

// NewValidationCodeRepository crée une nouvelle instance
func NewValidationCodeRepository(db *mongo.Database) *ValidationCodeRepository {
	return &ValidationCodeRepository{
		collection: db.Collection("validation_codes"),
	}
}

// Create persiste un nouveau code de validation, identifié par un UUID
func (r *ValidationCodeRepository) Create(code *models.ValidationCode) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	code.ID = uuid.NewString()
	code.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, code)
	if err != nil {
		return fmt.Errorf("erreur lors de la création du code de validation: %w", err)
	}
	return nil
}

// Consume marque un code comme utilisé et le retourne, en une seule opération
// atomique. Le filtre exige used_at == null : deux remises simultanées du
// même code ne peuvent pas réussir toutes les deux. Retourne nil si aucun
// code libre ne correspond (code inconnu, autre partenaire, ou déjà utilisé).
func (r *ValidationCodeRepository) Consume(codeHash, partnerID string, at time.Time) (*models.ValidationCode, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"code_hash":  codeHash,
		"partner_id": partnerID,
		"used_at":    nil,
	}
	update := bson.M{"$set": bson.M{"used_at": at}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var code models.ValidationCode
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&code)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la consommation du code: %w", err)
	}

	return &code, nil
}

// FindByHash recherche un code par empreinte, quel que soit son état.
// Sert à distinguer "code inconnu" de "code déjà consommé" après un
// échec de Consume.
func (r *ValidationCodeRepository) FindByHash(codeHash, partnerID string) (*models.ValidationCode, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var code models.ValidationCode
	err := r.collection.FindOne(ctx, bson.M{"code_hash": codeHash, "partner_id": partnerID}).Decode(&code)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche du code: %w", err)
	}

	return &code, nil
}

// FindByID recherche un code par ID
func (r *ValidationCodeRepository) FindByID(id string) (*models.ValidationCode, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var code models.ValidationCode
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&code)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche du code: %w", err)
	}

	return &code, nil
}

// CountIssuedSince compte les codes émis depuis un instant donné
func (r *ValidationCodeRepository) CountIssuedSince(since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des codes émis: %w", err)
	}
	return count, nil
}
