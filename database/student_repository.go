package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"avantages-backend/models"
)

// StudentRepository gère les opérations sur les étudiants
type StudentRepository struct {
	collection *mongo.Collection
}

// NewStudentRepository crée une nouvelle instance de StudentRepository
func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{
		collection: db.Collection("students"),
	}
}

// FindByID recherche un étudiant par ID
func (r *StudentRepository) FindByID(id primitive.ObjectID) (*models.Student, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var student models.Student
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&student)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'étudiant: %w", err)
	}

	return &student, nil
}

// FindAll retourne les étudiants paginés avec le total
func (r *StudentRepository) FindAll(limit, offset int64) ([]models.Student, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors du comptage des étudiants: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors de la recherche des étudiants: %w", err)
	}
	defer cursor.Close(ctx)

	var students []models.Student
	if err = cursor.All(ctx, &students); err != nil {
		return nil, 0, fmt.Errorf("erreur lors du décodage des étudiants: %w", err)
	}

	return students, total, nil
}

// Create crée un nouvel étudiant
func (r *StudentRepository) Create(student *models.Student) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	student.ID = primitive.NewObjectID()
	student.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, student)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'étudiant: %w", err)
	}
	return nil
}

// Update met à jour un étudiant
func (r *StudentRepository) Update(student *models.Student) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"name":         student.Name,
			"course":       student.Course,
			"active_until": student.ActiveUntil,
			"tenant_id":    student.TenantID,
		},
	}
	// Le hash du CPF n'est réécrit que s'il a été fourni
	if student.CPFHash != "" {
		update["$set"].(bson.M)["cpf_hash"] = student.CPFHash
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": student.ID}, update)
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de l'étudiant: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete supprime un étudiant
func (r *StudentRepository) Delete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de l'étudiant: %w", err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Count compte tous les étudiants
func (r *StudentRepository) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des étudiants: %w", err)
	}
	return count, nil
}
