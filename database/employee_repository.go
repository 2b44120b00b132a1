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

// EmployeeRepository gère les opérations sur les employés
type EmployeeRepository struct {
	collection *mongo.Collection
}

// NewEmployeeRepository crée une nouvelle instance de EmployeeRepository
func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{
		collection: db.Collection("employees"),
	}
}

// FindByID recherche un employé par ID
func (r *EmployeeRepository) FindByID(id primitive.ObjectID) (*models.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var employee models.Employee
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&employee)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'employé: %w", err)
	}

	return &employee, nil
}

// FindAll retourne les employés paginés avec le total
func (r *EmployeeRepository) FindAll(limit, offset int64) ([]models.Employee, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors du comptage des employés: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("erreur lors de la recherche des employés: %w", err)
	}
	defer cursor.Close(ctx)

	var employees []models.Employee
	if err = cursor.All(ctx, &employees); err != nil {
		return nil, 0, fmt.Errorf("erreur lors du décodage des employés: %w", err)
	}

	return employees, total, nil
}

// Create crée un nouvel employé
func (r *EmployeeRepository) Create(employee *models.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	employee.ID = primitive.NewObjectID()
	employee.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, employee)
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'employé: %w", err)
	}
	return nil
}

// Update met à jour un employé
func (r *EmployeeRepository) Update(employee *models.Employee) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"name":         employee.Name,
			"department":   employee.Department,
			"active_until": employee.ActiveUntil,
			"tenant_id":    employee.TenantID,
		},
	}
	// Le hash du CNPJ n'est réécrit que s'il a été fourni
	if employee.CNPJHash != "" {
		update["$set"].(bson.M)["cnpj_hash"] = employee.CNPJHash
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": employee.ID}, update)
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de l'employé: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete supprime un employé
func (r *EmployeeRepository) Delete(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("erreur lors de la suppression de l'employé: %w", err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Count compte tous les employés
func (r *EmployeeRepository) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des employés: %w", err)
	}
	return count, nil
}
