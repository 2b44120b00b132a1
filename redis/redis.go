package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client enveloppe la connexion Redis utilisée pour la limitation de débit
type Client struct {
	client *redis.Client
}

// Connect crée la connexion Redis et vérifie qu'elle répond
func Connect(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Vérifier la connexion
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("erreur de connexion à Redis: %w", err)
	}

	log.Println("✓ Connexion à Redis établie")

	return &Client{client: rdb}, nil
}

// Incr incrémente un compteur et retourne sa nouvelle valeur
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

// Expire pose un TTL sur une clé
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

// TTL retourne le temps restant avant expiration d'une clé
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.client.TTL(ctx, key).Result()
}

// Ping vérifie que la connexion Redis est active
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close ferme la connexion Redis
func (c *Client) Close() error {
	return c.client.Close()
}
