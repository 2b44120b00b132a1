package middleware

import (
	"context"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"avantages-backend/constants"
	"avantages-backend/utils"
)

// rateLimitStore est le sous-ensemble du client Redis utilisé par le limiteur
type rateLimitStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// RateLimiter limite le nombre de requêtes par IP sur une fenêtre fixe.
// Le compteur vit dans Redis : la limite tient même avec plusieurs instances.
type RateLimiter struct {
	store   rateLimitStore
	enabled bool
	limit   int64
	window  time.Duration
	prefix  string
}

// NewRateLimiter crée un limiteur de débit. Sans client Redis ou avec une
// limite nulle, le limiteur est désactivé et laisse tout passer.
func NewRateLimiter(store rateLimitStore, limit int, window time.Duration, prefix string) *RateLimiter {
	if store == nil || limit <= 0 || window <= 0 {
		return &RateLimiter{enabled: false}
	}
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RateLimiter{
		store:   store,
		enabled: true,
		limit:   int64(limit),
		window:  window,
		prefix:  prefix,
	}
}

// Allow incrémente le compteur de la clé et indique si la requête passe,
// le quota restant et l'instant de réinitialisation de la fenêtre
func (rl *RateLimiter) Allow(ctx context.Context, key string) (allowed bool, remaining int64, resetAt time.Time, err error) {
	if !rl.enabled {
		return true, rl.limit, time.Now().Add(rl.window), nil
	}

	redisKey := rl.prefix + ":" + key

	count, err := rl.store.Incr(ctx, redisKey)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	// Première requête de la fenêtre : poser le TTL
	if count == 1 {
		if err := rl.store.Expire(ctx, redisKey, rl.window); err != nil {
			log.Printf("⚠️  Impossible de poser le TTL du rate limit %s: %v", redisKey, err)
		}
	}

	ttl, ttlErr := rl.store.TTL(ctx, redisKey)
	if ttlErr != nil || ttl < 0 {
		ttl = rl.window
	}

	remaining = rl.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.limit, remaining, time.Now().Add(ttl), nil
}

// Middleware applique la limite par IP cliente. En cas d'erreur Redis la
// requête passe : la limitation de débit ne doit pas couper le service.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.enabled {
			next.ServeHTTP(w, r)
			return
		}

		ip := ClientIP(r)
		allowed, remaining, resetAt, err := rl.Allow(r.Context(), ip)
		if err != nil {
			log.Printf("⚠️  Rate limiter indisponible: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(rl.limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			utils.RespondError(w, http.StatusTooManyRequests, constants.CodeRateLimited, constants.ErrTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientIP retourne l'IP cliente en tenant compte des proxys
func ClientIP(r *http.Request) string {
	// X-Forwarded-For peut contenir une liste : la première IP est le client
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		ip := strings.TrimSpace(parts[0])
		if ip != "" {
			return ip
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
