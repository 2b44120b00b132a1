package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FCMToken représente un token d'appareil Firebase Cloud Messaging
type FCMToken struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Token     string             `json:"token" bson:"token"`
	Device    string             `json:"device,omitempty" bson:"device,omitempty"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// FCMTokenRequest représente l'enregistrement d'un token d'appareil
type FCMTokenRequest struct {
	Token  string `json:"token"`
	Device string `json:"device,omitempty"`
}

// SubscriptionKeys contient les clés de chiffrement Web Push du navigateur
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" bson:"p256dh"`
	Auth   string `json:"auth" bson:"auth"`
}

// PushSubscription représente un abonnement Web Push (VAPID)
type PushSubscription struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID   string             `json:"user_id" bson:"user_id"`
	Endpoint string             `json:"endpoint" bson:"endpoint"`
	Keys     SubscriptionKeys   `json:"keys" bson:"keys"`
}

// SubscribeRequest représente la requête d'abonnement Web Push
type SubscribeRequest struct {
	Subscription struct {
		Endpoint string           `json:"endpoint"`
		Keys     SubscriptionKeys `json:"keys"`
	} `json:"subscription"`
}

// NotificationRequest représente une notification à diffuser
type NotificationRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NotificationPayload est le corps JSON poussé aux navigateurs via Web Push
type NotificationPayload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Icon  string            `json:"icon,omitempty"`
	Badge string            `json:"badge,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}
