package models

import (
	"time"
)

// DayCount représente le nombre de remises d'une journée
type DayCount struct {
	Day   string `json:"day" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// MetricsResponse représente les compteurs globaux de l'espace admin
type MetricsResponse struct {
	TotalStudents    int64 `json:"total_students"`
	TotalEmployees   int64 `json:"total_employees"`
	TotalPartners    int64 `json:"total_partners"`
	ActivePartners   int64 `json:"active_partners"`
	TotalPromotions  int64 `json:"total_promotions"`
	TotalRedemptions int64 `json:"total_redemptions"`
	RedemptionsToday int64 `json:"redemptions_today"`
	CodesIssuedToday int64 `json:"codes_issued_today"`
}

// PartnerReport représente le rapport d'activité d'un partenaire sur une période
type PartnerReport struct {
	From              time.Time  `json:"from"`
	To                time.Time  `json:"to"`
	TotalRedemptions  int64      `json:"total_redemptions"`
	DistinctBorrowers int64      `json:"distinct_borrowers"`
	PerDay            []DayCount `json:"per_day"`
}
