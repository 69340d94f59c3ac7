package entity

import (
	"fmt"
	"time"
)

// NotificationPayload is carried by a watering notification. PlantID lets a
// delivered notification be traced back to its plant.
type NotificationPayload struct {
	PlantID string `json:"plant_id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

// NotificationRegistration is the durable form of a scheduled daily notification.
// Handle is the opaque value handed back to callers.
type NotificationRegistration struct {
	Handle    string    `gorm:"column:handle;primaryKey"`
	PlantID   string    `gorm:"column:plant_id;index"`
	Hour      int       `gorm:"column:hour"`
	Minute    int       `gorm:"column:minute"`
	Title     string    `gorm:"column:title"`
	Body      string    `gorm:"column:body;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the NotificationRegistration entity.
func (NotificationRegistration) TableName() string {
	return "notification_registration"
}

// TimeOfDay returns the registration's daily trigger.
func (r *NotificationRegistration) TimeOfDay() TimeOfDay {
	return TimeOfDay{Hour: r.Hour, Minute: r.Minute}
}

// Payload rebuilds the payload the registration was created with.
func (r *NotificationRegistration) Payload() NotificationPayload {
	return NotificationPayload{PlantID: r.PlantID, Title: r.Title, Body: r.Body}
}

// WateringPayload builds the fixed reminder text for a plant.
func WateringPayload(p Plant) NotificationPayload {
	return NotificationPayload{
		PlantID: p.ID,
		Title:   "Heeey, 🌱",
		Body:    fmt.Sprintf("Está na hora de cuidar da sua %s", p.Name),
	}
}
