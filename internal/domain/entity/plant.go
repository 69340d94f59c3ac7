package entity

import "time"

// Plant is the caller-supplied description of a plant the user wants watering reminders for.
type Plant struct {
	ID           string   `gorm:"column:id;primaryKey" json:"id"`
	Name         string   `gorm:"column:name" json:"name"`
	About        string   `gorm:"column:about;type:text" json:"about"`
	WaterTips    string   `gorm:"column:water_tips;type:text" json:"water_tips"`
	Photo        string   `gorm:"column:photo" json:"photo"`
	Environments []string `gorm:"column:environments;serializer:json" json:"environments"`
}

// StoredPlant is a Plant together with its active watering schedule.
type StoredPlant struct {
	Plant `gorm:"embedded"`
	// TimeOfDay is the daily trigger in "15:04" form, kept so the schedule can be re-derived after a restart.
	TimeOfDay string `gorm:"column:time_of_day"`
	// NextWaterAt is the next moment the registered notification fires.
	NextWaterAt time.Time `gorm:"column:next_water_at;index"`
	// NotificationHandle references the live registration; nil when none is active.
	NotificationHandle *string `gorm:"column:notification_handle"`
}

// TableName specifies the table name for the StoredPlant entity.
func (StoredPlant) TableName() string {
	return "stored_plant"
}

// HasNotification reports whether a notification is registered for the plant.
func (p *StoredPlant) HasNotification() bool {
	return p.NotificationHandle != nil && *p.NotificationHandle != ""
}
