package dto

import (
	"plantreminder/internal/domain/entity"
	"time"
)

// SavePlantRequest is the DTO for saving a plant and choosing its daily watering time.
type SavePlantRequest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	About        string   `json:"about"`
	WaterTips    string   `json:"water_tips"`
	Photo        string   `json:"photo"`
	Environments []string `json:"environments"`
	// Time is either a wall-clock "15:04" or an RFC3339 timestamp; only its time of day is used.
	Time string `json:"time"`
}

// ToPlant converts the request into the domain plant.
func (r SavePlantRequest) ToPlant() entity.Plant {
	return entity.Plant{
		ID:           r.ID,
		Name:         r.Name,
		About:        r.About,
		WaterTips:    r.WaterTips,
		Photo:        r.Photo,
		Environments: r.Environments,
	}
}

// PlantResponse is the DTO for sending a stored plant to the client.
type PlantResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	About           string    `json:"about"`
	WaterTips       string    `json:"water_tips"`
	Photo           string    `json:"photo"`
	Environments    []string  `json:"environments"`
	TimeOfDay       string    `json:"time_of_day"`
	NextWaterAt     time.Time `json:"next_water_at"`
	NotificationSet bool      `json:"notification_set"`
}

// ToPlantResponse converts an entity.StoredPlant to a PlantResponse DTO.
func ToPlantResponse(p *entity.StoredPlant) PlantResponse {
	envs := p.Environments
	if envs == nil {
		envs = []string{}
	}
	return PlantResponse{
		ID:              p.ID,
		Name:            p.Name,
		About:           p.About,
		WaterTips:       p.WaterTips,
		Photo:           p.Photo,
		Environments:    envs,
		TimeOfDay:       p.TimeOfDay,
		NextWaterAt:     p.NextWaterAt,
		NotificationSet: p.HasNotification(),
	}
}

// PlantListResponse is the DTO for listing plants, soonest due first.
type PlantListResponse struct {
	// Next is the plant that needs water soonest.
	Next   PlantResponse   `json:"next"`
	Plants []PlantResponse `json:"plants"`
}

// ToPlantListResponse converts an ordered, non-empty slice of plants to a PlantListResponse.
func ToPlantListResponse(plants []*entity.StoredPlant) PlantListResponse {
	list := make([]PlantResponse, len(plants))
	for i, p := range plants {
		list[i] = ToPlantResponse(p)
	}
	resp := PlantListResponse{Plants: list}
	if len(list) > 0 {
		resp.Next = list[0]
	}
	return resp
}

// ErrorResponse is the DTO for error bodies.
type ErrorResponse struct {
	Message string `json:"message"`
}
