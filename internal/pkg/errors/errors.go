package errors

import "errors"

// Custom application errors
var (
	ErrStoreIO       = errors.New("plant store read/write failed")        // Underlying persistence unreadable or unwritable
	ErrScheduling    = errors.New("notification scheduling failed")       // Scheduler refused to register or cancel a notification
	ErrNoPlants      = errors.New("no plants saved")                      // LoadAll found an empty garden
	ErrPlantNotFound = errors.New("plant not found")                      // Lookup by id missed
	ErrInvalidPlant  = errors.New("invalid plant")                        // Missing identifier or otherwise unusable plant description
	ErrInvalidTime   = errors.New("invalid time of day")                  // Unparseable or out of range chosen time
	ErrDelivery      = errors.New("failed to deliver watering reminder") // Push delivery of a fired notification failed
)
