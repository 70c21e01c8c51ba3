package model

import (
	"time"
)

type Club struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	// ClubInchargeID identifies the approver who clears this club's bookings.
	ClubInchargeID string    `json:"club_incharge_id,omitempty" bson:"club_incharge_id,omitempty" validate:"omitempty,mongodb"`
	Members        []string  `json:"members,omitempty" bson:"members,omitempty" validate:"omitempty,dive,mongodb"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

type ClubUpdate struct {
	Name           string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description    *string   `json:"description,omitempty" validate:"omitempty,max=500"`
	ClubInchargeID *string   `json:"club_incharge_id,omitempty" validate:"omitempty"`
	Members        *[]string `json:"members,omitempty" validate:"omitempty,dive,mongodb"`
}
