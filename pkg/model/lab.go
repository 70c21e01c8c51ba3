package model

import (
	"time"
)

type Lab struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Capacity  int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=500"`
	Equipment []string  `json:"equipment,omitempty" bson:"equipment,omitempty" validate:"omitempty,dive,min=1,max=100"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type LabUpdate struct {
	Name      string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Capacity  *int      `json:"capacity,omitempty" validate:"omitempty,min=1,max=500"`
	Equipment *[]string `json:"equipment,omitempty" validate:"omitempty,dive,min=1,max=100"`
	IsActive  *bool     `json:"is_active,omitempty"`
}
