package model

import (
	"time"
)

type Role string

const (
	RoleAdmin         Role = "admin"
	RoleFaculty       Role = "faculty"
	RoleLabIncharge   Role = "lab_incharge"
	RoleClubIncharge  Role = "club_incharge"
	RoleClubMember    Role = "club_member"
	RoleClubExecutive Role = "club_executive"
	RoleClubSecretary Role = "club_secretary"
)

// IsClubTier reports whether the role is one of the club-member submitter
// roles. The sub-role distinctions (member, executive, secretary) are
// equivalent for the booking workflow.
func (r Role) IsClubTier() bool {
	switch r {
	case RoleClubMember, RoleClubExecutive, RoleClubSecretary:
		return true
	}
	return false
}

// CanApproveLabTier reports whether the role may sign off the final lab tier.
func (r Role) CanApproveLabTier() bool {
	return r == RoleLabIncharge || r == RoleAdmin
}

// CanApproveClubTier reports whether the role may act on the club tier.
func (r Role) CanApproveClubTier() bool {
	return r == RoleClubIncharge
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleLabIncharge, RoleClubIncharge,
		RoleClubMember, RoleClubExecutive, RoleClubSecretary:
		return true
	}
	return false
}

type User struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Email    string `json:"email" bson:"email" validate:"required,email"`
	Password string `json:"password,omitempty" bson:"password,omitempty" validate:"omitempty,min=6"`
	Name     string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Role     Role   `json:"role" bson:"role" validate:"required,user_role"`
	// LabID is set for lab incharges: the lab whose bookings they sign off.
	LabID string `json:"lab_id,omitempty" bson:"lab_id,omitempty" validate:"omitempty,mongodb"`
	// ClubID is set for club-member roles: the club they belong to.
	ClubID    string    `json:"club_id,omitempty" bson:"club_id,omitempty" validate:"omitempty,mongodb"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type UserUpdate struct {
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Name   string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role   Role   `json:"role,omitempty" validate:"omitempty,user_role"`
	LabID  *string `json:"lab_id,omitempty" validate:"omitempty"`
	ClubID *string `json:"club_id,omitempty" validate:"omitempty"`
}

// Actor is the resolved identity an authenticated request carries. The booking
// core trusts it; establishing it is the auth collaborator's job.
type Actor struct {
	ID   string
	Role Role
}
