package model

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type ExperienceLevel string

const (
	ExperienceMedicalStudent ExperienceLevel = "medical_student"
	ExperienceJuniorDoctor   ExperienceLevel = "physician_under_5_years"
	ExperienceSeniorDoctor   ExperienceLevel = "physician_over_5_years"
)

type User struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	Email           string          `json:"email" bson:"email"`
	Username        string          `json:"username" bson:"username"`
	FirstName       string          `json:"firstName" bson:"firstName"`
	LastName        string          `json:"lastName" bson:"lastName"`
	Institution     string          `json:"institution,omitempty" bson:"institution,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel" bson:"experienceLevel"`
	Role            UserRole        `json:"role" bson:"role"`
	HashedPassword  string          `json:"-" bson:"hashedPassword"`
	IsActive        bool            `json:"isActive" bson:"isActive"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	LastLogin       *time.Time      `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`

	TotalScenariosCompleted int `json:"totalScenariosCompleted" bson:"totalScenariosCompleted"`
	TotalTimeSpentSec       int `json:"totalTimeSpentSec" bson:"totalTimeSpentSec"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
