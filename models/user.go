package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Everyone registers as a member; admins are promoted out of band.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username      string             `bson:"username" json:"username"`
	Email         string             `bson:"email" json:"email"`
	FirstName     string             `bson:"firstName" json:"firstName"`
	MiddleName    string             `bson:"middleName,omitempty" json:"middleName,omitempty"`
	LastName      string             `bson:"lastName" json:"lastName"`
	Mobile        string             `bson:"mobile" json:"mobile"`
	Password      string             `bson:"password" json:"-"`
	Avatar        string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	DOB           string             `bson:"dob,omitempty" json:"dob,omitempty"`
	School        string             `bson:"school,omitempty" json:"school,omitempty"`
	Std           string             `bson:"std,omitempty" json:"std,omitempty"`
	MediumOfStudy string             `bson:"mediumOfStudy,omitempty" json:"mediumOfStudy,omitempty"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	Role          string             `bson:"role" json:"role"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	RefreshToken  string             `bson:"refreshToken,omitempty" json:"-"`
	ResetToken    string             `bson:"resetToken,omitempty" json:"-"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// PublicUser is the shape returned to clients: secrets stripped.
type PublicUser struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Username      string             `bson:"username" json:"username"`
	Email         string             `bson:"email" json:"email"`
	FirstName     string             `bson:"firstName" json:"firstName"`
	MiddleName    string             `bson:"middleName,omitempty" json:"middleName,omitempty"`
	LastName      string             `bson:"lastName" json:"lastName"`
	Mobile        string             `bson:"mobile" json:"mobile"`
	Avatar        string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	DOB           string             `bson:"dob,omitempty" json:"dob,omitempty"`
	School        string             `bson:"school,omitempty" json:"school,omitempty"`
	Std           string             `bson:"std,omitempty" json:"std,omitempty"`
	MediumOfStudy string             `bson:"mediumOfStudy,omitempty" json:"mediumOfStudy,omitempty"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	Role          string             `bson:"role" json:"role"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Public strips credential and token fields from a full user record.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		MiddleName:    u.MiddleName,
		LastName:      u.LastName,
		Mobile:        u.Mobile,
		Avatar:        u.Avatar,
		DOB:           u.DOB,
		School:        u.School,
		Std:           u.Std,
		MediumOfStudy: u.MediumOfStudy,
		Address:       u.Address,
		Role:          u.Role,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
