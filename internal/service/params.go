package service

import "time"

type RegisterParams struct {
	Username string
	Email    string
	Password string
	FullName string
}

// ProfileUpdate carries optional profile changes; nil means "leave as is".
type ProfileUpdate struct {
	FullName *string
	Email    *string
}

type TaskCreateParams struct {
	Title       string
	Description string
	Priority    string // defaults to medium
	DueDate     *time.Time
}

// TaskUpdateParams is a partial update; nil fields are left untouched.
type TaskUpdateParams struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
}
