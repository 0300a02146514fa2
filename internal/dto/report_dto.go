package dto

import "github.com/google/uuid"

type CreateReportRequest struct {
	TargetType  string    `json:"target_type" validate:"required,oneof=post competition"`
	TargetID    uuid.UUID `json:"target_id" validate:"required"`
	Reason      string    `json:"reason" validate:"required"`
	Description string    `json:"description" validate:"max=500"`
}

type ActionReportRequest struct {
	Status     string `json:"status" validate:"required,oneof=resolved dismissed"`
	AdminNotes string `json:"admin_notes" validate:"max=1000"`
}

type ModerateRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reason   string `json:"reason" validate:"max=500"`
}

type PinRequest struct {
	Pinned bool `json:"pinned"`
}

type BlockUserRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}
