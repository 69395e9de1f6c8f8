package model

import (
	"time"

	"edu-entitlement-platform/internal/domain"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "Pending"
	RequestStatusApproved RequestStatus = "Approved"
	RequestStatusRejected RequestStatus = "Rejected"
)

// SubscriptionRequest is a student's claim to have paid for a plan, awaiting
// admin confirmation. Requests transition one way, Pending -> Approved or
// Pending -> Rejected, and are kept as history rather than deleted.
type SubscriptionRequest struct {
	ID                string // UUID
	UserID            string
	UserName          string
	Plan              Plan
	PaymentFromNumber string
	Status            RequestStatus
	CreatedAt         time.Time
	SubjectName       string // optional
	UnitID            string // optional
	ItemID            string // optional; empty means platform-wide
}

// NewSubscriptionRequest creates a pending request.
func NewSubscriptionRequest(id, userID, userName string, plan Plan, paymentFromNumber string) (*SubscriptionRequest, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &SubscriptionRequest{
		ID:                id,
		UserID:            userID,
		UserName:          userName,
		Plan:              plan,
		PaymentFromNumber: paymentFromNumber,
		Status:            RequestStatusPending,
		CreatedAt:         time.Now(),
	}, nil
}
