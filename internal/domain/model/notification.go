package model

import "time"

const NotificationTypeSubscription = "subscription"

// Notification is a derived reminder delivered to a user's inbox. For the
// subscription-expiry subtype, ItemID is the subscription id it refers to and
// at most one notification exists per (UserID, ItemID) pair.
type Notification struct {
	ID        string // UUID
	UserID    string
	Title     string
	Message   string
	Type      string
	ItemID    string
	IsRead    bool
	CreatedAt time.Time
	Link      string // optional navigation hint
}
