package domain

import "time"

type NotificationType string

const (
	NotificationTypeBookingRequest NotificationType = "BOOKING_REQUEST"
	NotificationTypeBookingUpdate  NotificationType = "BOOKING_UPDATE"
	NotificationTypePayout         NotificationType = "PAYOUT"
	NotificationTypeGeneral        NotificationType = "GENERAL"
)

type Notification struct {
	ID        int32            `json:"id"`
	UserID    int32            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Link      string           `json:"link"`
	IsRead    bool             `json:"is_read"`
	CreatedOn time.Time        `json:"created_on"`
}
