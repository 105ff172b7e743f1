package jobs

import (
	"context"
	"fmt"
	"time"

	"roomstay-backend/internal/domain"
	"roomstay-backend/internal/logger"
)

// SendCheckOutReminders notifies tenants of CHECKED_IN bookings whose end
// date has passed without a check-out
func (jr *JobRunner) SendCheckOutReminders() {
	jr.runWithRecovery("SendCheckOutReminders", func() {
		ctx := context.Background()

		query := `
			SELECT b.id, b.end_date, u.id, u.email, p.title
			FROM bookings b
			JOIN users u ON b.tenant_id = u.id
			JOIN properties p ON b.property_id = p.id
			WHERE b.status = 'CHECKED_IN'
			  AND b.end_date < $1
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to query overdue check-outs", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				bookingID     int32
				endDate       time.Time
				tenantID      int32
				tenantEmail   string
				propertyTitle string
			)
			if err := rows.Scan(&bookingID, &endDate, &tenantID, &tenantEmail, &propertyTitle); err != nil {
				logger.Error("Failed to scan overdue check-out", "error", err)
				continue
			}

			if err := jr.store.NotificationRepository.Create(ctx, &domain.Notification{
				UserID:  tenantID,
				Type:    domain.NotificationTypeBookingUpdate,
				Title:   "Check-Out Reminder",
				Message: fmt.Sprintf("Your stay at %s ended on %s, please check out", propertyTitle, endDate.Format("2006-01-02")),
				Link:    fmt.Sprintf("/bookings/%d", bookingID),
			}); err != nil {
				logger.Error("Failed to create check-out reminder", "booking_id", bookingID, "error", err)
				continue
			}
			reminder := fmt.Sprintf("Your stay at %s ended on %s and is awaiting check-out.", propertyTitle, endDate.Format("2006-01-02"))
			if err := jr.services.Email.SendStayReminderNotification(ctx, tenantEmail, propertyTitle, reminder); err != nil {
				logger.Error("Failed to email check-out reminder", "booking_id", bookingID, "error", err)
			}
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue check-outs", "error", err)
			return
		}

		logger.Info("Sent check-out reminders", "count", count)
	})
}

// SendCheckInReminders notifies tenants of CONFIRMED bookings starting today
func (jr *JobRunner) SendCheckInReminders() {
	jr.runWithRecovery("SendCheckInReminders", func() {
		ctx := context.Background()

		query := `
			SELECT b.id, u.id, u.email, p.title
			FROM bookings b
			JOIN users u ON b.tenant_id = u.id
			JOIN properties p ON b.property_id = p.id
			WHERE b.status = 'CONFIRMED'
			  AND b.start_date = $1
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to query today's check-ins", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				bookingID     int32
				tenantID      int32
				tenantEmail   string
				propertyTitle string
			)
			if err := rows.Scan(&bookingID, &tenantID, &tenantEmail, &propertyTitle); err != nil {
				logger.Error("Failed to scan check-in", "error", err)
				continue
			}

			if err := jr.store.NotificationRepository.Create(ctx, &domain.Notification{
				UserID:  tenantID,
				Type:    domain.NotificationTypeBookingUpdate,
				Title:   "Check-In Today",
				Message: fmt.Sprintf("Your stay at %s starts today", propertyTitle),
				Link:    fmt.Sprintf("/bookings/%d", bookingID),
			}); err != nil {
				logger.Error("Failed to create check-in reminder", "booking_id", bookingID, "error", err)
				continue
			}
			reminder := fmt.Sprintf("Your stay at %s starts today. See you there!", propertyTitle)
			if err := jr.services.Email.SendStayReminderNotification(ctx, tenantEmail, propertyTitle, reminder); err != nil {
				logger.Error("Failed to email check-in reminder", "booking_id", bookingID, "error", err)
			}
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating check-ins", "error", err)
			return
		}

		logger.Info("Sent check-in reminders", "count", count)
	})
}
