package notifier

import (
	"fmt"
	"strconv"

	"firebase.google.com/go/v4/messaging"
)

const (
	TypeAppointmentConfirmation = "appointment_confirmation"
	TypeAppointmentCancellation = "appointment_cancellation"
)

// UserTopic топик FCM, на который подписаны устройства пользователя
func UserTopic(userID int64) string {
	return fmt.Sprintf("user-%d", userID)
}

// TechnicianTopic топик FCM, на который подписаны устройства техника
func TechnicianTopic(technicianID int64) string {
	return fmt.Sprintf("technician-%d", technicianID)
}

func confirmationMessage(userID int64, technicianName, formattedDateTime string) *messaging.Message {
	title := "Appointment booked"
	body := fmt.Sprintf("Your appointment with %s is scheduled on %s.", technicianName, formattedDateTime)

	return topicMessage(UserTopic(userID), title, body, map[string]string{
		"type":           TypeAppointmentConfirmation,
		"userId":         strconv.FormatInt(userID, 10),
		"technicianName": technicianName,
		"scheduledDate":  formattedDateTime,
	})
}

func cancellationMessage(technicianID int64, userName, formattedDateTime, reason string) *messaging.Message {
	title := "Appointment cancelled"
	body := fmt.Sprintf("%s cancelled the appointment on %s. Reason: %s", userName, formattedDateTime, reason)

	return topicMessage(TechnicianTopic(technicianID), title, body, map[string]string{
		"type":          TypeAppointmentCancellation,
		"technicianId":  strconv.FormatInt(technicianID, 10),
		"userName":      userName,
		"scheduledDate": formattedDateTime,
		"reason":        reason,
	})
}

func topicMessage(topic, title, body string, data map[string]string) *messaging.Message {
	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{Title: title, Body: body},
					Sound: "default",
				},
			},
		},
	}
}
