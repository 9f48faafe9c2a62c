// Package notification содержит доменную модель уведомлений.
package notification

import (
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGE TEMPLATES
// Шаблоны определяют тему и текст уведомления для каждого перехода
// жизненного цикла. Контент собирается в домене, чтобы каналы доставки
// оставались тупыми транспортами.
// ══════════════════════════════════════════════════════════════════════════════

// Message - готовый контент уведомления.
type Message struct {
	Subject string
	Body    string
}

// MentorshipRequestedMessage - ментору о новом запросе.
func MentorshipRequestedMessage(menteeName string) Message {
	return Message{
		Subject: "New mentorship request",
		Body: fmt.Sprintf(
			"%s has requested you as a mentor. Review the request to accept or decline it.",
			menteeName,
		),
	}
}

// MentorshipAcceptedMessage - подопечному о принятом запросе.
func MentorshipAcceptedMessage(mentorName string) Message {
	return Message{
		Subject: "Mentorship request accepted",
		Body: fmt.Sprintf(
			"%s has accepted your mentorship request. You can now schedule sessions together.",
			mentorName,
		),
	}
}

// MentorshipDeclinedMessage - подопечному об отклонённом запросе.
func MentorshipDeclinedMessage(mentorName, reason string) Message {
	body := fmt.Sprintf("%s has declined your mentorship request.", mentorName)
	if reason != "" {
		body = fmt.Sprintf("%s Reason: %s", body, reason)
	}
	return Message{
		Subject: "Mentorship request declined",
		Body:    body,
	}
}

// MentorshipCancelledMessage - второй стороне о прерывании.
func MentorshipCancelledMessage(otherPartyName string) Message {
	return Message{
		Subject: "Mentorship cancelled",
		Body: fmt.Sprintf(
			"Your mentorship with %s has been cancelled. Open sessions are no longer available for booking.",
			otherPartyName,
		),
	}
}

// MentorshipCompletedMessage - второй стороне о завершении.
func MentorshipCompletedMessage(otherPartyName string) Message {
	return Message{
		Subject: "Mentorship completed",
		Body: fmt.Sprintf(
			"Your mentorship with %s has been marked as completed. Thank you for being part of the program.",
			otherPartyName,
		),
	}
}

// SessionRequestedMessage - ментору о предложенной сессии.
func SessionRequestedMessage(menteeName string, startsAt time.Time, durationMinutes int) Message {
	return Message{
		Subject: "New session request",
		Body: fmt.Sprintf(
			"%s has proposed a session on %s (%d minutes). Approve or reject the request.",
			menteeName, startsAt.Format("Mon, 02 Jan 2006 15:04 MST"), durationMinutes,
		),
	}
}

// SessionScheduledMessage - стороне о подтверждённой сессии.
func SessionScheduledMessage(otherPartyName string, startsAt time.Time, durationMinutes int) Message {
	return Message{
		Subject: "Session scheduled",
		Body: fmt.Sprintf(
			"Your session with %s is confirmed for %s (%d minutes).",
			otherPartyName, startsAt.Format("Mon, 02 Jan 2006 15:04 MST"), durationMinutes,
		),
	}
}

// SessionRejectedMessage - подопечному об отклонённом предложении.
func SessionRejectedMessage(mentorName, reason string) Message {
	body := fmt.Sprintf("%s has rejected your session request.", mentorName)
	if reason != "" {
		body = fmt.Sprintf("%s Reason: %s", body, reason)
	}
	return Message{
		Subject: "Session request rejected",
		Body:    body,
	}
}

// SessionCancelledMessage - второй стороне об отмене сессии.
func SessionCancelledMessage(otherPartyName string, startsAt time.Time, reason string) Message {
	body := fmt.Sprintf(
		"Your session with %s on %s has been cancelled.",
		otherPartyName, startsAt.Format("Mon, 02 Jan 2006 15:04 MST"),
	)
	if reason != "" {
		body = fmt.Sprintf("%s Reason: %s", body, reason)
	}
	return Message{
		Subject: "Session cancelled",
		Body:    body,
	}
}

// MentorshipRequestPendingMessage - напоминание ментору о запросе,
// который долго остаётся без ответа.
func MentorshipRequestPendingMessage(menteeName string, pendingDays int) Message {
	return Message{
		Subject: "Mentorship request awaiting your response",
		Body: fmt.Sprintf(
			"The mentorship request from %s has been waiting for %d days. Accept or decline it so the mentee can plan ahead.",
			menteeName, pendingDays,
		),
	}
}

// SessionReminderMessage - напоминание о предстоящей сессии.
func SessionReminderMessage(otherPartyName string, startsAt time.Time, durationMinutes int) Message {
	return Message{
		Subject: "Upcoming session reminder",
		Body: fmt.Sprintf(
			"Reminder: your session with %s starts at %s (%d minutes).",
			otherPartyName, startsAt.Format("Mon, 02 Jan 2006 15:04 MST"), durationMinutes,
		),
	}
}
