package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/repositories"
)

// Default message bodies. Placeholders use {{name}}; a {{#if estimated_wait}}
// block is dropped when no estimate is known.
const (
	DefaultQueueConfirmationTemplate = "Olá {{customer_name}}! Você está na lista de espera com a senha {{queue_number}} para {{party_size}} pessoa(s).{{#if estimated_wait}} Tempo estimado: {{estimated_wait}} minutos.{{/if}}"
	DefaultTableReadyTemplate        = "Olá {{customer_name}}, sua mesa está pronta! Por favor, dirija-se à recepção com a senha {{queue_number}}."
)

// NotificationService renders and sends customer messages for waiting-list
// transitions and records every attempt.
type NotificationService struct {
	notifier  providers.Notifier
	repo      repositories.NotificationRepository
	templates map[entities.NotificationType]string
	now       func() time.Time
}

var _ CustomerNotifier = (*NotificationService)(nil)

// NewNotificationService creates a new notification service. repo may be nil,
// in which case attempts are only logged.
func NewNotificationService(notifier providers.Notifier, repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{
		notifier: notifier,
		repo:     repo,
		templates: map[entities.NotificationType]string{
			entities.NotificationQueueConfirmation: DefaultQueueConfirmationTemplate,
			entities.NotificationTableReady:        DefaultTableReadyTemplate,
		},
		now: time.Now,
	}
}

// SetTemplate overrides the body used for a notification type
func (n *NotificationService) SetTemplate(notifType entities.NotificationType, body string) {
	n.templates[notifType] = body
}

// NotificationContext contains the values substituted into a template
type NotificationContext struct {
	CustomerName  string
	QueueNumber   int
	PartySize     int
	EstimatedWait *int
}

// SendQueueConfirmation tells a customer they joined the queue
func (n *NotificationService) SendQueueConfirmation(ctx context.Context, entry *entities.WaitingEntry) error {
	return n.send(ctx, entities.NotificationQueueConfirmation, entry)
}

// SendTableReady tells a customer their table is ready
func (n *NotificationService) SendTableReady(ctx context.Context, entry *entities.WaitingEntry) error {
	return n.send(ctx, entities.NotificationTableReady, entry)
}

func (n *NotificationService) send(ctx context.Context, notifType entities.NotificationType, entry *entities.WaitingEntry) error {
	body := n.renderTemplate(n.templates[notifType], &NotificationContext{
		CustomerName:  entry.CustomerName,
		QueueNumber:   entry.QueueNumber,
		PartySize:     entry.PartySize,
		EstimatedWait: entry.EstimatedWaitTime,
	})

	messageID, sendErr := n.notifier.Notify(ctx, entry.PhoneNumber, body)

	now := n.now()
	record := &entities.WaitingListNotification{
		ID:               uuid.New().String(),
		EntryID:          entry.ID,
		RestaurantID:     entry.RestaurantID,
		NotificationType: notifType,
		Recipient:        entry.PhoneNumber,
		Body:             body,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if sendErr != nil {
		errMsg := sendErr.Error()
		record.Status = entities.NotificationStatusFailed
		record.ErrorMessage = &errMsg
	} else {
		record.Status = entities.NotificationStatusSent
		record.SentAt = &now
		if messageID != "" {
			record.MessageID = &messageID
		}
	}

	if n.repo != nil {
		if err := n.repo.Record(ctx, record); err != nil {
			log.Warn().Err(err).Str("entry_id", entry.ID).Msg("Failed to record notification")
		}
	}

	if sendErr != nil {
		return fmt.Errorf("failed to send %s notification: %w", notifType, sendErr)
	}
	return nil
}

// renderTemplate replaces placeholders in template
func (n *NotificationService) renderTemplate(template string, nctx *NotificationContext) string {
	replacements := map[string]string{
		"{{customer_name}}": nctx.CustomerName,
		"{{queue_number}}":  strconv.Itoa(nctx.QueueNumber),
		"{{party_size}}":    strconv.Itoa(nctx.PartySize),
	}

	if nctx.EstimatedWait != nil {
		replacements["{{estimated_wait}}"] = strconv.Itoa(*nctx.EstimatedWait)
		template = strings.ReplaceAll(template, "{{#if estimated_wait}}", "")
		template = strings.ReplaceAll(template, "{{/if}}", "")
	} else {
		start := strings.Index(template, "{{#if estimated_wait}}")
		if start >= 0 {
			end := strings.Index(template[start:], "{{/if}}")
			if end >= 0 {
				template = template[:start] + template[start+end+len("{{/if}}"):]
			}
		}
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}
