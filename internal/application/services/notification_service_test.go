package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guiomkt/cheff-guio-sub000/internal/adapters/database"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
)

type mockMessageNotifier struct {
	mock.Mock
}

func (m *mockMessageNotifier) Notify(ctx context.Context, phone, message string) (string, error) {
	args := m.Called(ctx, phone, message)
	return args.String(0), args.Error(1)
}

func newNotificationDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

func waitPtr(i int) *int {
	return &i
}

func TestNotificationService_RenderTemplate(t *testing.T) {
	service := NewNotificationService(nil, nil)

	tests := []struct {
		name     string
		template string
		context  *NotificationContext
		want     string
	}{
		{
			name:     "Replace all placeholders",
			template: "{{customer_name}} #{{queue_number}} ({{party_size}})",
			context:  &NotificationContext{CustomerName: "Ana", QueueNumber: 7, PartySize: 3},
			want:     "Ana #7 (3)",
		},
		{
			name:     "Conditional kept when estimate known",
			template: "Oi.{{#if estimated_wait}} Espera: {{estimated_wait}} min.{{/if}}",
			context:  &NotificationContext{EstimatedWait: waitPtr(25)},
			want:     "Oi. Espera: 25 min.",
		},
		{
			name:     "Conditional dropped without estimate",
			template: "Oi.{{#if estimated_wait}} Espera: {{estimated_wait}} min.{{/if}} Até já.",
			context:  &NotificationContext{},
			want:     "Oi. Até já.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.renderTemplate(tt.template, tt.context))
		})
	}
}

func TestNotificationService_SendTableReady_RecordsAttempt(t *testing.T) {
	db, sqlMock := newNotificationDB(t)
	notifier := new(mockMessageNotifier)
	service := NewNotificationService(notifier, database.NewNotificationAdapter(db))
	fixed := time.Date(2026, 4, 10, 20, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	entry := &entities.WaitingEntry{ID: "e-1", RestaurantID: "r-1", CustomerName: "Ana", PhoneNumber: "+5511999990000", QueueNumber: 4}
	notifier.On("Notify", mock.Anything, "+5511999990000",
		"Olá Ana, sua mesa está pronta! Por favor, dirija-se à recepção com a senha 4.").
		Return("wamid.1", nil)

	sqlMock.ExpectExec("INSERT INTO waiting_list_notifications").
		WithArgs(sqlmock.AnyArg(), "e-1", "r-1", string(entities.NotificationTableReady), "+5511999990000",
			sqlmock.AnyArg(), string(entities.NotificationStatusSent), sqlmock.AnyArg(), nil, sqlmock.AnyArg(), fixed, fixed).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, service.SendTableReady(context.Background(), entry))
	notifier.AssertExpectations(t)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestNotificationService_SendFailureIsRecordedAndReturned(t *testing.T) {
	db, sqlMock := newNotificationDB(t)
	notifier := new(mockMessageNotifier)
	service := NewNotificationService(notifier, database.NewNotificationAdapter(db))

	entry := &entities.WaitingEntry{ID: "e-2", RestaurantID: "r-1", CustomerName: "Bruno", PhoneNumber: "+5511", QueueNumber: 1, PartySize: 2}
	notifier.On("Notify", mock.Anything, "+5511", mock.Anything).Return("", assert.AnError)

	sqlMock.ExpectExec("INSERT INTO waiting_list_notifications").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := service.SendQueueConfirmation(context.Background(), entry)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestNotificationService_WithoutRepository(t *testing.T) {
	notifier := new(mockMessageNotifier)
	service := NewNotificationService(notifier, nil)
	service.SetTemplate(entities.NotificationQueueConfirmation, "senha {{queue_number}}")

	notifier.On("Notify", mock.Anything, "+55", "senha 9").Return("", nil)

	err := service.SendQueueConfirmation(context.Background(), &entities.WaitingEntry{PhoneNumber: "+55", QueueNumber: 9})
	assert.NoError(t, err)
	notifier.AssertExpectations(t)
}
