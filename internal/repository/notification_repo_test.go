package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/models"
)

func TestNotificationRepositoryScopesToRecipient(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	batch := []models.Notification{
		{RecipientKind: models.RecipientStudent, RecipientID: 1, Type: models.NotificationNewActivity, Title: "New activity"},
		{RecipientKind: models.RecipientStudent, RecipientID: 2, Type: models.NotificationNewActivity, Title: "New activity"},
		{RecipientKind: models.RecipientTeacher, RecipientID: 1, Type: models.NotificationStudentSubmitted, Title: "Submitted"},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	inbox, err := repo.ListByRecipient(ctx, models.RecipientStudent, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.False(t, inbox[0].Read)

	_, err = repo.MarkRead(ctx, inbox[0].ID, models.RecipientTeacher, 1)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound), "teacher 1 must not read student 1's inbox")

	read, err := repo.MarkRead(ctx, inbox[0].ID, models.RecipientStudent, 1)
	require.NoError(t, err)
	require.True(t, read.Read)

	inbox, err = repo.ListByRecipient(ctx, models.RecipientStudent, 1, 10, 0)
	require.NoError(t, err)
	require.True(t, inbox[0].Read)
}
