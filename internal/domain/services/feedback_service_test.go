package services

import (
	"strings"
	"testing"

	"marciaknow-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestFeedbackService(t *testing.T, db *gorm.DB) InterfaceFeedbackService {
	t.Helper()

	images, _ := newTestImageService(t)
	return NewFeedbackService(db, testConfig(), images)
}

func TestSubmitFeedbackAppliesDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFeedbackService(t, db)

	created, err := svc.Submit(&models.Feedback{
		Message:  "The kiosk screen is unresponsive",
		Category: models.FeedbackCategoryBug,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackStatusNew, created.Status)
	assert.Equal(t, models.FeedbackPriorityMedium, created.Priority)
}

func TestSubmitFeedbackValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFeedbackService(t, db)

	_, err := svc.Submit(&models.Feedback{Category: models.FeedbackCategoryBug}, nil)
	assert.ErrorIs(t, err, ErrFeedbackMessageEmpty)

	// 超过列宽的内容在入库前就被拒绝
	long := strings.Repeat("长", models.MaxFeedbackMessageLength+1)
	_, err = svc.Submit(&models.Feedback{Message: long, Category: models.FeedbackCategoryBug}, nil)
	assert.ErrorIs(t, err, ErrFeedbackMessageTooLong)

	_, err = svc.Submit(&models.Feedback{Message: "hello", Category: "Rant"}, nil)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	attachments := make([]models.Image, models.MaxFeedbackAttachments+1)
	for i := range attachments {
		attachments[i] = models.Image{FilePath: "a.jpg"}
	}
	_, err = svc.Submit(&models.Feedback{Message: "hello", Category: models.FeedbackCategoryBug}, attachments)
	assert.ErrorIs(t, err, ErrTooManyAttachments)
}

func TestSubmitFeedbackStoresAttachments(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFeedbackService(t, db)

	created, err := svc.Submit(&models.Feedback{
		Message:  "Broken map marker",
		Category: models.FeedbackCategoryBug,
	}, []models.Image{{FilePath: "shot1.jpg"}, {FilePath: "shot2.jpg"}})
	require.NoError(t, err)
	assert.Len(t, created.Attachments, 2)
}

func TestUpdateFeedbackValidatesStatusAndPriority(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFeedbackService(t, db)

	created, err := svc.Submit(&models.Feedback{
		Message:  "Suggestion: add night mode",
		Category: models.FeedbackCategorySuggestion,
	}, nil)
	require.NoError(t, err)

	_, err = svc.UpdateFeedback(created.ID, map[string]interface{}{"status": "Closed"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateFeedback(created.ID, map[string]interface{}{"priority": "Urgent"})
	assert.ErrorIs(t, err, ErrInvalidPriority)

	updated, err := svc.UpdateFeedback(created.ID, map[string]interface{}{
		"status":      models.FeedbackStatusInProgress,
		"priority":    models.FeedbackPriorityHigh,
		"assigned_to": "Alice Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackStatusInProgress, updated.Status)
	assert.Equal(t, models.FeedbackPriorityHigh, updated.Priority)
	assert.Equal(t, "Alice Admin", updated.AssignedTo)
}

func TestBulkUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFeedbackService(t, db)

	var ids []uint
	for i := 0; i < 3; i++ {
		created, err := svc.Submit(&models.Feedback{
			Message:  "entry",
			Category: models.FeedbackCategoryComplaint,
		}, nil)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	_, err := svc.BulkUpdateStatus(ids, "Closed")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	n, err := svc.BulkUpdateStatus(nil, models.FeedbackStatusReviewed)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = svc.BulkUpdateStatus(ids[:2], models.FeedbackStatusResolved)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var resolved int64
	require.NoError(t, db.Model(&models.Feedback{}).
		Where("status = ?", models.FeedbackStatusResolved).Count(&resolved).Error)
	assert.EqualValues(t, 2, resolved)
}

func TestDeleteFeedbackRemovesAttachments(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFeedbackService(t, db)

	created, err := svc.Submit(&models.Feedback{
		Message:  "with attachment",
		Category: models.FeedbackCategoryPraise,
	}, []models.Image{{FilePath: "praise.jpg"}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFeedback(created.ID))

	_, err = svc.GetFeedbackByID(created.ID)
	assert.ErrorIs(t, err, ErrFeedbackNotFound)

	var imageCount int64
	require.NoError(t, db.Model(&models.Image{}).Where("feedback_id = ?", created.ID).Count(&imageCount).Error)
	assert.EqualValues(t, 0, imageCount)
}

func TestFeedbackStats(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestFeedbackService(t, db)

	for _, category := range []string{
		models.FeedbackCategoryBug,
		models.FeedbackCategoryBug,
		models.FeedbackCategoryPraise,
	} {
		_, err := svc.Submit(&models.Feedback{Message: "entry", Category: category}, nil)
		require.NoError(t, err)
	}

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)

	byCategory := make(map[string]int64)
	for _, row := range stats.ByCategory {
		byCategory[row.Name] = row.Count
	}
	assert.EqualValues(t, 2, byCategory[models.FeedbackCategoryBug])
	assert.EqualValues(t, 1, byCategory[models.FeedbackCategoryPraise])
}
