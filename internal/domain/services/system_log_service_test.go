package services

import (
	"testing"
	"time"

	"marciaknow-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogsFiltersByCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemLogService(db, testConfig())

	require.NoError(t, svc.CreateLog(&models.SystemLog{
		AdminName: "Alice Admin",
		Category:  models.LogCategoryKiosk,
		Action:    "Added Kiosk",
	}))
	require.NoError(t, svc.CreateLog(&models.SystemLog{
		AdminName: "Alice Admin",
		Category:  models.LogCategoryRoom,
		Action:    "Added Room",
	}))

	logs, total, err := svc.GetLogs(models.PaginationQuery{PageNum: 1, PageSize: 10}, models.LogCategoryKiosk)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, "Added Kiosk", logs[0].Action)

	_, total, err = svc.GetLogs(models.PaginationQuery{PageNum: 1, PageSize: 10}, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestClearOldLogsKeepsRecentEntries(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSystemLogService(db, testConfig())

	stale := models.SystemLog{AdminName: "Alice Admin", Category: models.LogCategoryKiosk, Action: "Added Kiosk"}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Model(&stale).Update("created_at", time.Now().AddDate(0, 0, -45)).Error)

	require.NoError(t, svc.CreateLog(&models.SystemLog{
		AdminName: "Alice Admin",
		Category:  models.LogCategoryKiosk,
		Action:    "Edited Kiosk",
	}))

	n, err := svc.ClearOldLogs(30)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var remaining int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}

func TestAppendChangeAndSummary(t *testing.T) {
	changes := AppendChange(nil, "name", "Lobby", "Lobby East")
	changes = AppendChange(changes, "location", "same", "same")
	changes = AppendChange(changes, "status", "offline", "online")

	require.Len(t, changes, 2)
	assert.Equal(t, "name changed from 'Lobby' to 'Lobby East'", changes[0])

	summary := ChangeSummary(changes)
	assert.Equal(t, "name changed from 'Lobby' to 'Lobby East'; status changed from 'offline' to 'online'", summary)

	assert.Equal(t, "no field changes", ChangeSummary(nil))
}
