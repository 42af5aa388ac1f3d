package services

import (
	"testing"
	"time"

	"marciaknow-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatbotMetricsAggregation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatbotService(db, testConfig())

	entries := []models.ChatbotInteraction{
		{KioskID: "K100A1Y1", UserMessage: "Where is the library?", Action: "navigate", Confidence: 0.9, ResponseTime: 100, SessionID: "s1"},
		{KioskID: "K100A1Y1", UserMessage: "Where is the library?", Action: "navigate", Confidence: 0.7, ResponseTime: 300, SessionID: "s1"},
		{KioskID: "K200B2Y2", UserMessage: "Opening hours?", Action: "", Confidence: 0.5, ResponseTime: 200, SessionID: "s2"},
	}
	for i := range entries {
		require.NoError(t, svc.LogInteraction(&entries[i]))
	}

	metrics, err := svc.GetMetrics("week")
	require.NoError(t, err)

	assert.Equal(t, "week", metrics.Timeframe)
	assert.EqualValues(t, 3, metrics.Total)
	assert.InDelta(t, 200, metrics.AvgResponseTime, 0.01)

	require.NotEmpty(t, metrics.CommonQueries)
	assert.Equal(t, "Where is the library?", metrics.CommonQueries[0].Query)
	assert.EqualValues(t, 2, metrics.CommonQueries[0].Count)

	// 空动作不计入动作分布
	require.Len(t, metrics.ActionBreakdown, 1)
	assert.Equal(t, "navigate", metrics.ActionBreakdown[0].Action)
	assert.EqualValues(t, 2, metrics.ActionBreakdown[0].Count)

	assert.InDelta(t, 0.7, metrics.Confidence.Avg, 0.01)
	assert.InDelta(t, 0.5, metrics.Confidence.Min, 0.01)
	assert.InDelta(t, 0.9, metrics.Confidence.Max, 0.01)

	// 未知时间范围回退到 month
	metrics, err = svc.GetMetrics("decade")
	require.NoError(t, err)
	assert.Equal(t, "month", metrics.Timeframe)
}

func TestChatbotGetLogsFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatbotService(db, testConfig())

	require.NoError(t, svc.LogInteraction(&models.ChatbotInteraction{KioskID: "K100A1Y1", UserMessage: "a", Action: "navigate", SessionID: "s1"}))
	require.NoError(t, svc.LogInteraction(&models.ChatbotInteraction{KioskID: "K200B2Y2", UserMessage: "b", Action: "info", SessionID: "s2"}))

	logs, total, err := svc.GetLogs(models.PaginationQuery{PageNum: 1, PageSize: 10}, "K100A1Y1", "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, logs, 1)
	assert.Equal(t, "a", logs[0].UserMessage)

	_, total, err = svc.GetLogs(models.PaginationQuery{PageNum: 1, PageSize: 10}, "", "info", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = svc.GetLogs(models.PaginationQuery{PageNum: 1, PageSize: 10}, "", "", "s2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestSessionHistoryOrderingAndStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatbotService(db, testConfig())

	first := models.ChatbotInteraction{KioskID: "K100A1Y1", UserMessage: "first", ResponseTime: 100, SessionID: "s1"}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Model(&first).Update("created_at", time.Now().Add(-time.Hour)).Error)

	second := models.ChatbotInteraction{KioskID: "K100A1Y1", UserMessage: "second", ResponseTime: 300, SessionID: "s1"}
	require.NoError(t, db.Create(&second).Error)

	require.NoError(t, db.Create(&models.ChatbotInteraction{KioskID: "K100A1Y1", UserMessage: "other", SessionID: "s9"}).Error)

	history, err := svc.GetSessionHistory("s1")
	require.NoError(t, err)

	assert.EqualValues(t, 2, history.Total)
	require.Len(t, history.Interactions, 2)
	assert.Equal(t, "first", history.Interactions[0].UserMessage)
	assert.Equal(t, "second", history.Interactions[1].UserMessage)
	assert.InDelta(t, 200, history.AvgResponseTime, 0.01)
	require.NotNil(t, history.FirstSeen)
	require.NotNil(t, history.LastSeen)
	assert.True(t, history.LastSeen.After(*history.FirstSeen))

	empty, err := svc.GetSessionHistory("missing")
	require.NoError(t, err)
	assert.EqualValues(t, 0, empty.Total)
	assert.Nil(t, empty.FirstSeen)
}

func TestClearOldInteractions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatbotService(db, testConfig())

	stale := models.ChatbotInteraction{KioskID: "K100A1Y1", UserMessage: "old", SessionID: "s1"}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Model(&stale).Update("created_at", time.Now().AddDate(0, 0, -90)).Error)

	require.NoError(t, svc.LogInteraction(&models.ChatbotInteraction{KioskID: "K100A1Y1", UserMessage: "new", SessionID: "s1"}))

	n, err := svc.ClearOldInteractions(30)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var remaining int64
	require.NoError(t, db.Model(&models.ChatbotInteraction{}).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}
