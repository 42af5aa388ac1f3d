package services

import (
	"testing"
	"time"

	"marciaknow-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyReportZeroFillsMissingDays(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQrScanService(db, testConfig())

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.Local)

	// 8月1日两次，8月3日一次，8月2日无记录
	for _, ts := range []time.Time{base, base.Add(time.Hour), base.AddDate(0, 0, 2)} {
		entry := models.QrScanLog{BuildingID: 1, BuildingName: "Library", KioskID: "K100A1Y1"}
		require.NoError(t, db.Create(&entry).Error)
		require.NoError(t, db.Model(&entry).Update("created_at", ts).Error)
	}

	report, err := svc.GetDailyReport(base, base.AddDate(0, 0, 2))
	require.NoError(t, err)

	require.Len(t, report.Daily, 3)
	assert.Equal(t, "2026-08-01", report.Daily[0].Date)
	assert.EqualValues(t, 2, report.Daily[0].Count)
	assert.EqualValues(t, 0, report.Daily[1].Count)
	assert.EqualValues(t, 1, report.Daily[2].Count)
	assert.EqualValues(t, 3, report.Total)
	assert.Equal(t, "2026-08-01", report.PeakDate)
	assert.EqualValues(t, 2, report.PeakCount)
}

func TestTopBuildings(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQrScanService(db, testConfig())

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.LogScan(&models.QrScanLog{BuildingID: 1, BuildingName: "Library", KioskID: "K100A1Y1"}))
	}
	require.NoError(t, svc.LogScan(&models.QrScanLog{BuildingID: 2, BuildingName: "Gym", KioskID: "K100A1Y1"}))

	rows, err := svc.GetTopBuildings(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Library", rows[0].BuildingName)
	assert.EqualValues(t, 3, rows[0].Count)

	total, err := svc.GetTotal()
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
}

func TestClearOldScanLogs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQrScanService(db, testConfig())

	stale := models.QrScanLog{BuildingID: 1, BuildingName: "Library", KioskID: "K100A1Y1"}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Model(&stale).Update("created_at", time.Now().AddDate(0, 0, -60)).Error)

	require.NoError(t, svc.LogScan(&models.QrScanLog{BuildingID: 1, BuildingName: "Library", KioskID: "K100A1Y1"}))

	n, err := svc.ClearOldLogs(30)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	total, err := svc.GetTotal()
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
