package services

import (
	"testing"

	"marciaknow-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequentDestinationsResolvesNames(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDestinationLogService(db, testConfig())

	building := seedBuilding(t, db, "Library")
	require.NoError(t, db.Create(&models.Room{
		RoomKey:    "room_read_1",
		BuildingID: building.ID,
		KioskID:    "K100A1Y1",
		Name:       "Reading Hall",
	}).Error)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Create(&models.DestinationLog{
			BuildingID:      building.ID,
			RoomKey:         "room_read_1",
			DestinationType: models.DestinationTypeRoom,
			KioskID:         "K100A1Y1",
		}))
	}
	require.NoError(t, svc.Create(&models.DestinationLog{
		BuildingID:      building.ID,
		DestinationType: models.DestinationTypeBuilding,
		KioskID:         "K100A1Y1",
	}))

	report, err := svc.GetFrequentDestinations("week")
	require.NoError(t, err)

	assert.EqualValues(t, 4, report.Total)
	require.Len(t, report.Destinations, 2)

	top := report.Destinations[0]
	assert.EqualValues(t, 3, top.Count)
	assert.Equal(t, models.DestinationTypeRoom, top.DestinationType)
	assert.Equal(t, "Library", top.BuildingName)
	assert.Equal(t, "Reading Hall", top.RoomName)

	second := report.Destinations[1]
	assert.Equal(t, models.DestinationTypeBuilding, second.DestinationType)
	assert.Empty(t, second.RoomName)
}

func TestFrequentDestinationsUnknownTimeframeDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDestinationLogService(db, testConfig())

	report, err := svc.GetFrequentDestinations("forever")
	require.NoError(t, err)
	assert.Equal(t, "month", report.Timeframe)
	assert.EqualValues(t, 0, report.Total)
	assert.Empty(t, report.Destinations)
}
