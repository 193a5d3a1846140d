package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimestampDropsSubseconds(t *testing.T) {
	at := time.Date(2025, time.January, 15, 12, 30, 45, 999, time.UTC)
	assert.Equal(t, "2025-01-15 12:30:45", FormatTimestamp(at))
}

func TestTimestampsSortLexically(t *testing.T) {
	earlier := FormatTimestamp(time.Date(2025, time.September, 30, 18, 0, 0, 0, time.UTC))
	later := FormatTimestamp(time.Date(2025, time.October, 1, 6, 0, 0, 0, time.UTC))
	assert.Less(t, earlier, later)
}

func TestRoomActivityCounts(t *testing.T) {
	r := RoomActivity{LivingRoom: 1, Kitchen: 2, Bedroom: 3, Bathroom: 4, Laundry: 0}
	assert.Equal(t, [5]int{1, 2, 3, 4, 0}, r.Counts())
	assert.Equal(t, "laundry", RoomNames[4])
}
