package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomIntnStaysInRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := randomIntn(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
}

func TestGenerateRoomKeyFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^room_\d+_[a-z0-9]{6}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, GenerateRoomKey())
	}
}

func TestGenerateSessionIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^session_\d+_[a-z0-9]{8}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, pattern, GenerateSessionID())
	}
}
