package timezone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBack(t *testing.T) {
	assert.Equal(t, "UTC", Location("").String())
	assert.Equal(t, "UTC", Location("Mars/Olympus").String())
	assert.Equal(t, "Europe/Berlin", Location("Europe/Berlin").String())
}

func TestClockUsesLocation(t *testing.T) {
	now := Clock("Asia/Tokyo")()
	assert.Equal(t, "Asia/Tokyo", now.Location().String())
}
