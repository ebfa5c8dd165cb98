package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestAppointmentDateIsCalendarDay(t *testing.T) {
	ap := models.Appointment{
		ID:              3,
		Service:         "Braces",
		AppointmentDate: time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "8-9 am",
		Status:          "pending",
	}

	b, err := json.Marshal(Appointments([]models.Appointment{ap}))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"appointment_date":"2030-01-10"`)
	assert.Contains(t, string(b), `"user_id":null`)
}
