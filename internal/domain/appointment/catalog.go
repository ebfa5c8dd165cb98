package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

var services = []string{
	"Braces",
	"Tooth Extraction",
	"Dental Filling",
	"Dental Cleaning",
	"Root Canal Treatment",
	"Dental Implants",
}

var timeSlots = []string{
	"8-9 am",
	"10-11 am",
	"1-2 pm",
	"4-5 pm",
	"7-8 pm",
}

func Services() []string {
	return append([]string(nil), services...)
}

func TimeSlots() []string {
	return append([]string(nil), timeSlots...)
}

func IsService(s string) bool  { return contains(services, s) }
func IsTimeSlot(s string) bool { return contains(timeSlots, s) }

// SlotIndex orders slots through the day; -1 when unknown.
func SlotIndex(s string) int {
	for i, v := range timeSlots {
		if v == s {
			return i
		}
	}
	return -1
}

func ValidateService(s string) error {
	if !IsService(s) {
		return httperr.ErrBusiness("invalid_service")
	}
	return nil
}

func ValidateTimeSlot(s string) error {
	if !IsTimeSlot(s) {
		return httperr.ErrBusiness("invalid_time_slot")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
