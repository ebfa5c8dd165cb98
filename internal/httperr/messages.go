package httperr

var messages = map[string]string{
	"invalid_service":         "Unknown service.",
	"invalid_time_slot":       "Unknown time slot.",
	"invalid_date":            "Invalid date.",
	"invalid_status":          "Unknown appointment status.",
	"invalid_status_change":   "Appointment status cannot change that way.",
	"date_too_soon":           "You can only book appointments for tomorrow or later.",
	"slot_unavailable":        "This time slot is already booked.",
	"slot_conflict":           "This time slot was just booked by someone else.",
	"appointment_not_pending": "You can only edit pending appointments.",
	"appointment_not_owned":   "You can only manage your own appointments.",
	"appointment_not_found":   "Appointment not found.",
	"invalid_confirmation":    "Confirmation token is missing, expired or already used.",
	"product_not_found":       "Product not found.",
	"product_not_owned":       "You can only manage your own products.",
	"invalid_product":         "Product name is required and price cannot be negative.",
	"user_not_found":          "User not found.",
	"email_taken":             "Email is already registered.",
	"invalid_email":           "Invalid email address.",
	"password_too_short":      "Password must be at least 6 characters long.",
	"invalid_user_status":     "Status must be active or inactive.",
	"invalid_roles":           "Unknown role.",
	"user_owns_products":      "An account cannot delete itself while it still owns products.",
	"activity_log_not_found":  "Activity log entry not found.",
	"forbidden":               "You are not allowed to do that.",
	"invalid_credentials":     "Invalid credentials.",
	"account_inactive":        "Account is inactive.",
	"unauthorized":            "Authentication required.",
	"too_many_requests":       "Too many attempts, try again later.",
}

func MessageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}
