package validators

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

// RegisterBindings adds the clinic tags to gin's validator:
// clinic_service, time_slot and role.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("clinic_service", func(fl validator.FieldLevel) bool {
		return appointment.IsService(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("time_slot", func(fl validator.FieldLevel) bool {
		return appointment.IsTimeSlot(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := access.ParseRole(fl.Field().String())
		return ok
	})
}
