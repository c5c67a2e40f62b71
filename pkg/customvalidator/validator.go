package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations wires the domain-specific rules into the shared
// validator instance.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("serial", isSerialNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("maintenance_kind", isMaintenanceKind); err != nil {
		return err
	}
	if err := v.RegisterValidation("fault_category", isFaultCategory); err != nil {
		return err
	}
	if err := v.RegisterValidation("priority_level", isPriorityLevel); err != nil {
		return err
	}
	if err := v.RegisterValidation("impact_level", isImpactLevel); err != nil {
		return err
	}
	return nil
}

// Serial numbers: uppercase alphanumerics plus dash, 3..64 chars. The serial
// is the immutable natural key of an equipment unit, so it is validated at
// the edge rather than deep in the service.
var serialRe = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,63}$`)

func isSerialNumber(fl validator.FieldLevel) bool {
	return serialRe.MatchString(fl.Field().String())
}

func isMaintenanceKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "PREVENTIVO", "CORRECTIVO", "URGENTE":
		return true
	}
	return false
}

func isFaultCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "HARDWARE", "SOFTWARE", "CONECTIVIDAD", "SUMINISTROS", "MECANICA", "ELECTRICA", "OTRA":
		return true
	}
	return false
}

func isPriorityLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BAJA", "NORMAL", "ALTA", "CRITICA":
		return true
	}
	return false
}

func isImpactLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BAJO", "MEDIO", "ALTO", "CRITICO":
		return true
	}
	return false
}
