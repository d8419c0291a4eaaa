package validate

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// drawingNumberPattern / machinePositionPattern are the exact regular
// expressions spec.md §3.2 assigns to Drawing.drawing_number and
// MachineTemplate.position.
var (
	drawingNumberPattern   = regexp.MustCompile(`^([A-Z]{1,2}[0-9]{2}[A-Z]?|M[0-9]{3,}[A-Z]?)$`)
	machinePositionPattern = regexp.MustCompile(`(^$)|(^[0-9]+(-[0-9]+)?$)|(^AL{2}$)`)
)

func init() {
	v := get()
	_ = v.RegisterValidation("drawingnumber", func(fl validator.FieldLevel) bool {
		return drawingNumberPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("machineposition", func(fl validator.FieldLevel) bool {
		return machinePositionPattern.MatchString(fl.Field().String())
	})
}
