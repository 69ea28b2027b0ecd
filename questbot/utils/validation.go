package utils

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("xpstep", func(fl validator.FieldLevel) bool {
			step, err := strconv.Atoi(fl.Param())
			if err != nil || step <= 0 {
				return false
			}
			return fl.Field().Int()%int64(step) == 0
		})
	})
	return validate
}

// ValidateXPAmount checks an admin XP edit. Amounts for /addxp and /removexp
// must be positive; /setxp also accepts zero.
func ValidateXPAmount(amount, step int, allowZero bool) error {
	lower := "min=1"
	if allowZero {
		lower = "min=0"
	}
	err := validatorInstance().Var(amount, fmt.Sprintf("%s,xpstep=%d", lower, step))
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "xpstep":
			return fmt.Errorf("XP amount must be a multiple of %d", step)
		case "min":
			if allowZero {
				return errors.New("XP cannot be negative")
			}
			return errors.New("XP amount must be positive")
		}
	}
	return err
}
