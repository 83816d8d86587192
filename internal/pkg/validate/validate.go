package validate

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// intlPhoneRe matches international numbers: a leading +, then 9 to 15
// digits with no leading zero.
var intlPhoneRe = regexp.MustCompile(`^\+[1-9][0-9]{8,14}$`)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Violations.
var v = validator.New()

func init() {
	_ = v.RegisterValidation("intlphone", func(fl validator.FieldLevel) bool {
		return intlPhoneRe.MatchString(fl.Field().String())
	})
}

// Violations validates the struct and returns one human-readable message
// per failed field, in declaration order. Nil means the struct is valid.
func Violations(s interface{}) []string {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

// fieldMessage renders a violation the way API clients expect it,
// e.g. "Body is too long (maximum is 1600 characters)".
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	if field == "UserID" {
		field = "User"
	}
	switch fe.Tag() {
	case "required":
		return field + " can't be blank"
	case "max":
		return fmt.Sprintf("%s is too long (maximum is %s characters)", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s is too short (minimum is %s characters)", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "intlphone":
		return field + " must be a valid phone number"
	}
	return fmt.Sprintf("%s failed '%s' validation", field, fe.Tag())
}
