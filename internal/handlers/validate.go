package handlers

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validation limits for text fields.
const (
	maxNameLen        = 200
	maxTitleLen       = 300
	maxContentLen     = 100_000
	maxExcerptLen     = 1_000
	maxDescriptionLen = 1_000
	maxStatusLen      = 50
	maxBannerFieldLen = 2_000
)

// maxReadTime bounds read_time, in minutes.
const maxReadTime = 1_440

// validate is shared by all handlers; *validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their human label.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank: %v", err))
	}
	return v
}

// requiredMessages overrides the default message for missing fields.
var requiredMessages = map[string]string{
	"Category": "Category must be selected",
}

// validationMessage turns the first validation failure into a message
// suitable for the client. It returns "" when err is nil.
func validationMessage(err error) string {
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		if msg, ok := requiredMessages[fe.Field()]; ok {
			return msg
		}
		return fe.Field() + " is required"
	case "notblank":
		return fe.Field() + " cannot be empty"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if isNumber(fe) {
			return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s is too long (max %s characters)", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// isNumber reports whether the failed field holds a number rather than text.
func isNumber(fe validator.FieldError) bool {
	k := fe.Kind()
	if k == reflect.Pointer && fe.Type() != nil {
		k = fe.Type().Elem().Kind()
	}
	return k >= reflect.Int && k <= reflect.Float64
}

// categoryInput is the validated form of a category create request.
type categoryInput struct {
	Name        string  `label:"Name" validate:"notblank,max=200"`
	Description *string `label:"Description" validate:"omitnil,max=1000"`
}

// categoryUpdateInput is the validated form of a category update request.
type categoryUpdateInput struct {
	Name        *string `label:"Name" validate:"omitnil,max=200"`
	Description *string `label:"Description" validate:"omitnil,max=1000"`
}

// postInput is the validated form of a post create request.
type postInput struct {
	Title    string  `label:"Title" validate:"notblank,max=300"`
	Content  string  `label:"Content" validate:"notblank,max=100000"`
	Category *int64  `label:"Category" validate:"required"`
	Status   string  `label:"Status" validate:"max=50"`
	Excerpt  *string `label:"Excerpt" validate:"omitnil,max=1000"`
	ReadTime *int64  `label:"read_time" validate:"omitnil,min=0,max=1440"`
}

// postUpdateInput is the validated form of a post update request. Nil
// fields were not sent.
type postUpdateInput struct {
	Title    *string `label:"Title" validate:"omitnil,notblank,max=300"`
	Content  *string `label:"Content" validate:"omitnil,notblank,max=100000"`
	Status   *string `label:"Status" validate:"omitnil,max=50"`
	Excerpt  *string `label:"Excerpt" validate:"omitnil,max=1000"`
	ReadTime *int64  `label:"read_time" validate:"omitnil,min=0,max=1440"`
}

// validateBannerValue checks a single banner field.
func validateBannerValue(field string, value *string) string {
	if value == nil {
		return ""
	}
	if err := validate.Var(*value, fmt.Sprintf("max=%d", maxBannerFieldLen)); err != nil {
		return fmt.Sprintf("%s is too long (max %d characters)", field, maxBannerFieldLen)
	}
	return ""
}
