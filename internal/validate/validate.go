// Package validate turns raw request payloads into sanitized values or
// an ordered list of field errors. All rules are evaluated exhaustively
// so the caller sees every violation at once.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/model"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// json tag names in error paths, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})

	// enddate is resolved at struct level; the tag itself always passes
	// so single-field rules still run.
	_ = v.RegisterValidation("enddate", func(fl validator.FieldLevel) bool {
		return true
	})
	v.RegisterStructValidation(challengeDates, model.ChallengeRequest{})

	return &Validator{v: v}
}

// Struct trims string fields in place, then evaluates every rule and
// returns a ValidationFailed error carrying one FieldError per violated
// rule, in declaration order. Dst must be a pointer to a struct.
func (va *Validator) Struct(dst any) error {
	trimStrings(reflect.ValueOf(dst))

	err := va.v.Struct(dst)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Wrap(err, "validator")
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
			Value:   fe.Value(),
		})
	}
	return apperr.Validation(fields)
}

// challengeDates enforces the cross-field rule: end date must not
// precede the start date. Individual datetime rules have already
// flagged unparseable values, so parse failures are skipped here.
func challengeDates(sl validator.StructLevel) {
	req := sl.Current().Interface().(model.ChallengeRequest)
	start, err1 := time.Parse("2006-01-02", req.StartDate)
	end, err2 := time.Parse("2006-01-02", req.EndDate)
	if err1 != nil || err2 != nil {
		return
	}
	if end.Before(start) {
		sl.ReportError(req.EndDate, "endDate", "EndDate", "enddate", "")
	}
}

// fieldPath strips the leading struct name from the validator
// namespace, yielding paths like "tags[0]" or "endDate".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "username":
		return "must be 3-30 characters, letters, digits and underscore only"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "uuid4":
		return "must be a valid id"
	case "enddate":
		return "must not be before start date"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// trimStrings walks the struct and trims leading/trailing whitespace on
// string fields before any length rule runs.
func trimStrings(v reflect.Value) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Pointer:
			if !f.IsNil() && f.Elem().Kind() == reflect.String {
				f.Elem().SetString(strings.TrimSpace(f.Elem().String()))
			}
		case reflect.Slice:
			if f.Type().Elem().Kind() == reflect.String {
				for j := 0; j < f.Len(); j++ {
					f.Index(j).SetString(strings.TrimSpace(f.Index(j).String()))
				}
			}
		case reflect.Struct:
			trimStrings(f.Addr())
		}
	}
}
