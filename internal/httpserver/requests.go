package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type reasonRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type scaleRequest struct {
	Replicas *int   `json:"replicas" validate:"required,min=0,max=1000"`
	Reason   string `json:"reason" validate:"required,max=500"`
}

type bulkRequest struct {
	Namespace string `json:"namespace" validate:"omitempty,max=63"`
	Query     string `json:"query" validate:"max=253"`
	Reason    string `json:"reason" validate:"required,max=500"`
}

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// decode reads a JSON body into dst and validates it. An empty body decodes as
// the zero value so missing fields surface as validation errors.
func decode(v *validator.Validate, r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	if err := v.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate request: %w", err)
		}

		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fe.Tag()
		}

		return &ValidationError{Fields: fields}
	}

	return nil
}
