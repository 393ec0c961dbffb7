package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Rrens/itinerary-planner/internal/api/response"
	"github.com/Rrens/itinerary-planner/internal/domain"
)

const maxBodyBytes = 1 << 20

var (
	validate = newValidator()

	iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

func newValidator() *validator.Validate {
	v := validator.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("iata", func(fl validator.FieldLevel) bool {
		return iataPattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(validateSearchRequest, domain.SearchRequest{})

	return v
}

// validateSearchRequest checks the rules that span more than one field
func validateSearchRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(domain.SearchRequest)

	if req.DepartureDate != "" && req.ReturnDate != "" {
		departure, errD := time.Parse(time.DateOnly, req.DepartureDate)
		ret, errR := time.Parse(time.DateOnly, req.ReturnDate)
		if errD == nil && errR == nil && ret.Before(departure) {
			sl.ReportError(req.ReturnDate, "returnDate", "ReturnDate", "gtedeparture", "")
		}
	}

	adults := req.Adults
	if adults == 0 {
		adults = domain.DefaultAdults
	}
	if req.Infants > adults {
		sl.ReportError(req.Infants, "infants", "Infants", "lteadults", "")
	}
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validation("request body is required")
		}
		return domain.Validation("invalid request body")
	}
	return nil
}

// bind decodes and validates a request body, writing the error response
// itself. It reports whether the handler should continue.
func bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		response.Fail(w, err)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			response.BadRequest(w, err.Error())
			return false
		}

		fields := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = fieldMessage(e)
		}
		response.Error(w, http.StatusBadRequest, response.ErrorBody{
			Kind:    domain.KindValidation,
			Message: summarize(fields),
			Fields:  fields,
		})
		return false
	}

	return true
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "iata":
		return "must be a 3-letter uppercase IATA code"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of " + e.Param()
	case "len", "alpha", "uppercase":
		return "must be 3 uppercase letters"
	case "gtedeparture":
		return "must not be before departureDate"
	case "lteadults":
		return "must not exceed the number of adults"
	default:
		return "validation failed on " + e.Tag()
	}
}

func summarize(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, fields[name]))
	}
	return strings.Join(parts, "; ")
}
