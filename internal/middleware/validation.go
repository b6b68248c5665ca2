package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/songrec/internal/model"
)

// Error codes used in the API error envelope.
const (
	CodeInvalidBody = "INVALID_BODY"
	CodeInvalidID   = "INVALID_ID"
	CodeInvalidArg  = "INVALID_ARGUMENT"
	CodeNotFound    = "NOT_FOUND"
	CodeConflict    = "CONFLICT"
	CodeInternal    = "INTERNAL_ERROR"
)

// MaxNameLen bounds recommendation names, in characters.
const MaxNameLen = 200

// youtubeLinkRe accepts youtube.com and youtu.be URLs with something after the host.
var youtubeLinkRe = regexp.MustCompile(`^(https?://)?(www\.|m\.|music\.)?(youtube\.com|youtu\.be)/\S+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the "youtube" and "trimmed"
// tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			return jsonName(f.Tag.Get("json"), f.Name)
		})
		if err := validate.RegisterValidation("youtube", func(fl validator.FieldLevel) bool {
			return IsYoutubeLink(fl.Field().String())
		}); err != nil {
			panic(err)
		}
		if err := validate.RegisterValidation("trimmed", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == strings.TrimSpace(s)
		}); err != nil {
			panic(err)
		}
	})
	return validate
}

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// IsYoutubeLink reports whether link points at youtube.com or youtu.be.
func IsYoutubeLink(link string) bool {
	return youtubeLinkRe.MatchString(link)
}

// ValidateRecommendation returns an empty string when req is acceptable,
// otherwise a message naming the first bad field. Names are stored exactly as
// submitted, so padded values are rejected rather than trimmed.
func ValidateRecommendation(req model.RecommendationRequest) string {
	if utf8.RuneCountInString(req.Name) > MaxNameLen {
		return fmt.Sprintf("name must be at most %d characters", MaxNameLen)
	}

	err := Validator().Struct(req)
	if err == nil {
		return ""
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request body"
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "trimmed":
		return fe.Field() + " must not begin or end with whitespace"
	case "youtube":
		return fe.Field() + " must be a youtube.com or youtu.be link"
	default:
		return fe.Field() + " is invalid"
	}
}

// ParseID parses a positive record id from a path parameter.
func ParseID(raw string) (int64, string) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, "id must be a positive integer"
	}
	return id, ""
}

// ParseAmount parses the top-N amount. Zero and negative values are accepted
// and yield an empty list downstream.
func ParseAmount(raw string) (int, string) {
	amount, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, "amount must be an integer"
	}
	return amount, ""
}

func jsonName(tag, fallback string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return fallback
	}
	return name
}

// ErrorHandler renders errors that escape the handler chain, including
// unmatched routes and recovered panics, in the standard envelope.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = CodeInvalidBody
		}
		return ErrorResponse(c, fe.Code, code, fe.Message)
	}

	Logger.Error().Err(err).
		Str("request_id", RequestID(c)).
		Str("path", sanitizePath(c.Path())).
		Msg("unhandled error")
	return ErrorResponse(c, fiber.StatusInternalServerError, CodeInternal, "Internal server error")
}
