package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/jobdesk/backend/internal/models"
	"github.com/example/jobdesk/backend/internal/richtext"
)

// CreateInput is what a requester submits on the job request form.
type CreateInput struct {
	RequestedBy      string          `json:"requestedBy" validate:"required"`
	Email            string          `json:"email" validate:"required,email"`
	Department       string          `json:"department" validate:"required"`
	HODEmail         string          `json:"hodEmail" validate:"required,email"`
	RequestedDate    string          `json:"requestedDate" validate:"omitempty,datetime=2006-01-02"`
	DueDate          string          `json:"dueDate" validate:"required,datetime=2006-01-02"`
	JobPurpose       string          `json:"jobPurpose"`
	Category         models.Category `json:"category" validate:"required,category"`
	Subtypes         []string        `json:"subtypes"`
	Description      string          `json:"description"`
	DescriptionPlain string          `json:"descriptionPlain"`
	References       string          `json:"references"`
}

func (in *CreateInput) normalize() {
	in.RequestedBy = strings.TrimSpace(in.RequestedBy)
	in.Email = strings.TrimSpace(in.Email)
	in.Department = strings.TrimSpace(in.Department)
	in.HODEmail = strings.TrimSpace(in.HODEmail)
	in.RequestedDate = strings.TrimSpace(in.RequestedDate)
	in.DueDate = strings.TrimSpace(in.DueDate)
	in.JobPurpose = strings.TrimSpace(in.JobPurpose)
	in.References = strings.TrimSpace(in.References)

	subtypes := make([]string, 0, len(in.Subtypes))
	seen := make(map[string]bool, len(in.Subtypes))
	for _, s := range in.Subtypes {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		subtypes = append(subtypes, s)
	}
	in.Subtypes = subtypes
}

// plainDescription prefers the editor's own plain text and falls back to
// stripping the HTML.
func (in *CreateInput) plainDescription() string {
	if plain := strings.Join(strings.Fields(in.DescriptionPlain), " "); plain != "" {
		return plain
	}
	return richtext.PlainText(in.Description)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	if err != nil {
		panic(err)
	}
	return v
}

var fieldReasons = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"datetime": "must be a date in YYYY-MM-DD form",
	"category": "must be one of printed, digital, website, event, video, other",
}

// validateCreate returns the plain-text description on success.
func (s *RequestService) validateCreate(in *CreateInput) (string, error) {
	fields := map[string]string{}
	if err := s.validate.Struct(in); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return "", err
		}
		for _, fe := range verrs {
			reason, ok := fieldReasons[fe.Tag()]
			if !ok {
				reason = "is invalid"
			}
			fields[fe.Field()] = reason
		}
	}
	if strings.TrimSpace(in.DescriptionPlain) == "" && richtext.IsBlank(in.Description) {
		fields["description"] = "must not be empty"
	}
	if len(fields) > 0 {
		return "", &ValidationError{Fields: fields}
	}
	return in.plainDescription(), nil
}
