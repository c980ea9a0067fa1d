// Package validation holds request input shapes and the pure validators run
// against them before any mutation. Validators return nil or a
// *common.FieldError of kind common.ErrorValidation whose Fields map is sent
// to the client as is.
package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/devconnector/internal/common"
	"github.com/dmitrijs2005/devconnector/internal/optional"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrInvalidDate is returned by ParseDate for unparseable input.
var ErrInvalidDate = errors.New("invalid date")

// collector accumulates the first message reported per field.
type collector map[string]string

func (c collector) add(field, msg string) {
	if _, ok := c[field]; !ok {
		c[field] = msg
	}
}

// check runs a validator tag against value and records msg on failure.
func (c collector) check(field string, value any, tag, msg string) {
	if err := validate.Var(value, tag); err != nil {
		c.add(field, msg)
	}
}

func (c collector) required(field, value, msg string) bool {
	if isEmpty(value) {
		c.add(field, msg)
		return false
	}
	return true
}

func (c collector) err() error {
	if len(c) == 0 {
		return nil
	}
	return &common.FieldError{Kind: common.ErrorValidation, Fields: map[string]string(c)}
}

func isEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Register validates a registration body. Password2 is optional but must
// match Password when supplied.
func Register(in RegisterInput) error {
	errs := collector{}

	if errs.required("name", in.Name, "Name field is required") {
		errs.check("name", strings.TrimSpace(in.Name), "min=2,max=30", "Name must be between 2 and 30 characters")
	}
	if errs.required("email", in.Email, "Email field is required") {
		errs.check("email", strings.TrimSpace(in.Email), "email", "Email is invalid")
	}
	if errs.required("password", in.Password, "Password field is required") {
		errs.check("password", in.Password, "min=6,max=30", "Password must be between 6 and 30 characters")
	}
	if in.Password2 != "" && in.Password2 != in.Password {
		errs.add("password2", "Passwords must match")
	}

	return errs.err()
}

// Login validates a login body.
func Login(in LoginInput) error {
	errs := collector{}

	if errs.required("email", in.Email, "Email field is required.") {
		errs.check("email", strings.TrimSpace(in.Email), "email", "Email is invalid")
	}
	errs.required("password", in.Password, "Password field is required.")

	return errs.err()
}

// Profile validates the fields present in a partial profile. When creating,
// handle and status must be present as well.
func Profile(in ProfileInput, creating bool) error {
	errs := collector{}

	checkRequiredString(errs, "handle", in.Handle, creating, "Profile handle is required")
	if h, ok := in.Handle.Get(); ok && !isEmpty(h) {
		h = strings.TrimSpace(h)
		errs.check("handle", h, "min=2,max=40", "Handle needs to be between 2 and 40 characters")
		if strings.ContainsAny(h, " /?#") {
			errs.add("handle", "Handle must not contain spaces or slashes")
		}
	}
	checkRequiredString(errs, "status", in.Status, creating, "Status field is required")

	for _, f := range []struct {
		name  string
		value optional.Value[string]
	}{
		{"website", in.Website},
		{"youtube", in.YouTube},
		{"twitter", in.Twitter},
		{"facebook", in.Facebook},
		{"linkedin", in.LinkedIn},
		{"instagram", in.Instagram},
	} {
		if v, ok := f.value.Get(); ok && !isEmpty(v) {
			errs.check(f.name, strings.TrimSpace(v), "url", "Not a valid URL")
		}
	}

	return errs.err()
}

func checkRequiredString(errs collector, field string, v optional.Value[string], creating bool, msg string) {
	s, ok := v.Get()
	if !ok {
		if creating {
			errs.add(field, msg)
		}
		return
	}
	errs.required(field, s, msg)
}

// Experience validates an add-experience body.
func Experience(in ExperienceInput) error {
	errs := collector{}

	errs.required("title", in.Title, "Job title field is required")
	errs.required("company", in.Company, "Company field is required")
	checkDates(errs, in.From, in.To)

	return errs.err()
}

// Education validates an add-education body.
func Education(in EducationInput) error {
	errs := collector{}

	errs.required("school", in.School, "School field is required")
	errs.required("degree", in.Degree, "Degree field is required")
	errs.required("fieldofstudy", in.FieldOfStudy, "Field of study field is required")
	checkDates(errs, in.From, in.To)

	return errs.err()
}

func checkDates(errs collector, from, to string) {
	var start time.Time
	if errs.required("from", from, "From date field is required") {
		t, err := ParseDate(from)
		if err != nil {
			errs.add("from", "From date is invalid")
		}
		start = t
	}

	if isEmpty(to) {
		return
	}
	end, err := ParseDate(to)
	if err != nil {
		errs.add("to", "To date is invalid")
		return
	}
	if !start.IsZero() && end.Before(start) {
		errs.add("to", "To date must not be before from date")
	}
}

// Post validates the text of a post or comment.
func Post(in PostInput) error {
	errs := collector{}

	if errs.required("text", in.Text, "Text field is required") {
		errs.check("text", strings.TrimSpace(in.Text), "min=10,max=280", "Post must be between 10 and 280 characters")
	}

	return errs.err()
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}
