// Package forms defines the explicit input schema of every create and edit
// endpoint. Forms are decoded from url.Values and validated with
// go-playground/validator before any record is built.
package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"fyyur/internal/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("usstate", func(fl validator.FieldLevel) bool {
		_, ok := stateSet[fl.Field().String()]
		return ok
	})
	return v
}

// Field describes one form input for clients rendering the form.
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Choices  []string `json:"choices,omitempty"`
}

// Page is the document served for GET create and edit routes.
type Page struct {
	Fields []Field     `json:"fields"`
	Values interface{} `json:"values,omitempty"`
}

func NewPage(form interface{}, values interface{}) Page {
	return Page{Fields: Schema(form), Values: values}
}

// Schema lists the fields of a form struct in declaration order.
func Schema(form interface{}) []Field {
	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := sf.Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}
		rules := sf.Tag.Get("validate")

		f := Field{
			Name:     name,
			Label:    sf.Tag.Get("label"),
			Type:     inputType(sf, rules),
			Required: hasRule(rules, "required"),
		}
		switch {
		case hasRule(rules, "usstate"):
			f.Choices = States
		case sf.Tag.Get("choices") == "genres":
			// suggestions only, any genre is accepted
			f.Choices = Genres
		}
		fields = append(fields, f)
	}
	return fields
}

func inputType(sf reflect.StructField, rules string) string {
	if t := sf.Tag.Get("input"); t != "" {
		return t
	}
	switch {
	case sf.Type.Kind() == reflect.Bool:
		return "checkbox"
	case sf.Type.Kind() == reflect.Slice:
		return "select-multiple"
	case hasRule(rules, "usstate"):
		return "select"
	case hasRule(rules, "url"):
		return "url"
	default:
		return "text"
	}
}

func hasRule(rules, name string) bool {
	for _, r := range strings.Split(rules, ",") {
		if r == name {
			return true
		}
	}
	return false
}

// check runs the struct validator and converts failures into an
// apperrors.ValidationError keyed by form field name.
func check(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		// dive errors are reported as field[0]
		if i := strings.IndexByte(name, '['); i > 0 {
			name = name[:i]
		}
		if _, seen := fields[name]; !seen {
			fields[name] = message(fe)
		}
	}
	return apperrors.NewValidationError(fields)
}

// checkGenresLength guards the width of the stored genres column.
func checkGenresLength(genres []string, max int) error {
	if len(JoinGenres(genres)) > max {
		return apperrors.NewValidationError(map[string]string{
			"genres": fmt.Sprintf("must not exceed %d characters in total", max),
		})
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	case "usstate":
		return "must be a US state code"
	case "number":
		return "must be a number"
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

func get(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

// getBool treats the WTForms checkbox value "y" and the usual truthy
// spellings as true.
func getBool(values url.Values, key string) bool {
	switch strings.ToLower(get(values, key)) {
	case "y", "yes", "on", "true", "1":
		return true
	default:
		return false
	}
}

// getList accepts repeated keys as well as a single comma separated value.
func getList(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		out = append(out, SplitGenres(raw)...)
	}
	return out
}

// JoinGenres is the stored representation of a genre list.
func JoinGenres(genres []string) string {
	return strings.Join(genres, ",")
}

// GenreList is SplitGenres for presentation: never nil.
func GenreList(s string) []string {
	if genres := SplitGenres(s); genres != nil {
		return genres
	}
	return []string{}
}

func SplitGenres(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
