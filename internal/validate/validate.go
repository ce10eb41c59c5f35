// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package validate checks the shape of registration and login input against
// JSON Schemas generated from the form structs.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Form names, used as schema resource names and in error messages.
const (
	FormRegistration = "registration"
	FormLogin        = "login"
)

// MaxPasswordBytes is the longest password bcrypt accepts. The schema limits
// characters, so a short password of multibyte runes can still exceed it.
const MaxPasswordBytes = 72

// RegistrationForm is the input to account creation.
type RegistrationForm struct {
	Username    string `json:"username" jsonschema:"format=email"`
	DisplayName string `json:"name" jsonschema:"minLength=1,maxLength=20,pattern=^[a-zA-Z0-9]+$"`
	Password    string `json:"password" jsonschema:"minLength=1,maxLength=20"`
}

// LoginForm is the input to login. Only the username shape is checked; the
// password is compared against the stored hash as-is.
type LoginForm struct {
	Username string `json:"username" jsonschema:"minLength=1,maxLength=20"`
	Password string `json:"-"`
}

// FieldError describes one failed rule.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error is returned when input does not match its schema.
type Error struct {
	Form   string       `json:"form"`
	Fields []FieldError `json:"fields"`
}

// Error implements error.
func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return fmt.Sprintf("invalid %s input: %s", e.Form, strings.Join(parts, "; "))
}

// Has reports whether field failed validation.
func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

var (
	schemasOnce sync.Once
	schemas     map[string]*jschema.Schema
	schemasErr  error

	printer = message.NewPrinter(language.English)
)

// Registration validates account creation input.
func Registration(form RegistrationForm) error {
	err := check(FormRegistration, instance(map[string]string{
		"username": form.Username,
		"name":     form.DisplayName,
		"password": form.Password,
	}))
	if len(form.Password) > MaxPasswordBytes {
		return addField(FormRegistration, err, FieldError{
			Field:  "password",
			Reason: printer.Sprintf("longer than %d bytes", MaxPasswordBytes),
		})
	}
	return err
}

// Login validates login input.
func Login(form LoginForm) error {
	return check(FormLogin, instance(map[string]string{
		"username": form.Username,
	}))
}

// GenerateSchema returns the JSON Schema document for the named form.
func GenerateSchema(form string) ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}

	var schema *jsonschema.Schema
	switch form {
	case FormRegistration:
		schema = r.Reflect(&RegistrationForm{})
	case FormLogin:
		schema = r.Reflect(&LoginForm{})
	default:
		return nil, oops.Code("VALIDATE_UNKNOWN_FORM").With("form", form).Errorf("unknown form %q", form)
	}
	schema.Title = form

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("VALIDATE_SCHEMA_MARSHAL_FAILED").With("form", form).Wrap(err)
	}
	return data, nil
}

// addField merges fe into a validation failure. Errors that are not
// validation failures pass through unchanged.
func addField(form string, err error, fe FieldError) error {
	if err == nil {
		return &Error{Form: form, Fields: []FieldError{fe}}
	}
	var verr *Error
	if !errors.As(err, &verr) {
		return err
	}
	if !verr.Has(fe.Field) {
		verr.Fields = append(verr.Fields, fe)
	}
	return verr
}

// instance builds the document to validate. Empty values are left out so that
// they fail "required" rather than a length or format rule.
func instance(fields map[string]string) map[string]any {
	doc := make(map[string]any, len(fields))
	for k, v := range fields {
		if v != "" {
			doc[k] = v
		}
	}
	return doc
}

func check(form string, doc map[string]any) error {
	sch, err := compiled(form)
	if err != nil {
		return err
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jschema.ValidationError
	if !errors.As(err, &ve) {
		return oops.Code("VALIDATE_FAILED").With("form", form).Wrap(err)
	}

	fields := collect(ve, nil)
	if len(fields) == 0 {
		fields = []FieldError{{Field: "", Reason: ve.ErrorKind.LocalizedString(printer)}}
	}
	return &Error{Form: form, Fields: fields}
}

// collect flattens the leaves of a validation error tree into field errors.
func collect(ve *jschema.ValidationError, out []FieldError) []FieldError {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			out = collect(c, out)
		}
		return out
	}

	if req, ok := ve.ErrorKind.(*kind.Required); ok {
		for _, name := range req.Missing {
			out = append(out, FieldError{Field: name, Reason: "is required"})
		}
		return out
	}

	return append(out, FieldError{
		Field:  strings.Join(ve.InstanceLocation, "/"),
		Reason: ve.ErrorKind.LocalizedString(printer),
	})
}

// compiled returns the cached compiled schema for form.
func compiled(form string) (*jschema.Schema, error) {
	schemasOnce.Do(func() {
		schemas, schemasErr = compileAll()
	})
	if schemasErr != nil {
		return nil, schemasErr
	}
	sch, ok := schemas[form]
	if !ok {
		return nil, oops.Code("VALIDATE_UNKNOWN_FORM").With("form", form).Errorf("unknown form %q", form)
	}
	return sch, nil
}

func compileAll() (map[string]*jschema.Schema, error) {
	c := jschema.NewCompiler()
	c.AssertFormat()
	c.RegisterFormat(&jschema.Format{Name: "email", Validate: validateEmail})

	out := make(map[string]*jschema.Schema, 2)
	for _, form := range []string{FormRegistration, FormLogin} {
		data, err := GenerateSchema(form)
		if err != nil {
			return nil, err
		}

		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, oops.Code("VALIDATE_SCHEMA_PARSE_FAILED").With("form", form).Wrap(err)
		}

		url := form + ".json"
		if err := c.AddResource(url, doc); err != nil {
			return nil, oops.Code("VALIDATE_SCHEMA_ADD_FAILED").With("form", form).Wrap(err)
		}

		sch, err := c.Compile(url)
		if err != nil {
			return nil, oops.Code("VALIDATE_SCHEMA_COMPILE_FAILED").With("form", form).Wrap(err)
		}
		out[form] = sch
	}
	return out, nil
}
