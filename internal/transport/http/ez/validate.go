package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"songly/internal/core/apperr"
)

var tagNameOnce sync.Once

// fieldNames makes validator errors report json/form names instead of Go names.
func fieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

// DecodeJSON reads a closed JSON object into obj and validates it.
// Unknown keys, wrong types and failed rules all become one BadRequest.
func DecodeJSON(r io.Reader, obj any) error {
	fieldNames()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return apperr.BadRequest(decodeMessage(err))
	}
	if dec.More() {
		return apperr.BadRequest("instance must be a single JSON object")
	}
	return validate(obj)
}

// DecodeQuery rejects keys obj does not declare, then binds (with type
// coercion) and validates. Coercion always happens before validation.
func DecodeQuery(c *gin.Context, obj any) error {
	fieldNames()

	allowed := formKeys(reflect.TypeOf(obj))
	var unknown []string
	for key := range c.Request.URL.Query() {
		if _, ok := allowed[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		msgs := make([]string, 0, len(unknown))
		for _, k := range unknown {
			msgs = append(msgs, fmt.Sprintf("instance is not allowed to have the additional property %q", k))
		}
		return apperr.BadRequest(msgs...)
	}

	if err := binding.MapFormWithTag(obj, c.Request.URL.Query(), "form"); err != nil {
		return apperr.BadRequest(decodeMessage(err))
	}
	return validate(obj)
}

func validate(obj any) error {
	err := binding.Validator.ValidateStruct(obj)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return apperr.BadRequest(err.Error())
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, ruleMessage(fe))
	}
	return apperr.BadRequest(msgs...)
}

func ruleMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("instance requires property %q", f)
	case "min":
		return fmt.Sprintf("instance.%s does not meet minimum length of %s", f, fe.Param())
	case "max":
		return fmt.Sprintf("instance.%s does not meet maximum length of %s", f, fe.Param())
	case "url":
		return fmt.Sprintf("instance.%s does not conform to the \"uri\" format", f)
	case "email":
		return fmt.Sprintf("instance.%s does not conform to the \"email\" format", f)
	}
	return fmt.Sprintf("instance.%s failed on the %q rule", f, fe.Tag())
}

func decodeMessage(err error) string {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		numErr    *strconv.NumError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return "instance must be a JSON object"
	case errors.As(err, &maxErr):
		return "request body too large"
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return "instance is not of a type(s) object"
		}
		return fmt.Sprintf("instance.%s is not of a type(s) %s", typeErr.Field, jsonType(typeErr.Type))
	case errors.As(err, &syntaxErr):
		return "instance is not valid JSON"
	case errors.As(err, &numErr):
		return fmt.Sprintf("instance value %q is not a number", numErr.Num)
	}
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return "instance is not allowed to have the additional property " + name
	}
	return err.Error()
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return "object"
}

func formKeys(t reflect.Type) map[string]struct{} {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	keys := map[string]struct{}{}
	if t.Kind() != reflect.Struct {
		return keys
	}
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("form"), ",", 2)[0]
		if name != "" && name != "-" {
			keys[name] = struct{}{}
		}
	}
	return keys
}
