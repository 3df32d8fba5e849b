// Package validate checks struct fields against rules declared in a
// `validate` tag. Rules are comma-separated; parameterised rules use
// `name=param`.
//
// Rules:
//
//	required          non-zero value
//	nullable          empty value skips the remaining rules
//	email             well-formed email address
//	url               http(s) URL
//	boolean           bool kind, or "true"/"false"/"1"/"0"
//	numeric           parseable number
//	integer           parseable whole number
//	digits=N          exactly N decimal digits
//	min=N             numbers: value >= N, strings: rune length >= N
//	max=N             numbers: value <= N, strings: rune length <= N
//	size=N            string rune length == N
//	gt=N gte=N        numeric comparisons
//	lt=N lte=N
//	between=lo,hi     numeric value or string length within [lo,hi]
//	in=a,b,c          value equals one of the listed options
//	not_in=a,b,c      value equals none of the listed options
//	regex=pattern     value matches pattern
//
// Field names in messages come from the json tag, so validation errors
// line up with the request payload the caller sent:
//
//	type RegisterInput struct {
//	    UserName string `json:"userName" validate:"required,min=3,max=100"`
//	    Email    string `json:"email"    validate:"required,email"`
//	    Role     string `json:"role"     validate:"nullable,in=USER,ADMIN"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Struct runs every tagged rule on v (a struct or pointer to one) and
// returns jsonFieldName → first failing message. An empty map means the
// input is valid.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := fieldName(rt.Field(i))
		if msg := checkField(name, rv.Field(i), parseTag(tag)); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// HasErrors reports whether Struct found anything.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// rule is one parsed entry of a validate tag.
type rule struct {
	name  string
	param string
}

// checkField applies rules in declaration order and stops at the first
// failure, so the caller sees one message per field.
func checkField(name string, v reflect.Value, rules []rule) string {
	for _, r := range rules {
		if r.name == "nullable" {
			if isZero(v) {
				return ""
			}
			continue
		}
		if msg := check(r, name, v); msg != "" {
			return msg
		}
	}
	return ""
}

func check(r rule, name string, v reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())

	switch r.name {
	case "required":
		if isZero(v) {
			return fmt.Sprintf("The %s field is required.", name)
		}

	case "email":
		if !emailPattern.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", name)
		}

	case "url":
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Sprintf("The %s must be a valid URL.", name)
		}

	case "boolean":
		switch strings.ToLower(raw) {
		case "true", "false", "1", "0":
		default:
			if v.Kind() != reflect.Bool {
				return fmt.Sprintf("The %s field must be true or false.", name)
			}
		}

	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s field must be a number.", name)
		}

	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", name)
		}

	case "digits":
		if !digitPattern.MatchString(raw) || len(raw) != int(num(r.param)) {
			return fmt.Sprintf("The %s must be %s digits.", name, r.param)
		}

	case "min":
		if numeric(v) {
			if asFloat(v) < num(r.param) {
				return fmt.Sprintf("The %s must be at least %s.", name, r.param)
			}
		} else if runeLen(raw) < num(r.param) {
			return fmt.Sprintf("The %s must be at least %s characters.", name, r.param)
		}

	case "max":
		if numeric(v) {
			if asFloat(v) > num(r.param) {
				return fmt.Sprintf("The %s must not be greater than %s.", name, r.param)
			}
		} else if runeLen(raw) > num(r.param) {
			return fmt.Sprintf("The %s must not exceed %s characters.", name, r.param)
		}

	case "size":
		if runeLen(raw) != num(r.param) {
			return fmt.Sprintf("The %s must be exactly %s characters.", name, r.param)
		}

	case "gt":
		if asFloat(v) <= num(r.param) {
			return fmt.Sprintf("The %s must be greater than %s.", name, r.param)
		}
	case "gte":
		if asFloat(v) < num(r.param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", name, r.param)
		}
	case "lt":
		if asFloat(v) >= num(r.param) {
			return fmt.Sprintf("The %s must be less than %s.", name, r.param)
		}
	case "lte":
		if asFloat(v) > num(r.param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", name, r.param)
		}

	case "between":
		lo, hi, ok := strings.Cut(r.param, ",")
		if !ok {
			return ""
		}
		n := asFloat(v)
		if !numeric(v) {
			n = runeLen(raw)
		}
		if n < num(lo) || n > num(hi) {
			return fmt.Sprintf("The %s must be between %s and %s.", name, strings.TrimSpace(lo), strings.TrimSpace(hi))
		}

	case "in":
		for _, option := range strings.Split(r.param, ",") {
			if raw == strings.TrimSpace(option) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", name)

	case "not_in":
		for _, option := range strings.Split(r.param, ",") {
			if raw == strings.TrimSpace(option) {
				return fmt.Sprintf("The selected %s is invalid.", name)
			}
		}

	case "regex":
		re, err := regexp.Compile(r.param)
		if err != nil || !re.MatchString(raw) {
			return fmt.Sprintf("The %s format is invalid.", name)
		}
	}

	return ""
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitPattern = regexp.MustCompile(`^\d+$`)
)

// parseTag splits a validate tag on commas. Commas inside the params of
// in=, not_in= and between= belong to the param, so a segment that does
// not start a known rule is glued back onto the previous list rule.
func parseTag(tag string) []rule {
	var rules []rule
	for _, seg := range strings.Split(tag, ",") {
		if len(rules) > 0 && listRule(rules[len(rules)-1].name) && !knownRule(seg) {
			rules[len(rules)-1].param += "," + seg
			continue
		}
		name, param, _ := strings.Cut(seg, "=")
		rules = append(rules, rule{name: strings.TrimSpace(name), param: param})
	}
	return rules
}

func listRule(name string) bool {
	return name == "in" || name == "not_in" || name == "between"
}

var ruleNames = map[string]bool{
	"required": true, "nullable": true, "email": true, "url": true,
	"boolean": true, "numeric": true, "integer": true, "digits": true,
	"min": true, "max": true, "size": true,
	"gt": true, "gte": true, "lt": true, "lte": true,
	"between": true, "in": true, "not_in": true, "regex": true,
}

func knownRule(seg string) bool {
	name, _, _ := strings.Cut(seg, "=")
	return ruleNames[strings.TrimSpace(name)]
}

func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return strings.ToLower(f.Name)
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		// false is a legitimate boolean value
		return false
	default:
		return v.IsZero()
	}
}

func numeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func asFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(fmt.Sprintf("%v", v.Interface()), 64)
	return f
}

func num(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func runeLen(s string) float64 {
	return float64(len([]rune(s)))
}
