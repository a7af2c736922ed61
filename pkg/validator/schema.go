package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"storefront-cms-backend/pkg/coerce"
)

// FieldType selects how a payload value is checked and normalised.
type FieldType int

const (
	String FieldType = iota
	Bool
	Int
	Decimal
	DateTime
	Map
	StringList
	MapList
	ObjectList
)

// Presence describes what happens when a field is absent from the payload.
type Presence int

const (
	// Optional fields that are absent are left out of the result.
	Optional Presence = iota
	// Required fields must be present and non-null.
	Required
	// Defaulted fields receive Default() when absent.
	Defaulted
)

const (
	msgRequired       = "This field is required."
	msgNull           = "This field may not be null."
	msgBlank          = "This field may not be blank."
	msgString         = "Not a valid string."
	msgBool           = "Must be a valid boolean."
	msgInt            = "A valid integer is required."
	msgNumber         = "A valid number is required."
	msgDateTime       = "Datetime has wrong format. Use one of these formats instead: YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z]."
	msgDict           = "Expected a dictionary of items but got type %q."
	msgList           = "Expected a list of items but got type %q."
	msgMaxDigits      = "Ensure that there are no more than %d digits in total."
	msgMaxPlaces      = "Ensure that there are no more than %d decimal places."
	msgMaxWholeDigits = "Ensure that there are no more than %d digits before the decimal point."
	msgInvalidData    = "Invalid data. Expected a dictionary, but got %s."

	// NonFieldErrors keys errors that do not belong to a single field.
	NonFieldErrors = "non_field_errors"
)

// Rule is the declarative contract for one field.
type Rule struct {
	Field    string
	Type     FieldType
	Presence Presence
	// Default is called once per validation so containers are never shared.
	Default    func() any
	AllowBlank bool
	Nullable   bool

	MaxDigits     int
	DecimalPlaces int

	// Items is the schema applied to every element of an ObjectList.
	Items *Schema
}

// Schema is the rule set of one entity level.
type Schema struct {
	Name  string
	Rules []Rule
}

var ErrValidation = errors.New("validation failed")

// ValidationError carries every field error found in one pass. Values are
// []string for scalar fields, []map[string]any aligned with the input for
// object lists and map[string][]string keyed by index for plain lists.
type ValidationError struct {
	Fields map[string]any
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsValidationError reports whether err carries field errors.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrValidation)
}

// NewFieldError builds a ValidationError for a single field.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]any{field: []string{message}}}
}

// DecodeJSON reads a JSON object keeping numbers exact. An empty body decodes
// to an empty object.
func DecodeJSON(r io.Reader) (map[string]any, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, NewFieldError(NonFieldErrors, fmt.Sprintf("JSON parse error - %s", err.Error()))
	}

	payload, ok := raw.(map[string]any)
	if !ok {
		return nil, NewFieldError(NonFieldErrors, fmt.Sprintf(msgInvalidData, typeName(raw)))
	}
	return payload, nil
}

// Validate applies every rule to payload and returns the normalised fields.
// Fields not named by a rule are dropped.
func (s *Schema) Validate(payload map[string]any) (Fields, error) {
	return s.validate(payload, true)
}

// ValidateReplace is Validate for updates of a stored document: absent
// defaulted fields are left out so the stored values survive. Nested
// objects are built fresh and still receive their defaults.
func (s *Schema) ValidateReplace(payload map[string]any) (Fields, error) {
	return s.validate(payload, false)
}

func (s *Schema) validate(payload map[string]any, applyDefaults bool) (Fields, error) {
	fields := make(Fields, len(s.Rules))
	errs := make(map[string]any)

	for _, rule := range s.Rules {
		raw, present := payload[rule.Field]

		if !present {
			switch rule.Presence {
			case Required:
				errs[rule.Field] = []string{msgRequired}
			case Defaulted:
				if applyDefaults && rule.Default != nil {
					fields[rule.Field] = rule.Default()
				}
			}
			continue
		}

		if raw == nil {
			if rule.Nullable {
				fields[rule.Field] = nil
			} else {
				errs[rule.Field] = []string{msgNull}
			}
			continue
		}

		value, fieldErr := rule.clean(raw)
		if fieldErr != nil {
			errs[rule.Field] = fieldErr
			continue
		}
		fields[rule.Field] = value
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return fields, nil
}

func (r Rule) clean(raw any) (any, any) {
	switch r.Type {
	case String:
		return r.cleanString(raw)
	case Bool:
		v, ok := toBool(raw)
		if !ok {
			return nil, []string{msgBool}
		}
		return v, nil
	case Int:
		v, ok := toInt(raw)
		if !ok {
			return nil, []string{msgInt}
		}
		return v, nil
	case Decimal:
		return r.cleanDecimal(raw)
	case DateTime:
		if _, ok := raw.(string); !ok {
			return nil, []string{msgDateTime}
		}
		t, err := coerce.ParseTime(raw)
		if err != nil {
			return nil, []string{msgDateTime}
		}
		return t, nil
	case Map:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, []string{fmt.Sprintf(msgDict, typeName(raw))}
		}
		return coerce.FromWire(m), nil
	case StringList:
		return cleanStringList(raw)
	case MapList:
		return cleanMapList(raw)
	case ObjectList:
		return r.cleanObjectList(raw)
	default:
		return raw, nil
	}
}

func (r Rule) cleanString(raw any) (any, any) {
	var value string
	switch v := raw.(type) {
	case string:
		value = v
	case json.Number:
		value = v.String()
	default:
		return nil, []string{msgString}
	}
	if !r.AllowBlank && strings.TrimSpace(value) == "" {
		return nil, []string{msgBlank}
	}
	return value, nil
}

func (r Rule) cleanDecimal(raw any) (any, any) {
	if _, isBool := raw.(bool); isBool {
		return nil, []string{msgNumber}
	}
	d, err := coerce.ParseDecimal(raw)
	if err != nil {
		return nil, []string{msgNumber}
	}

	whole, frac, err := coerce.DecimalDigits(raw)
	if err != nil {
		return nil, []string{msgNumber}
	}

	var msgs []string
	if r.MaxDigits > 0 && whole+frac > r.MaxDigits {
		msgs = append(msgs, fmt.Sprintf(msgMaxDigits, r.MaxDigits))
	}
	if r.DecimalPlaces > 0 && frac > r.DecimalPlaces {
		msgs = append(msgs, fmt.Sprintf(msgMaxPlaces, r.DecimalPlaces))
	}
	if r.MaxDigits > 0 && r.DecimalPlaces > 0 && whole > r.MaxDigits-r.DecimalPlaces {
		msgs = append(msgs, fmt.Sprintf(msgMaxWholeDigits, r.MaxDigits-r.DecimalPlaces))
	}
	if len(msgs) > 0 {
		return nil, msgs
	}
	return d, nil
}

func (r Rule) cleanObjectList(raw any) (any, any) {
	items, ok := raw.([]any)
	if !ok {
		return nil, []string{fmt.Sprintf(msgList, typeName(raw))}
	}

	out := make([]Fields, 0, len(items))
	itemErrs := make([]map[string]any, len(items))
	failed := false

	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			itemErrs[i] = map[string]any{NonFieldErrors: []string{fmt.Sprintf(msgInvalidData, typeName(item))}}
			failed = true
			continue
		}

		var fields Fields
		var err error
		if r.Items != nil {
			fields, err = r.Items.Validate(obj)
		} else {
			fields = Fields(coerce.FromWire(obj).(map[string]any))
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			itemErrs[i] = verr.Fields
			failed = true
			continue
		}
		itemErrs[i] = map[string]any{}
		out = append(out, fields)
	}

	if failed {
		return nil, itemErrs
	}
	return out, nil
}

func cleanStringList(raw any) (any, any) {
	items, ok := raw.([]any)
	if !ok {
		return nil, []string{fmt.Sprintf(msgList, typeName(raw))}
	}

	out := make([]string, 0, len(items))
	itemErrs := make(map[string][]string)
	for i, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case json.Number:
			out = append(out, v.String())
		default:
			itemErrs[strconv.Itoa(i)] = []string{msgString}
		}
	}
	if len(itemErrs) > 0 {
		return nil, itemErrs
	}
	return out, nil
}

func cleanMapList(raw any) (any, any) {
	items, ok := raw.([]any)
	if !ok {
		return nil, []string{fmt.Sprintf(msgList, typeName(raw))}
	}

	out := make([]map[string]any, 0, len(items))
	itemErrs := make(map[string][]string)
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			itemErrs[strconv.Itoa(i)] = []string{fmt.Sprintf(msgDict, typeName(item))}
			continue
		}
		out = append(out, coerce.FromWire(m).(map[string]any))
	}
	if len(itemErrs) > 0 {
		return nil, itemErrs
	}
	return out, nil
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "y", "on":
			return true, true
		case "false", "0", "no", "n", "off":
			return false, true
		}
	case json.Number:
		switch v.String() {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	}
	return false, false
}

func toInt(raw any) (int, bool) {
	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}

	if i, err := strconv.Atoi(text); err == nil {
		return i, true
	}
	// Accept integral decimals such as "5.0".
	whole, frac, found := strings.Cut(text, ".")
	if found && strings.Trim(frac, "0") == "" {
		if i, err := strconv.Atoi(whole); err == nil {
			return i, true
		}
	}
	return 0, false
}

func typeName(v any) string {
	switch value := v.(type) {
	case nil:
		return "null"
	case string:
		return "str"
	case bool:
		return "bool"
	case json.Number:
		if _, err := value.Int64(); err == nil {
			return "int"
		}
		return "float"
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Fields holds normalised values keyed by field name.
type Fields map[string]any

// Has reports whether name was supplied or defaulted.
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

func (f Fields) String(name string) string {
	v, _ := f[name].(string)
	return v
}

// StringPtr returns nil for absent or null values.
func (f Fields) StringPtr(name string) *string {
	v, ok := f[name].(string)
	if !ok {
		return nil
	}
	return &v
}

func (f Fields) Bool(name string) bool {
	v, _ := f[name].(bool)
	return v
}

func (f Fields) Int(name string) int {
	v, _ := f[name].(int)
	return v
}

func (f Fields) IntPtr(name string) *int {
	v, ok := f[name].(int)
	if !ok {
		return nil
	}
	return &v
}

func (f Fields) Decimal(name string) bson.Decimal128 {
	v, _ := f[name].(bson.Decimal128)
	return v
}

func (f Fields) DecimalPtr(name string) *bson.Decimal128 {
	v, ok := f[name].(bson.Decimal128)
	if !ok {
		return nil
	}
	return &v
}

func (f Fields) TimePtr(name string) *time.Time {
	v, ok := f[name].(time.Time)
	if !ok {
		return nil
	}
	return &v
}

// Map returns the named map, or an empty map when absent.
func (f Fields) Map(name string) map[string]any {
	if v, ok := f[name].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func (f Fields) StringList(name string) []string {
	if v, ok := f[name].([]string); ok {
		return v
	}
	return []string{}
}

func (f Fields) MapList(name string) []map[string]any {
	if v, ok := f[name].([]map[string]any); ok {
		return v
	}
	return []map[string]any{}
}

func (f Fields) Objects(name string) []Fields {
	if v, ok := f[name].([]Fields); ok {
		return v
	}
	return []Fields{}
}
