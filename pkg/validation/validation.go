// Package validation wraps go-playground/validator with the portal's custom
// tags and English error messages keyed by JSON field names.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag = "notblank"
	mobileTag   = "mobile"
	regNoTag    = "regno"
	uniEmailTag = "uniemail"

	mobilePattern = regexp.MustCompile(`^(?:\+94|94|0)?7\d{8}$`)
	regNoPattern  = regexp.MustCompile(`^[A-Z]{1,3}/\d{2}/\d{3,4}$`)

	domainMu         sync.RWMutex
	universityDomain = "pdn.ac.lk"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(mobileTag, func(fl validator.FieldLevel) bool { return IsMobile(fl.Field().String()) })
	_ = Validate.RegisterValidation(regNoTag, func(fl validator.FieldLevel) bool { return IsRegNo(fl.Field().String()) })
	_ = Validate.RegisterValidation(uniEmailTag, func(fl validator.FieldLevel) bool { return IsUniversityEmail(fl.Field().String()) })

	registerCustomValidationsTranslations(notBlankTag, mobileTag, regNoTag, uniEmailTag)
}

// registerCustomValidationsTranslations registers messages for the custom
// tags. The default translations are already registered, so a no-op
// registration func is passed.
func registerCustomValidationsTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustomValidationErrs)
	}
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case mobileTag:
		return "must be a valid mobile number such as 0771234567"
	case regNoTag:
		return "must be a registration number such as E/19/123"
	case uniEmailTag:
		return "must be a university email address ending in @" + UniversityDomain()
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// SetUniversityDomain changes the domain accepted by the uniemail tag
func SetUniversityDomain(domain string) {
	domainMu.Lock()
	defer domainMu.Unlock()
	universityDomain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "@"))
}

func UniversityDomain() string {
	domainMu.RLock()
	defer domainMu.RUnlock()
	return universityDomain
}

func cleanMobile(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

// IsMobile accepts Sri Lankan mobile numbers with or without the country code
func IsMobile(s string) bool {
	return mobilePattern.MatchString(cleanMobile(s))
}

// IsRegNo accepts faculty-prefixed registration numbers such as E/19/123
func IsRegNo(s string) bool {
	return regNoPattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

func IsEmail(s string) bool {
	return Validate.Var(strings.TrimSpace(s), "required,email") == nil
}

// IsUniversityEmail reports whether s is an address on the university domain
// or one of its subdomains.
func IsUniversityEmail(s string) bool {
	if !IsEmail(s) {
		return false
	}
	_, domain, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "@")
	want := UniversityDomain()
	return domain == want || strings.HasSuffix(domain, "."+want)
}

// Error carries translated messages keyed by the JSON path of each field
type Error struct {
	Fields map[string]string `json:"fields"`
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// Struct validates v and returns nil or an *Error
func Struct(v any) error {
	return translate(Validate.Struct(v))
}

// Var validates a single value against tag. field names the value in the
// returned *Error.
func Var(field string, value any, tag string) error {
	err := Validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: map[string]string{}}
	for _, fe := range verrs {
		out.Fields[field] = fe.Translate(Translator)
	}
	return out
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldPath(fe)] = fe.Translate(Translator)
	}
	return out
}

// fieldPath drops the root struct name from the namespace, so
// "SocietyRegistration.applicant.email" becomes "applicant.email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}
