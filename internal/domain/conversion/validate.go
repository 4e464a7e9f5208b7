package conversion

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxTitleLength = 255

// invalidNameChars are rejected in anything that ends up in a file name.
const invalidNameChars = `\/:*?"<>|#%`

var (
	internalNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	numberFormatPattern = regexp.MustCompile(`^0+$`)
	dateTokenPattern    = regexp.MustCompile(`yyyy|yy|MM|dd|HH|mm|ss`)
)

var textFormats = map[string]struct{}{
	"":      {},
	"upper": {},
	"lower": {},
	"title": {},
}

func ValidFieldType(value FieldType) bool {
	switch value {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate, FieldTypeChoice:
		return true
	default:
		return false
	}
}

func validateConvertFile(file *ConvertFile) error {
	verr := &ValidationError{}
	validateTitle(verr, "title", file.Title)
	if strings.ContainsAny(file.Separator, invalidNameChars) {
		verr.add("separator", "contains characters not allowed in file names")
	}
	if file.Extension != "" {
		ext := strings.TrimPrefix(file.Extension, ".")
		if ext == "" || strings.ContainsAny(ext, invalidNameChars+". ") {
			verr.add("extension", "invalid extension")
		}
	}
	if file.NotifyEmail != nil {
		if _, err := mail.ParseAddress(*file.NotifyEmail); err != nil {
			verr.add("notify_email", "invalid email address")
		}
	}
	return verr.orNil()
}

func validateProperty(property *ConvertProperty) error {
	verr := &ValidationError{}
	validateTitle(verr, "title", property.Title)

	if !internalNamePattern.MatchString(property.FieldName) {
		verr.add("field_name", "must be an internal field name")
	}
	if !ValidFieldType(property.FieldType) {
		verr.add("field_type", "unsupported field type")
	} else if msg := validateFormat(property.FieldType, property.Format); msg != "" {
		verr.add("format", msg)
	}
	if strings.ContainsAny(property.Prefix, invalidNameChars) {
		verr.add("prefix", "contains characters not allowed in file names")
	}
	if strings.ContainsAny(property.Suffix, invalidNameChars) {
		verr.add("suffix", "contains characters not allowed in file names")
	}
	return verr.orNil()
}

func validateTitle(verr *ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		verr.add(field, "is required")
		return
	}
	if utf8.RuneCountInString(value) > maxTitleLength {
		verr.add(field, "is too long")
	}
}

func validateFormat(fieldType FieldType, format string) string {
	switch fieldType {
	case FieldTypeText, FieldTypeChoice:
		if _, ok := textFormats[format]; !ok {
			return "must be one of upper, lower, title"
		}
	case FieldTypeNumber:
		if format != "" && !numberFormatPattern.MatchString(format) {
			return "must be a run of zeros"
		}
	case FieldTypeDate:
		if format == "" {
			return "is required for date fields"
		}
		rest := dateTokenPattern.ReplaceAllString(format, "")
		if strings.ContainsAny(rest, invalidNameChars) || strings.ContainsAny(rest, "yMdHms") {
			return "contains unsupported date tokens"
		}
	}
	return ""
}
