package conversion

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"convert-files-go/internal/domain/priority"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var dateTokenLayouts = map[string]string{
	"yyyy": "2006",
	"yy":   "06",
	"MM":   "01",
	"dd":   "02",
	"HH":   "15",
	"mm":   "04",
	"ss":   "05",
}

var dateInputLayouts = []string{"2006-01-02", time.RFC3339}

var invalidNameCharsPattern = regexp.MustCompile(`[\\/:*?"<>|#%]`)

// BuildFileName joins the formatted values of the active properties in
// priority order. Properties without a value are skipped.
func BuildFileName(file ConvertFile, properties []ConvertProperty, values map[string]string) (string, error) {
	byID := make(map[int64]ConvertProperty, len(properties))
	records := make([]priority.Record, 0, len(properties))
	for _, property := range properties {
		if property.IsDeleted || property.ConvertFilesID != file.ID {
			continue
		}
		byID[property.ID] = property
		records = append(records, property.Record())
	}

	verr := &ValidationError{}
	segments := make([]string, 0, len(records))
	for _, record := range priority.SortByPriority(records) {
		property := byID[record.ID]
		raw := strings.TrimSpace(values[property.FieldName])
		if raw == "" {
			continue
		}
		formatted, err := formatValue(property, raw)
		if err != nil {
			verr.add(property.FieldName, err.Error())
			continue
		}
		segments = append(segments, property.Prefix+formatted+property.Suffix)
	}
	if err := verr.orNil(); err != nil {
		return "", err
	}

	name := sanitizeFileName(strings.Join(segments, file.Separator))
	if name == "" {
		return "", &ValidationError{Fields: []FieldError{{Field: "values", Message: "no property produced a value"}}}
	}
	if ext := strings.TrimPrefix(file.Extension, "."); ext != "" {
		name += "." + ext
	}
	return name, nil
}

func formatValue(property ConvertProperty, raw string) (string, error) {
	switch property.FieldType {
	case FieldTypeDate:
		return formatDate(property.Format, raw)
	case FieldTypeNumber:
		return formatNumber(property.Format, raw)
	default:
		return formatText(property.Format, raw), nil
	}
}

func formatText(format, value string) string {
	switch format {
	case "upper":
		return cases.Upper(language.Und).String(value)
	case "lower":
		return cases.Lower(language.Und).String(value)
	case "title":
		return cases.Title(language.Und).String(value)
	default:
		return value
	}
}

func formatNumber(format, value string) (string, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return "", errors.New("not a number")
	}
	if n < 0 {
		return "", errors.New("must not be negative")
	}
	return fmt.Sprintf("%0*d", len(format), n), nil
}

func formatDate(format, value string) (string, error) {
	var parsed time.Time
	var err error
	for _, layout := range dateInputLayouts {
		parsed, err = time.Parse(layout, value)
		if err == nil {
			break
		}
	}
	if err != nil {
		return "", errors.New("not a date")
	}

	return dateTokenPattern.ReplaceAllStringFunc(format, func(token string) string {
		return parsed.Format(dateTokenLayouts[token])
	}), nil
}

func sanitizeFileName(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err == nil {
		name = folded
	}
	name = invalidNameCharsPattern.ReplaceAllString(name, "_")
	return strings.TrimRight(strings.TrimSpace(name), ".")
}
