package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/server/models"
)

const (
	maxNameLength  = 255
	maxTitleLength = 255
	maxColorLength = 7
	maxIconLength  = 50
	maxTagLength   = 100
	maxTags        = 50

	minUsernameLength = 3
	maxUsernameLength = 64
	minPasswordLength = 8
)

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func required(v *common.ValidationError, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.Add(field, fmt.Sprintf("The %s field is required.", humanize(field)))
		return false
	}
	return true
}

func maxLength(v *common.ValidationError, field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		v.Add(field, fmt.Sprintf("The %s field must not be greater than %d characters.", humanize(field), limit))
	}
}

func validateName(v *common.ValidationError, name string) {
	if required(v, "name", name) {
		maxLength(v, "name", name, maxNameLength)
	}
}

func validateColor(v *common.ValidationError, color *string) {
	if color == nil {
		return
	}
	maxLength(v, "color", *color, maxColorLength)
	if !colorPattern.MatchString(*color) {
		v.Add("color", "The color field must be a hex color such as #3B82F6.")
	}
}

func validateIcon(v *common.ValidationError, icon *string) {
	if icon == nil {
		return
	}
	maxLength(v, "icon", *icon, maxIconLength)
}

func validateTitle(v *common.ValidationError, title string) {
	if required(v, "title", title) {
		maxLength(v, "title", title, maxTitleLength)
	}
}

func validateDataType(v *common.ValidationError, dt models.DataType) {
	if dt == "" {
		v.Add("data_type", "The data type field is required.")
		return
	}
	if !dt.Valid() {
		v.Add("data_type", fmt.Sprintf("The selected data type is invalid. Allowed: %s.", models.DataTypeList()))
	}
}

func validateData(v *common.ValidationError, data string) {
	if data == "" {
		v.Add("data", "The data field is required.")
	}
}

func validateTags(v *common.ValidationError, tags []string) {
	if len(tags) > maxTags {
		v.Add("tags", fmt.Sprintf("The tags field must not have more than %d items.", maxTags))
		return
	}
	for _, t := range tags {
		if utf8.RuneCountInString(t) > maxTagLength {
			v.Add("tags", fmt.Sprintf("Each tag must not be greater than %d characters.", maxTagLength))
			return
		}
	}
}

// normalizeTags drops blank and repeated tags, keeping first-seen order.
// The result is never nil.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
