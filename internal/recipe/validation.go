package recipe

import (
	"strings"
	"unicode/utf8"

	"github.com/recipe-api/recipe-api/internal/shared"
)

// maxNameLength mirrors the VARCHAR(255) column.
const maxNameLength = 255

func validateName(name string) error {
	fields := shared.FieldErrors{}
	switch {
	case strings.TrimSpace(name) == "":
		fields.Add("name", "this field may not be blank")
	case utf8.RuneCountInString(name) > maxNameLength:
		fields.Add("name", "ensure this field has no more than 255 characters")
	}
	return fields.Err()
}
