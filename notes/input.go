package notes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Use JSON tag names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// NoteInput is the typed body accepted by create and update.
type NoteInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Validate checks that both fields are present. Failures wrap ErrValidation.
func (in NoteInput) Validate() error {
	if err := getValidator().Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// DecodeInput reads a NoteInput from a JSON body. A body that cannot be
// decoded yields the zero input together with the decode error, so callers
// can still run existence checks before reporting ErrValidation.
func DecodeInput(r io.Reader) (NoteInput, error) {
	var in NoteInput
	if r == nil {
		return in, fmt.Errorf("empty request body")
	}
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return NoteInput{}, fmt.Errorf("failed to decode note body: %w", err)
	}
	return in, nil
}
