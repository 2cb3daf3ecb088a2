package task

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidTask: the descriptor does not describe a processable file.
	ErrInvalidTask = errors.New("invalid task descriptor")
	// ErrSerialization: the descriptor could not be encoded or decoded.
	ErrSerialization = errors.New("task serialization failed")
)

const MaxFilenameLength = 255

var filenamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Descriptor identifies one media file waiting for audio removal.
type Descriptor struct {
	Filename string `json:"filename" validate:"required,max=255,filename"`
}

// New returns a descriptor for filename.
func New(filename string) Descriptor {
	return Descriptor{Filename: filename}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("filename", func(fl validator.FieldLevel) bool {
		return filenamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validator returns the validator used for descriptors, with the
// "filename" tag registered.
func Validator() *validator.Validate {
	return validate
}

// Validate reports whether d names a single file: 1 to 255 characters from
// [A-Za-z0-9._-], no path separators.
func (d Descriptor) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: filename %q: %v", ErrInvalidTask, d.Filename, describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return "failed " + fe.Tag()
	}
	return err.Error()
}

// Encode validates d and returns its UTF-8 JSON encoding, {"filename":"..."}.
func Encode(d Descriptor) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return body, nil
}

// Decode parses a message body produced by Encode. The body must be a JSON
// object whose "filename" member is a string.
func Decode(body []byte) (Descriptor, error) {
	if !gjson.ValidBytes(body) {
		return Descriptor{}, fmt.Errorf("%w: body is not valid JSON", ErrSerialization)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return Descriptor{}, fmt.Errorf("%w: body is not a JSON object", ErrSerialization)
	}

	filename := root.Get("filename")
	if !filename.Exists() {
		return Descriptor{}, fmt.Errorf("%w: missing filename", ErrSerialization)
	}
	if filename.Type != gjson.String {
		return Descriptor{}, fmt.Errorf("%w: filename must be a string, got %s", ErrSerialization, filename.Type)
	}

	var d Descriptor
	if err := json.Unmarshal(body, &d); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	return d, d.Validate()
}
