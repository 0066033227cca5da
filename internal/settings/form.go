package settings

import (
	"fmt"
	"strconv"

	"github.com/hamed0406/docsync/internal/domain"
)

// Field names a user-editable setting.
type Field string

const (
	FieldServiceURL     Field = "service_url"
	FieldAccessToken    Field = "access_token"
	FieldDefaultProject Field = "default_project"
	FieldSaveImages     Field = "save_images"
	FieldApplyImages    Field = "apply_images"
	FieldRealtimeSync   Field = "realtime_sync"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldServiceURL,
	FieldAccessToken,
	FieldDefaultProject,
	FieldSaveImages,
	FieldApplyImages,
	FieldRealtimeSync,
}

// Form is implemented by whatever toolkit renders the settings panel.
// Callbacks may be invoked from any goroutine.
type Form interface {
	Value(f Field) string
	SetValue(f Field, value string)
	OnChange(f Field, fn func(value string))
	OnCheck(fn func())
	SetCheckEnabled(enabled bool)
}

func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

func (f Field) isBool() bool {
	return f == FieldSaveImages || f == FieldApplyImages || f == FieldRealtimeSync
}

func fieldValue(s domain.Settings, f Field) string {
	switch f {
	case FieldServiceURL:
		return s.ServiceURL
	case FieldAccessToken:
		return s.AccessToken
	case FieldDefaultProject:
		return s.DefaultProject
	case FieldSaveImages:
		return strconv.FormatBool(s.SaveImages)
	case FieldApplyImages:
		return strconv.FormatBool(s.ApplyImages)
	case FieldRealtimeSync:
		return strconv.FormatBool(s.RealtimeSync)
	}
	return ""
}

func applyField(s *domain.Settings, f Field, value string) error {
	var b bool
	if f.isBool() {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalidValue, f, value)
		}
		b = v
	}
	switch f {
	case FieldServiceURL:
		s.ServiceURL = value
	case FieldAccessToken:
		s.AccessToken = value
	case FieldDefaultProject:
		s.DefaultProject = value
	case FieldSaveImages:
		s.SaveImages = b
	case FieldApplyImages:
		s.ApplyImages = b
	case FieldRealtimeSync:
		s.RealtimeSync = b
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}
