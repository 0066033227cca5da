package domain

import "time"

// Project is a documentation project known to the remote service.
type Project struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Name string `json:"name" yaml:"name"`
}

// FileMapping links a local note to a remote document.
type FileMapping struct {
	LocalPath string `json:"local_path" yaml:"local_path" validate:"required"`
	ProjectID string `json:"project_id" yaml:"project_id"`
	DocID     string `json:"doc_id" yaml:"doc_id" validate:"required"`
}

// Settings is the flat record the plugin persists on every change.
// ServiceURL is kept as the user typed it; it is normalized before use.
type Settings struct {
	ServiceURL     string        `json:"service_url" yaml:"service_url" validate:"omitempty,serviceurl"`
	AccessToken    string        `json:"access_token" yaml:"access_token"`
	Projects       []Project     `json:"projects" yaml:"projects" validate:"dive"`
	DefaultProject string        `json:"default_project" yaml:"default_project"`
	FileMappings   []FileMapping `json:"file_mappings" yaml:"file_mappings" validate:"dive"`
	SaveImages     bool          `json:"save_images" yaml:"save_images"`
	ApplyImages    bool          `json:"apply_images" yaml:"apply_images"`
	RealtimeSync   bool          `json:"realtime_sync" yaml:"realtime_sync"`
	Pulling        bool          `json:"pulling" yaml:"pulling"`
	Pushing        bool          `json:"pushing" yaml:"pushing"`
	UpdatedAt      time.Time     `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// DefaultSettings returns the values a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		Projects:     []Project{},
		FileMappings: []FileMapping{},
		SaveImages:   true,
	}
}

// Clone returns a deep copy so callers can't mutate shared slices.
func (s Settings) Clone() Settings {
	out := s
	out.Projects = append([]Project(nil), s.Projects...)
	out.FileMappings = append([]FileMapping(nil), s.FileMappings...)
	if out.Projects == nil {
		out.Projects = []Project{}
	}
	if out.FileMappings == nil {
		out.FileMappings = []FileMapping{}
	}
	return out
}

// ConnectivityResult is the outcome of one connectivity check. It is never persisted.
type ConnectivityResult struct {
	ID         string         `json:"id"`
	Succeeded  bool           `json:"succeeded"`
	Endpoint   string         `json:"endpoint"` // token redacted
	HTTPStatus int            `json:"http_status,omitempty"`
	LatencyMS  float64        `json:"latency_ms"`
	Response   map[string]any `json:"response,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
}
