package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.ServiceURL != "" || s.AccessToken != "" || s.DefaultProject != "" {
		t.Fatalf("string fields should start empty: %+v", s)
	}
	if !s.SaveImages {
		t.Fatalf("save_images should default to true")
	}
	if s.ApplyImages || s.RealtimeSync || s.Pulling || s.Pushing {
		t.Fatalf("other flags should default to false: %+v", s)
	}
	if s.Projects == nil || s.FileMappings == nil {
		t.Fatalf("lists should be empty, not nil")
	}
}

func TestSettings_CloneIsDeep(t *testing.T) {
	s := DefaultSettings()
	s.FileMappings = append(s.FileMappings, FileMapping{LocalPath: "a.md", DocID: "1"})

	c := s.Clone()
	c.FileMappings[0].DocID = "2"

	if s.FileMappings[0].DocID != "1" {
		t.Fatalf("clone shares backing array with original")
	}
}

func TestSettings_JSONKeepsMappingOrder(t *testing.T) {
	want := Settings{
		ServiceURL:  "https://doc.example.com",
		AccessToken: "tok",
		FileMappings: []FileMapping{
			{LocalPath: "b.md", DocID: "2"},
			{LocalPath: "a.md", DocID: "1"},
		},
		UpdatedAt: time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Settings
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.FileMappings) != 2 || got.FileMappings[0].LocalPath != "b.md" {
		t.Fatalf("mapping order lost: %+v", got.FileMappings)
	}
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("updated_at mismatch: %v", got.UpdatedAt)
	}
}
