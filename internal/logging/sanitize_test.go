package logging

import "testing"

func TestSanitizeValue(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    interface{}
		expected interface{}
	}{
		{"password key", "password", "hunter2", "[REDACTED]"},
		{"api key variants", "pose_api_key", "abc", "[REDACTED]"},
		{"token key", "access_token", "xyz", "[REDACTED]"},
		{"plain value", "motion_id", "m-100", "m-100"},
		{"numeric value", "total_frames", 192, 192},
		{"long token shape", "note", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "[REDACTED]"},
		{"short string kept", "sport_type", "golf", "golf"},
		{"uuid kept", "request_id", "123e4567-e89b-12d3-a456-426614174000", "123e4567-e89b-12d3-a456-426614174000"},
		{
			"signed url loses query",
			"video_url",
			"https://cdn.example.com/m-100.mp4?sig=abc123&exp=99",
			"https://cdn.example.com/m-100.mp4",
		},
		{
			"plain url untouched",
			"video_url",
			"https://cdn.example.com/m-100.mp4",
			"https://cdn.example.com/m-100.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeValue(tt.key, tt.value); got != tt.expected {
				t.Errorf("SanitizeValue(%q, %v) = %v, expected %v", tt.key, tt.value, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFields_DoesNotMutateInput(t *testing.T) {
	fields := map[string]interface{}{
		"api_key":   "secret-value",
		"motion_id": "m-100",
		"nested": map[string]interface{}{
			"password": "hunter2",
		},
	}

	clean := sanitizeFields(fields)

	if fields["api_key"] != "secret-value" {
		t.Error("Input map was mutated")
	}
	if clean["api_key"] != "[REDACTED]" {
		t.Errorf("Expected redacted api_key, got %v", clean["api_key"])
	}
	if clean["motion_id"] != "m-100" {
		t.Errorf("Expected motion_id preserved, got %v", clean["motion_id"])
	}
	nested, ok := clean["nested"].(map[string]interface{})
	if !ok || nested["password"] != "[REDACTED]" {
		t.Errorf("Expected nested password redacted, got %v", clean["nested"])
	}
}

func TestSanitizeFields_NilStaysNil(t *testing.T) {
	if got := sanitizeFields(nil); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
}
