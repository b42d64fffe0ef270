package sportconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const golfYAML = `sport_type: GOLF
description: Golf swing profiles
sub_categories:
  driver:
    description: Full swing with a driver
    angles:
      spine_angle:
        min: 140
        max: 170
        weight: 2.0
        phase: address
      left_arm_angle:
        min: 165
        max: 180
  default:
    angles:
      spine_angle:
        min: 135
        max: 175
`

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestLoad_ValidCatalog(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "golf.yaml", golfYAML)

	registry, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if registry.Len() != 2 {
		t.Errorf("Expected 2 profiles, got %d", registry.Len())
	}

	profile, ok := registry.Get("GOLF", "driver")
	if !ok {
		t.Fatal("Expected GOLF/driver profile")
	}
	if profile.Description != "Full swing with a driver" {
		t.Errorf("Unexpected description: %q", profile.Description)
	}

	spine := profile.Angles["spine_angle"]
	if spine.Min != 140 || spine.Max != 170 {
		t.Errorf("Expected spine range [140,170], got [%g,%g]", spine.Min, spine.Max)
	}
	if spine.Weight != 2.0 {
		t.Errorf("Expected weight 2.0, got %g", spine.Weight)
	}
	if spine.Phase != "address" {
		t.Errorf("Expected phase address, got %q", spine.Phase)
	}

	// Omitted weight defaults to 1.0.
	arm := profile.Angles["left_arm_angle"]
	if arm.Weight != 1.0 {
		t.Errorf("Expected default weight 1.0, got %g", arm.Weight)
	}
}

func TestLoad_CaseInsensitiveLookup(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "golf.yaml", golfYAML)

	registry, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, ok := registry.Get("golf", "DRIVER"); !ok {
		t.Error("Expected case-insensitive lookup to succeed")
	}
	if _, ok := registry.Get("GOLF", "putter"); ok {
		t.Error("Expected miss for unknown sub-category")
	}
}

func TestLoad_EmptyDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("Expected error for directory without configs")
	}
}

func TestLoad_MalformedEntriesFailStartup(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "min above max",
			content: `sport_type: GOLF
sub_categories:
  driver:
    angles:
      spine_angle:
        min: 170
        max: 140
`,
			wantErr: "min 170 above max 140",
		},
		{
			name: "negative weight",
			content: `sport_type: GOLF
sub_categories:
  driver:
    angles:
      spine_angle:
        min: 140
        max: 170
        weight: -1
`,
			wantErr: "negative weight",
		},
		{
			name: "unknown angle",
			content: `sport_type: GOLF
sub_categories:
  driver:
    angles:
      elbow_twist_angle:
        min: 10
        max: 20
`,
			wantErr: "unknown angle",
		},
		{
			name: "unknown phase",
			content: `sport_type: GOLF
sub_categories:
  driver:
    angles:
      spine_angle:
        min: 140
        max: 170
        phase: windup
`,
			wantErr: "unknown phase",
		},
		{
			name: "missing sport type",
			content: `sub_categories:
  driver:
    angles:
      spine_angle:
        min: 140
        max: 170
`,
			wantErr: "missing sport_type",
		},
		{
			name: "no angles",
			content: `sport_type: GOLF
sub_categories:
  driver:
    description: empty
`,
			wantErr: "has no angles",
		},
		{
			name:    "invalid yaml",
			content: "sport_type: [unterminated",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "bad.yaml", tt.content)

			_, err := Load(dir)
			if err == nil {
				t.Fatal("Expected load error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_DuplicateProfileFails(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", golfYAML)
	writeConfig(t, dir, "b.yaml", golfYAML)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Expected duplicate profile error")
	}
	if !strings.Contains(err.Error(), "duplicate profile") {
		t.Errorf("Expected duplicate profile error, got %v", err)
	}
}

func TestRegistry_Sports(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "golf.yaml", golfYAML)
	writeConfig(t, dir, "weight.yaml", `sport_type: WEIGHT
sub_categories:
  squat:
    angles:
      left_knee_angle:
        min: 85
        max: 95
`)

	registry, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	sports := registry.Sports()
	if len(sports) != 2 {
		t.Fatalf("Expected 2 sports, got %d", len(sports))
	}
	if sports[0].SportType != "GOLF" || sports[1].SportType != "WEIGHT" {
		t.Errorf("Expected sorted sports [GOLF WEIGHT], got [%s %s]", sports[0].SportType, sports[1].SportType)
	}

	wantSubs := []string{"default", "driver"}
	if len(sports[0].SubCategories) != len(wantSubs) {
		t.Fatalf("Expected %d golf sub-categories, got %d", len(wantSubs), len(sports[0].SubCategories))
	}
	for i, want := range wantSubs {
		if sports[0].SubCategories[i] != want {
			t.Errorf("Sub-category %d: expected %s, got %s", i, want, sports[0].SubCategories[i])
		}
	}
}
