package feedback

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/motionlab/MotionLab/api/internal/analysis"
)

// PromptTemplate holds the versioned prompt pair used by feedback
// generators. The system text is sent as model instructions and the
// user template is rendered against the analysis subject per request.
type PromptTemplate struct {
	version string
	system  string
	user    *template.Template
}

type promptFile struct {
	Version string `yaml:"version"`
	System  string `yaml:"system"`
	User    string `yaml:"user"`
}

// LoadPrompts reads a YAML prompt file. When the file carries no
// version tag the version falls back to a short hash of the file
// content so every result still reports a traceable prompt version.
func LoadPrompts(path string) (*PromptTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}
	return ParsePrompts(data)
}

// ParsePrompts builds a PromptTemplate from raw YAML content.
func ParsePrompts(data []byte) (*PromptTemplate, error) {
	var parsed promptFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file: %w", err)
	}

	if strings.TrimSpace(parsed.User) == "" {
		return nil, fmt.Errorf("prompt file has no user template")
	}

	tmpl, err := template.New("user").Parse(parsed.User)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user template: %w", err)
	}

	version := strings.TrimSpace(parsed.Version)
	if version == "" {
		sum := sha256.Sum256(data)
		version = hex.EncodeToString(sum[:])[:12]
	}

	return &PromptTemplate{
		version: version,
		system:  parsed.System,
		user:    tmpl,
	}, nil
}

// Version returns the prompt version tag.
func (p *PromptTemplate) Version() string {
	return p.version
}

// System returns the system instructions text.
func (p *PromptTemplate) System() string {
	return p.system
}

// Render executes the user template against the analysis subject.
func (p *PromptTemplate) Render(subject analysis.FeedbackSubject) (string, error) {
	var b strings.Builder
	if err := p.user.Execute(&b, subject); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}
