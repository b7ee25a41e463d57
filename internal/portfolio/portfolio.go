package portfolio

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

//go:embed data/portfolio.yaml
var defaultData []byte

// Skill categories.
const (
	CategoryLanguage  = "Language"
	CategoryTool      = "Tool"
	CategorySoftSkill = "Soft Skill"
	CategoryFramework = "Framework"
)

// Profile is the owner of the portfolio.
type Profile struct {
	Name           string   `yaml:"name" json:"name"`
	Role           string   `yaml:"role" json:"role"`
	GithubUsername string   `yaml:"github_username" json:"github_username"`
	About          string   `yaml:"about" json:"about"`
	Education      string   `yaml:"education" json:"education"`
	Bio            []string `yaml:"bio" json:"bio"`
	AvatarURL      string   `yaml:"avatar_url" json:"avatar_url"`
	Email          string   `yaml:"email" json:"email"`
	LinkedIn       string   `yaml:"linkedin" json:"linkedin"`
	GitHub         string   `yaml:"github" json:"github"`
	Location       string   `yaml:"location" json:"location"`
	CVURL          string   `yaml:"cv_url" json:"cv_url"`
}

// Skill is one entry of the skill grid.
type Skill struct {
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	// Level is 0-100; zero means not shown.
	Level int `yaml:"level,omitempty" json:"level,omitempty"`
}

// VisualConfig describes an interactive visualization attached to a project.
type VisualConfig struct {
	// Type is "bar" or "iframe".
	Type     string     `yaml:"type" json:"type"`
	Data     *ChartData `yaml:"data,omitempty" json:"data,omitempty"`
	EmbedURL string     `yaml:"embed_url,omitempty" json:"embed_url,omitempty"`
}

// ChartData is the series of a bar visualization.
type ChartData struct {
	Labels []string  `yaml:"labels" json:"labels"`
	Values []float64 `yaml:"values" json:"values"`
}

// Project is a portfolio card, either curated or derived from a GitHub repository.
type Project struct {
	ID          int      `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Tags        []string `yaml:"tags" json:"tags"`
	ImageURL    string   `yaml:"image_url" json:"image_url"`
	Link        string   `yaml:"link,omitempty" json:"link,omitempty"`
	// Details is the long description used in the assistant context.
	Details string `yaml:"details" json:"details"`
	Stars   int    `yaml:"stars,omitempty" json:"stars,omitempty"`
	Forks   int    `yaml:"forks,omitempty" json:"forks,omitempty"`

	Owner         string `yaml:"owner,omitempty" json:"owner,omitempty"`
	RepoName      string `yaml:"repo_name,omitempty" json:"repo_name,omitempty"`
	DefaultBranch string `yaml:"default_branch,omitempty" json:"default_branch,omitempty"`
	Language      string `yaml:"language,omitempty" json:"language,omitempty"`

	NotebookPath string        `yaml:"notebook_path,omitempty" json:"notebook_path,omitempty"`
	ReportPath   string        `yaml:"report_path,omitempty" json:"report_path,omitempty"`
	DatasetPath  string        `yaml:"dataset_path,omitempty" json:"dataset_path,omitempty"`
	DatasetName  string        `yaml:"dataset_name,omitempty" json:"dataset_name,omitempty"`
	VisualConfig *VisualConfig `yaml:"visual_config,omitempty" json:"visual_config,omitempty"`
	Gallery      []string      `yaml:"gallery,omitempty" json:"gallery,omitempty"`
}

// HasNotebook reports whether the project links a raw .ipynb document.
func (p Project) HasNotebook() bool {
	return strings.HasSuffix(strings.ToLower(p.NotebookPath), ".ipynb")
}

// Experience is one work history entry.
type Experience struct {
	ID          int      `yaml:"id" json:"id"`
	Role        string   `yaml:"role" json:"role"`
	Company     string   `yaml:"company" json:"company"`
	Period      string   `yaml:"period" json:"period"`
	Description []string `yaml:"description" json:"description"`
}

// Organization is one committee or club entry.
type Organization struct {
	ID          int    `yaml:"id" json:"id"`
	Role        string `yaml:"role" json:"role"`
	Name        string `yaml:"name" json:"name"`
	Period      string `yaml:"period" json:"period"`
	Description string `yaml:"description" json:"description"`
}

// Recommendation is a testimonial.
type Recommendation struct {
	ID        int    `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Role      string `yaml:"role" json:"role"`
	Company   string `yaml:"company" json:"company"`
	Text      string `yaml:"text" json:"text"`
	AvatarURL string `yaml:"avatar_url" json:"avatar_url"`
}

// Assistant holds the fixed phrases of the chat assistant.
type Assistant struct {
	Greeting      string `yaml:"greeting" json:"greeting"`
	FallbackError string `yaml:"fallback_error" json:"-"`
	FallbackEmpty string `yaml:"fallback_empty" json:"-"`
	Closing       string `yaml:"closing" json:"-"`
}

// Portfolio is the complete static content of the site.
type Portfolio struct {
	Profile         Profile          `yaml:"profile" json:"profile"`
	Skills          []Skill          `yaml:"skills" json:"skills"`
	Projects        []Project        `yaml:"projects" json:"projects"`
	Experiences     []Experience     `yaml:"experiences" json:"experiences"`
	Organizations   []Organization   `yaml:"organizations" json:"organizations"`
	Recommendations []Recommendation `yaml:"recommendations" json:"recommendations"`
	Assistant       Assistant        `yaml:"assistant" json:"assistant"`
}

// Default returns the portfolio bundled with the binary.
func Default() (*Portfolio, error) {
	return Parse(defaultData)
}

// Load reads a portfolio file. An empty path loads the bundled data.
func Load(path string) (*Portfolio, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio data: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates portfolio YAML. Unknown fields are rejected.
func Parse(data []byte) (*Portfolio, error) {
	var p Portfolio
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode portfolio data: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the invariants the rest of the service relies on.
func (p *Portfolio) Validate() error {
	var errs []error

	if strings.TrimSpace(p.Profile.Name) == "" {
		errs = append(errs, errors.New("profile.name is required"))
	}

	for i, s := range p.Skills {
		switch s.Category {
		case CategoryLanguage, CategoryTool, CategorySoftSkill, CategoryFramework:
		default:
			errs = append(errs, fmt.Errorf("skills[%d] %q: unknown category %q", i, s.Name, s.Category))
		}
		if s.Level < 0 || s.Level > 100 {
			errs = append(errs, fmt.Errorf("skills[%d] %q: level must be between 0 and 100", i, s.Name))
		}
	}

	seen := make(map[int]struct{}, len(p.Projects))
	for i, proj := range p.Projects {
		if proj.ID <= 0 {
			errs = append(errs, fmt.Errorf("projects[%d]: id must be positive", i))
		}
		if _, dup := seen[proj.ID]; dup {
			errs = append(errs, fmt.Errorf("projects[%d]: duplicate id %d", i, proj.ID))
		}
		seen[proj.ID] = struct{}{}
		if strings.TrimSpace(proj.Title) == "" {
			errs = append(errs, fmt.Errorf("projects[%d]: title is required", i))
		}
		if vc := proj.VisualConfig; vc != nil && vc.Type != "bar" && vc.Type != "iframe" {
			errs = append(errs, fmt.Errorf("projects[%d]: visual_config.type must be bar or iframe", i))
		}
	}

	return errors.Join(errs...)
}

// ProjectByID returns the curated project with the given id.
func (p *Portfolio) ProjectByID(id int) (Project, bool) {
	for _, proj := range p.Projects {
		if proj.ID == id {
			return proj, true
		}
	}
	return Project{}, false
}
