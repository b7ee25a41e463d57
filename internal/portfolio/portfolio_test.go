package portfolio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if p.Profile.Name == "" {
		t.Error("Profile.Name is empty")
	}
	if len(p.Skills) == 0 {
		t.Error("Skills is empty")
	}
	if len(p.Projects) == 0 {
		t.Error("Projects is empty")
	}
	if p.Assistant.FallbackError == "" || p.Assistant.FallbackEmpty == "" {
		t.Error("assistant fallbacks must be set")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name: "minimal",
			input: `
profile: {name: Ada}
projects:
  - {id: 1, title: Engine}
`,
		},
		{
			name:    "unknown field",
			input:   "profile: {name: Ada, age: 3}\n",
			wantErr: "field age not found",
		},
		{
			name:    "missing name",
			input:   "profile: {role: dev}\n",
			wantErr: "profile.name is required",
		},
		{
			name: "bad category",
			input: `
profile: {name: Ada}
skills: [{name: Go, category: Spoken}]
`,
			wantErr: `unknown category "Spoken"`,
		},
		{
			name: "level out of range",
			input: `
profile: {name: Ada}
skills: [{name: Go, category: Language, level: 101}]
`,
			wantErr: "level must be between 0 and 100",
		},
		{
			name: "duplicate project id",
			input: `
profile: {name: Ada}
projects:
  - {id: 1, title: A}
  - {id: 1, title: B}
`,
			wantErr: "duplicate id 1",
		},
		{
			name: "bad visual type",
			input: `
profile: {name: Ada}
projects:
  - {id: 1, title: A, visual_config: {type: pie}}
`,
			wantErr: "visual_config.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Parse() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	if err := os.WriteFile(path, []byte("profile: {name: Grace}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Profile.Name != "Grace" {
		t.Errorf("Profile.Name = %q, want Grace", p.Profile.Name)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file should fail")
	}

	def, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if def.Profile.Name == "" {
		t.Error("Load(\"\") should return the bundled portfolio")
	}
}

func TestProjectByID(t *testing.T) {
	p := &Portfolio{Projects: []Project{{ID: 1, Title: "A"}, {ID: 7, Title: "B"}}}

	got, ok := p.ProjectByID(7)
	if !ok || got.Title != "B" {
		t.Errorf("ProjectByID(7) = %+v, %v", got, ok)
	}
	if _, ok := p.ProjectByID(2); ok {
		t.Error("ProjectByID(2) should not be found")
	}
}

func TestProject_HasNotebook(t *testing.T) {
	tests := map[string]bool{
		"/notebooks/a.ipynb": true,
		"/notebooks/A.IPYNB": true,
		"/reports/a.pdf":     false,
		"":                   false,
	}
	for path, want := range tests {
		if got := (Project{NotebookPath: path}).HasNotebook(); got != want {
			t.Errorf("HasNotebook(%q) = %v, want %v", path, got, want)
		}
	}
}

func testPortfolio() *Portfolio {
	return &Portfolio{
		Profile: Profile{Name: "Ada", Role: "Engineer", About: "Builds engines.", Bio: []string{"Likes math.", "Likes looms."}},
		Skills:  []Skill{{Name: "Go", Category: CategoryLanguage}, {Name: "SQL", Category: CategoryLanguage}},
		Projects: []Project{
			{ID: 3, Title: "Engine", Tags: []string{"Math"}, Details: "Analytical engine."},
		},
		Experiences:   []Experience{{ID: 1, Role: "Analyst", Company: "Babbage", Period: "1843", Description: []string{"Wrote notes.", "Wrote programs."}}},
		Organizations: []Organization{{ID: 2, Role: "Member", Name: "Society", Period: "1840", Description: "Attended."}},
	}
}

func TestResumeContext(t *testing.T) {
	got := testPortfolio().ResumeContext()

	wantParts := []string{
		"You are the AI assistant for Ada's portfolio.",
		"Name: Ada",
		"Role: Engineer",
		"Interests: Likes math. Likes looms.",
		"Skills: Go, SQL",
		"- Analyst at Babbage (1843): Wrote notes. Wrote programs.",
		"- Member at Society (1840): Attended.",
		"- Engine (Math): Analytical engine.",
	}
	for _, part := range wantParts {
		if !strings.Contains(got, part) {
			t.Errorf("ResumeContext() missing %q", part)
		}
	}
	if !strings.HasSuffix(got, "Answer professionally.") {
		t.Errorf("ResumeContext() should end with the closing instruction, got %q", got[len(got)-40:])
	}
}

func TestSections(t *testing.T) {
	sections := testPortfolio().Sections()

	var ids []string
	for _, s := range sections {
		ids = append(ids, s.ID)
		if s.Text == "" {
			t.Errorf("section %q has empty text", s.ID)
		}
	}
	want := []string{"profile", "skills", "experience/1", "organization/2", "project/3"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("Sections() ids mismatch (-want +got):\n%s", diff)
	}
}
