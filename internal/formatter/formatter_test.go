package formatter

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/alevsk/ci-scope/internal/types"
	"gopkg.in/yaml.v3"
)

func sampleReport() *types.PipelineReport {
	return &types.PipelineReport{
		Path: "templates/java-pipeline.yml",
		IncludedFiles: []types.IncludedFile{
			{File: "/templates/maven-build.yml", Project: "platform/ci-templates"},
		},
		Stages: []string{"build", "test"},
		JobsByStage: []types.StageJobs{
			{Stage: "build", Jobs: []types.JobEntry{
				{Name: "compile", Extends: []string{".maven-build"}, ExtendsText: ".maven-build"},
			}},
			{Stage: "test", Jobs: []types.JobEntry{
				{Name: "unit"},
				{Name: "lint", Extends: []string{".a", ".b"}, ExtendsText: "['.a', '.b']"},
			}},
		},
		Mapping: []types.StageMappedJobs{
			{Stage: "build", Jobs: []types.MappedJob{
				{Job: "compile", Extends: ".maven-build", IncludedFile: "/templates/maven-build.yml", Project: "platform/ci-templates"},
			}},
			{Stage: "test"},
		},
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType Type
		wantErr  bool
	}{
		{"text", "text", TypeText, false},
		{"json", "json", TypeJSON, false},
		{"yaml", "yaml", TypeYAML, false},
		{"table", "table", TypeTable, false},
		{"markdown", "markdown", TypeMarkdown, false},
		{"unknown", "unknown", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, err := ParseType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseType() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if gotType != tt.wantType {
				t.Errorf("ParseType() gotType = %v, want %v", gotType, tt.wantType)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	validTypes := []struct {
		formatterType Type
		want          Formatter
	}{
		{TypeText, &Text{}},
		{TypeJSON, &JSON{}},
		{TypeYAML, &YAML{}},
		{TypeTable, &Table{}},
		{TypeMarkdown, &Markdown{}},
	}

	for _, tt := range validTypes {
		t.Run(string(tt.formatterType), func(t *testing.T) {
			f, err := NewFormatter(tt.formatterType)
			if err != nil {
				t.Fatalf("NewFormatter(%s) error = %v", tt.formatterType, err)
			}
			if reflect.TypeOf(f) != reflect.TypeOf(tt.want) {
				t.Errorf("NewFormatter(%s) = %T, want %T", tt.formatterType, f, tt.want)
			}
		})
	}

	if _, err := NewFormatter("xml"); err == nil {
		t.Error("NewFormatter(xml) expected error")
	}
}

func TestText_Format(t *testing.T) {
	out, err := (&Text{}).Format(sampleReport())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"Analyzing GitLab CI file: templates/java-pipeline.yml",
		"Included files:\n  - /templates/maven-build.yml (from project: platform/ci-templates)",
		"Stages defined in pipeline:\n  - build\n  - test",
		"Jobs by stage:\n  Stage: build\n    - compile (extends: .maven-build)",
		"    - unit (extends: None)",
		"    - lint (extends: ['.a', '.b'])",
		"Mapping jobs to included files:\n  Stage: build\n    - Job: compile",
		"      Extends: .maven-build",
		"      Included file: /templates/maven-build.yml",
		"      Project: platform/ci-templates",
		"  Stage: test\n",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("text output missing %q:\n%s", w, out)
		}
	}

	// sections appear in order
	last := -1
	for _, heading := range []string{"Included files:", "Stages defined in pipeline:", "Jobs by stage:", "Mapping jobs to included files:"} {
		i := strings.Index(out, heading)
		if i <= last {
			t.Errorf("section %q out of order", heading)
		}
		last = i
	}
}

func TestText_FormatEmptyReport(t *testing.T) {
	out, err := (&Text{}).Format(&types.PipelineReport{Path: "empty.yml"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Included files:\n\nStages defined in pipeline:\n\nJobs by stage:") {
		t.Errorf("unexpected empty report:\n%s", out)
	}
}

func TestJSON_Format(t *testing.T) {
	out, err := (&JSON{}).Format(sampleReport())
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["path"] != "templates/java-pipeline.yml" {
		t.Errorf("unexpected path: %v", decoded["path"])
	}
	if stages, ok := decoded["stages"].([]interface{}); !ok || len(stages) != 2 {
		t.Errorf("unexpected stages: %v", decoded["stages"])
	}
}

func TestYAML_Format(t *testing.T) {
	out, err := (&YAML{}).Format(sampleReport())
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if _, ok := decoded["jobsByStage"]; !ok {
		t.Errorf("missing jobsByStage in:\n%s", out)
	}
}
