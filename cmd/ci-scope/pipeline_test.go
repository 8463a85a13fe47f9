package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alevsk/ci-scope/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineFixture = `
include:
  - project: platform/templates
    file: /jobs/docker-build.yml
stages:
  - build
  - release
image:
  stage: build
  extends: .docker-build
publish:
  stage: release
  extends: [.docker-build, .notify]
`

func TestPipelineCmd(t *testing.T) {
	root := writeTree(t, map[string]string{".gitlab-ci.yml": pipelineFixture})

	code, stdout, stderr := run(t, "pipeline", "-o", "text", filepath.Join(root, ".gitlab-ci.yml"))
	require.Equal(t, 0, code, stderr)

	for _, want := range []string{
		"Included files:\n  - /jobs/docker-build.yml (from project: platform/templates)\n",
		"Stages defined in pipeline:\n  - build\n  - release\n",
		"Jobs by stage:\n",
		"    - image (extends: .docker-build)\n",
		"    - publish (extends: ['.docker-build', '.notify'])\n",
		"Mapping jobs to included files:\n",
		"      Included file: /jobs/docker-build.yml\n",
	} {
		assert.Contains(t, stdout, want)
	}
}

func TestPipelineCmd_JSON(t *testing.T) {
	root := writeTree(t, map[string]string{".gitlab-ci.yml": pipelineFixture})

	code, stdout, _ := run(t, "pipeline", "-o", "json", filepath.Join(root, ".gitlab-ci.yml"))
	require.Equal(t, 0, code)

	var report types.PipelineReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, []string{"build", "release"}, report.Stages)
	require.Len(t, report.Mapping, 2)
	assert.Len(t, report.Mapping[0].Jobs, 1)
	assert.Empty(t, report.Mapping[1].Jobs)
}

func TestPipelineCmd_Errors(t *testing.T) {
	root := writeTree(t, map[string]string{"broken.yml": "stages: [build\n"})

	tests := []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{
			name:       "missing argument",
			args:       []string{"pipeline"},
			wantStderr: pipelineUsage,
		},
		{
			name:       "too many arguments",
			args:       []string{"pipeline", "a.yml", "b.yml"},
			wantStderr: pipelineUsage,
		},
		{
			name:       "file not found",
			args:       []string{"pipeline", "-o", "text", filepath.Join(root, "nope.yml")},
			wantStderr: "File not found: " + filepath.Join(root, "nope.yml"),
		},
		{
			name:       "parse failure",
			args:       []string{"pipeline", "-o", "text", filepath.Join(root, "broken.yml")},
			wantStderr: "Error reading or parsing YAML file: ",
		},
		{
			name:       "unknown output format",
			args:       []string{"pipeline", "-o", "html", filepath.Join(root, "broken.yml")},
			wantStderr: "Error:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.wantStderr)
		})
	}
	pipelineOutput = "text"
}

func TestPipelineCmd_ParseFailureIsOneLine(t *testing.T) {
	root := writeTree(t, map[string]string{"broken.yml": "stages: [build\n"})

	code, stdout, stderr := run(t, "pipeline", "-o", "text", filepath.Join(root, "broken.yml"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "Error reading or parsing YAML file: "), stderr)
	assert.Equal(t, 1, strings.Count(stderr, "\n"), stderr)
	assert.NotContains(t, stderr, "Usage:")
}
