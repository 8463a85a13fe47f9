package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind Kind
		wantErr  error
	}{
		{
			name:     "mapping",
			input:    "build:\n  stage: build\n",
			wantKind: KindMapping,
		},
		{
			name:     "sequence",
			input:    "- a\n- b\n",
			wantKind: KindSequence,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyDocument,
		},
		{
			name:    "comments only",
			input:   "# nothing here\n",
			wantErr: ErrEmptyDocument,
		},
		{
			name:    "explicit null",
			input:   "~\n",
			wantErr: ErrEmptyDocument,
		},
		{
			name:    "multiple documents",
			input:   "a: 1\n---\nb: 2\n",
			wantErr: ErrMultipleDocuments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse("test.yml", []byte(tt.input))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "test.yml", doc.Path)
			assert.Equal(t, tt.wantKind, doc.Root.Kind())
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse("broken.yml", []byte("stages: [build\n  - broken: {\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValue_MappingKeepsDocumentOrder(t *testing.T) {
	doc, err := Parse("order.yml", []byte("zeta: 1\nalpha: 2\nmid: 3\n"))
	require.NoError(t, err)

	var keys []string
	for _, e := range doc.Root.Entries() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
}

func TestValue_DuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	doc, err := Parse("dup.yml", []byte("a: 1\nb: 2\na: 3\n"))
	require.NoError(t, err)

	entries := doc.Root.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	s, _ := entries[0].Value.Scalar()
	assert.Equal(t, "3", s)
}

func TestValue_Accessors(t *testing.T) {
	doc, err := Parse("acc.yml", []byte(`
job:
  stage: build
  extends: [.a, .b, {nested: true}]
  retry: 2
  allow_failure: true
`))
	require.NoError(t, err)

	job, ok := doc.Root.Get("job")
	require.True(t, ok)
	assert.Equal(t, KindMapping, job.Kind())
	assert.True(t, job.Has("stage"))
	assert.False(t, job.Has("missing"))

	stage, _ := job.Get("stage")
	s, ok := stage.Scalar()
	assert.True(t, ok)
	assert.Equal(t, "build", s)

	ext, _ := job.Get("extends")
	names, ok := ext.Strings()
	assert.True(t, ok)
	assert.Equal(t, []string{".a", ".b"}, names)

	_, ok = job.Strings()
	assert.False(t, ok)

	plain := job.Interface().(map[string]interface{})
	assert.Equal(t, int64(2), plain["retry"])
	assert.Equal(t, true, plain["allow_failure"])
}

func TestValue_Alias(t *testing.T) {
	doc, err := Parse("alias.yml", []byte(`
.defaults: &defaults
  image: alpine
job:
  stage: test
  variables: *defaults
`))
	require.NoError(t, err)

	job, _ := doc.Root.Get("job")
	vars, ok := job.Get("variables")
	require.True(t, ok)
	assert.Equal(t, KindUnsupported, vars.Kind())

	err = vars.Expect(KindMapping)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedShape))
}

func TestValue_Nil(t *testing.T) {
	var v *Value
	assert.Equal(t, KindNull, v.Kind())
	assert.Nil(t, v.Entries())
	assert.Nil(t, v.Items())
	assert.False(t, v.Has("x"))
	assert.NoError(t, v.Expect(KindNull))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "scalar", KindScalar.String())
	assert.Equal(t, "mapping", KindMapping.String())
	assert.Equal(t, "sequence", KindSequence.String())
	assert.Equal(t, "unsupported", KindUnsupported.String())
}

func TestFileLoader_Load(t *testing.T) {
	t.Run("fixture", func(t *testing.T) {
		doc, err := NewFileLoader(false).Load(filepath.Join("testdata", "pipeline.yml"))
		require.NoError(t, err)
		assert.True(t, doc.Root.Has("include"))
		assert.True(t, doc.Root.Has("build_job"))
	})

	t.Run("invalid fixture", func(t *testing.T) {
		_, err := NewFileLoader(false).Load(filepath.Join("testdata", "invalid.yml"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileLoader(false).Load(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("lenient drops invalid utf-8", func(t *testing.T) {
		_, strictErr := NewFileLoader(false).Load(filepath.Join("testdata", "latin1.yml"))
		assert.Error(t, strictErr)

		doc, err := NewFileLoader(true).Load(filepath.Join("testdata", "latin1.yml"))
		require.NoError(t, err)
		stage, ok := doc.Root.Get("stage")
		require.True(t, ok)
		s, _ := stage.Scalar()
		assert.Equal(t, "build", s)
	})
}
