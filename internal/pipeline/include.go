package pipeline

import "github.com/alevsk/ci-scope/internal/document"

// IncludedFiles maps a file pulled from another project to that project,
// in the order the include entries were written
type IncludedFiles struct {
	files   []string
	project map[string]string
}

// NewIncludedFiles creates an empty IncludedFiles
func NewIncludedFiles() *IncludedFiles {
	return &IncludedFiles{project: make(map[string]string)}
}

// Add records file as coming from project. A file seen again keeps its
// position and takes the new project.
func (f *IncludedFiles) Add(file, project string) {
	if _, ok := f.project[file]; !ok {
		f.files = append(f.files, file)
	}
	f.project[file] = project
}

// Files returns the included files in insertion order
func (f *IncludedFiles) Files() []string {
	return f.files
}

// Project returns the project file was included from
func (f *IncludedFiles) Project(file string) (string, bool) {
	p, ok := f.project[file]
	return p, ok
}

// Len returns the number of included files
func (f *IncludedFiles) Len() int {
	return len(f.files)
}

// IndexIncludes collects the project includes of doc, the entries carrying both
// `file` and `project`. Local includes are left to the relation resolver.
func IndexIncludes(doc *document.Document) *IncludedFiles {
	index := NewIncludedFiles()
	if doc == nil {
		return index
	}

	include, ok := doc.Root.Get("include")
	if !ok {
		return index
	}

	var entries []*document.Value
	switch include.Kind() {
	case document.KindSequence:
		entries = include.Items()
	case document.KindMapping:
		entries = []*document.Value{include}
	default:
		return index
	}

	for _, entry := range entries {
		fileValue, hasFile := entry.Get("file")
		projectValue, hasProject := entry.Get("project")
		if !hasFile || !hasProject {
			continue
		}
		project, ok := projectValue.Scalar()
		if !ok {
			continue
		}
		// file may be a single path or a list of paths from the same project
		files, ok := fileValue.Strings()
		if !ok {
			continue
		}
		for _, file := range files {
			index.Add(file, project)
		}
	}

	return index
}
