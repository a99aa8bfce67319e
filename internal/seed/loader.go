// Package seed loads table fixtures written in CUE and inserts them into a
// store.
//
// A fixtures directory holds one CUE package. Its top-level tables struct maps
// table keys to lists of rows:
//
//	tables: {
//		menu: [
//			{id: "m1", name: "Soup", price: 6.5, category: "starter", available: true},
//		]
//		tables: [ for n in [1, 2, 3] {id: n, number: n, seats: 4, status: "free"} ]
//	}
//
// CUE constraints, comprehensions and references all work; every row must
// evaluate to a concrete object.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/bistro/internal/record"
)

// Error code constants.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	ErrCodeNoTables   = "E201" // No tables struct
	ErrCodeNotList    = "E202" // Table value is not a list
	ErrCodeNotObject  = "E203" // Row is not an object
	ErrCodeIncomplete = "E204" // Row is not concrete
)

// LoadError represents an error that occurred while loading fixtures.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Fixtures is the evaluated content of a fixtures directory.
type Fixtures struct {
	// Tables maps table key to rows in declaration order.
	Tables map[string][]record.Record

	// FileCount is the number of CUE files found.
	FileCount int
}

// Names returns the table keys in sorted order.
func (f *Fixtures) Names() []string {
	names := make([]string, 0, len(f.Tables))
	for name := range f.Tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Rows returns the total row count across tables.
func (f *Fixtures) Rows() int {
	n := 0
	for _, rows := range f.Tables {
		n += len(rows)
	}
	return n
}

// Load evaluates the CUE package in dir and extracts its tables.
func Load(dir string) (*Fixtures, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("fixtures directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing fixtures directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	tables, err := extractTables(value)
	if err != nil {
		return nil, err
	}
	return &Fixtures{Tables: tables, FileCount: len(cueFiles)}, nil
}

// LoadString evaluates fixtures from CUE source text.
func LoadString(src string) (*Fixtures, error) {
	value := cuecontext.New().CompileString(src)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}
	tables, err := extractTables(value)
	if err != nil {
		return nil, err
	}
	return &Fixtures{Tables: tables}, nil
}

func extractTables(value cue.Value) (map[string][]record.Record, error) {
	tablesVal := value.LookupPath(cue.ParsePath("tables"))
	if !tablesVal.Exists() {
		return nil, &LoadError{Code: ErrCodeNoTables, Message: "no tables found in fixtures"}
	}

	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNoTables, Message: fmt.Sprintf("iterating tables: %v", err), Pos: tablesVal.Pos()}
	}

	tables := make(map[string][]record.Record)
	for iter.Next() {
		name := iter.Label()
		rows, err := extractRows(name, iter.Value())
		if err != nil {
			return nil, err
		}
		tables[name] = rows
	}
	return tables, nil
}

func extractRows(table string, v cue.Value) ([]record.Record, error) {
	if v.IncompleteKind() != cue.ListKind {
		return nil, &LoadError{Code: ErrCodeNotList, Message: fmt.Sprintf("tables.%s: expected a list of rows", table), Pos: v.Pos()}
	}

	list, err := v.List()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotList, Message: fmt.Sprintf("tables.%s: %v", table, err), Pos: v.Pos()}
	}

	var rows []record.Record
	for i := 0; list.Next(); i++ {
		elem := list.Value()
		path := fmt.Sprintf("tables.%s[%d]", table, i)

		if elem.IncompleteKind() != cue.StructKind {
			return nil, &LoadError{Code: ErrCodeNotObject, Message: path + ": expected an object", Pos: elem.Pos()}
		}
		if err := elem.Validate(cue.Concrete(true)); err != nil {
			return nil, &LoadError{Code: ErrCodeIncomplete, Message: fmt.Sprintf("%s: %v", path, err), Pos: elem.Pos()}
		}

		data, err := elem.MarshalJSON()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("%s: %v", path, err), Pos: elem.Pos()}
		}
		parsed, err := record.ParseJSON(data)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("%s: %v", path, err), Pos: elem.Pos()}
		}
		obj, ok := parsed.(map[string]any)
		if !ok {
			return nil, &LoadError{Code: ErrCodeNotObject, Message: path + ": expected an object", Pos: elem.Pos()}
		}
		rows = append(rows, record.Record(obj))
	}
	return rows, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
