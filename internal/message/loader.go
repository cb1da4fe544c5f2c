package message

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

//go:embed schema.cue
var schemaCUE string

// Catalog holds the loaded templates keyed by name.
type Catalog struct {
	byName map[string]Template
	names  []string
}

// DefaultCatalog returns a catalog containing only the built-in
// confirmation message.
func DefaultCatalog() *Catalog {
	c := &Catalog{byName: map[string]Template{}}
	c.add(DefaultConfirmation())
	return c
}

// LoadDir loads every CUE file in dir, unifies the result with the
// embedded schema and decodes the template list. The built-in
// confirmation is always present; catalog entries with the same name
// override it.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory: not a directory: %s", dir)
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning template directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling catalog schema: %w", err)
	}

	unified := value.Unify(schema)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	var decoded struct {
		Templates []Template `json:"templates"`
	}
	if err := unified.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	cat := DefaultCatalog()
	for _, tpl := range decoded.Templates {
		if tpl.Kind != KindCatalog && tpl.Body == "" {
			return nil, fmt.Errorf("template %q: kind %s requires a body", tpl.Name, tpl.Kind)
		}
		cat.add(tpl)
	}
	return cat, nil
}

// Get returns the named template.
func (c *Catalog) Get(name string) (Template, bool) {
	tpl, ok := c.byName[name]
	return tpl, ok
}

// Names returns template names in load order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Catalog) add(tpl Template) {
	if _, seen := c.byName[tpl.Name]; !seen {
		c.names = append(c.names, tpl.Name)
	}
	c.byName[tpl.Name] = tpl
}

func findCUEFiles(dir string) ([]string, error) {
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
