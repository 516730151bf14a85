package link

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gmofishsauce/m430/internal/asm"
)

// LoadDir reads every *.obj file in dir and parses it as a textual
// object module, keyed by file name without extension. A missing
// directory is not an error — it links as an empty set, per spec.
func LoadDir(dir string) (map[string]*asm.Object, error) {
	objects := make(map[string]*asm.Object)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return objects, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".obj") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		obj, err := asm.ReadObject(f)
		closeErr := f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if closeErr != nil {
			return nil, closeErr
		}
		name := strings.TrimSuffix(entry.Name(), ".obj")
		objects[name] = obj
	}

	return objects, nil
}
