package confloader

import (
	"errors"
	"os"
	"strings"
)

// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
var ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

// mapProvider is a koanf provider over an in-memory map. koanf calls
// Read() when no parser is given.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read returns the configuration map, expanding dotted keys.
func (m mapProvider) Read() (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		insert(out, k, v)
	}
	return out, nil
}

// insert stores v at the dotted path k inside out, creating intermediate
// maps as needed.
func insert(out map[string]any, k string, v any) {
	for {
		i := strings.IndexByte(k, '.')
		if i < 0 {
			out[k] = v
			return
		}
		child, ok := out[k[:i]].(map[string]any)
		if !ok {
			child = make(map[string]any)
			out[k[:i]] = child
		}
		out, k = child, k[i+1:]
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
