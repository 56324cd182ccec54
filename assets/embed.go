package assets

import (
	"bytes"
	"embed"
	"path/filepath"
	"strings"
)

//go:embed *.gltf
var assetsFS embed.FS

// DefaultCity is the embedded city layout.
const DefaultCity = "city.gltf"

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return assetsFS.ReadFile(cleanAssetPath(path))
}

// LoadEmbedded decodes an embedded glTF model.
func LoadEmbedded(name string, opts ...Option) (*Model, error) {
	b, err := LoadFile(name)
	if err != nil {
		return nil, err
	}
	return DecodeGLTF(bytes.NewReader(b), opts...)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
