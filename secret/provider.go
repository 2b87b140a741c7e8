package secret

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
	Close() error
}

// EnvProvider resolves "secretref:env:NAME" from the process environment.
type EnvProvider struct {
	prefix string
}

// NewEnvProvider creates an env provider. A non-empty prefix is prepended to
// every variable name, so "secretref:env:TOKEN" with prefix "BREEDFETCH_"
// reads BREEDFETCH_TOKEN.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{prefix: prefix}
}

// Name returns "env".
func (p *EnvProvider) Name() string { return "env" }

// Resolve returns the variable's value. Unset variables are an error; set but
// empty ones resolve to "".
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	key := p.prefix + ref
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, key)
	}
	return v, nil
}

// Close is a no-op.
func (p *EnvProvider) Close() error { return nil }

// FileProvider resolves "secretref:file:/path" to the file's contents with
// trailing newlines trimmed, the layout used by mounted container secrets.
type FileProvider struct {
	root string
}

// NewFileProvider creates a file provider. A non-empty root confines
// references to files below it; relative references are joined to root.
func NewFileProvider(root string) *FileProvider {
	return &FileProvider{root: root}
}

// Name returns "file".
func (p *FileProvider) Name() string { return "file" }

// Resolve reads the referenced file.
func (p *FileProvider) Resolve(_ context.Context, ref string) (string, error) {
	path := filepath.Clean(ref)
	if p.root != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.root, path)
		}
		rel, err := filepath.Rel(p.root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: %s is outside %s", ErrInvalidRef, ref, p.root)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("secret: read %s: %w", ref, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// Close is a no-op.
func (p *FileProvider) Close() error { return nil }

var (
	_ Provider = (*EnvProvider)(nil)
	_ Provider = (*FileProvider)(nil)
)
