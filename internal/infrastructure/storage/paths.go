package storage

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/garyjia/presentor/internal/application/port"
)

// DefaultAppName is the folder created under the user's documents directory
const DefaultAppName = "Presentor"

// Resolver computes the default storage root. It never touches the filesystem.
type Resolver struct {
	appName      string
	override     string
	documentsDir func() string
}

var _ port.RootResolver = (*Resolver)(nil)

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithRootOverride makes DefaultRoot return root verbatim when it is non-empty
func WithRootOverride(root string) ResolverOption {
	return func(r *Resolver) {
		r.override = root
	}
}

// WithDocumentsDir replaces the platform documents directory lookup
func WithDocumentsDir(fn func() string) ResolverOption {
	return func(r *Resolver) {
		r.documentsDir = fn
	}
}

// NewResolver creates a Resolver for appName
func NewResolver(appName string, opts ...ResolverOption) *Resolver {
	if appName == "" {
		appName = DefaultAppName
	}
	r := &Resolver{
		appName:      appName,
		documentsDir: platformDocumentsDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultRoot returns <documents>/<appName>, or the override when one is set
func (r *Resolver) DefaultRoot() (string, error) {
	if r.override != "" {
		return r.override, nil
	}

	// A relative result means the platform could not anchor the directory (no home)
	dir := r.documentsDir()
	if dir == "" || !filepath.IsAbs(dir) {
		return "", &Error{Kind: KindNoDocumentsDirectory, Op: "could not find documents directory"}
	}
	return filepath.Join(dir, r.appName), nil
}

func platformDocumentsDir() string {
	return xdg.UserDirs.Documents
}
