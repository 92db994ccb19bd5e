package history

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	apperrors "gxkit/internal/errors"
)

var manifestValidator = validator.New()

// ParseManifest decodes and validates a YAML package manifest. Unknown keys
// are rejected.
func ParseManifest(data []byte) (*Package, error) {
	var pkg Package
	if err := yaml.UnmarshalStrict(data, &pkg); err != nil {
		return nil, apperrors.NewParsingError("invalid manifest", err)
	}
	if err := manifestValidator.Struct(&pkg); err != nil {
		return nil, apperrors.NewAppValidationError("manifest validation failed", err)
	}
	return &pkg, nil
}

// LoadManifest reads one manifest file
func LoadManifest(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewResourceError(fmt.Sprintf("failed to read manifest %s", path), err)
	}
	pkg, err := ParseManifest(data)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			appErr.WithContext("manifest", path)
		}
		return nil, err
	}
	return pkg, nil
}

// LoadManifests reads manifest files concurrently. Results keep the order
// of paths; the first failure cancels the rest.
func LoadManifests(ctx context.Context, paths []string) ([]*Package, error) {
	pkgs := make([]*Package, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pkg, err := LoadManifest(path)
			if err != nil {
				return err
			}
			pkgs[i] = pkg
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pkgs, nil
}
