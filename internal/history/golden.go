package history

import (
	"context"
	"encoding/xml"
	"os"

	"gxkit/internal/config"
	apperrors "gxkit/internal/errors"
	"gxkit/internal/golden"
)

type descriptor struct {
	XMLName  xml.Name            `xml:"history"`
	Floor    string              `xml:"floor,attr"`
	Packages []descriptorPackage `xml:"package"`
}

type descriptorPackage struct {
	Name     string              `xml:"name,attr"`
	Versions []descriptorVersion `xml:"version"`
}

type descriptorVersion struct {
	Number    string `xml:"number,attr"`
	Classes   int    `xml:"classes,attr"`
	Functions int    `xml:"functions,attr"`
}

// GoldenRenderer renders the page for pkgs as the primary artifact and a
// per-version symbol count summary as the XML descriptor.
func (g *Generator) GoldenRenderer(pkgs ...*Package) golden.Renderer {
	return golden.RendererFunc(func(ctx context.Context, _ string, primary, descriptorPath string) error {
		pages := g.Collect(ctx, pkgs...)
		if err := g.writePages(ctx, primary, pages); err != nil {
			return err
		}

		d := descriptor{Floor: Label(g.Floor)}
		for _, page := range pages {
			dp := descriptorPackage{Name: page.Package.Name}
			for _, e := range page.Versions() {
				dp.Versions = append(dp.Versions, descriptorVersion{
					Number:    e.Label(),
					Classes:   len(e.Classes),
					Functions: len(e.Functions),
				})
			}
			d.Packages = append(d.Packages, dp)
		}

		out, err := xml.MarshalIndent(d, "", "  ")
		if err != nil {
			return apperrors.NewStorageError("failed to encode descriptor", err)
		}
		out = append([]byte(xml.Header), out...)
		out = append(out, '\n')
		if err := os.WriteFile(descriptorPath, out, config.FilePerm); err != nil {
			return apperrors.NewStorageError("failed to write descriptor", err)
		}
		return nil
	})
}
