package model

import (
	"fmt"
	"path/filepath"
)

// ArtifactKind identifies the installer format produced by the build step.
type ArtifactKind string

const (
	ArtifactDMG ArtifactKind = "dmg"
	ArtifactPKG ArtifactKind = "pkg"
)

// ContentType returns the MIME type used when uploading the asset.
func (k ArtifactKind) ContentType() string {
	switch k {
	case ArtifactDMG:
		return "application/x-apple-diskimage"
	default:
		return "application/octet-stream"
	}
}

// Artifact is an installer file produced by the build step at a fixed,
// predictable path under the dist directory.
type Artifact struct {
	Kind ArtifactKind
	Name string // Remote asset name (e.g. ShapeOut2_1.2.3.dmg)
	Path string // Local path on the runner
	Size int64  // Filled in by the verification step
}

// ExpectedArtifacts returns the artifacts the build step must produce for
// the given product and tag: one DMG and one PKG named
// <product>_<tag>.<ext> under distDir.
func ExpectedArtifacts(distDir, product, tag string) []Artifact {
	kinds := []ArtifactKind{ArtifactDMG, ArtifactPKG}
	artifacts := make([]Artifact, 0, len(kinds))
	for _, kind := range kinds {
		name := fmt.Sprintf("%s_%s.%s", product, tag, kind)
		artifacts = append(artifacts, Artifact{
			Kind: kind,
			Name: name,
			Path: filepath.Join(distDir, name),
		})
	}
	return artifacts
}
