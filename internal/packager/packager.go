// Package packager turns raw generation output into a single distributable
// artifact and publishes it to object storage.
package packager

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/blocksmith-ai/backend/pkg/archive"
	"github.com/blocksmith-ai/backend/pkg/storage"
)

// Artifact is a packaged, not-yet-published generation result.
type Artifact struct {
	Name  string
	Bytes []byte
}

func (a Artifact) Size() int64 {
	return int64(len(a.Bytes))
}

type Packager struct {
	storage storage.ObjectStorage
	builder Builder
	logger  *zap.Logger
}

func NewPackager(objectStorage storage.ObjectStorage, builder Builder, logger *zap.Logger) *Packager {
	return &Packager{
		storage: objectStorage,
		builder: builder,
		logger:  logger,
	}
}

// PackagePlugin attempts a Maven build of the generated sources. When the
// build fails the sources ship as a zip instead of failing the job; the
// returned flag reports whether compilation succeeded.
func (p *Packager) PackagePlugin(ctx context.Context, pluginName string, files map[string][]byte) (Artifact, bool, error) {
	jar, jarName, err := p.builder.Build(ctx, files, pluginName)
	if err == nil {
		return Artifact{Name: jarName, Bytes: jar}, true, nil
	}

	zipped, zipErr := archive.BuildZip(files)
	if zipErr != nil {
		return Artifact{}, false, fmt.Errorf("package plugin source: %w", zipErr)
	}
	return Artifact{Name: pluginName + "_source.zip", Bytes: zipped}, false, nil
}

// PackageDatapack re-indents JSON entries and zips everything under the pack
// directory.
func (p *Packager) PackageDatapack(packName string, files map[string][]byte) (Artifact, error) {
	normalized := archive.NormalizeJSONFiles(files)

	prefixed := make(map[string][]byte, len(normalized))
	for path, content := range normalized {
		prefixed[packName+"/"+path] = content
	}

	zipped, err := archive.BuildZip(prefixed)
	if err != nil {
		return Artifact{}, fmt.Errorf("package datapack: %w", err)
	}
	return Artifact{Name: packName + ".zip", Bytes: zipped}, nil
}

// PackageTexturePack zips the generated images plus pack.mcmeta under the
// pack directory.
func (p *Packager) PackageTexturePack(packName string, files map[string][]byte) (Artifact, error) {
	prefixed := make(map[string][]byte, len(files))
	for path, content := range files {
		prefixed[packName+"/"+path] = content
	}

	zipped, err := archive.BuildZip(prefixed)
	if err != nil {
		return Artifact{}, fmt.Errorf("package texture pack: %w", err)
	}
	return Artifact{Name: packName + ".zip", Bytes: zipped}, nil
}

// Publish uploads the artifact under the caller-supplied key and returns the
// public URL. Upload failures are not retried here.
func (p *Packager) Publish(ctx context.Context, artifact Artifact, key string) (string, error) {
	url, err := p.storage.Upload(ctx, key, bytes.NewReader(artifact.Bytes))
	if err != nil {
		return "", err
	}
	p.logger.Info("artifact published",
		zap.String("key", key),
		zap.Int64("size", artifact.Size()),
	)
	return url, nil
}
