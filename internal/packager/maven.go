package packager

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const mavenBuildTimeout = 120 * time.Second

// Builder compiles a plugin source tree into a distributable jar.
type Builder interface {
	Build(ctx context.Context, files map[string][]byte, pluginName string) ([]byte, string, error)
}

// MavenBuilder materializes the source tree in a temp directory and shells
// out to mvn. Build failures are expected for model-written Java; callers
// fall back to shipping the source archive.
type MavenBuilder struct {
	logger *zap.Logger
}

func NewMavenBuilder(logger *zap.Logger) *MavenBuilder {
	return &MavenBuilder{
		logger: logger,
	}
}

func (b *MavenBuilder) Build(ctx context.Context, files map[string][]byte, pluginName string) ([]byte, string, error) {
	tempDir, err := os.MkdirTemp("", "plugin-build-*")
	if err != nil {
		return nil, "", fmt.Errorf("create build dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(tempDir)
	}()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return nil, "", fmt.Errorf("create source dir: %w", err)
		}
		if err := os.WriteFile(fullPath, content, 0o644); err != nil {
			return nil, "", fmt.Errorf("write source file %s: %w", path, err)
		}
	}

	buildCtx, cancel := context.WithTimeout(ctx, mavenBuildTimeout)
	defer cancel()

	cmd := exec.CommandContext(buildCtx, "mvn", "package", "-q")
	cmd.Dir = tempDir
	if out, err := cmd.CombinedOutput(); err != nil {
		b.logger.Info("maven build failed, falling back to source archive",
			zap.String("plugin", pluginName),
			zap.Error(err),
			zap.String("output", truncate(string(out), 2048)),
		)
		return nil, "", fmt.Errorf("maven build: %w", err)
	}

	jarPath, err := findJar(filepath.Join(tempDir, "target"))
	if err != nil {
		return nil, "", err
	}

	jar, err := os.ReadFile(jarPath)
	if err != nil {
		return nil, "", fmt.Errorf("read built jar: %w", err)
	}

	return jar, pluginName + ".jar", nil
}

func findJar(targetDir string) (string, error) {
	entries, err := os.ReadDir(targetDir)
	if err != nil {
		return "", fmt.Errorf("no build output: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".jar") && !strings.HasSuffix(name, "-sources.jar") {
			return filepath.Join(targetDir, name), nil
		}
	}
	return "", fmt.Errorf("no jar produced in %s", targetDir)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
