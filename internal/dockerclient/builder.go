package dockerclient

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/docker/docker/api/types/build"
	sdkimage "github.com/docker/go-sdk/image"
)

type StageImageBuilder interface {
	// BuildStage builds the image for one stage from its authored
	// Dockerfile and returns the tag.
	BuildStage(ctx context.Context, dockerfilePath, tag string) (string, error)
}

func (dc *dockerClient) BuildStage(ctx context.Context, dockerfilePath, tag string) (string, error) {
	dockerFileBytes, err := os.ReadFile(dockerfilePath)
	if err != nil {
		return "", fmt.Errorf("read dockerfile %s: %w", dockerfilePath, err)
	}

	// Stage Dockerfiles are self-contained FROM chains, so the build
	// context is just the Dockerfile itself.
	var buf bytes.Buffer
	tarWriter := tar.NewWriter(&buf)

	tarHeader := &tar.Header{
		Name: "Dockerfile",
		Mode: 0o600,
		Size: int64(len(dockerFileBytes)),
	}

	if err := tarWriter.WriteHeader(tarHeader); err != nil {
		return "", fmt.Errorf("write tar header: %w", err)
	}
	if _, err := tarWriter.Write(dockerFileBytes); err != nil {
		return "", fmt.Errorf("write dockerfile: %w", err)
	}
	if err := tarWriter.Close(); err != nil {
		return "", fmt.Errorf("close tar: %w", err)
	}

	buildTag, err := sdkimage.Build(
		ctx,
		&buf,
		tag,
		sdkimage.WithBuildClient(dc.client),
		sdkimage.WithBuildOptions(build.ImageBuildOptions{
			Dockerfile: "Dockerfile",
			Remove:     true, // remove intermediate containers
		}),
	)
	if err != nil {
		return "", fmt.Errorf("image build %s: %w", tag, err)
	}

	return buildTag, nil
}
