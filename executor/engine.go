package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/google/uuid"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	logrus "github.com/sirupsen/logrus"

	"codeport/config"
	"codeport/model"
)

// containerAPI is the slice of the Docker client the engine calls, split
// out so container lifecycle handling is testable without a daemon.
type containerAPI interface {
	ImageInspectWithRaw(ctx context.Context, imageID string) (types.ImageInspect, []byte, error)
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
}

const (
	pingTimeout    = 5 * time.Second
	logsTimeout    = 10 * time.Second
	removeTimeout  = 30 * time.Second
	containerLabel = "codeport-exec"
)

// ContainerEngine owns the one Docker client for the process lifetime and
// the container lifecycle of every sandboxed execution. If Docker is
// unreachable at startup the engine records itself unavailable and every
// later call fails fast instead of attempting a runtime call.
type ContainerEngine struct {
	cli       containerAPI
	docker    config.DockerConfig
	memBytes  int64
	logger    *logrus.Logger
	available bool
}

// NewContainerEngine connects to the Docker daemon. It never fails hard:
// an unreachable daemon yields an engine that reports unavailable.
func NewContainerEngine(dockerCfg config.DockerConfig, logger *logrus.Logger) *ContainerEngine {
	if logger == nil {
		logger = logrus.New()
	}

	// Validated at config load; the fallback only guards direct construction.
	memBytes, err := dockerCfg.MemoryBytes()
	if err != nil {
		memBytes = 512 * 1024 * 1024
	}

	engine := &ContainerEngine{
		docker:   dockerCfg,
		memBytes: memBytes,
		logger:   logger,
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		logger.WithError(err).Warn("Failed to create Docker client, sandbox disabled")
		return engine
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		logger.WithError(err).Warn("Docker daemon unreachable, sandbox disabled")
		return engine
	}

	engine.cli = cli
	engine.available = true
	return engine
}

// Available reports whether the isolation runtime was reachable at startup.
func (e *ContainerEngine) Available() bool {
	return e.available
}

// EnsureImage checks local presence of the image and pulls it when absent.
func (e *ContainerEngine) EnsureImage(ctx context.Context, ref string) error {
	_, _, err := e.cli.ImageInspectWithRaw(ctx, ref)
	if err == nil {
		return nil
	}
	if !errdefs.IsNotFound(err) {
		return fmt.Errorf("failed to inspect image %s: %w", ref, err)
	}

	e.logger.WithField("image", ref).Info("Pulling Docker image")
	reader, err := e.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}
	defer reader.Close()

	// The pull only completes once the progress stream is drained.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}
	return nil
}

// CreateContainer starts a detached container with the workspace
// bind-mounted read-write at workingDir and the process-wide resource
// limits applied. The container is never auto-removed by the runtime;
// removal is always explicit so logs stay retrievable after abnormal exit.
func (e *ContainerEngine) CreateContainer(ctx context.Context, imageRef, command, workspace, workingDir string) (string, error) {
	name := fmt.Sprintf("%s-%s", containerLabel, uuid.NewString()[:8])

	cfg := &container.Config{
		Image:      imageRef,
		Cmd:        []string{"sh", "-c", command},
		WorkingDir: workingDir,
	}
	hostCfg := &container.HostConfig{
		Binds: []string{fmt.Sprintf("%s:%s:rw", workspace, workingDir)},
		Resources: container.Resources{
			Memory:    e.memBytes,
			CPUPeriod: e.docker.CPUPeriod,
			CPUQuota:  e.docker.CPUQuota,
		},
	}
	if e.docker.NetworkDisabled {
		hostCfg.NetworkMode = "none"
	}

	resp, err := e.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}

	if err := e.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		e.removeContainer(resp.ID)
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"container": shortID(resp.ID),
		"image":     imageRef,
	}).Debug("Container started")

	return resp.ID, nil
}

// WaitForCompletion blocks until the container exits or the timeout
// elapses and maps the outcome onto an ExecutionResult. The container is
// force-removed on every path, including log-retrieval failures.
func (e *ContainerEngine) WaitForCompletion(ctx context.Context, containerID string, timeout time.Duration) model.ExecutionResult {
	start := time.Now()
	defer e.removeContainer(containerID)

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	statusCh, errCh := e.cli.ContainerWait(waitCtx, containerID, container.WaitConditionNotRunning)

	select {
	case status := <-statusCh:
		logs, logErr := e.collectLogs(containerID)
		elapsed := time.Since(start).Seconds()
		if logErr != nil {
			// A clean exit with unreadable logs must not pass as an empty
			// success, so the retrieval failure becomes the result.
			e.logger.WithError(logErr).Warn("Failed to collect container logs")
			return model.ExecutionResult{
				Success:       false,
				Error:         fmt.Sprintf("Execution failed: could not retrieve container logs: %s", logErr),
				ExecutionTime: elapsed,
			}
		}
		if status.StatusCode == 0 {
			return model.ExecutionResult{
				Success:       true,
				Output:        logs,
				ExecutionTime: elapsed,
			}
		}
		return model.ExecutionResult{
			Success:       false,
			Error:         logs,
			ExecutionTime: elapsed,
		}

	case err := <-errCh:
		// Best-effort: recover whatever logs exist, ignoring secondary failures.
		logs, _ := e.collectLogs(containerID)
		elapsed := time.Since(start).Seconds()

		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			e.logger.WithFields(logrus.Fields{
				"container": shortID(containerID),
				"timeout":   timeout,
			}).Warn("Execution timeout")
			err = fmt.Errorf("timeout after %v", timeout)
		}

		msg := classifyError(err)
		if logs != "" {
			msg = fmt.Sprintf("%s\nLogs: %s", msg, logs)
		}
		return model.ExecutionResult{
			Success:       false,
			Error:         msg,
			ExecutionTime: elapsed,
		}
	}
}

// collectLogs returns the container's combined stdout+stderr stream.
func (e *ContainerEngine) collectLogs(containerID string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), logsTimeout)
	defer cancel()

	reader, err := e.cli.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return "", err
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, reader); err != nil {
		return buf.String(), err
	}
	return buf.String(), nil
}

// removeContainer force-removes a container; failures are logged and
// swallowed so cleanup never masks the primary error.
func (e *ContainerEngine) removeContainer(containerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()

	if err := e.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
		e.logger.WithError(err).Warnf("Failed to remove container %s", shortID(containerID))
		return
	}
	e.logger.Debugf("Removed container: %s", shortID(containerID))
}

// shortID returns a shortened container ID for logging.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
