package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	logrus "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeport/config"
)

// fakeDockerAPI scripts the container lifecycle calls the engine makes.
type fakeDockerAPI struct {
	inspectErr error
	pulled     []string

	createdConfig *container.Config
	createdHost   *container.HostConfig
	startErr      error

	exitCode int64
	waitErr  error
	waitHang bool

	logsPayload string
	logsErr     error

	removed []string
}

func (f *fakeDockerAPI) ImageInspectWithRaw(ctx context.Context, imageID string) (types.ImageInspect, []byte, error) {
	return types.ImageInspect{}, nil, f.inspectErr
}

func (f *fakeDockerAPI) ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error) {
	f.pulled = append(f.pulled, refStr)
	return io.NopCloser(bytes.NewBufferString("{}")), nil
}

func (f *fakeDockerAPI) ContainerCreate(ctx context.Context, cfg *container.Config, hostCfg *container.HostConfig, netCfg *network.NetworkingConfig, platform *ocispec.Platform, name string) (container.CreateResponse, error) {
	f.createdConfig = cfg
	f.createdHost = hostCfg
	return container.CreateResponse{ID: "abc123def456ghi"}, nil
}

func (f *fakeDockerAPI) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	return f.startErr
}

func (f *fakeDockerAPI) ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	statusCh := make(chan container.WaitResponse, 1)
	errCh := make(chan error, 1)
	switch {
	case f.waitErr != nil:
		errCh <- f.waitErr
	case f.waitHang:
		// The real client reports context expiry on the error channel.
		go func() {
			<-ctx.Done()
			errCh <- ctx.Err()
		}()
	default:
		statusCh <- container.WaitResponse{StatusCode: f.exitCode}
	}
	return statusCh, errCh
}

func (f *fakeDockerAPI) ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error) {
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	var buf bytes.Buffer
	w := stdcopy.NewStdWriter(&buf, stdcopy.Stdout)
	w.Write([]byte(f.logsPayload))
	return io.NopCloser(&buf), nil
}

func (f *fakeDockerAPI) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	f.removed = append(f.removed, containerID)
	return nil
}

func newTestEngine(api *fakeDockerAPI) *ContainerEngine {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &ContainerEngine{
		cli: api,
		docker: config.DockerConfig{
			MemoryLimit:     "512m",
			CPUPeriod:       100000,
			CPUQuota:        50000,
			NetworkDisabled: true,
		},
		memBytes:  512 * 1024 * 1024,
		logger:    log,
		available: true,
	}
}

func TestEnsureImage(t *testing.T) {
	t.Run("PresentImageNotPulled", func(t *testing.T) {
		api := &fakeDockerAPI{}
		e := newTestEngine(api)

		require.NoError(t, e.EnsureImage(context.Background(), "gcc:13"))
		assert.Empty(t, api.pulled)
	})

	t.Run("MissingImagePulled", func(t *testing.T) {
		api := &fakeDockerAPI{inspectErr: errdefs.NotFound(errors.New("no such image"))}
		e := newTestEngine(api)

		require.NoError(t, e.EnsureImage(context.Background(), "gcc:13"))
		assert.Equal(t, []string{"gcc:13"}, api.pulled)
	})

	t.Run("InspectFailurePropagated", func(t *testing.T) {
		api := &fakeDockerAPI{inspectErr: errors.New("daemon gone")}
		e := newTestEngine(api)

		err := e.EnsureImage(context.Background(), "gcc:13")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to inspect image")
		assert.Empty(t, api.pulled)
	})
}

func TestCreateContainer(t *testing.T) {
	t.Run("AppliesSandboxSettings", func(t *testing.T) {
		api := &fakeDockerAPI{}
		e := newTestEngine(api)

		id, err := e.CreateContainer(context.Background(), "gcc:13", "g++ code.cpp && ./a.out", "/host/ws", "/tmp")
		require.NoError(t, err)
		assert.Equal(t, "abc123def456ghi", id)

		require.NotNil(t, api.createdConfig)
		assert.Equal(t, []string{"sh", "-c", "g++ code.cpp && ./a.out"}, []string(api.createdConfig.Cmd))
		assert.Equal(t, "/tmp", api.createdConfig.WorkingDir)

		require.NotNil(t, api.createdHost)
		assert.Equal(t, []string{"/host/ws:/tmp:rw"}, api.createdHost.Binds)
		assert.EqualValues(t, 512*1024*1024, api.createdHost.Resources.Memory)
		assert.EqualValues(t, 100000, api.createdHost.Resources.CPUPeriod)
		assert.EqualValues(t, 50000, api.createdHost.Resources.CPUQuota)
		assert.EqualValues(t, "none", api.createdHost.NetworkMode)
	})

	t.Run("StartFailureRemovesContainer", func(t *testing.T) {
		api := &fakeDockerAPI{startErr: errors.New("oci runtime error")}
		e := newTestEngine(api)

		_, err := e.CreateContainer(context.Background(), "gcc:13", "true", "/host/ws", "/tmp")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to start container")
		assert.Equal(t, []string{"abc123def456ghi"}, api.removed)
	})
}

func TestWaitForCompletion(t *testing.T) {
	t.Run("CleanExitIsSuccessWithLogs", func(t *testing.T) {
		api := &fakeDockerAPI{exitCode: 0, logsPayload: "42\n"}
		e := newTestEngine(api)

		result := e.WaitForCompletion(context.Background(), "c1", time.Second)

		assert.True(t, result.Success)
		assert.Equal(t, "42\n", result.Output)
		assert.Empty(t, result.Error)
		assert.Equal(t, []string{"c1"}, api.removed)
	})

	t.Run("NonzeroExitIsFailureWithLogs", func(t *testing.T) {
		api := &fakeDockerAPI{exitCode: 1, logsPayload: "error: expected ';'\n"}
		e := newTestEngine(api)

		result := e.WaitForCompletion(context.Background(), "c1", time.Second)

		assert.False(t, result.Success)
		assert.Empty(t, result.Output)
		assert.Equal(t, "error: expected ';'\n", result.Error)
		assert.Equal(t, []string{"c1"}, api.removed)
	})

	t.Run("LogRetrievalFailureIsNotSuccess", func(t *testing.T) {
		api := &fakeDockerAPI{exitCode: 0, logsErr: errors.New("daemon connection reset")}
		e := newTestEngine(api)

		result := e.WaitForCompletion(context.Background(), "c1", time.Second)

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "could not retrieve container logs")
		assert.Contains(t, result.Error, "daemon connection reset")
		assert.Equal(t, []string{"c1"}, api.removed)
	})

	t.Run("WaitErrorClassifiedWithRecoveredLogs", func(t *testing.T) {
		api := &fakeDockerAPI{
			waitErr:     errors.New("write /var/lib/docker: no space left on device"),
			logsPayload: "partial output",
		}
		e := newTestEngine(api)

		result := e.WaitForCompletion(context.Background(), "c1", time.Second)

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "No disk space available")
		assert.Contains(t, result.Error, "partial output")
		assert.Equal(t, []string{"c1"}, api.removed)
	})

	t.Run("TimeoutReported", func(t *testing.T) {
		api := &fakeDockerAPI{waitHang: true, logsPayload: "still running"}
		e := newTestEngine(api)

		result := e.WaitForCompletion(context.Background(), "c1", 50*time.Millisecond)

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "Execution timed out")
		assert.Equal(t, []string{"c1"}, api.removed)
	})
}
