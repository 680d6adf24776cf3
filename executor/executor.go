package executor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeport/config"
	"codeport/lang"
	"codeport/model"
	"codeport/pkg/limiter"
)

// containerRuntime is the lifecycle surface the orchestrator needs from the
// container engine. Narrowed to an interface so execution flow can be
// tested without a Docker daemon.
type containerRuntime interface {
	Available() bool
	EnsureImage(ctx context.Context, ref string) error
	CreateContainer(ctx context.Context, imageRef, command, workspace, workingDir string) (string, error)
	WaitForCompletion(ctx context.Context, containerID string, timeout time.Duration) model.ExecutionResult
}

// DockerExecutor orchestrates one sandboxed execution per call: resolve the
// language, prepare a throwaway workspace, run the container, and always
// clean up. It holds no per-execution state and is safe for concurrent use.
type DockerExecutor struct {
	cfg    *config.SandboxConfig
	engine containerRuntime
	gate   *limiter.Gate
	logger *zap.Logger
}

// NewDockerExecutor wires the orchestrator to a live container engine.
func NewDockerExecutor(cfg *config.SandboxConfig, engine *ContainerEngine, logger *zap.Logger) *DockerExecutor {
	return newDockerExecutor(cfg, engine, logger)
}

func newDockerExecutor(cfg *config.SandboxConfig, engine containerRuntime, logger *zap.Logger) *DockerExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DockerExecutor{
		cfg:    cfg,
		engine: engine,
		gate:   limiter.NewGate(cfg.Docker.MaxConcurrent),
		logger: logger,
	}
}

// Execute runs code in an isolated container and reports the outcome as an
// ExecutionResult. Failures never surface as errors; every path produces a
// result with a human-readable diagnostic.
func (x *DockerExecutor) Execute(ctx context.Context, code, language string) model.ExecutionResult {
	if !x.engine.Available() {
		return model.ExecutionResult{
			Success: false,
			Error:   EngineUnavailableMsg,
		}
	}

	start := time.Now()

	if err := x.gate.Acquire(ctx); err != nil {
		return model.ExecutionResult{
			Success:       false,
			Error:         fmt.Sprintf("Execution failed: %s", err),
			ExecutionTime: time.Since(start).Seconds(),
		}
	}
	defer x.gate.Release()

	langCfg, err := x.cfg.Language(language)
	if err != nil {
		return model.ExecutionResult{
			Success:       false,
			Error:         err.Error(),
			ExecutionTime: time.Since(start).Seconds(),
		}
	}

	strategy, err := lang.NewStrategy(language, langCfg)
	if err != nil {
		return model.ExecutionResult{
			Success:       false,
			Error:         err.Error(),
			ExecutionTime: time.Since(start).Seconds(),
		}
	}

	workspace, err := os.MkdirTemp("", "codeport-exec-*")
	if err != nil {
		return model.ExecutionResult{
			Success:       false,
			Error:         fmt.Sprintf("Execution failed: could not create workspace: %s", err),
			ExecutionTime: time.Since(start).Seconds(),
		}
	}
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			x.logger.Warn("Failed to remove workspace", zap.String("path", workspace), zap.Error(err))
		}
	}()

	x.logger.Info("Executing code",
		zap.String("language", strings.ToLower(language)),
		zap.String("image", strategy.Image()),
		zap.String("workspace", workspace))

	prep, err := strategy.Prepare(code, workspace)
	if err != nil {
		return model.ExecutionResult{
			Success:       false,
			Error:         err.Error(),
			ExecutionTime: time.Since(start).Seconds(),
		}
	}

	command := strategy.Command(prep)

	if err := x.engine.EnsureImage(ctx, strategy.Image()); err != nil {
		return model.ExecutionResult{
			Success:       false,
			Error:         classifyError(err),
			ExecutionTime: time.Since(start).Seconds(),
		}
	}

	containerID, err := x.engine.CreateContainer(ctx, strategy.Image(), command, workspace, strategy.WorkingDir())
	if err != nil {
		return model.ExecutionResult{
			Success:       false,
			Error:         classifyError(err),
			ExecutionTime: time.Since(start).Seconds(),
		}
	}

	result := x.engine.WaitForCompletion(ctx, containerID, strategy.Timeout())
	result.ExecutionTime = time.Since(start).Seconds()

	x.logger.Info("Execution finished",
		zap.String("language", strings.ToLower(language)),
		zap.Bool("success", result.Success),
		zap.Float64("elapsed", result.ExecutionTime))

	return result
}

// GetLanguageInfo reports the sandbox parameters configured for a language.
func (x *DockerExecutor) GetLanguageInfo(language string) (model.LanguageInfo, error) {
	langCfg, err := x.cfg.Language(language)
	if err != nil {
		return model.LanguageInfo{}, err
	}
	return model.LanguageInfo{
		Language:      strings.ToLower(language),
		Image:         langCfg.Image,
		WorkingDir:    langCfg.WorkDir(),
		Timeout:       langCfg.TimeoutSeconds(),
		FileExtension: langCfg.FileExtension,
		ProjectBased:  langCfg.ProjectBased,
	}, nil
}

// ValidateLanguageSupport reports whether a language can be executed.
func (x *DockerExecutor) ValidateLanguageSupport(language string) bool {
	_, err := x.cfg.Language(language)
	return err == nil
}

// SupportedLanguages lists the configured languages, sorted.
func (x *DockerExecutor) SupportedLanguages() []string {
	return x.cfg.SupportedLanguages()
}
