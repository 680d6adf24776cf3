package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"codeport/generate"
	"codeport/interp"
	"codeport/model"
	"codeport/pkg/fileutil"
	"codeport/pkg/validate"
)

const maxCodeLength = 10000

var (
	ErrInvalidRequest = errors.New("invalid request parameters")
	ErrCodeTooLong    = errors.New("code exceeds maximum length")
)

// sandbox is the execution surface the service needs from the container
// executor.
type sandbox interface {
	Execute(ctx context.Context, code, language string) model.ExecutionResult
	GetLanguageInfo(language string) (model.LanguageInfo, error)
	ValidateLanguageSupport(language string) bool
	SupportedLanguages() []string
}

// ConverterService ties conversion, sandboxed execution, and local Go
// interpretation behind one API shared by every transport.
type ConverterService struct {
	backend    generate.Backend
	executor   sandbox
	runner     *interp.Interpreter
	subprocess *interp.SubprocessRunner
	logger     *zap.Logger
}

func NewConverterService(backend generate.Backend, exec sandbox, runner *interp.Interpreter, logger *zap.Logger) *ConverterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConverterService{
		backend:    backend,
		executor:   exec,
		runner:     runner,
		subprocess: interp.NewSubprocessRunner(logger),
		logger:     logger,
	}
}

// LogStartup records the configured capabilities once at boot.
func (s *ConverterService) LogStartup() {
	s.logger.Info("Converter service ready",
		zap.Strings("languages", s.executor.SupportedLanguages()),
		zap.String("backend", s.backend.Name()),
		zap.Bool("backend_available", s.backend.Available()))

	for _, name := range s.executor.SupportedLanguages() {
		info, err := s.executor.GetLanguageInfo(name)
		if err != nil {
			continue
		}
		s.logger.Info("Language configured",
			zap.String("language", info.Language),
			zap.String("image", info.Image),
			zap.Int("timeout_sec", info.Timeout),
			zap.Bool("project_based", info.ProjectBased))
	}
}

// Convert translates code to the target language. Failures are reported in
// the response body; the error return is reserved for programmer mistakes.
func (s *ConverterService) Convert(ctx context.Context, req model.ConvertRequest) model.ConvertResponse {
	if err := s.validateConvert(req); err != nil {
		return model.ConvertResponse{
			Success:       false,
			Error:         err.Error(),
			StatusMessage: err.Error(),
		}
	}

	raw, err := s.backend.Convert(ctx, generate.ConvertOptions{
		Code:           req.Code,
		TargetLanguage: req.TargetLanguage,
		AddComments:    req.AddComments,
	})
	if err != nil {
		s.logger.Error("Conversion failed",
			zap.String("target", req.TargetLanguage),
			zap.Error(err))
		return model.ConvertResponse{
			Success:       false,
			Error:         err.Error(),
			StatusMessage: "Failed to convert code",
		}
	}

	return model.ConvertResponse{
		Success:       true,
		Code:          generate.CleanResponse(raw),
		StatusMessage: "Success",
	}
}

// ConvertStream is Convert with incremental delivery: fn sees the
// accumulated raw text as it grows, and the cleaned final code is returned
// in the response.
func (s *ConverterService) ConvertStream(ctx context.Context, req model.ConvertRequest, fn generate.StreamFunc) model.ConvertResponse {
	if err := s.validateConvert(req); err != nil {
		return model.ConvertResponse{
			Success:       false,
			Error:         err.Error(),
			StatusMessage: err.Error(),
		}
	}

	raw, err := s.backend.ConvertStream(ctx, generate.ConvertOptions{
		Code:           req.Code,
		TargetLanguage: req.TargetLanguage,
		AddComments:    req.AddComments,
	}, fn)
	if err != nil {
		return model.ConvertResponse{
			Success:       false,
			Error:         err.Error(),
			StatusMessage: "Failed to convert code",
		}
	}

	return model.ConvertResponse{
		Success:       true,
		Code:          generate.CleanResponse(raw),
		StatusMessage: "Success",
	}
}

// Execute runs code in the container sandbox and adapts the result for the
// wire.
func (s *ConverterService) Execute(ctx context.Context, req model.ExecuteRequest) model.ExecuteResponse {
	if err := validate.NonEmptyCode(req.Code); err != nil {
		return model.ExecuteResponse{
			Success:       false,
			Error:         err.Error(),
			StatusMessage: err.Error(),
		}
	}
	if len(req.Code) > maxCodeLength {
		return model.ExecuteResponse{
			Success:       false,
			Error:         ErrCodeTooLong.Error(),
			StatusMessage: ErrCodeTooLong.Error(),
		}
	}

	result := s.executor.Execute(ctx, req.Code, req.Language)

	status := "Success"
	if !result.Success {
		status = "Failed to execute code"
	}
	return model.ExecuteResponse{
		Success:       result.Success,
		Output:        result.Output,
		Error:         result.Error,
		StatusMessage: status,
		ExecutionTime: result.ExecutionTime,
	}
}

// RunGo checks a Go snippet parses and evaluates it in-process. Used to
// smoke-test converted output without a container round trip.
func (s *ConverterService) RunGo(code string) model.ExecutionResult {
	if err := validate.GoSnippet(code); err != nil {
		return model.ExecutionResult{
			Success: false,
			Error:   err.Error(),
		}
	}
	return s.runner.Run(code)
}

// RunGoSubprocess is RunGo through a local `go run` child process, for
// snippets that need stdlib packages the in-process interpreter blocks.
func (s *ConverterService) RunGoSubprocess(ctx context.Context, code string) model.ExecutionResult {
	if err := validate.GoSnippet(code); err != nil {
		return model.ExecutionResult{
			Success: false,
			Error:   err.Error(),
		}
	}
	return s.subprocess.Run(ctx, code)
}

// SaveConverted persists converted code to disk and returns the path.
func (s *ConverterService) SaveConverted(code, language, filename, dir string) (string, error) {
	path, err := fileutil.SaveCode(code, language, filename, dir)
	if err != nil {
		s.logger.Error("Failed to save converted code",
			zap.String("language", language),
			zap.Error(err))
		return "", err
	}
	s.logger.Info("Saved converted code", zap.String("path", path))
	return path, nil
}

// LanguageInfo reports sandbox parameters for one language.
func (s *ConverterService) LanguageInfo(language string) (model.LanguageInfo, error) {
	return s.executor.GetLanguageInfo(language)
}

// SupportedLanguages lists the configured target languages.
func (s *ConverterService) SupportedLanguages() []string {
	return s.executor.SupportedLanguages()
}

func (s *ConverterService) validateConvert(req model.ConvertRequest) error {
	if err := validate.NonEmptyCode(req.Code); err != nil {
		return err
	}
	if len(req.Code) > maxCodeLength {
		return ErrCodeTooLong
	}
	if strings.TrimSpace(req.TargetLanguage) == "" {
		return fmt.Errorf("%w: target language is required", ErrInvalidRequest)
	}
	if !s.executor.ValidateLanguageSupport(req.TargetLanguage) {
		return fmt.Errorf("unsupported language: %s. Supported: %s",
			req.TargetLanguage, strings.Join(s.executor.SupportedLanguages(), ", "))
	}
	return nil
}
