package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeport/config"
	"codeport/executor"
	"codeport/generate"
	"codeport/interp"
	"codeport/logger"
	"codeport/mcpserver"
	"codeport/model"
	"codeport/natshandler"
	"codeport/service"
)

// errRunFailed signals a failed execution whose result was already printed,
// so main exits nonzero without repeating it.
var errRunFailed = errors.New("execution failed")

func main() {
	root := &cobra.Command{
		Use:           "codeport",
		Short:         "Convert code between languages and run it in Docker sandboxes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMCPCmd(),
		newConvertCmd(),
		newRunCmd(),
		newLanguagesCmd(),
	)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// app is the wired object graph shared by every command.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	svc    *service.ConverterService
}

func bootstrap() (*app, error) {
	cfg := config.LoadConfig()

	zl, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	sandboxCfg, err := config.LoadSandboxConfig(cfg.SandboxConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load sandbox config: %w", err)
	}

	engineLog := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		engineLog.SetLevel(level)
	}

	engine := executor.NewContainerEngine(sandboxCfg.Docker, engineLog)
	exec := executor.NewDockerExecutor(sandboxCfg, engine, zl)

	backend, err := generate.NewGeminiBackend(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, zl)
	if err != nil {
		return nil, fmt.Errorf("failed to build conversion backend: %w", err)
	}

	runner := interp.NewInterpreter(zl)
	svc := service.NewConverterService(backend, exec, runner, zl)
	svc.LogStartup()

	return &app{cfg: cfg, logger: zl, svc: svc}, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve conversion and execution requests over NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			nc, err := nats.Connect(a.cfg.NatsURL)
			if err != nil {
				return fmt.Errorf("failed to connect to NATS at %s: %w", a.cfg.NatsURL, err)
			}
			defer nc.Drain()

			handler := natshandler.NewHandler(a.svc, a.logger)
			if err := handler.Subscribe(nc); err != nil {
				return fmt.Errorf("failed to subscribe: %w", err)
			}

			a.logger.Info("Serving", zap.String("nats_url", a.cfg.NatsURL))

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			a.logger.Info("Shutting down")
			return nil
		},
	}
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tool interface on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			return mcpserver.New(a.svc, a.logger).ServeStdio()
		},
	}
}

func newConvertCmd() *cobra.Command {
	var (
		target      string
		addComments bool
		stream      bool
		saveAs      string
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a source file (or stdin) to a target language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			code, err := readInput(args)
			if err != nil {
				return err
			}

			req := model.ConvertRequest{
				Code:           code,
				TargetLanguage: target,
				AddComments:    addComments,
			}

			var res model.ConvertResponse
			if stream {
				// Rewrite the terminal in place as the conversion grows.
				prevLines := 0
				res = a.svc.ConvertStream(cmd.Context(), req, func(accumulated string) {
					prevLines = redraw(cmd.OutOrStdout(), accumulated, prevLines)
				})
				fmt.Fprintln(cmd.OutOrStdout())
			} else {
				res = a.svc.Convert(cmd.Context(), req)
			}

			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}

			if saveAs != "" || outDir != "" {
				path, err := a.svc.SaveConverted(res.Code, target, saveAs, outDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved to %s\n", path)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Code)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "target language (required)")
	cmd.Flags().BoolVar(&addComments, "comments", false, "add explanatory comments")
	cmd.Flags().BoolVar(&stream, "stream", false, "stream the conversion as it is generated")
	cmd.Flags().StringVar(&saveAs, "save", "", "save the result under this filename")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory to save the result into")
	cmd.MarkFlagRequired("target")
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		language     string
		viaToolchain bool
	)

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a source file (or stdin) in the sandbox",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			code, err := readInput(args)
			if err != nil {
				return err
			}

			var result model.ExecutionResult
			if language == "go" {
				// Go runs locally; everything else goes through Docker.
				if viaToolchain {
					result = a.svc.RunGoSubprocess(cmd.Context(), code)
				} else {
					result = a.svc.RunGo(code)
				}
			} else {
				res := a.svc.Execute(cmd.Context(), model.ExecuteRequest{
					Code:     code,
					Language: language,
				})
				result = model.ExecutionResult{
					Success:       res.Success,
					Output:        res.Output,
					Error:         res.Error,
					ExecutionTime: res.ExecutionTime,
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), result.FormatResult())
			if !result.Success {
				return errRunFailed
			}
			return nil
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.Flags().StringVarP(&language, "language", "l", "", "execution language (required)")
	cmd.Flags().BoolVar(&viaToolchain, "via-toolchain", false, "run Go snippets with `go run` instead of the interpreter")
	cmd.MarkFlagRequired("language")
	return cmd
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the configured execution languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			for _, name := range a.svc.SupportedLanguages() {
				info, err := a.svc.LanguageInfo(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s image=%s timeout=%ds project_based=%t\n",
					info.Language, info.Image, info.Timeout, info.ProjectBased)
			}
			return nil
		},
	}
}

// readInput returns the source code from the positional file argument, or
// from stdin when no file (or "-") is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

// redraw clears the previously printed block and prints the new text,
// returning the line count for the next call.
func redraw(w io.Writer, text string, prevLines int) int {
	if prevLines > 0 {
		fmt.Fprintf(w, "\033[%dA\033[J", prevLines)
	}
	fmt.Fprintln(w, text)
	return countLines(text) + 1
}

func countLines(s string) int {
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}
