package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	units "github.com/docker/go-units"
	"github.com/spf13/viper"
)

const (
	defaultWorkingDir = "/tmp"
	defaultTimeoutSec = 30
)

// SandboxConfig is the sandbox engine configuration, loaded once at process
// start and treated as read-only afterwards. It has two sections: global
// docker resource defaults and a per-language map keyed by lowercase name.
type SandboxConfig struct {
	Docker    DockerConfig              `mapstructure:"docker"`
	Languages map[string]LanguageConfig `mapstructure:"languages"`
}

// DockerConfig holds process-wide container resource defaults.
type DockerConfig struct {
	MemoryLimit     string `mapstructure:"memory_limit"`
	CPUPeriod       int64  `mapstructure:"cpu_period"`
	CPUQuota        int64  `mapstructure:"cpu_quota"`
	NetworkDisabled bool   `mapstructure:"network_disabled"`
	MaxConcurrent   int    `mapstructure:"max_concurrent"`
}

// MemoryBytes parses the human-readable memory limit ("512m") into bytes.
func (d DockerConfig) MemoryBytes() (int64, error) {
	return units.RAMInBytes(d.MemoryLimit)
}

// LanguageConfig is the static per-language execution configuration.
// Command templates may carry a {class_name} placeholder resolved by the
// Java strategy at prepare time.
type LanguageConfig struct {
	Image          string `mapstructure:"image"`
	WorkingDir     string `mapstructure:"working_dir"`
	Timeout        int    `mapstructure:"timeout"`
	FileExtension  string `mapstructure:"file_extension"`
	ProjectBased   bool   `mapstructure:"project_based"`
	CompileCommand string `mapstructure:"compile_command"`
	RunCommand     string `mapstructure:"run_command"`
}

// WorkDir returns the configured working directory or the /tmp default.
func (lc LanguageConfig) WorkDir() string {
	if lc.WorkingDir == "" {
		return defaultWorkingDir
	}
	return lc.WorkingDir
}

// TimeoutDuration returns the configured timeout or the 30s default.
func (lc LanguageConfig) TimeoutDuration() time.Duration {
	secs := lc.Timeout
	if secs <= 0 {
		secs = defaultTimeoutSec
	}
	return time.Duration(secs) * time.Second
}

// TimeoutSeconds returns the effective timeout in whole seconds.
func (lc LanguageConfig) TimeoutSeconds() int {
	if lc.Timeout <= 0 {
		return defaultTimeoutSec
	}
	return lc.Timeout
}

// LoadSandboxConfig reads the JSON sandbox configuration. A missing file
// falls back to the built-in defaults; a malformed file or an invalid
// configuration is a fatal startup condition and returns an error.
func LoadSandboxConfig(path string) (*SandboxConfig, error) {
	v := viper.New()
	v.SetConfigType("json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("language_config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setSandboxDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading sandbox config: %w", err)
		}
		// No config file: run on defaults.
	}

	var cfg SandboxConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling sandbox config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("sandbox config validation error: %w", err)
	}

	return &cfg, nil
}

func setSandboxDefaults(v *viper.Viper) {
	v.SetDefault("docker.memory_limit", "512m")
	v.SetDefault("docker.cpu_period", 100000)
	v.SetDefault("docker.cpu_quota", 50000)
	v.SetDefault("docker.network_disabled", true)
	v.SetDefault("docker.max_concurrent", 4)

	v.SetDefault("languages.c++.image", "gcc:13")
	v.SetDefault("languages.c++.working_dir", "/tmp")
	v.SetDefault("languages.c++.timeout", 30)
	v.SetDefault("languages.c++.file_extension", ".cpp")
	v.SetDefault("languages.c++.project_based", false)
	v.SetDefault("languages.c++.compile_command", "g++ -std=c++17 -O2 -o program code.cpp")
	v.SetDefault("languages.c++.run_command", "./program")

	v.SetDefault("languages.java.image", "openjdk:21-slim")
	v.SetDefault("languages.java.working_dir", "/tmp")
	v.SetDefault("languages.java.timeout", 30)
	v.SetDefault("languages.java.file_extension", ".java")
	v.SetDefault("languages.java.project_based", false)
	v.SetDefault("languages.java.compile_command", "javac {class_name}.java")
	v.SetDefault("languages.java.run_command", "java {class_name}")

	v.SetDefault("languages.c#.image", "mcr.microsoft.com/dotnet/sdk:8.0")
	v.SetDefault("languages.c#.working_dir", "/tmp")
	v.SetDefault("languages.c#.timeout", 60)
	v.SetDefault("languages.c#.file_extension", ".cs")
	v.SetDefault("languages.c#.project_based", true)
	v.SetDefault("languages.c#.run_command", "dotnet run")
}

func (c *SandboxConfig) validate() error {
	if _, err := c.Docker.MemoryBytes(); err != nil {
		return fmt.Errorf("invalid docker.memory_limit %q: %w", c.Docker.MemoryLimit, err)
	}
	if c.Docker.CPUPeriod <= 0 {
		return fmt.Errorf("docker.cpu_period must be positive, got: %d", c.Docker.CPUPeriod)
	}
	if c.Docker.CPUQuota <= 0 {
		return fmt.Errorf("docker.cpu_quota must be positive, got: %d", c.Docker.CPUQuota)
	}
	if c.Docker.MaxConcurrent <= 0 {
		return fmt.Errorf("docker.max_concurrent must be positive, got: %d", c.Docker.MaxConcurrent)
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("no languages configured")
	}
	for name, lc := range c.Languages {
		if lc.Image == "" {
			return fmt.Errorf("language %q has no image configured", name)
		}
		if lc.Timeout < 0 {
			return fmt.Errorf("language %q has negative timeout", name)
		}
	}
	return nil
}

// Language looks up a language configuration case-insensitively.
func (c *SandboxConfig) Language(name string) (LanguageConfig, error) {
	lc, ok := c.Languages[strings.ToLower(name)]
	if !ok {
		return LanguageConfig{}, fmt.Errorf("unsupported language: %s. Supported: %s",
			name, strings.Join(c.SupportedLanguages(), ", "))
	}
	return lc, nil
}

// SupportedLanguages returns the configured language names, sorted.
func (c *SandboxConfig) SupportedLanguages() []string {
	names := make([]string, 0, len(c.Languages))
	for name := range c.Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
