package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeport/config"
)

func cppConfig() config.LanguageConfig {
	return config.LanguageConfig{
		Image:          "gcc:13",
		CompileCommand: "g++ -std=c++17 -O2 -o program code.cpp",
		RunCommand:     "./program",
	}
}

func TestCppPrepare(t *testing.T) {
	code := "#include <iostream>\nint main() { std::cout << 42; }"
	s := &CppStrategy{base{cfg: cppConfig()}}
	dir := t.TempDir()

	prep, err := s.Prepare(code, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"code.cpp"}, prep.Files)

	written, err := os.ReadFile(filepath.Join(dir, "code.cpp"))
	require.NoError(t, err)
	assert.Equal(t, code, string(written))
}

func TestCppCommand(t *testing.T) {
	s := &CppStrategy{base{cfg: cppConfig()}}
	prep, err := s.Prepare("int main() {}", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "g++ -std=c++17 -O2 -o program code.cpp && ./program", s.Command(prep))
}
