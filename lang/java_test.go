package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeport/config"
)

func javaConfig() config.LanguageConfig {
	return config.LanguageConfig{
		Image:          "openjdk:21-slim",
		CompileCommand: "javac {class_name}.java",
		RunCommand:     "java {class_name}",
	}
}

func TestJavaPrepare(t *testing.T) {
	t.Run("PublicClassWins", func(t *testing.T) {
		code := "class Helper {}\npublic class Main { public static void main(String[] a) {} }"
		s := &JavaStrategy{base{cfg: javaConfig()}}
		dir := t.TempDir()

		prep, err := s.Prepare(code, dir)
		require.NoError(t, err)
		assert.Equal(t, "Main", prep.ClassName)
		assert.Equal(t, []string{"Main.java"}, prep.Files)
		assert.Equal(t, "javac Main.java", prep.CompileCmd)
		assert.Equal(t, "java Main", prep.RunCmd)

		written, err := os.ReadFile(filepath.Join(dir, "Main.java"))
		require.NoError(t, err)
		assert.Equal(t, code, string(written))
	})

	t.Run("FallsBackToAnyClass", func(t *testing.T) {
		s := &JavaStrategy{base{cfg: javaConfig()}}
		prep, err := s.Prepare("class Solo { }", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "Solo", prep.ClassName)
	})

	t.Run("NoClassFailsBeforeWriting", func(t *testing.T) {
		s := &JavaStrategy{base{cfg: javaConfig()}}
		dir := t.TempDir()

		_, err := s.Prepare("System.out.println(42);", dir)
		require.Error(t, err)
		var prepErr *PreparationError
		require.ErrorAs(t, err, &prepErr)
		assert.Equal(t, "java", prepErr.Language)
		assert.Contains(t, err.Error(), "no class declaration")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestJavaCommand(t *testing.T) {
	s := &JavaStrategy{base{cfg: javaConfig()}}
	cmd := s.Command(&PreparedExecution{
		CompileCmd: "javac Main.java",
		RunCmd:     "java Main",
	})
	assert.Equal(t, "javac Main.java && java Main", cmd)
}

func TestExtractClassName(t *testing.T) {
	assert.Equal(t, "Foo", extractClassName("public class Foo {}"))
	assert.Equal(t, "Bar", extractClassName("final class Bar {}"))
	assert.Equal(t, "", extractClassName("interface Runnable {}"))
}
