package generate

import (
	"fmt"
	"strings"
)

const systemInstruction = "You are an expert programmer skilled in converting code between " +
	"different programming languages. Respond with only the converted code, " +
	"no explanations or markdown formatting."

// BuildPrompt renders the standard conversion prompt. The same prompt is
// used by every backend so conversions stay comparable across models.
func BuildPrompt(opts ConvertOptions) string {
	commentsInstruction := ""
	if opts.AddComments {
		commentsInstruction = " Add detailed comments explaining the logic."
	}

	source := opts.SourceLanguage
	if source == "" {
		source = "python"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Convert the following %s code to %s.%s\n", source, opts.TargetLanguage, commentsInstruction)
	fmt.Fprintf(&b, "Make sure the converted code:\n")
	fmt.Fprintf(&b, "1. Maintains the same functionality\n")
	fmt.Fprintf(&b, "2. Uses appropriate %s conventions and syntax\n", opts.TargetLanguage)
	fmt.Fprintf(&b, "3. Handles edge cases properly\n")
	fmt.Fprintf(&b, "4. Is compilable and runnable\n\n")
	fmt.Fprintf(&b, "%s code:\n", source)
	fmt.Fprintf(&b, "```%s\n%s\n```\n\n", strings.ToLower(source), opts.Code)
	fmt.Fprintf(&b, "Please respond with ONLY the %s code, no explanations or markdown formatting.", opts.TargetLanguage)
	return b.String()
}
