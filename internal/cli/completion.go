package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so a new flag only needs an entry
// there.
type FlagCompletion struct {
	Long      string   // long flag name without "--"
	Short     string   // short flag without "-"
	Help      string   // description text
	Values    []string // suggested values, nil for booleans or free input
	ValueName string   // value label in zsh, empty for booleans
	IsFile    bool     // the flag takes a file path
}

var durationValues = []string{"100ms", "300ms", "500ms", "1s", "2s", "5s"}

func timingFlag(name, help string) FlagCompletion {
	return FlagCompletion{Long: name, Help: help, Values: durationValues, ValueName: "duration"}
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	timingFlag("icons-enter", "Delay before the icons enter"),
	timingFlag("icons-appear", "Delay before the icons are steady"),
	timingFlag("gather-start", "Delay before the icons gather"),
	timingFlag("gather-duration", "Length of the gather animation"),
	timingFlag("call-dismiss", "Delay before the call overlay is dismissed"),
	timingFlag("rotation-start", "Delay before the headline rotation"),
	timingFlag("rotation-period", "Time each headline word stays"),
	timingFlag("label-show", "Delay before the label shows"),
	timingFlag("label-shrink", "Delay before the label shrinks"),
	timingFlag("logo-reveal", "Delay before the logo"),
	{Long: "words", Help: "Comma separated headline words", ValueName: "words"},
	{Long: "label", Help: "Label text", ValueName: "text"},
	{Long: "call-text", Help: "Call overlay text", ValueName: "text"},
	{Long: "logo", Help: "Logo name", ValueName: "name"},
	{Long: "plain", Help: "Print phase changes instead of drawing"},
	{Long: "serve", Help: "Serve directives over HTTP", Values: []string{":8080", "127.0.0.1:8080"}, ValueName: "address"},
	{Long: "print-timeline", Help: "Print the simulated timeline"},
	{Long: "no-color", Help: "Disable colors"},
	{Long: "no-haptics", Help: "Disable the terminal bell"},
	{Long: "hold", Help: "How long the logo stays", Values: []string{"0", "1s", "2s", "5s"}, ValueName: "duration"},
	{Long: "log-file", Help: "JSON log file", IsFile: true, ValueName: "file"},
	{Long: "verbose", Short: "v", Help: "Enable debug logging"},
	{Long: "config", Help: "YAML configuration file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes the completion script of program for shell
// ("bash", "zsh" or "fish") to out.
func GenerateCompletion(out io.Writer, program, shell string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(program)
	case "zsh":
		script = zshCompletion(program)
	case "fish":
		script = fishCompletion(program)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

// identifier turns a program name into a shell function name.
func identifier(program string) string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(program)
}

func bashCompletion(program string) string {
	var opts []string
	var cases strings.Builder
	var filePatterns []string
	for _, f := range flagRegistry {
		opts = append(opts, "--"+f.Long)
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		switch {
		case f.IsFile:
			filePatterns = append(filePatterns, "--"+f.Long)
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        --%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				f.Long, strings.Join(f.Values, " "))
		}
	}
	if len(filePatterns) > 0 {
		fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
			strings.Join(filePatterns, "|"))
	}

	fn := identifier(program)
	return fmt.Sprintf(`# Bash completion script for %[1]s
# Add this to your ~/.bashrc or ~/.bash_completion

_%[2]s_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%[3]s"

    case "${prev}" in
%[4]s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _%[2]s_completions %[1]s
`, program, fn, strings.Join(opts, " "), cases.String())
}

func zshCompletion(program string) string {
	var args []string
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	fn := identifier(program)
	return fmt.Sprintf(`#compdef %[1]s

# Zsh completion script for %[1]s
# Place this file in a directory of your $fpath

_%[2]s() {
    _arguments -s \
%[3]s
}

_%[2]s "$@"
`, program, fn, strings.Join(args, " \\\n"))
}

// zshArgEntry formats one flag as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	suffix := ""
	switch {
	case f.IsFile:
		suffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		suffix = fmt.Sprintf(":%s:", f.ValueName)
	}
	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, suffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, suffix)
}

func fishCompletion(program string) string {
	lines := []string{
		"# Fish completion script for " + program,
		fmt.Sprintf("# Add this to ~/.config/fish/completions/%s.fish", program),
		"",
		fmt.Sprintf("complete -c %s -f", program),
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c " + program}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))
		switch {
		case f.IsFile:
			parts = append(parts, "-rF")
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
		case f.ValueName != "":
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}
