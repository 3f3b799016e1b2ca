package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Custom help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)
)

// helpExamples are shown after the flags
var helpExamples = []string{
	"%s ./frames",
	"%s --fit --fps 24 ./frames",
	"%s --video clip.mp4 --audio ./frames",
}

// StyledHelpPrinter creates a custom help printer with Lipgloss styling
func StyledHelpPrinter(options kong.HelpOptions) func(options kong.HelpOptions, ctx *kong.Context) error {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		fmt.Fprint(ctx.Stdout, renderHelp(ctx.Model.Name, getArguments(ctx), getFlags(ctx)))
		return nil
	}
}

// renderHelp builds the help screen from already-collected arguments and flags
func renderHelp(name string, args []argument, flags []flag) string {
	var sb strings.Builder

	sb.WriteString(helpTitleStyle.Render("asciireel ▶"))
	sb.WriteString("\n")
	sb.WriteString(helpDescStyle.Render("Play image sequences as text art in the terminal"))
	sb.WriteString("\n")

	writeSection(&sb, "Usage:")
	sb.WriteString("  ")
	sb.WriteString(fmt.Sprintf("%s [flags] <frames>", name))
	sb.WriteString("\n")

	if len(args) > 0 {
		sb.WriteString("\n")
		writeSection(&sb, "Arguments:")
		for _, arg := range args {
			writeEntry(&sb, helpArgStyle.Render(arg.name), arg.help, "")
		}
	}

	if len(flags) > 0 {
		sb.WriteString("\n")
		writeSection(&sb, "Flags:")
		for _, f := range flags {
			writeEntry(&sb, helpFlagStyle.Render(f.flags), f.help, f.defaultVal)
		}
	}

	sb.WriteString("\n")
	writeSection(&sb, "Examples:")
	for _, ex := range helpExamples {
		sb.WriteString("  ")
		sb.WriteString(fmt.Sprintf(ex, name))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	return sb.String()
}

func writeSection(w io.StringWriter, title string) {
	w.WriteString(helpSectionStyle.Render(title))
	w.WriteString("\n")
}

func writeEntry(w io.StringWriter, name, help, defaultVal string) {
	w.WriteString("  ")
	w.WriteString(name)
	if help != "" {
		w.WriteString("  ")
		w.WriteString(help)
	}
	if defaultVal != "" {
		w.WriteString(" ")
		w.WriteString(helpDefaultStyle.Render("(default: " + defaultVal + ")"))
	}
	w.WriteString("\n")
}

type argument struct {
	name string
	help string
}

type flag struct {
	flags      string
	help       string
	defaultVal string
}

func getArguments(ctx *kong.Context) []argument {
	var args []argument
	for _, arg := range ctx.Model.Node.Positional {
		args = append(args, argument{name: arg.Summary(), help: arg.Help})
	}
	return args
}

func getFlags(ctx *kong.Context) []flag {
	flags := []flag{{
		flags: "-h, --help",
		help:  "Show context-sensitive help.",
	}}

	for _, f := range ctx.Model.Node.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}

		flagStr := fmt.Sprintf("--%s", f.Name)
		if f.Short != 0 {
			flagStr = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		}
		if !f.IsBool() {
			flagStr += "=" + strings.ToUpper(f.FormatPlaceHolder())
		}

		flags = append(flags, flag{
			flags:      flagStr,
			help:       f.Help,
			defaultVal: f.Default,
		})
	}

	return flags
}
