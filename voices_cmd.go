package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/mwg-labs/voicestudio/internal/speech"
)

const voicesWrap = 64

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	idStyle      = lipgloss.NewStyle().Width(18).Foreground(lipgloss.Color("#04B575"))
	nameStyle    = lipgloss.NewStyle().Width(30)
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"})

	voicesCmd = &cobra.Command{
		Use:     "voices",
		Short:   "List voices and reading styles",
		Long:    paragraph(fmt.Sprintf("\n%s the available voices and reading styles. Either can be selected by id or by a fuzzy match on its id or name.", keyword("List"))),
		Example: paragraph("voicestudio voices\nvoicestudio convert --voice saigon --style news story.txt"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printVoices(cmd.OutOrStdout(), cfg.Voice, cfg.Style)
		},
	}
)

// printVoices writes the catalog, marking the configured voice and style.
func printVoices(w io.Writer, voice, style string) error {
	current, _ := speech.FindVoice(voice)
	currentStyle, _ := speech.FindStyle(style)

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Voices") + "\n")
	for _, v := range speech.Voices() {
		b.WriteString(row(v.ID == current.ID, v.ID, v.Name, fmt.Sprintf("%s, %s", strings.ToLower(string(v.Gender)), v.GeminiVoice)))
		b.WriteString(block(v.Description))
	}

	b.WriteString(sectionStyle.Render("Styles") + "\n")
	for _, s := range speech.Styles() {
		b.WriteString(row(s.ID == currentStyle.ID, s.ID, s.Name, ""))
		b.WriteString(block(s.Instruction))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func row(selected bool, id, name, meta string) string {
	mark := "  "
	if selected {
		mark = keyword("* ")
	}
	return mark + idStyle.Render(id) + nameStyle.Render(name) + metaStyle.Render(meta) + "\n"
}

func block(s string) string {
	return metaStyle.Render(indent.String(wordwrap.String(s, voicesWrap), 4)) + "\n"
}
