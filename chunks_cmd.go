package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mwg-labs/voicestudio/internal/text"
)

var chunksCmd = &cobra.Command{
	Use:   "chunks [FILE|-]",
	Short: "Show how text will be split into requests",
	Long: paragraph(fmt.Sprintf("\n%s the text voicestudio would send for FILE, split into the chunks that are synthesized separately. Markdown is reduced to plain text first.", keyword("Show"))),
	Example: paragraph("voicestudio chunks story.md\n" +
		"voicestudio chunks --text \"Một. Hai. Ba.\""),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readInput(convertText, convertClipboard, args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		style := styles.AutoStyle
		if !isTerminal() {
			style = styles.NoTTYStyle
		}
		return renderChunks(cmd.OutOrStdout(), text.Chunk(in.Text, cfg.ChunkRunes), style)
	},
}

func init() {
	chunksCmd.Flags().StringVarP(&convertText, "text", "t", "", "text to split instead of a file")
	chunksCmd.Flags().BoolVarP(&convertClipboard, "clipboard", "c", false, "split the clipboard contents")
}

// chunksMarkdown lays the chunks out as a Markdown document.
func chunksMarkdown(chunks []string) string {
	var b strings.Builder
	total := 0
	for _, c := range chunks {
		total += utf8.RuneCountInString(c)
	}
	fmt.Fprintf(&b, "# %d chunks, %s characters\n\n", len(chunks), humanize.Comma(int64(total)))

	for i, c := range chunks {
		fmt.Fprintf(&b, "## Chunk %d (%s characters)\n\n", i+1, humanize.Comma(int64(utf8.RuneCountInString(c))))
		for _, line := range strings.Split(c, "\n") {
			fmt.Fprintf(&b, "> %s\n", line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func glamourStyle(style string) glamour.TermRendererOption {
	if style == styles.AutoStyle {
		return glamour.WithAutoStyle()
	}
	return glamour.WithStylePath(style)
}

func renderChunks(w io.Writer, chunks []string, style string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamourStyle(style),
		glamour.WithWordWrap(80),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return fmt.Errorf("unable to create renderer: %w", err)
	}

	out, err := r.Render(chunksMarkdown(chunks))
	if err != nil {
		return fmt.Errorf("unable to render markdown: %w", err)
	}
	if _, err := fmt.Fprint(w, out); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}
	return nil
}
