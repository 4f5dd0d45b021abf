package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mwg-labs/voicestudio/internal/text"
)

var previewCmd = &cobra.Command{
	Use:   "preview [TEXT]",
	Short: "Listen to a voice",
	Long: paragraph(fmt.Sprintf("\n%s the first %d characters of TEXT, or a sample sentence when none is given, with the selected voice and style.", keyword("Play"), text.PreviewRunes)),
	Example: paragraph("voicestudio preview\n" +
		"voicestudio preview --voice vn-female-hanoi --style ads \"Khuyến mãi lớn\""),
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		s, err := newSession(ctx, cfg, true)
		if err != nil {
			return err
		}
		defer func() {
			if err := s.Close(); err != nil {
				log.Warn("Could not release resources", "error", err)
			}
		}()

		buf, err := s.studio.Preview(ctx, s.request(strings.Join(args, " ")), cfg.Speed)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Playing %s (%s, %s) at %.2gx\n",
			keyword(s.voice.Name), s.style.Name, buf.Duration().Round(100*time.Millisecond), cfg.Speed)

		if err := s.studio.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
