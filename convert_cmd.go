package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mwg-labs/voicestudio/internal/studio"
	"github.com/mwg-labs/voicestudio/internal/ui"
)

var (
	convertText      string
	convertClipboard bool
	convertOut       string
	convertPlay      bool
	convertWatch     bool

	convertCmd = &cobra.Command{
		Use:   "convert [FILE|-]",
		Short: "Convert text to a WAV file",
		Long: paragraph(fmt.Sprintf("\n%s text from a .txt or .md file, stdin, the clipboard or --text into speech and save it as WAV. Long text is split into chunks and joined back in order.", keyword("Convert"))),
		Example: paragraph("voicestudio convert story.md\n" +
			"voicestudio convert --text \"Xin chào\" --voice vn-female-saigon --play\n" +
			"cat news.txt | voicestudio convert --style news --out - > news.wav"),
		Args: cobra.MaximumNArgs(1),
		RunE: runConvert,
	}
)

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&convertText, "text", "t", "", "text to convert instead of a file")
	cmd.Flags().BoolVarP(&convertClipboard, "clipboard", "c", false, "convert the clipboard contents")
	cmd.Flags().StringVarP(&convertOut, "out", "o", "", "output file or directory, - for stdout (default: output_dir)")
	cmd.Flags().BoolVarP(&convertPlay, "play", "p", false, "play the result after converting")
	cmd.Flags().BoolVarP(&convertWatch, "watch", "w", false, "convert again whenever FILE changes")
}

func init() {
	addConvertFlags(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, err := readInput(convertText, convertClipboard, args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if convertWatch && in.Path == "" {
		return errors.New("--watch needs a FILE argument")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(ctx, cfg, convertPlay)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn("Could not release resources", "error", err)
		}
	}()

	if err := convertOnce(ctx, cmd, s, in.Text); err != nil {
		return err
	}
	if !convertWatch {
		return nil
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Watching", in.Path, "for changes. Press Ctrl+C to stop.")
	return watchFile(ctx, in.Path, func() error {
		body, err := readInput("", false, []string{in.Path}, nil)
		if err != nil {
			return err
		}
		return convertOnce(ctx, cmd, s, body.Text)
	})
}

// convertOnce converts body, saves it and optionally plays it. Progress is
// shown with the TUI when stdout is a terminal that is not receiving the
// WAV itself.
func convertOnce(ctx context.Context, cmd *cobra.Command, s *session, body string) error {
	toStdout := convertOut == "-"
	out := convertOut
	if out == "" {
		out = cfg.OutputDir
	}

	work := func(ctx context.Context, progress func(studio.Progress)) (*studio.Result, string, error) {
		req := s.request(body)
		req.OnProgress = progress
		res, err := s.studio.Convert(ctx, req)
		if err != nil {
			return nil, "", err
		}
		if toStdout {
			return res, "", writeWAV(cmd.OutOrStdout(), res.WAV)
		}
		path, err := studio.Save(res, out)
		return res, path, err
	}

	var (
		res  *studio.Result
		path string
		err  error
	)
	if !toStdout && isTerminal() {
		title := fmt.Sprintf("%s · %s", s.voice.Name, s.style.Name)
		res, path, err = ui.Run(ctx, title, work)
	} else {
		res, path, err = work(ctx, nil)
		if err == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Summary(res, path))
		}
	}
	if err != nil {
		return err
	}

	if convertPlay {
		if err := s.studio.Play(ctx, res, cfg.Speed); err != nil {
			return fmt.Errorf("unable to play result: %w", err)
		}
		if err := s.studio.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return nil
}

func writeWAV(w io.Writer, wav []byte) error {
	if f, ok := w.(*os.File); ok && isTerminalFile(f) {
		return errors.New("refusing to write binary audio to a terminal")
	}
	if _, err := w.Write(wav); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}
	return nil
}
