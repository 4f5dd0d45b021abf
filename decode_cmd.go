package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwg-labs/voicestudio/internal/studio"
	"github.com/mwg-labs/voicestudio/pkg/codec"
)

var (
	decodeRate int
	decodeOut  string

	decodeCmd = &cobra.Command{
		Use:   "decode [FILE|-]",
		Short: "Convert a base64 PCM payload to WAV",
		Long: paragraph(fmt.Sprintf("\n%s a base64 payload of 16-bit little-endian mono PCM, as returned by the speech service, and write it as a WAV file.", keyword("Decode"))),
		Example: paragraph("voicestudio decode payload.b64\n" +
			"voicestudio decode --rate 16000 --out - < payload.b64 > voice.wav"),
		Args: cobra.MaximumNArgs(1),
		RunE: runDecode,
	}
)

func init() {
	decodeCmd.Flags().IntVarP(&decodeRate, "rate", "r", codec.DefaultSampleRate, "sample rate of the payload in Hz")
	decodeCmd.Flags().StringVarP(&decodeOut, "out", "o", "", "output file or directory, - for stdout")
}

func runDecode(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("unable to read payload: %w", err)
	}

	buf, err := codec.Decode(strings.TrimSpace(string(data)), decodeRate)
	if err != nil {
		return err
	}

	wav := buf.WAV()
	if decodeOut == "-" {
		return writeWAV(cmd.OutOrStdout(), wav)
	}

	res := &studio.Result{
		Samples:   buf,
		WAV:       wav,
		Duration:  buf.Duration(),
		Chunks:    1,
		CreatedAt: time.Now(),
	}
	path, err := studio.Save(res, decodeOut)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s: %d samples, %s at %d Hz\n",
		path, buf.Len(), buf.Duration().Round(time.Millisecond), decodeRate)
	return nil
}
