package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mwg-labs/voicestudio/pkg/codec"
)

var inspectCmd = &cobra.Command{
	Use:     "inspect FILE.wav",
	Short:   "Show the header of a WAV file",
	Long:    paragraph(fmt.Sprintf("\n%s the 44-byte header of a PCM WAV file written by voicestudio and check it against the file size.", keyword("Print"))),
	Example: paragraph("voicestudio inspect mwg-voice-1718000000000.wav"),
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspectWAV(cmd.OutOrStdout(), args[0])
	},
}

func inspectWAV(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("unable to stat file: %w", err)
	}

	head := make([]byte, codec.HeaderSize)
	if _, err := io.ReadFull(f, head); err != nil {
		return fmt.Errorf("%w: %w", codec.ErrInvalidHeader, err)
	}
	h, err := codec.ReadWAVHeader(head)
	if err != nil {
		return err
	}

	format := codec.Format{
		SampleRate: int(h.SampleRate),
		Channels:   int(h.Channels),
		BitDepth:   int(h.BitsPerSample),
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\t%s (%s)\n", path, humanize.Bytes(uint64(st.Size())))
	fmt.Fprintf(tw, "Format\t%d (PCM=1)\n", h.AudioFormat)
	fmt.Fprintf(tw, "Channels\t%d\n", h.Channels)
	fmt.Fprintf(tw, "Sample rate\t%d Hz\n", h.SampleRate)
	fmt.Fprintf(tw, "Byte rate\t%d\n", h.ByteRate)
	fmt.Fprintf(tw, "Block align\t%d\n", h.BlockAlign)
	fmt.Fprintf(tw, "Bits per sample\t%d\n", h.BitsPerSample)
	fmt.Fprintf(tw, "Frames\t%s\n", humanize.Comma(int64(h.Frames())))
	fmt.Fprintf(tw, "Duration\t%s\n", format.Duration(h.Frames()))
	if want := int64(codec.HeaderSize) + int64(h.DataSize); want != st.Size() {
		fmt.Fprintf(tw, "Warning\tdata chunk declares %d bytes but file has %d\n", h.DataSize, st.Size()-codec.HeaderSize)
	}
	return tw.Flush()
}
