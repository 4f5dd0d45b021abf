package studio

import "fmt"

// Stage of a conversion.
type Stage int

const (
	StageChunking Stage = iota
	StageSynthesizing
	StageEncoding
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageChunking:
		return "Preparing text"
	case StageSynthesizing:
		return "Generating speech"
	case StageEncoding:
		return "Encoding WAV"
	case StageDone:
		return "Done"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Progress is reported while a conversion runs. Done counts finished
// chunks out of Total.
type Progress struct {
	Stage Stage
	Done  int
	Total int
}

// Fraction returns overall completion in [0, 1]. Synthesis dominates, so
// it spans 0.1 to 0.9.
func (p Progress) Fraction() float64 {
	switch p.Stage {
	case StageChunking:
		return 0
	case StageSynthesizing:
		if p.Total == 0 {
			return 0.1
		}
		return 0.1 + 0.8*float64(p.Done)/float64(p.Total)
	case StageEncoding:
		return 0.9
	default:
		return 1
	}
}
