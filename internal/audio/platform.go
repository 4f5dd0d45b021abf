package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// MockEnv forces the mock context under KindAuto when set to "true".
const MockEnv = "VOICESTUDIO_MOCK_AUDIO"

// Platform summarizes what the host offers for audio output.
type Platform struct {
	OS             string
	HasAudioDevice bool
	PulseAudio     bool
	IsCI           bool
	Forced         bool // mock requested through MockEnv
}

// DetectPlatform inspects the environment and the device tree.
func DetectPlatform() Platform {
	p := Platform{
		OS:     runtime.GOOS,
		IsCI:   IsCI(),
		Forced: os.Getenv(MockEnv) == "true",
	}

	switch p.OS {
	case "linux":
		p.PulseAudio = isCommandAvailable("pactl") || os.Getenv("PULSE_SERVER") != ""
		p.HasAudioDevice = p.PulseAudio || checkLinuxAudioDevices()
	default:
		// CoreAudio and WASAPI are assumed present.
		p.HasAudioDevice = true
	}

	log.Debug("Platform detected",
		"os", p.OS,
		"has_device", p.HasAudioDevice,
		"pulse", p.PulseAudio,
		"is_ci", p.IsCI)
	return p
}

// MockReason returns why the mock context should be used, or "" when the
// device should be tried.
func (p Platform) MockReason() string {
	switch {
	case p.Forced:
		return MockEnv
	case p.IsCI:
		return "CI environment"
	case !p.HasAudioDevice:
		return "no audio devices"
	default:
		return ""
	}
}

// BufferSize returns the device buffer recommended for the platform.
func (p Platform) BufferSize() time.Duration {
	switch p.OS {
	case "darwin":
		return 100 * time.Millisecond
	case "windows":
		return 80 * time.Millisecond
	default:
		if p.PulseAudio {
			return 60 * time.Millisecond
		}
		return 50 * time.Millisecond
	}
}

func (p Platform) String() string {
	return fmt.Sprintf("Platform{OS: %s, HasDevice: %v, IsCI: %v}", p.OS, p.HasAudioDevice, p.IsCI)
}

// IsCI reports whether a common CI environment variable is set.
func IsCI() bool {
	for _, name := range []string{
		"CI",
		"CONTINUOUS_INTEGRATION",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
		"DRONE",
		"TEAMCITY_VERSION",
	} {
		if v := os.Getenv(name); v != "" && v != "false" {
			log.Debug("CI environment detected", "variable", name)
			return true
		}
	}
	return false
}

func checkLinuxAudioDevices() bool {
	if entries, err := os.ReadDir("/dev/snd"); err == nil {
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), "pcm") {
				return true
			}
		}
	}
	if content, err := os.ReadFile("/proc/asound/cards"); err == nil {
		return len(content) > 0 && !strings.Contains(string(content), "no soundcards")
	}
	return false
}

func isCommandAvailable(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
