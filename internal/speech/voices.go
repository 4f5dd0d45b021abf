package speech

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Gender of a voice profile.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// Voice is a selectable voice profile backed by a Gemini prebuilt voice.
type Voice struct {
	ID          string
	Name        string
	Description string
	GeminiVoice string
	Gender      Gender
}

// Style is a reading style. Its Instruction leads the prompt.
type Style struct {
	ID          string
	Name        string
	Instruction string
}

// SampleText is read when a preview is requested without any input.
const SampleText = "Chào mừng bạn đến với MWG Voice Studio. Đây là giải pháp chuyển đổi văn bản thành giọng nói sử dụng trí tuệ nhân tạo tiên tiến nhất."

var voices = []Voice{
	{
		ID:          "vn-male-hanoi",
		Name:        "Nam Trầm Ấm (Hà Nội)",
		Description: "Giọng nam trầm ấm, kể chuyện, chuẩn Hà Nội.",
		GeminiVoice: "Fenrir",
		Gender:      Male,
	},
	{
		ID:          "vn-male-news",
		Name:        "Nam Chính Luận (Phát Thanh)",
		Description: "Giọng nam sâu, nghiêm túc, phát thanh viên.",
		GeminiVoice: "Charon",
		Gender:      Male,
	},
	{
		ID:          "vn-male-strong",
		Name:        "Nam Mạnh Mẽ",
		Description: "Giọng nam mạnh mẽ, dứt khoát, âm vực rộng.",
		GeminiVoice: "Puck",
		Gender:      Male,
	},
	{
		ID:          "vn-male-saigon",
		Name:        "Nam Nhẹ Nhàng (Sài Gòn)",
		Description: "Giọng nam thanh niên nhẹ nhàng, tự nhiên, chuẩn Sài Gòn.",
		GeminiVoice: "Zephyr",
		Gender:      Male,
	},
	{
		ID:          "vn-female-hanoi",
		Name:        "Nữ Truyền Cảm (Hà Nội)",
		Description: "Giọng nữ nhẹ nhàng, truyền cảm, tự nhiên, chuẩn Hà Nội.",
		GeminiVoice: "Kore",
		Gender:      Female,
	},
	{
		ID:          "vn-female-saigon",
		Name:        "Nữ Tự Nhiên (Sài Gòn)",
		Description: "Giọng nữ nhẹ nhàng, truyền cảm, tự nhiên, chuẩn Sài Gòn.",
		GeminiVoice: "Kore", // shared with vn-female-hanoi
		Gender:      Female,
	},
}

var styles = []Style{
	{
		ID:          "story",
		Name:        "Kể Chuyện / Truyền Cảm",
		Instruction: "Read the following text with a warm, emotional, and engaging storytelling tone",
	},
	{
		ID:          "ads",
		Name:        "Quảng Cáo / Sôi Động",
		Instruction: "Read the following text with an energetic, enthusiastic, and persuasive promotional tone",
	},
	{
		ID:          "news",
		Name:        "Tin Tức / Chính Luận",
		Instruction: "Read the following text with a formal, serious, and professional news-anchor tone",
	},
}

// Voices returns the voice catalog in display order.
func Voices() []Voice {
	return append([]Voice(nil), voices...)
}

// Styles returns the reading styles in display order.
func Styles() []Style {
	return append([]Style(nil), styles...)
}

// DefaultVoice is the first voice in the catalog.
func DefaultVoice() Voice { return voices[0] }

// DefaultStyle is the first reading style.
func DefaultStyle() Style { return styles[0] }

// FindVoice looks a voice up by exact id, then by fuzzy match against ids
// and names. An empty query returns the default voice.
func FindVoice(query string) (Voice, error) {
	if query == "" {
		return DefaultVoice(), nil
	}
	keys := make([]string, 0, 2*len(voices))
	for _, v := range voices {
		if strings.EqualFold(v.ID, query) {
			return v, nil
		}
		keys = append(keys, v.ID, v.Name)
	}
	if i, ok := bestMatch(query, keys); ok {
		return voices[i/2], nil
	}
	return Voice{}, fmt.Errorf("%w: %q", ErrUnknownVoice, query)
}

// FindStyle looks a reading style up the same way FindVoice does.
func FindStyle(query string) (Style, error) {
	if query == "" {
		return DefaultStyle(), nil
	}
	keys := make([]string, 0, 2*len(styles))
	for _, s := range styles {
		if strings.EqualFold(s.ID, query) {
			return s, nil
		}
		keys = append(keys, s.ID, s.Name)
	}
	if i, ok := bestMatch(query, keys); ok {
		return styles[i/2], nil
	}
	return Style{}, fmt.Errorf("%w: %q", ErrUnknownStyle, query)
}

// bestMatch returns the index of the highest scoring key.
func bestMatch(query string, keys []string) (int, bool) {
	matches := fuzzy.Find(query, keys)
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Index, true
}
