package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTitle string
		wantBody  string
		wantOK    bool
	}{
		{"tagged", "[긴급] 대피하세요", "긴급", " 대피하세요", true},
		{"untagged", "일반 안내문", "", "일반 안내문", false},
		{"only first segment", "[행정안전부] [주의] 강풍", "행정안전부", " [주의] 강풍", true},
		{"bracket not leading", "안내 [긴급] 대피", "", "안내 [긴급] 대피", false},
		{"unterminated", "[긴급 대피하세요", "", "[긴급 대피하세요", false},
		{"empty tag", "[]본문", "", "본문", true},
		{"empty text", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body, ok := SplitTitle(tt.text)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantBody, body)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDisplayTitleAndBody(t *testing.T) {
	tagged := Message{Text: "[긴급] 대피하세요"}
	assert.Equal(t, "긴급", DisplayTitle(tagged))
	assert.Equal(t, " 대피하세요", Body(tagged))

	plain := Message{Text: "일반 안내문"}
	assert.Equal(t, DefaultTitle, DisplayTitle(plain))
	assert.Equal(t, "일반 안내문", Body(plain))
}

func TestShareText(t *testing.T) {
	msg := Message{
		Text:      "[긴급] 대피하세요",
		Locations: []string{"서울특별시", "경기도", "서울특별시"},
		SentAt:    "2024/05/01 12:34:56",
	}

	want := "긴급재난문자\n* [긴급] 대피하세요\n* 발송 지역: 서울특별시,경기도\n* 발송일: 2024/05/01 12:34:56"
	assert.Equal(t, want, ShareText(msg))
	assert.Equal(t, ShareText(msg), ShareText(msg), "must be stable across calls")
}

func TestShareText_NoLocations(t *testing.T) {
	msg := Message{Text: "안내", SentAt: "t"}
	assert.Equal(t, "긴급재난문자\n* 안내\n* 발송 지역: \n* 발송일: t", ShareText(msg))
}
