package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/jaenan/internal/alert"
)

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

func (k StatusKind) style() lipgloss.Style {
	switch k {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}

// Short status texts shown in the status bar.
const (
	MsgLoading       = "불러오는 중…"
	MsgNoMessages    = "표시할 재난문자가 없습니다"
	MsgRefreshReady  = "새로고침 가능"
	MsgCopied        = "복사했습니다"
	MsgShared        = "공유했습니다"
	MsgCancelled     = "취소했습니다"
	MsgNoResults     = "검색 결과 없음"
	MsgFindTooShort  = "두 글자 이상 입력하세요"
	MsgRefreshIssued = "새로고침 중…"
)

func MsgCooldown(seconds int) string {
	return fmt.Sprintf("새로고침 %d초 후", seconds)
}

func MsgResultsCount(n int) string {
	return fmt.Sprintf("%d건", n)
}

func MsgPageOf(page, total int) string {
	if total == 0 {
		return "0 / 0"
	}
	return fmt.Sprintf("%d / %d", page, total)
}

// MsgQuerySummary describes the active query under the list title.
func MsgQuerySummary(q alert.Query, totalPages int) string {
	parts := make([]string, 0, 4)
	if q.SearchTerm != "" {
		parts = append(parts, "검색: "+q.SearchTerm)
	}
	if len(q.Regions) > 0 {
		parts = append(parts, "지역: "+strings.Join(q.Regions, ", "))
	}
	parts = append(parts, MsgPageOf(q.Page, totalPages), fmt.Sprintf("%d개씩", q.PageSize))
	return strings.Join(parts, " • ")
}

func MsgSelectedRegions(regions []string) string {
	if len(regions) == 0 {
		return "선택: 전체 지역"
	}
	return "선택: " + strings.Join(regions, ", ")
}

// MsgHandedOff reports which command carried out a copy or share.
func MsgHandedOff(done, method string) string {
	if method == "" {
		return done
	}
	return fmt.Sprintf("%s (%s)", done, method)
}

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
