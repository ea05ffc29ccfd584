package tui

type View int

const (
	ViewMessages View = iota
	ViewSearch
	ViewRegions
	ViewActions
	ViewDetail
	ViewFind
)

func (v View) String() string {
	switch v {
	case ViewMessages:
		return "messages"
	case ViewSearch:
		return "search"
	case ViewRegions:
		return "regions"
	case ViewActions:
		return "actions"
	case ViewDetail:
		return "detail"
	case ViewFind:
		return "find"
	default:
		return "unknown"
	}
}
