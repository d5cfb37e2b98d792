package processor

import (
	"regexp"
	"strconv"
	"strings"
)

// Signal is the machine-meaningful category of a raw action label.
type Signal int

const (
	SignalNone Signal = iota
	SignalStartSession
	SignalEndSession
	SignalExhibitEntry
	SignalContentOpen
	SignalSubAction
	SignalExhibitClose
)

// Labels the touch panel writes at fixed points of its UI flow.
const (
	StartSessionLabel  = "Button_close_Instructions"
	EndSessionLabel    = "Finish_virtualNavigation"
	ExhibitPrefix      = "Exhibit_"
	MenuExhibitPrefix  = "MenuExhibitButton"
	ContentPrefix      = "OpenContent_"
	ControlPrefix      = "CTRL_"
	ZoomImageLabel     = "UI_OpenZoomImage_Button"
	ExhibitCloseLabel  = "UI_ClosePanoPagePanelClose_Button"
	ClosePanoPageLabel = "UI_ClosePanoPage"
)

func (s Signal) String() string {
	switch s {
	case SignalStartSession:
		return "start_session"
	case SignalEndSession:
		return "end_session"
	case SignalExhibitEntry:
		return "exhibit_entry"
	case SignalContentOpen:
		return "content_open"
	case SignalSubAction:
		return "sub_action"
	case SignalExhibitClose:
		return "exhibit_close"
	default:
		return "none"
	}
}

type matcher struct {
	signal Signal
	match  func(label string) bool
}

func exact(want string) func(string) bool {
	return func(label string) bool { return label == want }
}

func prefix(prefixes ...string) func(string) bool {
	return func(label string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(label, p) {
				return true
			}
		}
		return false
	}
}

// Evaluated in order; the first match wins.
var matchers = []matcher{
	{SignalStartSession, exact(StartSessionLabel)},
	{SignalEndSession, exact(EndSessionLabel)},
	{SignalExhibitEntry, prefix(ExhibitPrefix, MenuExhibitPrefix)},
	{SignalContentOpen, prefix(ContentPrefix)},
	{SignalSubAction, prefix(ControlPrefix, ZoomImageLabel)},
	{SignalExhibitClose, prefix(ExhibitCloseLabel)},
}

// Classify maps a raw action label to its Signal. Unknown labels map to
// SignalNone.
func Classify(label string) Signal {
	for _, m := range matchers {
		if m.match(label) {
			return m.signal
		}
	}
	return SignalNone
}

var (
	exhibitIDPattern = regexp.MustCompile(`ExhibitID_(\d+)`)
	itemIDPattern    = regexp.MustCompile(`ItemID_(\d+)`)
)

// ExhibitID extracts the number following "ExhibitID_" in label, if any.
func ExhibitID(label string) *int64 {
	return extractID(exhibitIDPattern, label)
}

// ItemID extracts the number following "ItemID_" in label, if any.
func ItemID(label string) *int64 {
	return extractID(itemIDPattern, label)
}

func extractID(pattern *regexp.Regexp, label string) *int64 {
	match := pattern.FindStringSubmatch(label)
	if match == nil {
		return nil
	}
	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		// digits overflowing int64 are treated like a missing id
		return nil
	}
	return &id
}
