package services

import "time"

// TapAction is what the calendar should do after a day tap.
type TapAction string

const (
	TapActionNone             TapAction = "none"
	TapActionBeginSelection   TapAction = "begin_selection"
	TapActionCompleteRange    TapAction = "complete_range"
	TapActionRestartSelection TapAction = "restart_selection"
	TapActionOpenDayActions   TapAction = "open_day_actions"
	TapActionShowMembers      TapAction = "show_members"
	TapActionRejectFuture     TapAction = "reject_future"
)

// FutureStartMessage is the user-facing rejection for future start dates.
const FutureStartMessage = "a period cannot start in the future"

// SelectionState is the pending range selection. It travels in and out of
// HandleDayTap so the caller owns it instead of package state.
type SelectionState struct {
	PendingStart *time.Time `json:"pending_start,omitempty"`
}

type TapContext struct {
	SharedView  bool
	InOwnRecord bool
	MemberNames []string
	Now         time.Time
	Location    *time.Location
}

type TapResult struct {
	Action      TapAction      `json:"action"`
	State       SelectionState `json:"state"`
	RangeStart  *time.Time     `json:"range_start,omitempty"`
	RangeEnd    *time.Time     `json:"range_end,omitempty"`
	MemberNames []string       `json:"member_names,omitempty"`
	Message     string         `json:"message,omitempty"`
}

// HandleDayTap advances the calendar tap state machine.
//
// Shared view: a tap on a day inside any member's (or the viewer's) range
// shows the matching member names; everything else, future days included,
// is inert.
//
// Selection mode: a tap inside an existing personal record opens the day
// action menu. Otherwise the first tap begins a range, a second tap on or
// after the pending start completes it, and a tap before the pending start
// restarts the selection from that earlier day. Future start dates are
// rejected with a message.
func HandleDayTap(state SelectionState, day time.Time, tap TapContext) TapResult {
	tappedDay := DateAtLocation(day, tap.Location)
	today := DateAtLocation(tap.Now, tap.Location)

	if tap.SharedView {
		if tappedDay.After(today) {
			return TapResult{Action: TapActionNone, State: state}
		}
		if len(tap.MemberNames) > 0 || tap.InOwnRecord {
			return TapResult{
				Action:      TapActionShowMembers,
				State:       state,
				MemberNames: tap.MemberNames,
			}
		}
		return TapResult{Action: TapActionNone, State: state}
	}

	if tap.InOwnRecord {
		return TapResult{Action: TapActionOpenDayActions, State: SelectionState{}}
	}

	if state.PendingStart == nil {
		if tappedDay.After(today) {
			return TapResult{
				Action:  TapActionRejectFuture,
				State:   state,
				Message: FutureStartMessage,
			}
		}
		return TapResult{
			Action: TapActionBeginSelection,
			State:  SelectionState{PendingStart: &tappedDay},
		}
	}

	pendingStart := DateAtLocation(*state.PendingStart, tap.Location)
	if tappedDay.Before(pendingStart) {
		// Selecting an end before the pending start restarts the range
		// from the earlier day instead of erroring.
		return TapResult{
			Action: TapActionRestartSelection,
			State:  SelectionState{PendingStart: &tappedDay},
		}
	}

	return TapResult{
		Action:     TapActionCompleteRange,
		State:      SelectionState{},
		RangeStart: &pendingStart,
		RangeEnd:   &tappedDay,
	}
}
