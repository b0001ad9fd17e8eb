package p2p

import (
	"fmt"
	"strings"
	"time"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

// Role is who is issuing a lifecycle command relative to the trade.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleSystem Role = "system"
)

type Command string

const (
	CmdMarkPaid       Command = "mark_paid"
	CmdRelease        Command = "release"
	CmdOpenDispute    Command = "open_dispute"
	CmdCancel         Command = "cancel"
	CmdExpire         Command = "expire"
	CmdResolveRelease Command = "resolve_release"
	CmdResolveCancel  Command = "resolve_cancel"
)

// TransitionError is returned for a command that is invalid in the trade's
// current state or for the caller's role. It is a typed rejection so a buggy
// caller is surfaced loudly instead of the command being dropped.
type TransitionError struct {
	From    models.TradeStatus
	Command Command
	Actor   Role
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("p2p: %s by %s not allowed in status %s", e.Command, e.Actor, e.From)
}

// Transition runs the trade state machine:
//
//	waiting_for_payment --mark_paid(buyer)--> paid_confirmed_by_buyer
//	paid_confirmed_by_buyer --release(seller)--> completed
//	waiting_for_payment | paid_confirmed_by_buyer --open_dispute--> disputed
//	waiting_for_payment --cancel | expire(system)--> cancelled
//	disputed --resolve_release | resolve_cancel (system)--> completed | cancelled
//
// Status only ever advances; terminal states accept no command. The function
// is pure; persisting the returned status is the caller's job.
func Transition(from models.TradeStatus, cmd Command, actor Role) (models.TradeStatus, error) {
	reject := func() (models.TradeStatus, error) {
		return from, &TransitionError{From: from, Command: cmd, Actor: actor}
	}

	switch cmd {
	case CmdMarkPaid:
		if from == models.TradeWaitingForPayment && actor == RoleBuyer {
			return models.TradePaidConfirmed, nil
		}
	case CmdRelease:
		if from == models.TradePaidConfirmed && actor == RoleSeller {
			return models.TradeCompleted, nil
		}
	case CmdOpenDispute:
		if (from == models.TradeWaitingForPayment || from == models.TradePaidConfirmed) &&
			(actor == RoleBuyer || actor == RoleSeller) {
			return models.TradeDisputed, nil
		}
	case CmdCancel:
		if from == models.TradeWaitingForPayment {
			return models.TradeCancelled, nil
		}
	case CmdExpire:
		if from == models.TradeWaitingForPayment && actor == RoleSystem {
			return models.TradeCancelled, nil
		}
	case CmdResolveRelease:
		if from == models.TradeDisputed && actor == RoleSystem {
			return models.TradeCompleted, nil
		}
	case CmdResolveCancel:
		if from == models.TradeDisputed && actor == RoleSystem {
			return models.TradeCancelled, nil
		}
	}
	return reject()
}

// CancelReasonFor maps a cancelling command to the persisted reason.
func CancelReasonFor(cmd Command) models.CancelReason {
	switch cmd {
	case CmdExpire:
		return models.CancelReasonExpired
	case CmdResolveCancel:
		return models.CancelReasonDispute
	default:
		return models.CancelReasonUser
	}
}

// Remaining derives the payment countdown from the clock passed in. Only a
// trade still waiting for payment has a countdown; every other status reports
// zero and inactive. Rendering the countdown must never mutate the trade —
// the expiry sweeper owns the authoritative transition to cancelled.
func Remaining(status models.TradeStatus, expiresAt *time.Time, now time.Time) (time.Duration, bool) {
	if status != models.TradeWaitingForPayment || expiresAt == nil {
		return 0, false
	}
	d := expiresAt.Sub(now)
	if d < 0 {
		d = 0
	}
	return d, true
}

// FormatClock renders a countdown as "MM:SS". 65s becomes "01:05";
// anything elapsed is "00:00". Minutes are total minutes, so long payment
// windows render as "45:00" rather than rolling into hours.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// StatusView is what the trade room header shows for a status.
type StatusView struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// ViewStatus maps status x viewer role to a display label. The mapping is
// total: a status this build doesn't know yet (rolled out server-side first)
// falls back to a snake_case rendering with a clock icon instead of failing.
func ViewStatus(status models.TradeStatus, viewerIsBuyer bool) StatusView {
	switch status {
	case models.TradeWaitingForPayment:
		if viewerIsBuyer {
			return StatusView{Label: "Awaiting your payment", Icon: "clock"}
		}
		return StatusView{Label: "Waiting for buyer's payment", Icon: "clock"}
	case models.TradePaidConfirmed:
		if viewerIsBuyer {
			return StatusView{Label: "Waiting for seller to release", Icon: "clock"}
		}
		return StatusView{Label: "Awaiting your release", Icon: "clock"}
	case models.TradeCompleted:
		return StatusView{Label: "Completed", Icon: "check"}
	case models.TradeDisputed:
		return StatusView{Label: "Under dispute", Icon: "alert"}
	case models.TradeCancelled:
		return StatusView{Label: "Cancelled", Icon: "cross"}
	default:
		return StatusView{Label: snakeCase(string(status)), Icon: "clock"}
	}
}

func snakeCase(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(s)), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	return strings.Join(fields, "_")
}
