package p2p_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/p2p"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		from    models.TradeStatus
		cmd     p2p.Command
		actor   p2p.Role
		want    models.TradeStatus
		wantErr bool
	}{
		{"buyer marks paid", models.TradeWaitingForPayment, p2p.CmdMarkPaid, p2p.RoleBuyer, models.TradePaidConfirmed, false},
		{"seller cannot mark paid", models.TradeWaitingForPayment, p2p.CmdMarkPaid, p2p.RoleSeller, models.TradeWaitingForPayment, true},
		{"seller releases after payment", models.TradePaidConfirmed, p2p.CmdRelease, p2p.RoleSeller, models.TradeCompleted, false},
		{"release before payment is rejected", models.TradeWaitingForPayment, p2p.CmdRelease, p2p.RoleSeller, models.TradeWaitingForPayment, true},
		{"buyer cannot release", models.TradePaidConfirmed, p2p.CmdRelease, p2p.RoleBuyer, models.TradePaidConfirmed, true},
		{"dispute from waiting", models.TradeWaitingForPayment, p2p.CmdOpenDispute, p2p.RoleBuyer, models.TradeDisputed, false},
		{"dispute from paid", models.TradePaidConfirmed, p2p.CmdOpenDispute, p2p.RoleSeller, models.TradeDisputed, false},
		{"dispute from completed is rejected", models.TradeCompleted, p2p.CmdOpenDispute, p2p.RoleBuyer, models.TradeCompleted, true},
		{"either party cancels while waiting", models.TradeWaitingForPayment, p2p.CmdCancel, p2p.RoleSeller, models.TradeCancelled, false},
		{"cancel after payment confirmed is rejected", models.TradePaidConfirmed, p2p.CmdCancel, p2p.RoleBuyer, models.TradePaidConfirmed, true},
		{"system expires waiting trade", models.TradeWaitingForPayment, p2p.CmdExpire, p2p.RoleSystem, models.TradeCancelled, false},
		{"only system may expire", models.TradeWaitingForPayment, p2p.CmdExpire, p2p.RoleSeller, models.TradeWaitingForPayment, true},
		{"dispute resolves to completed", models.TradeDisputed, p2p.CmdResolveRelease, p2p.RoleSystem, models.TradeCompleted, false},
		{"dispute resolves to cancelled", models.TradeDisputed, p2p.CmdResolveCancel, p2p.RoleSystem, models.TradeCancelled, false},
		{"terminal state accepts nothing", models.TradeCancelled, p2p.CmdMarkPaid, p2p.RoleBuyer, models.TradeCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p2p.Transition(tt.from, tt.cmd, tt.actor)
			if tt.wantErr {
				require.Error(t, err)
				var terr *p2p.TransitionError
				require.ErrorAs(t, err, &terr)
				assert.Equal(t, tt.from, terr.From)
				assert.Equal(t, tt.from, got, "status must not change on rejection")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCancelReasonFor(t *testing.T) {
	assert.Equal(t, models.CancelReasonExpired, p2p.CancelReasonFor(p2p.CmdExpire))
	assert.Equal(t, models.CancelReasonDispute, p2p.CancelReasonFor(p2p.CmdResolveCancel))
	assert.Equal(t, models.CancelReasonUser, p2p.CancelReasonFor(p2p.CmdCancel))
}

func TestCountdown(t *testing.T) {
	now := time.Now()
	exp := now.Add(65 * time.Second)

	d, active := p2p.Remaining(models.TradeWaitingForPayment, &exp, now)
	require.True(t, active)
	assert.Equal(t, "01:05", p2p.FormatClock(d))

	// 65 seconds later the countdown bottoms out at zero, but deriving it
	// does not transition the trade; that stays with the sweeper.
	d, active = p2p.Remaining(models.TradeWaitingForPayment, &exp, now.Add(65*time.Second))
	require.True(t, active)
	assert.Equal(t, time.Duration(0), d)
	assert.Equal(t, "00:00", p2p.FormatClock(d))

	// Past the deadline it still only clamps.
	d, _ = p2p.Remaining(models.TradeWaitingForPayment, &exp, now.Add(10*time.Minute))
	assert.Equal(t, "00:00", p2p.FormatClock(d))
}

func TestCountdownOnlyWhileWaiting(t *testing.T) {
	now := time.Now()
	exp := now.Add(time.Minute)

	for _, st := range []models.TradeStatus{
		models.TradePaidConfirmed,
		models.TradeCompleted,
		models.TradeDisputed,
		models.TradeCancelled,
	} {
		_, active := p2p.Remaining(st, &exp, now)
		assert.False(t, active, "status %s must not report a countdown", st)
	}

	_, active := p2p.Remaining(models.TradeWaitingForPayment, nil, now)
	assert.False(t, active, "no deadline means no countdown")
}

func TestFormatClockLongWindow(t *testing.T) {
	assert.Equal(t, "45:00", p2p.FormatClock(45*time.Minute))
	assert.Equal(t, "00:00", p2p.FormatClock(-time.Second))
}

func TestViewStatusRoleSensitive(t *testing.T) {
	buyer := p2p.ViewStatus(models.TradeWaitingForPayment, true)
	seller := p2p.ViewStatus(models.TradeWaitingForPayment, false)
	assert.Equal(t, "Awaiting your payment", buyer.Label)
	assert.Equal(t, "Waiting for buyer's payment", seller.Label)

	buyer = p2p.ViewStatus(models.TradePaidConfirmed, true)
	seller = p2p.ViewStatus(models.TradePaidConfirmed, false)
	assert.Equal(t, "Waiting for seller to release", buyer.Label)
	assert.Equal(t, "Awaiting your release", seller.Label)

	assert.Equal(t, "check", p2p.ViewStatus(models.TradeCompleted, true).Icon)
	assert.Equal(t, "alert", p2p.ViewStatus(models.TradeDisputed, false).Icon)
}

func TestViewStatusUnknownFallsBack(t *testing.T) {
	v := p2p.ViewStatus(models.TradeStatus("Pending Admin-Review"), true)
	assert.Equal(t, "pending_admin_review", v.Label)
	assert.Equal(t, "clock", v.Icon)

	v = p2p.ViewStatus(models.TradeStatus(""), false)
	assert.Equal(t, "clock", v.Icon)
}
