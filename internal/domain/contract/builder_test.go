package contract

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// deployTokenX builds the reference contract used throughout these tests.
func deployTokenX(t *testing.T) *Deployed {
	t.Helper()
	return New("TokenX").
		WithAuthor("azaM").
		Validate().
		OnDeploy(func(m map[string]string) {
			m[KeyTimestamp] = "2025-06-28"
			m[KeySigner] = "0xDEADBEEF"
		})
}

// requirePanicsWith asserts that fn panics with an error matching target.
func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		require.ErrorIs(t, err, target)
	}()
	fn()
}

func TestNew_StartsInInit(t *testing.T) {
	b := New("TokenX")
	require.NotNil(t, b)
	require.Equal(t, StageInit, b.Stage())
	require.Equal(t, "", b.ID())
}

func TestNew_WithID(t *testing.T) {
	b := New("TokenX", WithID("abc-123"))
	require.Equal(t, "abc-123", b.ID())

	d := b.Validate().OnDeploy(nil)
	require.Equal(t, "abc-123", d.ID(), "ID should survive transitions")
	_, ok := d.Snapshot()["id"]
	require.False(t, ok, "ID must not be written into the metadata")
}

func TestBuilder_TokenXScenario(t *testing.T) {
	d := deployTokenX(t)

	require.Equal(t, StageDeployed, d.Stage())
	require.Equal(t, "TokenX", d.Name())
	require.Equal(t, map[string]string{
		"author":    "azaM",
		"validated": "true",
		"status":    "deployed",
		"timestamp": "2025-06-28",
		"signer":    "0xDEADBEEF",
	}, d.Snapshot())
}

func TestInit_WithAuthor_LastWriteWins(t *testing.T) {
	d := New("TokenX").
		WithAuthor("alice").
		WithAuthor("bob").
		WithAuthor("carol").
		Validate().
		OnDeploy(nil)

	require.Equal(t, "carol", d.Snapshot()[KeyAuthor])
}

func TestInit_WithAuthor_ReturnsSameHandle(t *testing.T) {
	b := New("TokenX")
	require.Same(t, b, b.WithAuthor("azaM"))
}

func TestInit_Validate_SetsValidated(t *testing.T) {
	v := New("TokenX").Validate()
	require.Equal(t, StageValidated, v.Stage())

	d := v.OnDeploy(nil)
	require.Equal(t, ValidatedTrue, d.Snapshot()[KeyValidated])
}

func TestInit_Validate_ConsumesInit(t *testing.T) {
	b := New("TokenX")
	_ = b.Validate()

	requirePanicsWith(t, ErrConsumed, func() { b.WithAuthor("late") })
	requirePanicsWith(t, ErrConsumed, func() { b.Validate() })
}

func TestInit_WithoutAuthor(t *testing.T) {
	d := New("TokenX").Validate().OnDeploy(nil)

	_, ok := d.Snapshot()[KeyAuthor]
	require.False(t, ok, "author is only written by WithAuthor")
	require.Len(t, d.Snapshot(), 2)
}

func TestValidated_OnDeploy_SetsStatusAndHookKeys(t *testing.T) {
	d := New("TokenX").Validate().OnDeploy(func(m map[string]string) {
		m["network"] = "testnet"
		m["gas"] = "21000"
	})

	snap := d.Snapshot()
	require.Equal(t, StatusDeployed, snap[KeyStatus])
	require.Equal(t, "testnet", snap["network"])
	require.Equal(t, "21000", snap["gas"])
}

func TestValidated_OnDeploy_HookSeesEarlierKeys(t *testing.T) {
	var seen map[string]string
	New("TokenX").WithAuthor("azaM").Validate().OnDeploy(func(m map[string]string) {
		seen = map[string]string{}
		for k, v := range m {
			seen[k] = v
		}
	})

	require.Equal(t, map[string]string{
		"author":    "azaM",
		"validated": "true",
		"status":    "deployed",
	}, seen)
}

func TestValidated_OnDeploy_HookCanOverrideStatus(t *testing.T) {
	d := New("TokenX").Validate().OnDeploy(Set(KeyStatus, "pending"))
	require.Equal(t, "pending", d.Snapshot()[KeyStatus])
}

func TestValidated_OnDeploy_RunsHookOnce(t *testing.T) {
	calls := 0
	v := New("TokenX").Validate()
	_ = v.OnDeploy(func(map[string]string) { calls++ })

	require.Equal(t, 1, calls)
	requirePanicsWith(t, ErrConsumed, func() {
		v.OnDeploy(func(map[string]string) { calls++ })
	})
	require.Equal(t, 1, calls, "consumed handle must not run the hook again")
}

func TestValidated_OnDeploy_PanickingHookLeavesRecordUntouched(t *testing.T) {
	v := New("TokenX").WithAuthor("azaM").Validate()

	require.Panics(t, func() {
		v.OnDeploy(func(m map[string]string) {
			m["half"] = "written"
			panic("hook failed")
		})
	})

	// The handle was not consumed, so a retry is possible.
	d := v.OnDeploy(nil)
	require.Equal(t, map[string]string{
		"author":    "azaM",
		"validated": "true",
		"status":    "deployed",
	}, d.Snapshot())
}

func TestDeployed_Registry_Aliases(t *testing.T) {
	d := deployTokenX(t)
	h1 := d.Registry()
	h2 := d.Registry()

	h1.Set("auditor", "trail-of-bits")

	v, ok := h2.Get("auditor")
	require.True(t, ok)
	require.Equal(t, "trail-of-bits", v)
	require.Equal(t, "trail-of-bits", d.Snapshot()["auditor"])

	d.Update(func(m map[string]string) { m["auditor"] = "none" })
	v, _ = h1.Get("auditor")
	require.Equal(t, "none", v)
}

func TestDeployed_IntoInner_SoleOwner(t *testing.T) {
	d := deployTokenX(t)

	m, err := d.IntoInner()
	require.NoError(t, err)
	require.Len(t, m, 5)
	require.Equal(t, "azaM", m[KeyAuthor])
}

func TestDeployed_IntoInner_AfterReleasedHandles(t *testing.T) {
	d := deployTokenX(t)
	h := d.Registry()
	h.Set("extra", "1")
	h.Release()

	m, err := d.IntoInner()
	require.NoError(t, err)
	require.Len(t, m, 6)
	require.Equal(t, "1", m["extra"])
}

func TestDeployed_IntoInner_StillShared(t *testing.T) {
	d := deployTokenX(t)
	h := d.Registry()

	m, err := d.IntoInner()
	require.ErrorIs(t, err, ErrStillShared)
	require.NotNil(t, m, "fallback mapping should be empty, not nil")
	require.Empty(t, m)

	// The outstanding handle keeps the full record.
	require.Equal(t, 5, h.Len())
}

func TestDeployed_IntoInner_ConsumesBuilder(t *testing.T) {
	d := deployTokenX(t)
	_, err := d.IntoInner()
	require.NoError(t, err)

	requirePanicsWith(t, ErrConsumed, func() { d.Registry() })
	requirePanicsWith(t, ErrConsumed, func() { d.Name() })
	requirePanicsWith(t, ErrConsumed, func() { _, _ = d.IntoInner() })
}

func TestDeployed_IntoInner_InsideViewPanics(t *testing.T) {
	d := deployTokenX(t)

	require.Panics(t, func() {
		d.View(func(map[string]string) {
			_, _ = d.IntoInner()
		})
	})

	// The rejected call neither consumed the builder nor leaked its reference.
	require.Equal(t, "TokenX", d.Name())
	m, err := d.IntoInner()
	require.NoError(t, err)
	require.Len(t, m, 5)
}

func TestDeployed_AddObserverSeesExtract(t *testing.T) {
	d := deployTokenX(t)

	var ops []Op
	d.AddObserver(ObserverFunc(func(e Event) { ops = append(ops, e.Op) }))
	d.AddObserver(nil)

	_, err := d.IntoInner()
	require.NoError(t, err)
	require.Equal(t, []Op{OpExtract}, ops)
}

func TestDeployed_NestedUpdatePanicsWithBorrowError(t *testing.T) {
	d := deployTokenX(t)
	h := d.Registry()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		var be *BorrowError
		require.True(t, errors.As(r.(error), &be))
		require.Equal(t, AccessUpdate, be.Requested)
		require.Equal(t, AccessUpdate, be.Held)

		// The outer update was aborted as a whole.
		_, ok := h.Get("outer")
		require.False(t, ok)
		_, ok = h.Get("inner")
		require.False(t, ok)
	}()

	d.Update(func(m map[string]string) {
		m["outer"] = "1"
		h.Set("inner", "2")
	})
}

func TestObserver_ReceivesEveryOperation(t *testing.T) {
	var events []Event
	obs := ObserverFunc(func(e Event) { events = append(events, e) })

	d := New("TokenX", WithID("id-1"), WithObserver(obs), WithObserver(nil)).
		WithAuthor("azaM").
		Validate().
		OnDeploy(Chain(Timestamp(func() time.Time {
			return time.Date(2025, 6, 28, 12, 0, 0, 0, time.UTC)
		}), Signer("0xDEADBEEF")))
	_, err := d.IntoInner()
	require.NoError(t, err)

	require.Len(t, events, 5)
	require.Equal(t, []Op{OpCreate, OpAnnotate, OpValidate, OpDeploy, OpExtract}, []Op{
		events[0].Op, events[1].Op, events[2].Op, events[3].Op, events[4].Op,
	})
	require.Equal(t, StageInit, events[2].From)
	require.Equal(t, StageValidated, events[2].To)
	require.Equal(t, StageValidated, events[3].From)
	require.Equal(t, StageDeployed, events[3].To)
	require.Equal(t, 5, events[3].Keys)
	for _, e := range events {
		require.Equal(t, "id-1", e.ID)
		require.Equal(t, "TokenX", e.Name)
	}
}

func TestStage_String(t *testing.T) {
	require.Equal(t, "init", StageInit.String())
	require.Equal(t, "validated", StageValidated.String())
	require.Equal(t, "deployed", StageDeployed.String())
	require.Equal(t, "unknown", Stage(99).String())
}

func TestBuilder_SealedInterface(t *testing.T) {
	stages := []Builder{New("a"), New("b").Validate(), New("c").Validate().OnDeploy(nil)}
	require.Equal(t, StageInit, stages[0].Stage())
	require.Equal(t, StageValidated, stages[1].Stage())
	require.Equal(t, StageDeployed, stages[2].Stage())
}
