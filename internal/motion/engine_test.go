package motion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEngineMoveAddsToProcessedAndStopRemovesWhenIdle(t *testing.T) {
	e := NewEngine()
	obj := NewObject(1, Vector3{}, Vector3{})
	e.Add(obj)

	e.Move(obj, MoveData{TargetPos: Vector3{10, 0, 0}, Speed: 1})
	require.True(t, e.processed.Has(1))

	e.Stop(obj)
	require.False(t, e.processed.Has(1))
}

func TestEngineTickDeliversObjectToTargetAndReapsIt(t *testing.T) {
	e := NewEngine()
	obj := NewObject(1, Vector3{}, Vector3{})
	e.Add(obj)
	e.Move(obj, MoveData{TargetPos: Vector3{10, 0, 0}, Speed: 100})

	e.Tick(time.Second, time.Now())
	require.Equal(t, Vector3{10, 0, 0}, obj.Position())
	require.False(t, e.processed.Has(1), "object should be reaped once it arrives")
}

func TestEngineStreamInReportsReadyAfterDelay(t *testing.T) {
	e := NewEngine()
	obj := NewObject(1, Vector3{}, Vector3{})
	e.Add(obj)

	now := time.Now()
	e.StreamIn(obj, 42, now)
	require.True(t, e.processed.Has(1))

	events := e.Tick(0, now)
	require.Empty(t, events, "too early, deadline hasn't elapsed")

	events = e.Tick(0, now.Add(StreamInDelay+time.Millisecond))
	require.Len(t, events, 1)
	require.Equal(t, ReadyEvent{ObjectID: 1, Player: 42}, events[0])
	require.False(t, e.processed.Has(1), "object should be reaped once no observer is still delayed and it isn't moving")
}

func TestEngineAttachToPlayerTracksDependency(t *testing.T) {
	e := NewEngine()
	obj := NewObject(1, Vector3{}, Vector3{})
	e.Add(obj)

	e.AttachToPlayer(obj, 7, Vector3{1, 2, 3}, Vector3{})
	require.Equal(t, AttachPlayer, obj.Attachment.Type)
	require.Contains(t, e.attachedTo, 1)

	detached := e.DetachFromPlayer(7)
	require.Equal(t, []int{1}, detached)
	require.Equal(t, AttachNone, obj.Attachment.Type)
	require.NotContains(t, e.attachedTo, 1)
}

func TestEngineDetachFromPlayerIgnoresOtherAttachments(t *testing.T) {
	e := NewEngine()
	obj := NewObject(1, Vector3{}, Vector3{})
	e.Add(obj)
	e.AttachToPlayer(obj, 7, Vector3{}, Vector3{})

	detached := e.DetachFromPlayer(99)
	require.Empty(t, detached)
	require.Equal(t, AttachPlayer, obj.Attachment.Type)
}

func TestEngineStreamOutRemovesRestreamAudience(t *testing.T) {
	e := NewEngine()
	obj := NewObject(1, Vector3{}, Vector3{})
	e.Add(obj)

	now := time.Now()
	e.StreamIn(obj, 10, now)
	e.StreamIn(obj, 20, now)
	require.Equal(t, []int{10, 20}, obj.StreamedFor())

	e.StreamOut(obj, 10)
	require.Equal(t, []int{20}, obj.StreamedFor())
}

func TestEngineRestreamReportsNoneWithoutPlayers(t *testing.T) {
	e := NewEngine()
	obj := NewObject(1, Vector3{}, Vector3{})
	e.Add(obj)
	e.StreamIn(obj, 10, time.Now())

	require.Equal(t, RestreamEvent{Kind: RestreamNone}, e.Restream(obj, RestreamNone))

	ev := e.Restream(obj, RestreamFull)
	require.Equal(t, RestreamFull, ev.Kind)
	require.Equal(t, []int{10}, ev.Players)
}

func TestEngineAttachToObjectRefusesSelfAttach(t *testing.T) {
	e := NewEngine()
	obj := NewObject(1, Vector3{}, Vector3{})
	e.Add(obj)

	_, ok := e.AttachToObject(obj, 1, Vector3{}, Vector3{})
	require.False(t, ok)
	require.Equal(t, AttachNone, obj.Attachment.Type)
}

func TestEngineAttachToObjectRefusesDirectCycle(t *testing.T) {
	e := NewEngine()
	a := NewObject(1, Vector3{}, Vector3{})
	b := NewObject(2, Vector3{}, Vector3{})
	e.Add(a)
	e.Add(b)

	_, ok := e.AttachToObject(b, 1, Vector3{}, Vector3{})
	require.True(t, ok, "b attaching to a is fine")

	_, ok = e.AttachToObject(a, 2, Vector3{}, Vector3{})
	require.False(t, ok, "a attaching to b would close a 2-cycle")
	require.Equal(t, AttachNone, a.Attachment.Type)
}

func TestEngineAttachToObjectRefusesTransitiveCycle(t *testing.T) {
	e := NewEngine()
	a := NewObject(1, Vector3{}, Vector3{})
	b := NewObject(2, Vector3{}, Vector3{})
	c := NewObject(3, Vector3{}, Vector3{})
	e.Add(a)
	e.Add(b)
	e.Add(c)

	_, ok := e.AttachToObject(b, 1, Vector3{}, Vector3{})
	require.True(t, ok)
	_, ok = e.AttachToObject(c, 2, Vector3{}, Vector3{})
	require.True(t, ok)

	_, ok = e.AttachToObject(a, 3, Vector3{}, Vector3{})
	require.False(t, ok, "a -> c -> b -> a would close a 3-cycle")
	require.Equal(t, AttachNone, a.Attachment.Type)
}

func TestEngineAttachToObjectSucceedsAndReportsRestream(t *testing.T) {
	e := NewEngine()
	a := NewObject(1, Vector3{}, Vector3{})
	b := NewObject(2, Vector3{}, Vector3{})
	e.Add(a)
	e.Add(b)
	e.StreamIn(a, 99, time.Now())

	ev, ok := e.AttachToObject(a, 2, Vector3{1, 0, 0}, Vector3{})
	require.True(t, ok)
	require.Equal(t, AttachObject, a.Attachment.Type)
	require.Equal(t, 2, a.Attachment.ID)
	require.Equal(t, RestreamFull, ev.Kind)
	require.Equal(t, []int{99}, ev.Players)
}

func TestEngineRemoveDetachesDependentObjects(t *testing.T) {
	e := NewEngine()
	a := NewObject(1, Vector3{}, Vector3{})
	b := NewObject(2, Vector3{}, Vector3{})
	e.Add(a)
	e.Add(b)

	_, ok := e.AttachToObject(a, 2, Vector3{}, Vector3{})
	require.True(t, ok)

	e.Remove(2)
	require.Equal(t, AttachNone, a.Attachment.Type, "a must detach once its target is removed")
}

func TestPlayerEngineTickReportsReadyThenReaps(t *testing.T) {
	e := NewPlayerEngine()
	obj := NewPlayerObject(1, 5, Vector3{}, Vector3{})
	e.Add(obj)

	now := time.Now()
	e.StreamIn(obj, now)

	events := e.Tick(0, now.Add(StreamInDelay+time.Millisecond))
	require.Len(t, events, 1)
	require.Equal(t, PlayerReadyEvent{ObjectID: 1}, events[0])
	require.False(t, e.processed.Has(1))
}

func TestPlayerEngineAttachToObjectRefusesSelfAndCycles(t *testing.T) {
	e := NewPlayerEngine()
	a := NewPlayerObject(1, 5, Vector3{}, Vector3{})
	b := NewPlayerObject(2, 5, Vector3{}, Vector3{})
	e.Add(a)
	e.Add(b)

	_, ok := e.AttachToObject(a, 1, Vector3{}, Vector3{})
	require.False(t, ok, "self-attach must be refused")

	_, ok = e.AttachToObject(b, 1, Vector3{}, Vector3{})
	require.True(t, ok)

	_, ok = e.AttachToObject(a, 2, Vector3{}, Vector3{})
	require.False(t, ok, "a attaching to b would close a 2-cycle")
}

func TestPlayerEngineRemoveDetachesDependentObjects(t *testing.T) {
	e := NewPlayerEngine()
	a := NewPlayerObject(1, 5, Vector3{}, Vector3{})
	b := NewPlayerObject(2, 5, Vector3{}, Vector3{})
	e.Add(a)
	e.Add(b)

	_, ok := e.AttachToObject(a, 2, Vector3{}, Vector3{})
	require.True(t, ok)

	e.Remove(2)
	require.Equal(t, AttachNone, a.Attachment.Type, "a must detach once its target is removed")
}
