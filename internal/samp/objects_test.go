package samp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectStoreClaimSkipsIndicesReservedByPlayerObjects(t *testing.T) {
	global := NewObjectStore()
	playerStore := NewPlayerObjectStore(global)

	pid := playerStore.Claim(5, Vector3{}, Vector3{})
	require.Equal(t, ObjectLower, pid, "player object should claim the lowest free index")

	gid := global.Claim(Vector3{}, Vector3{})
	require.NotEqual(t, pid, gid, "global claim must skip the index reserved by the per-player object")
	require.Equal(t, ObjectLower+1, gid)
}

func TestObjectStoreNeverReclaimsIndexOnceReferenceDrops(t *testing.T) {
	global := NewObjectStore()
	playerStore := NewPlayerObjectStore(global)

	pid := playerStore.Claim(5, Vector3{}, Vector3{})
	require.True(t, playerStore.Release(pid))

	gid := global.Claim(Vector3{}, Vector3{})
	require.NotEqual(t, pid, gid, "index must stay reserved even after every per-player reference releases it")
}

func TestMultiplePlayersCanShareTheSameObjectIndex(t *testing.T) {
	global := NewObjectStore()
	alice := NewPlayerObjectStore(global)
	bob := NewPlayerObjectStore(global)

	aliceID := alice.Claim(1, Vector3{}, Vector3{})
	bobID := bob.Claim(2, Vector3{}, Vector3{})
	require.Equal(t, aliceID, bobID, "separate per-player pools may reuse the same index")
}

func TestPlayerObjectStoreGetAndCount(t *testing.T) {
	global := NewObjectStore()
	store := NewPlayerObjectStore(global)
	id := store.Claim(1, Vector3{1, 2, 3}, Vector3{})

	obj := store.Get(id)
	require.NotNil(t, obj)
	require.Equal(t, Vector3{1, 2, 3}, obj.Position())
	require.Equal(t, 1, store.Count())
}
