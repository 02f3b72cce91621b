package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMarkSeenFilterTargetsOnlyUnseenForViewer(t *testing.T) {
	filter := markSeenFilter("alice_bob", "alice")

	assert.Equal(t, "alice_bob", filter["chat_id"])
	assert.Equal(t, "alice", filter["receiver_id"])
	assert.Equal(t, false, filter["seen"])
}

func TestMarkSeenUpdateOnlySetsTrue(t *testing.T) {
	update := markSeenUpdate()

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	require.Len(t, update, 1)
	require.Len(t, set, 1)
	assert.Equal(t, true, set["seen"])
}
