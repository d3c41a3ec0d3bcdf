package upsert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rva-directmail/internal/identity"
	"github.com/rva-directmail/internal/property"
)

var now = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func rec(parcel string) *property.Record {
	return &property.Record{
		Location: identity.Location{ParcelID: parcel, FIPS: "51770"},
		OwnerKey: "123_Main_St_24016",
	}
}

func TestEligible(t *testing.T) {
	p := NewPlanner(6, now)

	assert.True(t, p.Eligible(now.AddDate(0, -3, 0)), "3 months old is inside the window")
	assert.True(t, p.Eligible(now.AddDate(0, -6, 0)), "exactly on the boundary is still eligible")
	assert.False(t, p.Eligible(now.AddDate(0, -8, 0)), "8 months old is frozen")
}

func TestBuildSplitsInsertsAndUpdates(t *testing.T) {
	p := NewPlanner(6, now)

	fresh := rec("100")  // persisted recently: update
	stale := rec("200")  // persisted 8 months ago: frozen
	unseen := rec("300") // never persisted: insert
	unkeyed := rec("")   // no parcel id: insert only

	existing := map[string]Existing{
		"100|51770": {LocationKey: "100|51770", LastTouched: now.AddDate(0, -2, 0)},
		"200|51770": {LocationKey: "200|51770", LastTouched: now.AddDate(0, -8, 0)},
	}

	plan := p.Build([]*property.Record{fresh, stale, unseen, unkeyed}, existing)

	require.Len(t, plan.Updates, 1)
	assert.Same(t, fresh, plan.Updates[0])

	require.Len(t, plan.Inserts, 2)
	assert.Same(t, unseen, plan.Inserts[0])
	assert.Same(t, unkeyed, plan.Inserts[1])

	assert.Equal(t, 1, plan.Frozen)
	assert.Equal(t, 1, plan.Unkeyed)
}

func TestBuildNewIdentityAlwaysInserts(t *testing.T) {
	// Window does not gate inserts: even with an empty window every unseen
	// identity is emitted.
	p := NewPlanner(0, now)

	plan := p.Build([]*property.Record{rec("999")}, map[string]Existing{})
	assert.Len(t, plan.Inserts, 1)
	assert.Empty(t, plan.Updates)
}
