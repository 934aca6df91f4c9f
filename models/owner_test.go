package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerRefColumns(t *testing.T) {
	assert.Equal(t, "lead_id", LeadOwner(1).Column())
	assert.Equal(t, "client_id", ClientOwner(1).Column())
	assert.Equal(t, "dropped_lead_id", DroppedLeadOwner(1).Column())
	assert.Equal(t, "", NoOwner().Column())
}

func TestOwnerRefAssignmentsClearsOthers(t *testing.T) {
	m := ClientOwner(42).Assignments()

	assert.Equal(t, uint(42), m["client_id"])
	assert.Nil(t, m["lead_id"])
	assert.Nil(t, m["dropped_lead_id"])
}

func TestOwnedSetOwnerIsExclusive(t *testing.T) {
	var o Owned

	o.SetOwner(LeadOwner(5))
	require.NotNil(t, o.LeadID)
	assert.Equal(t, uint(5), *o.LeadID)

	// Switching owners clears the previous column
	o.SetOwner(DroppedLeadOwner(9))
	assert.Nil(t, o.LeadID)
	assert.Nil(t, o.ClientID)
	require.NotNil(t, o.DroppedLeadID)
	assert.Equal(t, uint(9), *o.DroppedLeadID)

	assert.Equal(t, DroppedLeadOwner(9), o.Owner())

	o.SetOwner(NoOwner())
	assert.True(t, o.Owner().IsZero())
}
