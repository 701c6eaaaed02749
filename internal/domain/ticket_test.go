package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTechnicianRefZeroValueIsUnassigned(t *testing.T) {
	var ref TechnicianRef
	assert.False(t, ref.Assigned())
	assert.Equal(t, "", ref.ID())
	assert.Equal(t, Unassigned(), ref)
}

func TestTechnicianRefAssigned(t *testing.T) {
	ref := AssignedTo("tech-1")
	assert.True(t, ref.Assigned())
	assert.Equal(t, "tech-1", ref.ID())
}

func TestStatusAndPriorityValidation(t *testing.T) {
	assert.True(t, TicketStatusOpen.Valid())
	assert.True(t, TicketStatusInProgress.Valid())
	assert.False(t, TicketStatus("OPEN").Valid(), "enum values are lowercase")
	assert.False(t, TicketStatus("").Valid())

	assert.True(t, TicketPriorityHigh.Valid())
	assert.False(t, TicketPriority("urgent").Valid())

	assert.True(t, UserRoleTechnician.Valid())
	assert.False(t, UserRole("staff").Valid())
}
