package lifecycle

import (
	"errors"

	"leadflow/models"

	"gorm.io/gorm"
)

// ErrAssigneeNotFound is returned when a bulk update references an assignee
// display name that resolves to no user. The whole batch is rejected before
// any row is touched.
var ErrAssigneeNotFound = errors.New("assignee not found")

// FieldPatch is the set of fields a bulk update may change. Nil fields are
// left alone. AssignedToName is a display name resolved against users once,
// up front.
type FieldPatch struct {
	Status         *string `json:"status" validate:"omitempty,max=50"`
	Priority       *string `json:"priority" validate:"omitempty,oneof=High Average Low"`
	Source         *string `json:"source" validate:"omitempty,max=50"`
	AssignedToName *string `json:"assigned_to_name" validate:"omitempty,max=100"`
}

// BulkUpdateLeads applies the patch to every lead in ids with a single
// aggregate UPDATE. All-or-nothing: a failed assignee lookup rejects the
// batch with zero rows changed. Returns the number of rows updated.
func (co *Coordinator) BulkUpdateLeads(actor Actor, ids []uint, patch FieldPatch) (int64, error) {
	if actor.IsZero() {
		return 0, ErrNoSession
	}
	if len(ids) == 0 {
		return 0, errors.New("no ids given")
	}

	updates := map[string]interface{}{}
	if patch.AssignedToName != nil {
		user, err := models.FindUserByName(co.DB, *patch.AssignedToName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrAssigneeNotFound
			}
			return 0, err
		}
		updates["assigned_to_id"] = user.ID
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.Source != nil {
		updates["source"] = *patch.Source
	}
	if len(updates) == 0 {
		return 0, errors.New("no fields to update")
	}

	res := co.DB.Model(&models.Lead{}).Where("id IN ?", ids).Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}

	co.Logger.Printf("bulk update: %d of %d lead(s) updated by user %d", res.RowsAffected, len(ids), actor.UserID)
	return res.RowsAffected, nil
}

// BulkReactivate reactivates each dropped lead in ids, one transition per id.
// Not atomic across the batch: a failure partway through leaves earlier
// transitions committed. The success count is returned either way.
func (co *Coordinator) BulkReactivate(actor Actor, ids []uint) (int, error) {
	if actor.IsZero() {
		return 0, ErrNoSession
	}

	count := 0
	for _, id := range ids {
		if _, err := co.ReactivateDroppedLead(actor, id); err != nil {
			co.Logger.Printf("bulk reactivate: dropped lead %d skipped: %v", id, err)
			continue
		}
		count++
	}
	return count, nil
}
