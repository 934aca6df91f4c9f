package lifecycle

import (
	"errors"
	"fmt"
	"log"
	"time"

	"leadflow/models"

	"gorm.io/gorm"
)

// ErrNoSession is returned when an operation is invoked without an actor.
var ErrNoSession = errors.New("no session context")

// Coordinator executes the four prospect lifecycle transitions. Each runs as
// one transaction: load source, create destination, re-parent dependents,
// delete source. On any failure the whole transition rolls back.
//
// The destination row always gets a new identity; callers holding the old id
// must switch to the returned one. There is no version check before the
// delete, so two concurrent transitions racing on the same source id are
// resolved only by the store's isolation: one of them fails on the vanished
// row.
type Coordinator struct {
	DB     *gorm.DB
	Logger *log.Logger
	Events *Hub
}

func NewCoordinator(db *gorm.DB, logger *log.Logger, events *Hub) *Coordinator {
	return &Coordinator{
		DB:     db,
		Logger: logger,
		Events: events,
	}
}

// PromoteLead converts a lead into a client, returning the new client id.
func (co *Coordinator) PromoteLead(actor Actor, leadID uint) (uint, error) {
	if actor.IsZero() {
		return 0, ErrNoSession
	}

	var clientID uint
	err := co.DB.Transaction(func(tx *gorm.DB) error {
		var lead models.Lead
		if err := tx.First(&lead, leadID).Error; err != nil {
			return err
		}

		client := models.Client{ProspectCore: lead.ProspectCore}
		client.Status = models.LeadStatusFresher
		client.Priority = models.PriorityAverage
		if err := tx.Create(&client).Error; err != nil {
			return err
		}

		if err := Reparent(tx, models.LeadOwner(lead.ID), models.ClientOwner(client.ID)); err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&lead).Error; err != nil {
			return err
		}

		clientID = client.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	co.Logger.Printf("lead %d promoted to client %d by user %d", leadID, clientID, actor.UserID)
	co.Events.Publish(Event{Kind: EventLeadPromoted, SourceID: leadID, NewID: clientID, ActorID: actor.UserID})
	return clientID, nil
}

// DemoteClient converts a client back into a lead, returning the new lead id.
// Deals cannot follow the prospect (no lead_id column on deals), so any deals
// owned by the client are unlinked, not migrated.
func (co *Coordinator) DemoteClient(actor Actor, clientID uint) (uint, error) {
	if actor.IsZero() {
		return 0, ErrNoSession
	}

	var leadID uint
	var unlinked int64
	err := co.DB.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, clientID).Error; err != nil {
			return err
		}

		lead := models.Lead{ProspectCore: client.ProspectCore}
		if err := tx.Create(&lead).Error; err != nil {
			return err
		}

		if err := Reparent(tx, models.ClientOwner(client.ID), models.LeadOwner(lead.ID)); err != nil {
			return err
		}

		var err error
		if unlinked, err = UnlinkDeals(tx, client.ID); err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&client).Error; err != nil {
			return err
		}

		leadID = lead.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	if unlinked > 0 {
		co.Logger.Printf("client %d demoted: %d deal(s) left unowned", clientID, unlinked)
	}
	co.Logger.Printf("client %d demoted to lead %d by user %d", clientID, leadID, actor.UserID)
	co.Events.Publish(Event{Kind: EventClientDemoted, SourceID: clientID, NewID: leadID, ActorID: actor.UserID})
	return leadID, nil
}

// DropLead marks a lead as lost, returning the new dropped-lead id.
func (co *Coordinator) DropLead(actor Actor, leadID uint, reason, comment string) (uint, error) {
	if actor.IsZero() {
		return 0, ErrNoSession
	}
	if reason == "" {
		return 0, errors.New("drop reason is required")
	}

	var droppedID uint
	err := co.DB.Transaction(func(tx *gorm.DB) error {
		var lead models.Lead
		if err := tx.First(&lead, leadID).Error; err != nil {
			return err
		}

		dropped := models.DroppedLead{
			ProspectCore: lead.ProspectCore,
			DropReason:   reason,
			DropComment:  comment,
			DroppedAt:    time.Now(),
		}
		if err := tx.Create(&dropped).Error; err != nil {
			return err
		}

		if err := Reparent(tx, models.LeadOwner(lead.ID), models.DroppedLeadOwner(dropped.ID)); err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&lead).Error; err != nil {
			return err
		}

		droppedID = dropped.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	co.Logger.Printf("lead %d dropped as %d (reason: %s) by user %d", leadID, droppedID, reason, actor.UserID)
	co.Events.Publish(Event{Kind: EventLeadDropped, SourceID: leadID, NewID: droppedID, ActorID: actor.UserID, Detail: reason})
	return droppedID, nil
}

// ReactivateDroppedLead returns a dropped lead to the active pipeline,
// returning the new lead id. The new lead starts in Follow-up with an audit
// comment referencing the original drop reason.
func (co *Coordinator) ReactivateDroppedLead(actor Actor, droppedLeadID uint) (uint, error) {
	if actor.IsZero() {
		return 0, ErrNoSession
	}

	var leadID uint
	err := co.DB.Transaction(func(tx *gorm.DB) error {
		var dropped models.DroppedLead
		if err := tx.First(&dropped, droppedLeadID).Error; err != nil {
			return err
		}

		now := time.Now()
		lead := models.Lead{ProspectCore: dropped.ProspectCore}
		lead.Status = models.LeadStatusFollowUp
		lead.LastComment = fmt.Sprintf("Reactivated on %s. Previously dropped: %s",
			now.Format("02 Jan 2006"), dropped.DropReason)
		lead.LastCommentAt = &now
		if err := tx.Create(&lead).Error; err != nil {
			return err
		}

		if err := Reparent(tx, models.DroppedLeadOwner(dropped.ID), models.LeadOwner(lead.ID)); err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&dropped).Error; err != nil {
			return err
		}

		leadID = lead.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	co.Logger.Printf("dropped lead %d reactivated as lead %d by user %d", droppedLeadID, leadID, actor.UserID)
	co.Events.Publish(Event{Kind: EventLeadReactivated, SourceID: droppedLeadID, NewID: leadID, ActorID: actor.UserID})
	return leadID, nil
}
