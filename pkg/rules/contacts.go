package rules

import (
	"github.com/craftshop-erp/shopdata/pkg/entity"
)

// ensureDefaultContacts re-establishes the one-default-per-business
// invariant on the kept set. Pruning may have dropped the contact the
// resolver marked; in that case the earliest-created kept contact of the
// business takes over.
func (e *Engine) ensureDefaultContacts() {
	firstKept := make(map[int]*entity.Contact)
	defaultKept := make(map[int]bool)

	for _, ent := range e.kept(entity.KindContact) {
		c := ent.(*entity.Contact)
		if c.Business == nil {
			c.IsDefault = false
			continue
		}
		biz := *c.Business
		if _, ok := firstKept[biz]; !ok {
			firstKept[biz] = c
		}
		if c.IsDefault {
			defaultKept[biz] = true
		}
	}

	for _, ent := range e.kept(entity.KindBusiness) {
		b := ent.(*entity.Business)
		if defaultKept[b.ID] {
			continue
		}
		c, ok := firstKept[b.ID]
		if !ok {
			e.log.WithField("business", b.BusinessName).Warn("business kept with no contacts")
			continue
		}
		c.IsDefault = true
		b.DefaultContact = c.ID
		e.log.WithField("business", b.BusinessName).Debug("reassigned default contact")
	}

	// Keep the back-reference on the business current even when the
	// resolver's pick survived.
	for _, ent := range e.kept(entity.KindContact) {
		c := ent.(*entity.Contact)
		if c.IsDefault && c.Business != nil {
			if b, ok := e.arena.Get(entity.Ref{Kind: entity.KindBusiness, ID: *c.Business}); ok {
				b.(*entity.Business).DefaultContact = c.ID
			}
		}
	}
}
