// Package services contains server-side business logic: accounts and tokens,
// categories, vault records with their encrypted payloads, and bulk
// import/export. Every operation that takes an entity id checks that the
// acting owner holds it before doing anything else.
package services

import (
	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/google/uuid"
)

// validID reports whether id can name a stored entity. Anything else cannot
// exist, so callers answer it as not found without a round trip.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// checkOwner fails with common.ErrorForbidden unless owner holds the entity.
func checkOwner(owner, holder string) error {
	if owner != holder {
		return common.ErrorForbidden
	}
	return nil
}

// normalizePage clamps page to at least 1 and perPage to [1, MaxPerPage],
// substituting def for a missing page size.
func normalizePage(page, perPage, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if def <= 0 {
		def = models.DefaultPerPage
	}
	if perPage <= 0 {
		perPage = def
	}
	if perPage > models.MaxPerPage {
		perPage = models.MaxPerPage
	}
	return page, perPage
}
