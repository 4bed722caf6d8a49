package services

import (
	"fmt"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
	"github.com/google/uuid"
)

func invalid(field string) error {
	return fmt.Errorf("%w: %s", common.ErrorInvalidArgument, field)
}

// requireUUID rejects ids that are not UUIDs before they reach SQL.
func requireUUID(field, v string) error {
	if err := uuid.Validate(v); err != nil {
		return invalid(field)
	}
	return nil
}

// resolvePage applies the default page when p is nil. Page numbers are
// 1-based; a missing size falls back to models.DefaultPageSize.
func resolvePage(p *models.Page) (models.Page, error) {
	if p == nil {
		return models.Page{Page: 1, Size: models.DefaultPageSize}, nil
	}
	if p.Page < 1 {
		return models.Page{}, invalid("pagination.page")
	}
	out := *p
	if out.Size < 1 {
		out.Size = models.DefaultPageSize
	}
	return out, nil
}
