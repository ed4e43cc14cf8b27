package service

import (
	"errors"
	"fmt"
)

var (
	// ErrSiteAccessDenied means no tenant could be resolved for the caller.
	ErrSiteAccessDenied = errors.New("site access not configured for this user")

	// ErrMaterialNotFound means a usage row referenced a material absent
	// from the tenant catalog; the whole submission fails, nothing inserts.
	ErrMaterialNotFound = errors.New("material not found in site catalog")
)

func materialNotFound(name string) error {
	return fmt.Errorf("%w: %q", ErrMaterialNotFound, name)
}
