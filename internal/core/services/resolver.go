package services

import (
	"fmt"
	"strings"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// Resolution is the outcome of entity-type compatibility resolution:
// the single-class entity-type set a request may carry, plus an
// advisory when the requested set had to be narrowed.
type Resolution struct {
	// EntityTypes is the kept set, order-preserving and de-duplicated.
	EntityTypes []domain.EntityType

	// Class is the single compatibility class of the kept set.
	Class domain.CompatibilityClass

	// Advisory names the dropped types. Empty when nothing was dropped.
	Advisory string
}

// ResolveEntityTypes narrows a requested entity-type set to one the
// backend will accept. Unrecognized types are dropped silently; an
// empty or fully-unrecognized request falls back to the default set.
// When the request mixes compatibility classes, the highest-priority
// represented class is kept and the advisory names what was dropped.
// Resolution never fails.
func ResolveEntityTypes(requested []domain.EntityType) Resolution {
	kept := make([]domain.EntityType, 0, len(requested))
	seen := make(map[domain.EntityType]bool, len(requested))
	for _, et := range requested {
		if !et.Known() || seen[et] {
			continue
		}
		seen[et] = true
		kept = append(kept, et)
	}

	if len(kept) == 0 {
		defaults := domain.DefaultEntityTypes()
		return Resolution{
			EntityTypes: defaults,
			Class:       defaults[0].Class(),
		}
	}

	// Find the highest-priority class actually represented.
	winner := kept[0].Class()
	for _, et := range kept[1:] {
		if et.Class().Priority() < winner.Priority() {
			winner = et.Class()
		}
	}

	inClass := make([]domain.EntityType, 0, len(kept))
	dropped := make([]domain.EntityType, 0)
	for _, et := range kept {
		if et.Class() == winner {
			inClass = append(inClass, et)
		} else {
			dropped = append(dropped, et)
		}
	}

	res := Resolution{EntityTypes: inClass, Class: winner}
	if len(dropped) > 0 {
		res.Advisory = fmt.Sprintf("entity types %s cannot be combined with %s; searching %s only",
			joinEntityTypes(dropped), joinEntityTypes(inClass), joinEntityTypes(inClass))
	}
	return res
}

func joinEntityTypes(types []domain.EntityType) string {
	names := make([]string, len(types))
	for i, et := range types {
		names[i] = string(et)
	}
	return strings.Join(names, ", ")
}
