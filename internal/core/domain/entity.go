package domain

import "strings"

// EntityType identifies a kind of indexed tenant content.
// Values are the backend's wire tags and must be sent verbatim.
type EntityType string

const (
	// EntityDriveItem is a file or folder in a document library.
	EntityDriveItem EntityType = "driveItem"
	// EntityListItem is a structured record in a list.
	EntityListItem EntityType = "listItem"
	// EntitySite is a collaboration site.
	EntitySite EntityType = "site"
	// EntityDrive is a document library root.
	EntityDrive EntityType = "drive"
	// EntityMessage is a mailbox message.
	EntityMessage EntityType = "message"
	// EntityChatMessage is a channel or chat message.
	EntityChatMessage EntityType = "chatMessage"
	// EntityEvent is a calendar event.
	EntityEvent EntityType = "event"
	// EntityPerson is a directory person.
	EntityPerson EntityType = "person"
)

// CompatibilityClass is the backend-imposed grouping constraint:
// a single query may only target entity types of one class.
type CompatibilityClass string

const (
	// ClassContent covers document-library content (driveItem, listItem, site, drive).
	ClassContent CompatibilityClass = "content"
	// ClassMessages covers mail and chat messages.
	ClassMessages CompatibilityClass = "messages"
	// ClassEvents covers calendar events.
	ClassEvents CompatibilityClass = "events"
	// ClassPeople covers directory people.
	ClassPeople CompatibilityClass = "people"
	// ClassUnknown marks an entity type the backend does not recognise.
	ClassUnknown CompatibilityClass = ""
)

// entityClasses maps every recognised entity type to its single class.
var entityClasses = map[EntityType]CompatibilityClass{
	EntityDriveItem:   ClassContent,
	EntityListItem:    ClassContent,
	EntitySite:        ClassContent,
	EntityDrive:       ClassContent,
	EntityMessage:     ClassMessages,
	EntityChatMessage: ClassMessages,
	EntityEvent:       ClassEvents,
	EntityPerson:      ClassPeople,
}

// classPriority is the fixed tie-break order used when a request mixes
// classes: the highest-priority represented class wins.
var classPriority = []CompatibilityClass{
	ClassContent,
	ClassMessages,
	ClassEvents,
	ClassPeople,
}

// entityAliases accepts the human-facing tags used by callers and docs.
var entityAliases = map[string]EntityType{
	"document-item":    EntityDriveItem,
	"document":         EntityDriveItem,
	"file":             EntityDriveItem,
	"list-record":      EntityListItem,
	"calendar-event":   EntityEvent,
	"mail":             EntityMessage,
	"email":            EntityMessage,
	"chat":             EntityChatMessage,
	"chat-message":     EntityChatMessage,
	"directory-person": EntityPerson,
	"people":           EntityPerson,
}

// Class returns the compatibility class for the entity type, or
// ClassUnknown for unrecognised tags.
func (e EntityType) Class() CompatibilityClass {
	return entityClasses[e]
}

// Known reports whether the backend recognises this entity type.
func (e EntityType) Known() bool {
	_, ok := entityClasses[e]
	return ok
}

// SupportsAggregation reports whether the class supports facet
// aggregation. The backend only computes aggregations for content.
func (c CompatibilityClass) SupportsAggregation() bool {
	return c == ClassContent
}

// SupportsCollapse reports whether the class supports duplicate
// collapsing.
func (c CompatibilityClass) SupportsCollapse() bool {
	return c == ClassContent
}

// Priority returns the tie-break rank of the class (lower wins).
// Unknown classes sort last.
func (c CompatibilityClass) Priority() int {
	for i, pc := range classPriority {
		if pc == c {
			return i
		}
	}
	return len(classPriority)
}

// ParseEntityType resolves a caller-supplied tag to an EntityType.
// Matching is case-insensitive and accepts documented aliases.
// Returns false for tags the backend does not recognise.
func ParseEntityType(tag string) (EntityType, bool) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", false
	}

	// Exact wire tags first, then case-insensitive, then aliases.
	if et := EntityType(trimmed); et.Known() {
		return et, true
	}
	lower := strings.ToLower(trimmed)
	for et := range entityClasses {
		if strings.ToLower(string(et)) == lower {
			return et, true
		}
	}
	if et, ok := entityAliases[lower]; ok {
		return et, true
	}
	return "", false
}

// DefaultEntityTypes returns the entity-type set used when the caller
// supplies none (or nothing recognisable). All members share one class.
func DefaultEntityTypes() []EntityType {
	return []EntityType{EntityDriveItem, EntityListItem, EntitySite}
}
