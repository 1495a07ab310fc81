// Package domain defines the core business entities for graphseek.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - EntityType / CompatibilityClass: what can be searched, and which
//     combinations the backend accepts together
//   - Query / FilterSet: one immutable search invocation
//   - FacetPlan / FacetResult: aggregation definitions and outcomes
//   - Tier: the ordered execution strategies of the fallback chain
//   - Hit / SearchResponse: the normalised result surface
//   - Credentials: the signed-in tenant session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
