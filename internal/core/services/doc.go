// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The search pipeline runs here: entity-type resolution, query
// synthesis, aggregation planning, tiered execution and result
// normalisation. The pipeline is sequential; only per-hit enrichment
// fans out.
package services
