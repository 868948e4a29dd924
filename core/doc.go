// Package core defines the data model and external interface contracts for
// the Consensys debate engine: reviews, rebuttal responses, votes, the
// terminal consensus artifact, the debate session record, and the Reviewer
// and SessionStore boundaries the orchestrator consumes.
//
// Types in this package are plain values with no behavior beyond validation;
// the orchestration logic lives in the debate package and the aggregation
// algorithm in the consensus package.
package core
