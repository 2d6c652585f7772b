// Package planning turns discovery and probe results into a conversion plan
// and gates it behind user confirmation.
//
// Build filters out files already in the target codec using exact,
// case-sensitive string comparison. Render prints the plan for review, and a
// Confirmer decides whether the batch proceeds.
package planning
