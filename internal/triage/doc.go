// Package triage provides Caduceus' intake triage. It defines the Scorer (a
// pure, rule-driven mapping from symptoms, age and vitals to a priority),
// the catalog tables it reads, the Service (assessment, persistence, queue,
// async notification) and the Store interface with its domain models.
package triage
