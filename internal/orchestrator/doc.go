// Package orchestrator is the assistant's root turn handler: it resolves
// cross-cutting interruptions, routes utterances to skills and knowledge
// services, reacts to contextual events, and manages conversation lifecycle.
package orchestrator
