// Package snapshot persists the last-observed state of each content source
// and decides what is new on the next observation.
//
// Prior snapshots are read through a versioned git reference rather than the
// working copy, so a run never sees its own in-progress writes; new snapshots
// are written to the working copy and committed by an external publishing
// step. A missing or unreadable prior snapshot means cold start: everything
// currently observed is new.
package snapshot
