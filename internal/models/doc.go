// Package models defines the core domain models for the secret friend service.
//
// # Models
//
//   - Group: a named gift-exchange group with its participants, their
//     confirmation state, and the drawn assignments once the draw happened
//
// Participants are identified by name strings; there are no user accounts.
// A participant proves their identity with a password chosen when they
// confirm participation, stored as a bcrypt hash on the group.
//
// # Design principles
//
//  1. ID strings instead of pointers for relationships
//  2. Models carry state-inspection helpers but no I/O; persistence and
//     the draw-once rule live in the storage and service layers
package models
