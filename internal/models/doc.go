// Package models defines the core domain models for splitledger.
//
// # Entities
//
//   - User: a person who creates events and owes or is owed money
//   - Event: a shared expense with a fixed total, owned by its creator
//   - Split: one participant's assigned share of an Event and how much of it is paid
//     (also known as "debitors")
//   - Transaction: an immutable record of one payment applied to a Split
//
// Balances are derived from these records on demand and are never stored.
//
// # Design Principles
//
// 1. **Money is decimal**: every amount is a shopspring decimal kept at two places
// 2. **IDs, not pointers**: relationships are UUID strings
// 3. **History is append-only**: transactions outlive the events and splits they reference
package models
