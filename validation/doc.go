// Package validation implements the form-input checks shared by the sign-in
// and sign-up flows.
//
// All functions are pure and total: they never perform I/O, never panic on
// any input, and report failures as data ([Result]) rather than errors,
// because callers need the message for inline form feedback.
//
// # Ordering contract
//
// Checks are order-sensitive. Each function evaluates its rules in a fixed
// order and returns the message of the first rule violated; callers must not
// assume every violated rule is reported.
//
// # Architecture boundaries
//
// This package owns input-shape rules only. Credential verification,
// duplicate-account detection, and session policy belong to the credential
// store and the Manager.
package validation
