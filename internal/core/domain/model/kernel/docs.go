// Package kernel contains the shared building blocks of the domain model:
// identifier and money value objects plus the constructor guard used by
// entities to reject zero-value instances.
//
// Everything in this package is an immutable value object created through a
// validating constructor. Domain aggregates build on these types instead of
// using raw uuid.UUID or decimal.Decimal values directly.
package kernel
