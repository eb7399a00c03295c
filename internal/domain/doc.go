// Package domain contains the core business entities, value objects, and
// domain logic of the books service. It represents the heart of the system,
// independent of any specific storage backend or delivery mechanism.
package domain
