// Package store defines the gateway between the HTTP layer and the document
// store holding books. The interfaces here abstract the underlying storage
// mechanism so that request handling stays independent of whether books live
// in PostgreSQL, Redis or process memory.
package store
