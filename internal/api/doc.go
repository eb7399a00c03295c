// Package api translates HTTP requests on the /books resource into store
// operations. Handlers return errors instead of writing them; HandleError
// is the single place where failures become JSON error responses.
package api
