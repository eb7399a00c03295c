// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes function fields for custom behavior, default return
// values, and call tracking:
//
//	bookStore := &mocks.MockBookStore{
//	    GetFn: func(ctx context.Context, id string) (domain.Book, bool, error) {
//	        return domain.Book{}, false, nil
//	    },
//	}
package mocks
