// Package errors defines the error types returned by the traceview fetch
// layer.
//
// Only the API surface can fail: the tree and graph builders are total
// functions and never return errors. Use errors.Is with the sentinel
// values to branch on status classes:
//
//	if errors.Is(err, tverrors.ErrNotFound) {
//	    // trace does not exist
//	}
package errors
