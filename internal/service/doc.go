// Package service is the public data-access API of the matzip
// persistence layer.
//
// Every operation runs on a store context's serial queue and returns
// either the requested value or an error; absence is a nil result,
// never an error. Mutating operations validate their input, stage the
// mapped record, commit, and return the freshly mapped-back domain
// value so callers observe store-truth timestamps.
package service
