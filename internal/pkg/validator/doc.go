// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code should depend on the Validator interface. The concrete
// implementation wraps go-playground/validator v10 and reports failures as a
// map keyed by the JSON path of the offending field (for example
// "trace.logs[0].address").
package validator
