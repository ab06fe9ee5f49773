// Package errorspkg provides errors shared by all layers of the account service.
package errorspkg

import "errors"

// ErrInternal indicates internal server error. It hides the underlying cause from clients.
var ErrInternal = errors.New("internal")
