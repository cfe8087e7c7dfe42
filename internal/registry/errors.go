package registry

import "errors"

// ErrAlreadyRegistered is returned by Register when the id is already
// present in the registry.
var ErrAlreadyRegistered = errors.New("registry: provider already registered")

// ErrOutOfLimit is returned by Register when the registry already holds
// maxProviders entries.
var ErrOutOfLimit = errors.New("registry: provider limit reached")
