package game

import "errors"

// ErrNotAdmin is returned when a non-admin attempts an admin-only action
var ErrNotAdmin = errors.New("only the table admin can do that")
