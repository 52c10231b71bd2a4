// Package internal holds token generation shared by the session store and
// the service layer. Nothing here is part of the public API.
package internal
