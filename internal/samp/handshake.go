package samp

import (
	"regexp"

	"github.com/openmprun/sampd/internal/reliability"
)

// validNamePattern matches the legacy client's allowed player-name
// character set: alphanumerics plus a handful of punctuation marks,
// 3 to 24 characters.
var validNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\[\]\(\)\$@=.]{3,24}$`)

// ValidName reports whether name meets the length and character-set
// rules clients enforce on their own input.
func ValidName(name string) bool {
	return validNamePattern.MatchString(name)
}

// HandshakeRequest is the accept-decision input assembled from a
// connection-request RPC plus server-side context the RPC itself
// doesn't carry.
type HandshakeRequest struct {
	reliability.ConnectionRequest
	RemoteIP        string
	ServerPassword  string
	NameInUse       func(name string) bool
	HasCapacity     func() bool
	Banned          func(ip string) bool
	ExpectedVersion uint32
}

// Evaluate runs every accept check in the order the original server
// does: name validity, name uniqueness, version compatibility, modded
// client flag, ban list, capacity, then password match.
func Evaluate(req HandshakeRequest) reliability.ConnectOutcome {
	if !ValidName(req.Name) {
		return reliability.ConnectBadName
	}
	if req.NameInUse != nil && req.NameInUse(req.Name) {
		return reliability.ConnectBadName
	}
	if req.ExpectedVersion != 0 && req.ProtocolVersion != req.ExpectedVersion {
		return reliability.ConnectVersionMismatch
	}
	if req.Modded {
		return reliability.ConnectBadMod
	}
	if req.Banned != nil && req.Banned(req.RemoteIP) {
		return reliability.ConnectNoPlayerSlot
	}
	if req.HasCapacity != nil && !req.HasCapacity() {
		return reliability.ConnectNoPlayerSlot
	}
	if req.ServerPassword != "" && req.AuthToken != req.ServerPassword {
		return reliability.ConnectBadName
	}
	return reliability.ConnectSuccess
}
