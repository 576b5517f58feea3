// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package reliability

import "github.com/openmprun/sampd/internal/bitstream"

// ConnectionRequestID is the RPC id a client sends to complete the
// handshake after receiving the server's open-connection challenge.
const ConnectionRequestID = 25

// Challenge is the server's reply to a peer's first unconnected
// datagram: an open-connection acknowledgement plus, when SYN-flood
// protection is enabled, a cookie the client must echo back verbatim
// in its connection request.
type Challenge struct {
	Cookie []byte
}

// NewChallenge builds a challenge carrying cookie (nil if SYN-flood
// protection is disabled).
func NewChallenge(cookie []byte) Challenge {
	return Challenge{Cookie: cookie}
}

// ConnectionRequest is the decoded payload of RPC 25.
type ConnectionRequest struct {
	ProtocolVersion uint32
	Modded          bool
	Name            string
	ChallengeReply  uint32
	AuthToken       string
	VersionString   string
}

// DecodeConnectionRequest parses the body of RPC 25 (the id byte
// itself already consumed by the demultiplexer).
func DecodeConnectionRequest(payload []byte) (ConnectionRequest, error) {
	s := bitstream.FromBytes(payload)
	var req ConnectionRequest

	v, err := s.ReadU32()
	if err != nil {
		return req, err
	}
	req.ProtocolVersion = v

	modded, err := s.ReadBool()
	if err != nil {
		return req, err
	}
	req.Modded = modded

	name, err := s.ReadDynamicString8()
	if err != nil {
		return req, err
	}
	req.Name = name

	challenge, err := s.ReadU32()
	if err != nil {
		return req, err
	}
	req.ChallengeReply = challenge

	token, err := s.ReadDynamicString8()
	if err != nil {
		return req, err
	}
	req.AuthToken = token

	version, err := s.ReadDynamicString8()
	if err != nil {
		return req, err
	}
	req.VersionString = version

	return req, nil
}

// EncodeConnectionRequest serializes a ConnectionRequest the same way
// DecodeConnectionRequest expects to read it back; used by tests and
// by any bot/admin tooling that speaks the protocol as a client.
func EncodeConnectionRequest(req ConnectionRequest) []byte {
	s := bitstream.New()
	s.WriteU32(req.ProtocolVersion)
	s.WriteBool(req.Modded)
	s.WriteDynamicString8(req.Name)
	s.WriteU32(req.ChallengeReply)
	s.WriteDynamicString8(req.AuthToken)
	s.WriteDynamicString8(req.VersionString)
	return s.Bytes()
}
