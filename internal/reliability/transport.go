// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package reliability

import "time"

// Send builds and returns the datagrams for one outgoing payload on
// channel ch with delivery guarantee mode, splitting it across
// multiple messages if it exceeds the peer's safe payload size.
// Reliable messages are also recorded for retransmission.
func (p *Peer) Send(now time.Time, ch Channel, mode Mode, payload []byte) [][]byte {
	safe := p.SafePayloadSize(mode)
	if safe <= 0 {
		return nil
	}

	var fragments [][]byte
	if len(payload) <= safe {
		fragments = [][]byte{payload}
	} else {
		for off := 0; off < len(payload); off += safe {
			end := off + safe
			if end > len(payload) {
				end = len(payload)
			}
			fragments = append(fragments, payload[off:end])
		}
	}

	splitID := p.nextSplitID
	if len(fragments) > 1 {
		p.nextSplitID++
	}

	var datagrams [][]byte
	for i, frag := range fragments {
		m := &Message{
			Mode:    mode,
			Channel: ch,
			Payload: frag,
		}
		if len(fragments) > 1 {
			m.Split = true
			m.SplitCount = uint32(len(fragments))
			m.SplitID = splitID
			m.SplitIndex = uint32(i)
		}
		if mode.IsReliable() {
			m.MessageIndex = p.nextMessageIndex
			p.nextMessageIndex++
		}
		if mode.IsSequenced() || mode.IsOrdered() {
			m.OrderIndex = p.orderSendIndex[ch]
			p.orderSendIndex[ch]++
		}

		seq := p.nextSendSeq
		p.nextSendSeq++
		datagram := EncodeDatagram(seq, []*Message{m})

		if mode.IsReliable() {
			p.pendingResends[m.MessageIndex] = &pendingResend{
				data:     datagram,
				lastSent: now,
				channel:  ch,
			}
		}
		datagrams = append(datagrams, datagram)
	}
	p.lastSend = now
	return datagrams
}

// DueResends returns the raw datagrams for every reliable message that
// has waited longer than resendInterval since last sent, and refreshes
// their timestamps.
func (p *Peer) DueResends(now time.Time) [][]byte {
	var due [][]byte
	for _, r := range p.pendingResends {
		if now.Sub(r.lastSent) >= resendInterval {
			r.lastSent = now
			due = append(due, r.data)
		}
	}
	return due
}

// PendingResendCount returns the number of reliable messages still
// awaiting acknowledgement.
func (p *Peer) PendingResendCount() int { return len(p.pendingResends) }

// Acknowledge clears the resend entry for messageIndex once its
// receipt has been confirmed.
func (p *Peer) Acknowledge(messageIndex uint32) {
	delete(p.pendingResends, messageIndex)
}

// Received is one fully reassembled, order/dup-resolved inbound
// payload ready for the demultiplexer.
type Received struct {
	Channel Channel
	Payload []byte
}

// Receive decodes one inbound datagram, updates the peer's ordering
// and duplicate-suppression state, and returns any payloads that are
// now ready for delivery (zero, one, or more if reassembly/reordering
// released a backlog). A bad checksum or malformed frame is reported
// as an error so the caller can count it; it is otherwise silently
// dropped, never surfaced to the application.
func (p *Peer) Receive(now time.Time, datagram []byte) ([]Received, error) {
	p.Touch(now)
	_, messages, err := DecodeDatagram(datagram)
	if err != nil {
		return nil, err
	}

	var out []Received
	for _, m := range messages {
		if m.Mode.IsReliable() && p.dup.seenOrMark(m.MessageIndex) {
			continue
		}
		payload, ok := p.reassemble(m)
		if !ok {
			continue
		}
		if m.Mode.IsSequenced() {
			if m.OrderIndex < p.sequenceHighest[m.Channel] {
				continue // stale, a newer message already arrived
			}
			p.sequenceHighest[m.Channel] = m.OrderIndex + 1
			out = append(out, Received{Channel: m.Channel, Payload: payload})
			continue
		}
		if m.Mode.IsOrdered() {
			out = append(out, p.releaseOrdered(m.Channel, m.OrderIndex, Received{Channel: m.Channel, Payload: payload})...)
			continue
		}
		out = append(out, Received{Channel: m.Channel, Payload: payload})
	}
	return out, nil
}

// releaseOrdered buffers an out-of-order reliable-ordered message
// until every predecessor on its channel has arrived, then returns the
// longest contiguous run starting at the channel's expected index.
func (p *Peer) releaseOrdered(ch Channel, orderIndex uint32, r Received) []Received {
	pending := p.orderedPending[ch]
	if orderIndex != p.orderExpectedNext[ch] {
		if orderIndex > p.orderExpectedNext[ch] {
			pending[orderIndex] = r
		}
		return nil
	}
	released := []Received{r}
	p.orderExpectedNext[ch]++
	for {
		next, ok := pending[p.orderExpectedNext[ch]]
		if !ok {
			break
		}
		delete(pending, p.orderExpectedNext[ch])
		released = append(released, next)
		p.orderExpectedNext[ch]++
	}
	return released
}

func (p *Peer) reassemble(m *Message) ([]byte, bool) {
	if !m.Split {
		return m.Payload, true
	}
	asm, ok := p.splitInbound[m.SplitID]
	if !ok {
		asm = &splitAssembly{fragments: make(map[uint32][]byte), total: m.SplitCount}
		p.splitInbound[m.SplitID] = asm
	}
	asm.fragments[m.SplitIndex] = m.Payload
	if uint32(len(asm.fragments)) < asm.total {
		return nil, false
	}
	delete(p.splitInbound, m.SplitID)
	var whole []byte
	for i := uint32(0); i < asm.total; i++ {
		whole = append(whole, asm.fragments[i]...)
	}
	return whole, true
}
