// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package reliability

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BanEntry is one IP ban, optionally scoped to a single octet pattern
// where "*" matches any value, and optionally time-limited.
type BanEntry struct {
	ID        uuid.UUID
	Pattern   [4]string // each element is a decimal octet or "*"
	ExpiresAt time.Time // zero means permanent
	Reason    string
}

// NewBanEntry parses a dotted-quad pattern (octets may be "*") into a
// BanEntry with a fresh id.
func NewBanEntry(pattern string, ttl time.Duration, reason string) (BanEntry, error) {
	parts := strings.Split(pattern, ".")
	if len(parts) != 4 {
		return BanEntry{}, fmt.Errorf("reliability: ban pattern %q is not a dotted quad", pattern)
	}
	var e BanEntry
	e.ID = uuid.New()
	e.Reason = reason
	copy(e.Pattern[:], parts)
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl)
	}
	return e, nil
}

// Expired reports whether the entry's TTL has elapsed as of now.
func (e BanEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

func (e BanEntry) matches(ip net.IP) bool {
	v4 := ip.To4()
	if v4 == nil {
		return false
	}
	for i := 0; i < 4; i++ {
		if e.Pattern[i] == "*" {
			continue
		}
		octet, err := strconv.Atoi(e.Pattern[i])
		if err != nil || byte(octet) != v4[i] {
			return false
		}
	}
	return true
}

func (e BanEntry) String() string {
	expires := "permanent"
	if !e.ExpiresAt.IsZero() {
		expires = e.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s", e.ID, strings.Join(e.Pattern[:], "."), expires, e.Reason)
}

// BanList is the set of active ban entries, checked on every new
// connection attempt.
type BanList struct {
	entries []BanEntry
}

// NewBanList returns an empty ban list.
func NewBanList() *BanList {
	return &BanList{}
}

// Add appends entry to the list.
func (b *BanList) Add(entry BanEntry) {
	b.entries = append(b.entries, entry)
}

// Remove deletes the entry with the given id. Returns false if no
// entry matched.
func (b *BanList) Remove(id uuid.UUID) bool {
	for i, e := range b.entries {
		if e.ID == id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Banned reports whether ip matches any non-expired entry.
func (b *BanList) Banned(ip net.IP, now time.Time) bool {
	for _, e := range b.entries {
		if e.Expired(now) {
			continue
		}
		if e.matches(ip) {
			return true
		}
	}
	return false
}

// Prune removes every expired entry.
func (b *BanList) Prune(now time.Time) {
	kept := b.entries[:0]
	for _, e := range b.entries {
		if !e.Expired(now) {
			kept = append(kept, e)
		}
	}
	b.entries = kept
}

// Save writes the ban list as a flat, tab-separated text file, one
// entry per line: id, dotted-quad pattern, expiry (RFC3339 or
// "permanent"), reason.
func (b *BanList) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, e := range b.entries {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return w.Flush()
}

// LoadBanList reads a file written by Save.
func LoadBanList(path string) (*BanList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := NewBanList()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, fmt.Errorf("reliability: malformed ban list line %q", line)
		}
		id, err := uuid.Parse(fields[0])
		if err != nil {
			return nil, err
		}
		var entry BanEntry
		entry.ID = id
		copy(entry.Pattern[:], strings.Split(fields[1], "."))
		if fields[2] != "permanent" {
			t, err := time.Parse(time.RFC3339, fields[2])
			if err != nil {
				return nil, err
			}
			entry.ExpiresAt = t
		}
		entry.Reason = fields[3]
		b.entries = append(b.entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b, nil
}
