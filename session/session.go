// Package session holds the only state that outlives a single decode call: the
// L2CAP channels seen so far in one capture, and what was negotiated on them.
//
// A Session is threaded by pointer through every decode call of one analysis.
// It does no locking; callers decode one packet at a time, in capture order.
package session

import (
	"github.com/pkg/errors"
	"github.com/rigado/dissect"
)

// ChannelState is derived from what a record has learned so far.
type ChannelState int

const (
	// StateRequested: a Connection Request was seen, the peer CID is unknown.
	StateRequested ChannelState = iota
	// StateConnected: the Connection Response supplied the destination CID.
	StateConnected
	// StateConfigured: at least one side's MTU was negotiated.
	StateConfigured
)

func (s ChannelState) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateConnected:
		return "connected"
	case StateConfigured:
		return "configured"
	default:
		return "unknown"
	}
}

// ChannelRecord tracks one dynamically allocated L2CAP channel, seen from the
// device that sent the Connection Request. Zero means "not yet known" for
// DestCID, LocalMTU, RemoteMTU and FlushTimeout; none of them is ever
// negotiated to zero.
type ChannelRecord struct {
	Identifier   uint8
	SourceCID    uint16
	DestCID      uint16
	PSM          uint16
	LocalMTU     uint16
	RemoteMTU    uint16
	FlushTimeout uint16
}

// State reports how far the channel got.
func (r *ChannelRecord) State() ChannelState {
	switch {
	case r.LocalMTU != 0 || r.RemoteMTU != 0:
		return StateConfigured
	case r.DestCID != 0:
		return StateConnected
	default:
		return StateRequested
	}
}

// Options are the configuration option values carried by one Configuration
// Request or Response. Zero means the option was absent.
type Options struct {
	MTU          uint16
	FlushTimeout uint16
}

// Session is the cross-packet state of one analysis.
type Session struct {
	Channels []*ChannelRecord

	log   dissect.Logger
	trace bool
}

// New returns an empty session.
func New(opts ...dissect.Option) (*Session, error) {
	s := &Session{log: dissect.GetLogger().ChildLogger(map[string]interface{}{"component": "session"})}
	if err := dissect.Apply(s, opts...); err != nil {
		return nil, errors.Wrap(err, "can't set options")
	}
	return s, nil
}

// SetLogger implements dissect.DecoderOption.
func (s *Session) SetLogger(l dissect.Logger) error {
	if l == nil {
		return errors.New("nil logger")
	}
	s.log = l.ChildLogger(map[string]interface{}{"component": "session"})
	return nil
}

// SetTrace implements dissect.DecoderOption.
func (s *Session) SetTrace(enable bool) error {
	s.trace = enable
	return nil
}

func (s *Session) debugf(format string, args ...interface{}) {
	if s != nil && s.trace && s.log != nil {
		s.log.Debugf(format, args...)
	}
}

// Connect records a Connection Request. A request for a source CID already
// known leaves the existing record untouched and returns it.
func (s *Session) Connect(id uint8, psm, scid uint16) *ChannelRecord {
	if s == nil {
		return nil
	}
	if r, ok := s.BySourceCID(scid); ok {
		s.debugf("connection request for known scid 0x%04x ignored", scid)
		return r
	}
	r := &ChannelRecord{Identifier: id, SourceCID: scid, PSM: psm}
	s.Channels = append(s.Channels, r)
	s.debugf("channel requested: id 0x%02x psm 0x%04x scid 0x%04x", id, psm, scid)
	return r
}

// ConnectResponse records the destination CID a Connection Response assigned
// to the channel requested with scid.
func (s *Session) ConnectResponse(dcid, scid uint16) (*ChannelRecord, bool) {
	r, ok := s.BySourceCID(scid)
	if !ok {
		s.debugf("connection response for unknown scid 0x%04x", scid)
		return nil, false
	}
	r.DestCID = dcid
	s.debugf("channel connected: scid 0x%04x dcid 0x%04x", scid, dcid)
	return r, true
}

// ConfigureRequest applies a Configuration Request whose destination CID field
// is dcid. The field is always the recipient's local CID: matching a record's
// DestCID means the requester sent it and o carries its (local) MTU, matching
// SourceCID means the peer sent it and o carries the remote MTU.
func (s *Session) ConfigureRequest(dcid uint16, o Options) (*ChannelRecord, bool) {
	if s == nil {
		return nil, false
	}
	for _, r := range s.Channels {
		switch {
		case r.DestCID != 0 && r.DestCID == dcid:
			r.apply(&r.LocalMTU, o)
		case r.SourceCID == dcid:
			r.apply(&r.RemoteMTU, o)
		default:
			continue
		}
		s.debugf("channel configured: scid 0x%04x local mtu %d remote mtu %d", r.SourceCID, r.LocalMTU, r.RemoteMTU)
		return r, true
	}
	s.debugf("configuration request for unknown cid 0x%04x", dcid)
	return nil, false
}

// ConfigureResponse applies a Configuration Response whose source CID field is
// scid.
func (s *Session) ConfigureResponse(scid uint16, o Options) (*ChannelRecord, bool) {
	r, ok := s.ByDestCID(scid)
	if !ok {
		s.debugf("configuration response for unknown cid 0x%04x", scid)
		return nil, false
	}
	r.apply(&r.RemoteMTU, o)
	s.debugf("channel configured: scid 0x%04x local mtu %d remote mtu %d", r.SourceCID, r.LocalMTU, r.RemoteMTU)
	return r, true
}

func (r *ChannelRecord) apply(mtu *uint16, o Options) {
	if o.MTU != 0 {
		*mtu = o.MTU
	}
	if o.FlushTimeout != 0 {
		r.FlushTimeout = o.FlushTimeout
	}
}

// Disconnect notes a Disconnection Request or Response. Records are kept:
// later traffic on the CIDs still decodes with what was negotiated.
func (s *Session) Disconnect(dcid, scid uint16) {
	if s == nil {
		return
	}
	s.debugf("disconnect observed: dcid 0x%04x scid 0x%04x", dcid, scid)
}

// BySourceCID finds the record requested with scid.
func (s *Session) BySourceCID(scid uint16) (*ChannelRecord, bool) {
	if s == nil {
		return nil, false
	}
	for _, r := range s.Channels {
		if r.SourceCID == scid {
			return r, true
		}
	}
	return nil, false
}

// ByDestCID finds the record whose responder assigned dcid.
func (s *Session) ByDestCID(dcid uint16) (*ChannelRecord, bool) {
	if s == nil || dcid == 0 {
		return nil, false
	}
	for _, r := range s.Channels {
		if r.DestCID == dcid {
			return r, true
		}
	}
	return nil, false
}

// Resolve finds the record owning traffic addressed to cid. Traffic toward
// the responder carries DestCID and is tried first; toDest reports which side
// matched.
func (s *Session) Resolve(cid uint16) (r *ChannelRecord, toDest bool, ok bool) {
	if r, ok = s.ByDestCID(cid); ok {
		return r, true, true
	}
	r, ok = s.BySourceCID(cid)
	return r, false, ok
}
