package hci

import (
	"github.com/pkg/errors"
	"github.com/rigado/dissect"
	"github.com/rigado/dissect/field"
	"github.com/rigado/dissect/session"
)

// Decoder decodes the packets of one capture in order, threading a single
// session through all of them.
type Decoder struct {
	s     *session.Session
	log   dissect.Logger
	trace bool
	count int
}

// NewDecoder returns a decoder over s. A nil s starts a new session, which
// shares the decoder's options.
func NewDecoder(s *session.Session, opts ...dissect.Option) (*Decoder, error) {
	d := &Decoder{s: s, log: dissect.GetLogger().ChildLogger(map[string]interface{}{"component": "hci"})}
	if err := dissect.Apply(d, opts...); err != nil {
		return nil, errors.Wrap(err, "can't set options")
	}
	if d.s == nil {
		var err error
		if d.s, err = session.New(opts...); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// SetLogger implements dissect.DecoderOption.
func (d *Decoder) SetLogger(l dissect.Logger) error {
	if l == nil {
		return errors.New("nil logger")
	}
	d.log = l.ChildLogger(map[string]interface{}{"component": "hci"})
	return nil
}

// SetTrace implements dissect.DecoderOption.
func (d *Decoder) SetTrace(enable bool) error {
	d.trace = enable
	return nil
}

// Session returns the session the decoder threads through its packets.
func (d *Decoder) Session() *session.Session {
	return d.s
}

// Decode decodes the next packet of the capture.
func (d *Decoder) Decode(pt PacketType, b []byte) *field.Node {
	d.count++
	n := Decode(pt, b, d.s)
	if d.trace {
		d.log.Debugf("packet %d: %v, %d bytes", d.count, pt, len(b))
		for _, f := range n.Errors() {
			d.log.Debugf("packet %d: %v", d.count, f)
		}
	}
	return n
}
