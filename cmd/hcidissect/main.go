// Command hcidissect decodes HCI packets, and the L2CAP traffic they carry, into
// annotated values and their byte locations.
//
//	hcidissect decode --type cmd 03 0c 00
//	hcidissect capture packets.txt
//	hcidissect pcap hci.pcap
//	hcidissect h4 --file stream.bin
package main

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rigado/dissect"
	"github.com/rigado/dissect/capture"
	"github.com/rigado/dissect/config"
	"github.com/rigado/dissect/hci"
	"github.com/rigado/dissect/render"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		dissect.GetLogger().Error(err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "hcidissect"
	app.Usage = "decode HCI and L2CAP packets"
	app.Writer = out
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "load settings from a TOML `FILE`"},
		cli.BoolFlag{Name: "debug, d", Usage: "log at debug level and trace every packet"},
		cli.StringFlag{Name: "format, f", Usage: "output `FORMAT`: document, values or locations"},
		cli.BoolFlag{Name: "indent", Usage: "pretty print the output"},
	}
	app.Commands = []cli.Command{
		{
			Name:      "decode",
			Usage:     "decode one packet given in hex",
			ArgsUsage: "HEX...",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "type, t", Value: "cmd", Usage: "packet `TYPE`: cmd, acl, sco, evt, iso or a number"},
			},
			Action: cmdDecode,
		},
		{
			Name:      "capture",
			Usage:     "decode a text capture, one \"TYPE HEX...\" packet per line",
			ArgsUsage: "FILE",
			Action:    cmdCapture,
		},
		{
			Name:      "pcap",
			Usage:     "decode a pcap file of H4 packets, link type 187 or 201",
			ArgsUsage: "FILE",
			Action:    cmdPcap,
		},
		{
			Name:      "h4",
			Usage:     "decode an H4 byte stream given in hex or read from a file",
			ArgsUsage: "[HEX...]",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "file", Usage: "read the raw stream from `FILE`"},
			},
			Action: cmdH4,
		},
	}
	return app
}

// settings resolves the config file and the global flags.
func settings(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if c.GlobalBool("debug") {
		cfg.LogLevel = "debug"
		cfg.Trace = true
	}
	if c.GlobalIsSet("format") {
		cfg.Format = c.GlobalString("format")
	}
	if c.GlobalBool("indent") {
		cfg.Indent = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, dissect.SetLogLevel(cfg.LogLevel)
}

// runner decodes the packets of one invocation through a single decoder, so
// channels set up by earlier packets resolve in later ones.
type runner struct {
	cfg  config.Config
	d    *hci.Decoder
	out  io.Writer
	enc  *render.Encoder
	opts []render.Option
}

func newRunner(c *cli.Context) (*runner, error) {
	cfg, err := settings(c)
	if err != nil {
		return nil, err
	}
	d, err := hci.NewDecoder(nil, cfg.Options()...)
	if err != nil {
		return nil, err
	}
	opts := cfg.RenderOptions()
	return &runner{
		cfg:  cfg,
		d:    d,
		out:  c.App.Writer,
		enc:  render.NewEncoder(c.App.Writer, opts...),
		opts: opts,
	}, nil
}

func (r *runner) emit(rec capture.Record) error {
	n := r.d.Decode(rec.Type, rec.Data)
	if r.cfg.Format == config.FormatDocument {
		return r.enc.Encode(n)
	}

	fn := render.Values
	if r.cfg.Format == config.FormatLocations {
		fn = render.Locations
	}
	b, err := fn(n, r.opts...)
	if err != nil {
		return err
	}
	if _, err := r.out.Write(append(b, '\n')); err != nil {
		return errors.Wrap(err, "can't write")
	}
	return nil
}

func (r *runner) emitAll(recs []capture.Record) error {
	for _, rec := range recs {
		if err := r.emit(rec); err != nil {
			return err
		}
	}
	return nil
}

func cmdDecode(c *cli.Context) error {
	r, err := newRunner(c)
	if err != nil {
		return err
	}
	pt, err := capture.ParsePacketType(c.String("type"))
	if err != nil {
		return err
	}
	b, err := capture.ParseHex(strings.Join(c.Args(), " "))
	if err != nil {
		return err
	}
	return r.emit(capture.Record{Type: pt, Data: b})
}

// readFile runs read on the single FILE argument, "-" being stdin, and
// decodes the records it returns. Records that parsed are decoded even when
// some did not.
func readFile(c *cli.Context, read func(io.Reader) ([]capture.Record, error)) error {
	if c.NArg() != 1 {
		return errors.Errorf("%s takes exactly one FILE", c.Command.Name)
	}
	r, err := newRunner(c)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if path := c.Args().First(); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "can't open capture")
		}
		defer f.Close()
		in = f
	}

	recs, perr := read(in)
	if err := r.emitAll(recs); err != nil {
		return err
	}
	return perr
}

func cmdCapture(c *cli.Context) error {
	return readFile(c, capture.ReadRecords)
}

func cmdPcap(c *cli.Context) error {
	return readFile(c, capture.ReadPcap)
}

func cmdH4(c *cli.Context) error {
	r, err := newRunner(c)
	if err != nil {
		return err
	}

	path := c.String("file")
	if path == "" {
		b, err := capture.ParseHex(strings.Join(c.Args(), " "))
		if err != nil {
			return err
		}
		recs, serr := capture.SplitH4(b)
		if err := r.emitAll(recs); err != nil {
			return err
		}
		return serr
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "can't open stream")
	}
	defer f.Close()

	fr := capture.NewFramer()
	if _, err := io.Copy(fr, f); err != nil {
		return errors.Wrap(err, "can't read stream")
	}
	for rec, ok := fr.Next(); ok; rec, ok = fr.Next() {
		if err := r.emit(rec); err != nil {
			return err
		}
	}
	if n := fr.Pending(); n > 0 {
		return errors.Errorf("%d trailing bytes of an incomplete packet", n)
	}
	return nil
}

