// Command basebandsim runs a small farm of emulated baseband instances,
// each exposed on its own PTY, and listens for incoming cross-instance
// relay connections the way jaracil/vmodem's cmd/vmodem listens for
// incoming calls on a plain TCP socket (§4.7, §6).
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/aymanbagabas/go-pty"
	"github.com/jaracil/nagle"
	flags "github.com/jessevdk/go-flags"
	iotrace "github.com/nayarsystems/iotrace"
	"go.bug.st/serial"

	basebandsim "github.com/basebandsim/basebandsim"
	"github.com/basebandsim/basebandsim/internal/pdp"
	"github.com/basebandsim/basebandsim/internal/relay"
	"github.com/basebandsim/basebandsim/internal/voicecall"
)

// Options mirrors cmd/vmodem's Options shape, generalized from one TTY
// grammar to a farm of baseband instances addressed by (base port,
// instance id) per spec.md §4.7.
type Options struct {
	Verbose     []bool `short:"v" long:"verbose" description:"Show verbose debug information; repeat for hex-dump tracing"`
	BasePort    int    `short:"a" long:"base-port" description:"Base port identifying this console/relay group" default:"5554"`
	ListenAddr  string `short:"l" long:"listen" description:"Listen address for incoming relay connections"`
	TtyPath     string `short:"t" long:"tty" description:"path for PTY symlink creation" default:"/tmp/basebandsim"`
	NumTTYs     int    `short:"n" long:"num" description:"Number of instances to create" default:"1"`
	NVRAMDir    string `short:"d" long:"nvram-dir" description:"Directory for persisted NV-RAM files (empty disables persistence)"`
	NagleSize   int    `short:"N" long:"nagle-size" description:"size of the nagle buffer on relay connections, 0 = disabled" default:"1024"`
	NagleMillis int    `short:"M" long:"nagle-timeout" description:"nagle timeout in milliseconds" default:"50"`
	Attach      []string `short:"A" long:"attach" description:"Bridge an instance's PTY to a real serial port. Format: instance_id:device:baud"`
}

var tini = time.Now()

func newTraceHook(prefix string) func([]byte) {
	return func(data []byte) {
		fmt.Fprintf(os.Stderr, "(%d) %s:\n%s", time.Since(tini).Milliseconds(), prefix, hex.Dump(data))
	}
}

func main() {
	var options Options
	if _, err := flags.NewParser(&options, flags.Default).ParseArgs(os.Args); err != nil {
		os.Exit(1)
	}

	logLevel := slog.LevelWarn
	if len(options.Verbose) > 0 {
		logLevel = slog.LevelInfo
	}
	if len(options.Verbose) > 1 {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if options.ListenAddr == "" {
		options.ListenAddr = fmt.Sprintf("0.0.0.0:%d", options.BasePort)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := os.MkdirAll(options.TtyPath, 0o755); err != nil {
		logger.Error("creating tty path", "err", err)
		os.Exit(1)
	}
	if options.NVRAMDir != "" {
		if err := os.MkdirAll(options.NVRAMDir, 0o755); err != nil {
			logger.Error("creating nvram dir", "err", err)
			os.Exit(1)
		}
	}

	dataPool := pdp.NewPool(pdp.MaxContexts,
		netip.MustParseAddr("10.0.2.15"),
		netip.MustParseAddr("10.0.2.2"),
		[2]netip.Addr{netip.MustParseAddr("10.0.2.3"), netip.MustParseAddr("10.0.2.4")},
	)
	peers := basebandsim.NewPeerRegistry()
	dialer := relay.NetDialer{}
	relayReg := relay.NewRegistry(nagleDialer{options: options, inner: dialer})

	instances := make([]*basebandsim.Instance, 0, options.NumTTYs)
	ptys := make([]pty.Pty, 0, options.NumTTYs)

	for i := 0; i < options.NumTTYs; i++ {
		tty, err := pty.New()
		if err != nil {
			logger.Error("creating pty", "err", err)
			os.Exit(1)
		}
		ptys = append(ptys, tty)

		instanceID := i
		instLogger := logger.With("instance", instanceID)

		inst, err := basebandsim.NewInstance(basebandsim.InstanceConfig{
			BasePort:   options.BasePort,
			InstanceID: instanceID,
			NVRAMDir:   options.NVRAMDir,
			Peers:      peers,
			DataPool:   dataPool,
			Relay:      relayReg,
			Logger:     instLogger,
			Unsol: func(text string) {
				writeLine(tty, text)
			},
		})
		if err != nil {
			logger.Error("creating instance", "err", err)
			os.Exit(1)
		}
		instances = append(instances, inst)

		linkName := fmt.Sprintf("%s/tty%d", options.TtyPath, i)
		os.Remove(linkName)
		if err := os.Symlink(tty.Name(), linkName); err != nil {
			logger.Error("symlinking pty", "err", err)
			os.Exit(1)
		}
		instLogger.Info("instance ready", "tty", linkName)

		go runInstanceSession(ctx, instanceID, tty, inst, options, instLogger)
	}

	for _, attachStr := range options.Attach {
		if err := attachSerial(attachStr, ptys, logger); err != nil {
			logger.Error("attaching serial port", "err", err)
			os.Exit(1)
		}
	}

	listener, err := net.Listen("tcp", options.ListenAddr)
	if err != nil {
		logger.Error("listening for relay connections", "err", err)
		os.Exit(1)
	}
	go acceptRelayConnections(ctx, listener, options.BasePort, peers, logger)

	logger.Info("basebandsim started", "instances", options.NumTTYs, "listen", options.ListenAddr)
	<-ctx.Done()

	listener.Close()
	for i, tty := range ptys {
		tty.Close()
		instances[i].Close()
		os.Remove(fmt.Sprintf("%s/tty%d", options.TtyPath, i))
	}
}

// runInstanceSession reads complete AT command lines off tty and feeds
// them to inst.Send, optionally hex-dump tracing the bytes read from tty
// through nayarsystems/iotrace when -vvv is given; replies written back to
// tty are not traced.
func runInstanceSession(ctx context.Context, id int, tty pty.Pty, inst *basebandsim.Instance, options Options, logger *slog.Logger) {
	var reader = bufio.NewReader(tty)
	if len(options.Verbose) > 2 {
		traced := iotrace.NewRWCTracer(tty, 16, 50*time.Millisecond,
			newTraceHook(fmt.Sprintf("inst%d-w", id)),
			newTraceHook(fmt.Sprintf("inst%d-r", id)),
		)
		reader = bufio.NewReader(traced)
	}
	for {
		line, err := reader.ReadString('\r')
		if err != nil {
			return
		}
		cmd := trimCR(line)
		if cmd == "" {
			continue
		}
		logger.Debug("command", "cmd", cmd)
		if ctx.Err() != nil {
			return
		}
		inst.Send(cmd)
	}
}

func trimCR(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\r' || s[len(s)-1] == '\n') {
		s = s[:len(s)-1]
	}
	return s
}

func writeLine(tty pty.Pty, text string) {
	tty.Write([]byte(text + "\r\n"))
}

// acceptRelayConnections accepts incoming cross-instance relay
// connections, mirroring cmd/vmodem's listenTask accept loop generalized
// from Hayes-modem incoming calls to basebandsim's relay protocol (§4.7).
// Each connection is handled on its own goroutine since a slow or stuck
// peer must not block other incoming relay traffic.
func acceptRelayConnections(ctx context.Context, listener net.Listener, basePort int, peers *basebandsim.PeerRegistry, logger *slog.Logger) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("accept failed", "err", err)
			continue
		}
		logger.Info("incoming relay connection", "remote", conn.RemoteAddr())
		go handleRelayConnection(conn, basePort, peers, logger)
	}
}

// handleRelayConnection parses one relay connection's wire format (§4.7,
// §6): an optional "mux modem <n>" preamble selecting the target
// instance within this base port's farm, followed by one
// "gsm call|busy|hold|accept|cancel <number>" or "sms pdu <hex>" line,
// terminated by "quit". instance_id defaults to 0 absent a mux preamble.
func handleRelayConnection(conn net.Conn, basePort int, peers *basebandsim.PeerRegistry, logger *slog.Logger) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	instanceID := 0
	for scanner.Scan() {
		line := trimCR(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return
		}
		if rest, ok := strings.CutPrefix(line, "mux modem "); ok {
			if n, err := strconv.Atoi(rest); err == nil {
				instanceID = n
			}
			continue
		}
		peer, ok := peers.Lookup(basePort, instanceID)
		if !ok {
			logger.Warn("relay line for unknown instance", "instance", instanceID, "line", line)
			continue
		}
		switch {
		case strings.HasPrefix(line, "gsm "):
			applyGSMLine(peer, strings.TrimPrefix(line, "gsm "), logger)
		case strings.HasPrefix(line, "sms pdu "):
			peer.ReceiveSMS(strings.TrimPrefix(line, "sms pdu "))
		default:
			logger.Warn("unrecognized relay line", "line", line)
		}
	}
}

// applyGSMLine drives the Consumer API method matching one "gsm <verb>
// <number>" relay line, where number is the relay-address-encoded number
// of the instance that sent it (§4.7).
func applyGSMLine(peer *basebandsim.Instance, rest string, logger *slog.Logger) {
	parts := strings.SplitN(rest, " ", 2)
	if len(parts) != 2 {
		logger.Warn("malformed gsm relay line", "line", rest)
		return
	}
	verb, number := parts[0], parts[1]
	switch verb {
	case "call":
		peer.AddInboundCall(number, voicecall.PresentationAllowed, "")
	case "busy":
		peer.RemoteCallBusy(number)
	case "hold":
		peer.UpdateCall(number, voicecall.Held)
	case "accept":
		peer.UpdateCall(number, voicecall.Active)
	case "cancel":
		peer.DisconnectCall(number)
	default:
		logger.Warn("unknown gsm relay verb", "verb", verb)
	}
}

// nagleDialer wraps relay.NetDialer's outbound connections in
// jaracil/nagle, coalescing small writes the way cmd/vmodem wraps every
// outgoing/incoming TCP connection when -nagle-size is nonzero (§4.7).
type nagleDialer struct {
	options Options
	inner   relay.Dialer
}

func (d nagleDialer) Dial(port int) (io.ReadWriteCloser, error) {
	rwc, err := d.inner.Dial(port)
	if err != nil {
		return nil, err
	}
	if d.options.NagleSize <= 0 {
		return rwc, nil
	}
	return nagle.NewNagleWrapper(rwc, d.options.NagleSize, time.Duration(d.options.NagleMillis)*time.Millisecond), nil
}

// attachSerial bridges an instance's PTY to a real serial port, so a
// physical terminal or host telephony stack can drive basebandsim
// exactly like cmd/vmodem's --attach flag bridges two TTYs (§6: "byte
// stream... the actual transport is out of scope" — this harness
// supplies one transport, go.bug.st/serial, as an alternative to the PTY).
func attachSerial(cfgStr string, ptys []pty.Pty, logger *slog.Logger) error {
	parts := strings.Split(cfgStr, ":")
	if len(parts) < 2 {
		return fmt.Errorf("invalid attach string %q, want instance_id:device[:baud]", cfgStr)
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil || id < 0 || id >= len(ptys) {
		return fmt.Errorf("invalid instance id %q", parts[0])
	}
	baud := 9600
	if len(parts) >= 3 {
		if b, err := strconv.Atoi(parts[2]); err == nil {
			baud = b
		}
	}
	port, err := serial.Open(parts[1], &serial.Mode{BaudRate: baud})
	if err != nil {
		return fmt.Errorf("opening serial port %q: %w", parts[1], err)
	}
	tty := ptys[id]
	go func() {
		io.Copy(port, tty)
		logger.Warn("serial attach broken", "instance", id)
	}()
	go func() {
		io.Copy(tty, port)
		logger.Warn("serial attach broken", "instance", id)
	}()
	return nil
}
