package relay

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strconv"
	"testing"
)

// pipeDialer hands out one side of an in-memory net.Pipe per Dial call and
// hands the matching server side to onServer, so the test can observe what
// a RemoteCall writes without any real network socket.
type pipeDialer struct {
	onServer func(port int, server net.Conn)
}

func (d pipeDialer) Dial(port int) (io.ReadWriteCloser, error) {
	client, server := net.Pipe()
	go d.onServer(port, server)
	return client, nil
}

type errDialer struct{}

func (errDialer) Dial(port int) (io.ReadWriteCloser, error) {
	return nil, errors.New("dial refused")
}

func TestRegistryDialWritesPayloadAndQuit(t *testing.T) {
	fromNumber := "15554"
	// instance 0 so the payload carries no "mux modem N" prefix line.
	toNumber := strconv.Itoa(FromModem(5556, 0))

	received := make(chan string, 1)
	dialer := pipeDialer{onServer: func(port int, server net.Conn) {
		r := bufio.NewReader(server)
		line1, _ := r.ReadString('\n')
		line2, _ := r.ReadString('\n')
		received <- line1 + line2
		server.Close()
	}}

	reg := NewRegistry(dialer)
	resultCh := make(chan bool, 1)
	ok := reg.Dial(5554, 0, fromNumber, toNumber, func(success bool) { resultCh <- success })
	if !ok {
		t.Fatal("expected Dial to accept a valid relay address")
	}

	got := <-received
	want := "gsm call " + fromNumber + "\n" + "quit\n"
	if got != want {
		t.Fatalf("got payload %q, want %q", got, want)
	}
	if success := <-resultCh; !success {
		t.Fatal("expected the result callback to report success")
	}
}

func TestRegistryDialRejectsSelfAddress(t *testing.T) {
	reg := NewRegistry(errDialer{})
	self := strconv.Itoa(FromModem(5554, 0))
	if reg.Dial(5554, 0, "15554", self, nil) {
		t.Fatal("expected Dial to reject an address that resolves to the caller's own instance")
	}
}

func TestRegistryDialRejectsUnresolvableAddress(t *testing.T) {
	reg := NewRegistry(errDialer{})
	if reg.Dial(5554, 0, "15554", "not-a-number", nil) {
		t.Fatal("expected Dial to reject an address that does not resolve to a relay port")
	}
}

func TestRegistryDialReportsFailureOnDialError(t *testing.T) {
	reg := NewRegistry(errDialer{})
	resultCh := make(chan bool, 1)
	toNumber := strconv.Itoa(FromModem(5556, 1))
	if !reg.Dial(5554, 0, "15554", toNumber, func(success bool) { resultCh <- success }) {
		t.Fatal("expected Dial to accept a valid relay address even if the transport later fails")
	}
	if success := <-resultCh; success {
		t.Fatal("expected the result callback to report failure when the dialer errors")
	}
}

func TestRegistryCancelIsANoOpWhenNothingInFlight(t *testing.T) {
	reg := NewRegistry(errDialer{})
	toNumber := strconv.Itoa(FromModem(5556, 1))
	reg.Cancel(0, "15554", toNumber)
}

func TestIsRemoteNumberRejectsLocalShortForms(t *testing.T) {
	if IsRemoteNumber("0000", 0) {
		t.Fatal("expected a bare 4-digit local short form to not resolve as a relay address")
	}
	if !IsRemoteNumber(strconv.Itoa(FromModem(5556, 1)), 0) {
		t.Fatal("expected a valid relay address to resolve")
	}
}
