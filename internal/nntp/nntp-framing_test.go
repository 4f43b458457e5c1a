package nntp

import (
	"bufio"
	"net"
	"net/textproto"
	"testing"
)

func newTestFraming(t *testing.T) (*Framing, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { client.Close() })
	conn := textproto.NewConn(server)
	writer := bufio.NewWriter(server)
	return NewFraming(conn, writer), client
}

func TestReadUntilDotUnstuffsLeadingDots(t *testing.T) {
	f, client := newTestFraming(t)
	go func() {
		client.Write([]byte("first line" + CRLF))
		client.Write([]byte("..stuffed line" + CRLF))
		client.Write([]byte("last line" + CRLF))
		client.Write([]byte(DOT + CRLF))
	}()

	got, err := f.readUntilDot()
	if err != nil {
		t.Fatalf("readUntilDot: %v", err)
	}
	want := "first line" + CRLF + ".stuffed line" + CRLF + "last line"
	if got != want {
		t.Errorf("readUntilDot = %q, want %q", got, want)
	}
}

func TestReadUntilDotRejectsMalformedStuffing(t *testing.T) {
	f, client := newTestFraming(t)
	go func() {
		client.Write([]byte(".not doubled" + CRLF))
		client.Write([]byte(DOT + CRLF))
	}()

	_, err := f.readUntilDot()
	if err != ErrBadDotStuffing {
		t.Errorf("expected ErrBadDotStuffing, got %v", err)
	}
}

func TestReadUntilDotEmptyPayload(t *testing.T) {
	f, client := newTestFraming(t)
	go func() {
		client.Write([]byte(DOT + CRLF))
	}()

	got, err := f.readUntilDot()
	if err != nil {
		t.Fatalf("readUntilDot: %v", err)
	}
	if got != "" {
		t.Errorf("readUntilDot = %q, want empty", got)
	}
}

func TestWriteDataLineStuffsLeadingDot(t *testing.T) {
	f, client := newTestFraming(t)
	reader := bufio.NewReader(client)

	go func() {
		f.writeDataLine(".looks like a terminator")
	}()

	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if line != "..looks like a terminator"+CRLF {
		t.Errorf("got %q, want stuffed line", line)
	}
}
