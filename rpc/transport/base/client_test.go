package base

import (
	"bytes"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/dTree/rpc/common"
)

// --------------------------------------------------------------------------
// Test connector (in-memory pipes)
// --------------------------------------------------------------------------

// pipeConnector connects to an in-memory server. If silent is set the server
// reads requests but never answers.
type pipeConnector struct {
	silent bool
}

func (p pipeConnector) Connect(_ string) (net.Conn, error) {
	client, server := net.Pipe()
	go serveFrames(server, p.silent)
	return client, nil
}

func (p pipeConnector) GetName() string { return "pipe" }

func (p pipeConnector) UpgradeConnection(_ net.Conn, _ common.ClientConfig) error { return nil }

// serveFrames echoes every frame back to the client
func serveFrames(conn net.Conn, silent bool) {
	defer conn.Close()
	for {
		adapterID, requestID, data, err := readFrame(conn, nil)
		if err != nil {
			return
		}
		if silent {
			continue
		}
		if err := writeFrame(conn, adapterID, requestID, data); err != nil {
			return
		}
	}
}

func pipeConfig(timeoutSecond, connections int) common.ClientConfig {
	return common.ClientConfig{
		TimeoutSecond: timeoutSecond,
		Transport: common.ClientTransportConfig{
			Endpoints:              []string{"pipe-1", "pipe-2"},
			RetryCount:             3,
			ConnectionsPerEndpoint: connections,
		},
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func TestClientTransportSend(t *testing.T) {
	client := NewBaseClientTransport(pipeConnector{})
	if err := client.Connect(pipeConfig(2, 2)); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	defer client.Close()

	for i := 0; i < 10; i++ {
		req := []byte(fmt.Sprintf("request-%d", i))
		resp, err := client.Send(uint64(i), req)
		if err != nil {
			t.Fatalf("Send() failed: %v", err)
		}
		if !bytes.Equal(resp, req) {
			t.Errorf("Send() = %q, want %q", resp, req)
		}
	}
}

func TestClientTransportConnectNoEndpoints(t *testing.T) {
	client := NewBaseClientTransport(pipeConnector{})
	if err := client.Connect(common.ClientConfig{}); err == nil {
		t.Error("Connect() succeeded without endpoints")
	}
}

// TestClientTransportReconnectWhileSending calls Connect on a transport that is in use
func TestClientTransportReconnectWhileSending(t *testing.T) {
	client := NewBaseClientTransport(pipeConnector{})
	if err := client.Connect(pipeConfig(1, 1)); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	defer client.Close()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				// requests on replaced connections may fail, they must not hang
				_, _ = client.Send(1, []byte("ping"))
			}
		}()
	}

	for i := 0; i < 10; i++ {
		if err := client.Connect(pipeConfig(1+i%2, 1+i%3)); err != nil {
			t.Errorf("Connect() %d failed: %v", i, err)
		}
	}
	close(stop)
	wg.Wait()

	final := pipeConfig(3, 2)
	if err := client.Connect(final); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	if got := client.(*clientTransport).currentConfig().TimeoutSecond; got != final.TimeoutSecond {
		t.Errorf("config TimeoutSecond = %d, want %d", got, final.TimeoutSecond)
	}
	if resp, err := client.Send(1, []byte("ping")); err != nil || string(resp) != "ping" {
		t.Errorf("Send() after reconnect = %q, %v", resp, err)
	}
}

// TestClientTransportCloseFailsPending tests that waiting requests return once the transport is closed
func TestClientTransportCloseFailsPending(t *testing.T) {
	client := NewBaseClientTransport(pipeConnector{silent: true})

	// no timeout: without Close the request would wait forever
	config := pipeConfig(0, 1)
	config.Transport.Endpoints = []string{"pipe"}
	config.Transport.RetryCount = 1
	if err := client.Connect(config); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := client.Send(1, []byte("ping"))
		done <- err
	}()

	// wait until the request is registered on the connection
	conn := client.(*clientTransport).getNextConnection()
	deadline := time.Now().Add(2 * time.Second)
	for conn.requestChans.Size() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	select {
	case err := <-done:
		if err == nil {
			t.Error("Send() succeeded on a closed transport")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send() still waiting after Close()")
	}
}
