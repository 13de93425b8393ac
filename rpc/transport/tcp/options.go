package tcp

import (
	"net"
	"time"

	"github.com/ValentinKolb/dTree/rpc/common"
)

// applyOptions applies the TCP and socket settings to a connection.
// Connections that are not TCP connections are left unchanged.
func applyOptions(conn net.Conn, tcpConf common.TCPConf, sockConf common.SocketConf) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	// Disable Nagle's algorithm if configured
	if err := tcpConn.SetNoDelay(tcpConf.TCPNoDelay); err != nil {
		return err
	}

	if sockConf.WriteBufferSize > 0 {
		if err := tcpConn.SetWriteBuffer(sockConf.WriteBufferSize); err != nil {
			return err
		}
	}

	if sockConf.ReadBufferSize > 0 {
		if err := tcpConn.SetReadBuffer(sockConf.ReadBufferSize); err != nil {
			return err
		}
	}

	if tcpConf.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}
		if err := tcpConn.SetKeepAlivePeriod(time.Duration(tcpConf.TCPKeepAliveSec) * time.Second); err != nil {
			return err
		}
	}

	if tcpConf.TCPLingerSec >= 0 {
		if err := tcpConn.SetLinger(tcpConf.TCPLingerSec); err != nil {
			return err
		}
	}

	return nil
}
