// CLAUDE:SUMMARY MCP-over-QUIC wire protocol: ALPN, magic bytes, TLS and QUIC config, error codes.
// Package mcpquic carries MCP sessions over QUIC streams. A connection
// negotiates the mcp-quic-v1 ALPN, opens one bidirectional stream, sends
// four magic bytes, then speaks plain JSON-RPC over the stream.
package mcpquic

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/quic-go/quic-go"
)

const (
	// ALPNProtocolMCP is the TLS ALPN token for MCP-over-QUIC.
	ALPNProtocolMCP = "mcp-quic-v1"

	// MagicBytesMCP opens every MCP stream, letting the server reject
	// protocol confusion before parsing any JSON-RPC.
	MagicBytesMCP = "MCP1"

	// MaxMessageSize bounds a single JSON-RPC message.
	MaxMessageSize = 10 * 1024 * 1024

	DefaultIdleTimeout = 5 * time.Minute
	DefaultKeepAlive   = 30 * time.Second
)

// QUIC application error codes for connection closure.
const (
	ConnErrorNoError           quic.ApplicationErrorCode = 0x00
	ConnErrorInternal          quic.ApplicationErrorCode = 0x01
	ConnErrorUnsupportedALPN   quic.ApplicationErrorCode = 0x02
	ConnErrorProtocolViolation quic.ApplicationErrorCode = 0x03
)

// StreamErrorProtocolConfusion cancels a stream whose opening bytes are
// not the MCP magic.
const StreamErrorProtocolConfusion quic.StreamErrorCode = 0x01

var (
	ErrInvalidMagicBytes = errors.New("mcpquic: invalid magic bytes")
	ErrUnsupportedALPN   = errors.New("mcpquic: unsupported ALPN")
	ErrConnectionClosed  = errors.New("mcpquic: connection closed")
)

// ConnectionError reports a connection-level failure with its QUIC error code.
type ConnectionError struct {
	RemoteAddr string
	Code       quic.ApplicationErrorCode
	Err        error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mcpquic: connection %s failed (code 0x%02x): %v", e.RemoteAddr, uint64(e.Code), e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// SendMagicBytes writes the MCP stream preamble.
func SendMagicBytes(w io.Writer) error {
	if _, err := io.WriteString(w, MagicBytesMCP); err != nil {
		return fmt.Errorf("mcpquic: send magic bytes: %w", err)
	}
	return nil
}

// ValidateMagicBytes reads and checks the MCP stream preamble.
func ValidateMagicBytes(r io.Reader) error {
	buf := make([]byte, len(MagicBytesMCP))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("mcpquic: read magic bytes: %w", err)
	}
	if string(buf) != MagicBytesMCP {
		return fmt.Errorf("%w: got %q", ErrInvalidMagicBytes, buf)
	}
	return nil
}

// ProductionQUICConfig returns the QUIC transport settings used on both
// ends. 0-RTT stays disabled: tool calls are not replay-safe.
func ProductionQUICConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:  DefaultIdleTimeout,
		KeepAlivePeriod: DefaultKeepAlive,
		Allow0RTT:       false,
	}
}

// ServerTLSConfig loads a certificate pair for the MCP ALPN.
func ServerTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("mcpquic: load key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{ALPNProtocolMCP},
		MinVersion:   tls.VersionTLS13,
	}, nil
}

// SelfSignedTLSConfig generates an ephemeral self-signed certificate.
// Clients must dial with verification disabled or pin the certificate.
func SelfSignedTLSConfig() (*tls.Config, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("mcpquic: generate key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("mcpquic: serial: %w", err)
	}
	tmpl := x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: "mcpquic"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("mcpquic: create certificate: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{{
			Certificate: [][]byte{der},
			PrivateKey:  key,
		}},
		NextProtos: []string{ALPNProtocolMCP},
		MinVersion: tls.VersionTLS13,
	}, nil
}

// ClientTLSConfig returns the client TLS settings. insecure skips server
// certificate verification, for self-signed test servers only.
func ClientTLSConfig(insecure bool) *tls.Config {
	return &tls.Config{
		NextProtos:         []string{ALPNProtocolMCP},
		MinVersion:         tls.VersionTLS13,
		InsecureSkipVerify: insecure,
	}
}

// H3TLSConfig derives an HTTP/3 TLS config from a base config without
// mutating it.
func H3TLSConfig(base *tls.Config) *tls.Config {
	cfg := base.Clone()
	cfg.NextProtos = []string{"h3"}
	return cfg
}
