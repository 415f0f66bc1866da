package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the server flags from args (without the program name).
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN (postgres URL or sqlite file)
//	-u attachment upload directory
//	-max-upload-size largest accepted attachment in bytes
//	-c/-config json file path with configs
//	-session-sign-key session signing key
//	-session-issuer session token issuer
//	-session-duration session lifetime (e.g., "24h")
//	-secure-cookies mark cookies Secure
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-shutdown-timeout graceful shutdown timeout
//	-log-level zerolog level name
func ParseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var databaseDSN, uploadDir, jsonConfigPath string
	var sessionSignKey, sessionIssuer, logLevel string
	var sessionDuration, requestTimeout, shutdownTimeout time.Duration
	var maxUploadSize int64
	var secureCookies bool

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&uploadDir, "u", "", "Attachment upload directory")
	fs.Int64Var(&maxUploadSize, "max-upload-size", 0, "Largest accepted attachment in bytes")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&sessionSignKey, "session-sign-key", "", "Session signing key")
	fs.StringVar(&sessionIssuer, "session-issuer", "", "Session token issuer")
	fs.DurationVar(&sessionDuration, "session-duration", 0, "Session duration (e.g., 24h)")
	fs.BoolVar(&secureCookies, "secure-cookies", false, "Mark cookies as Secure")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Graceful shutdown timeout")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			SessionSignKey:  sessionSignKey,
			SessionIssuer:   sessionIssuer,
			SessionDuration: sessionDuration,
			SecureCookies:   secureCookies,
			LogLevel:        logLevel,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Files: Files{
				UploadDir:     uploadDir,
				MaxUploadSize: maxUploadSize,
			},
		},
		Server: Server{
			HTTPAddress:     serverAddress.String(),
			RequestTimeout:  requestTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
