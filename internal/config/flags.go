package config

import (
	"errors"
	"flag"
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

// ParseFlags parses args into a partial [StructuredConfig].
//
// Flags:
//
//	-a presence backend listen address in format [host]:[port]
//	-c/-config json file path with configs
//	-project firestore project id
//	-database firestore database id
//	-credentials service account key file
//	-workspace workspace id all queries are scoped to
//	-gating comma separated collections that gate first paint
//	-presence-url presence backend websocket URL
//	-calendar-url calendar API base URL
//	-calendar-rate calendar calls per second
//	-request-timeout outbound request timeout (e.g. "15s")
//	-frame-interval render frame interval (e.g. "16ms")
//	-log-file client log file path
//	-email sign-in email
//	-demo run against in-memory collaborators
//	-token-key presence backend id token verification key
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("sprintboard", flag.ContinueOnError)

	var serverAddress NetAddress
	var jsonConfigPath string
	var projectID, databaseID, credentials string
	var workspace, gating string
	var presenceURL, calendarURL string
	var calendarRate float64
	var requestTimeout, frameInterval time.Duration
	var logFile, email string
	var demo bool
	var tokenKey string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&projectID, "project", "", "Firestore project ID")
	fs.StringVar(&databaseID, "database", "", "Firestore database ID")
	fs.StringVar(&credentials, "credentials", "", "Service account key file")
	fs.StringVar(&workspace, "workspace", "", "Workspace ID")
	fs.StringVar(&gating, "gating", "", "Comma separated collections gating first paint")
	fs.StringVar(&presenceURL, "presence-url", "", "Presence backend websocket URL")
	fs.StringVar(&calendarURL, "calendar-url", "", "Calendar API base URL")
	fs.Float64Var(&calendarRate, "calendar-rate", 0, "Calendar calls per second")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	fs.DurationVar(&frameInterval, "frame-interval", 0, "Render frame interval (e.g., 16ms)")
	fs.StringVar(&logFile, "log-file", "", "Client log file")
	fs.StringVar(&email, "email", "", "Sign-in email")
	fs.BoolVar(&demo, "demo", false, "Run against in-memory collaborators")
	fs.StringVar(&tokenKey, "token-key", "", "ID token verification key")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			Email:   email,
			LogFile: logFile,
			Demo:    demo,
		},
		Storage: Storage{
			Firestore: Firestore{
				ProjectID:       projectID,
				DatabaseID:      databaseID,
				CredentialsFile: credentials,
			},
			Collections: Collections{
				Workspace: workspace,
				Gating:    splitList(gating),
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			TokenKey:       tokenKey,
		},
		Adapter: Adapter{
			PresenceURL:       presenceURL,
			CalendarURL:       calendarURL,
			CalendarRateLimit: calendarRate,
			RequestTimeout:    requestTimeout,
		},
		Render: Render{
			FrameInterval: frameInterval,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host means all interfaces.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
