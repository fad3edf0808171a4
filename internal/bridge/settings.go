package bridge

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yopisonhaji/prototype-doorprize/internal/config"
)

const (
	// DefaultWriteTimeout bounds one websocket frame write.
	DefaultWriteTimeout = 10 * time.Second
	// DefaultPingInterval is how often idle displays are pinged.
	DefaultPingInterval = 20 * time.Second

	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
)

// Settings is what the bridge needs from config.BridgeConfig.
type Settings struct {
	Enabled bool
	Host    string
	Port    int

	// WriteTimeout is the deadline for each frame sent to a display.
	WriteTimeout time.Duration
	// PingInterval paces keepalive pings. A display that stays silent for
	// two intervals is dropped.
	PingInterval time.Duration
	// AllowedOrigins lists the pages that may open /ws or call the JSON
	// endpoints. Empty allows any origin.
	AllowedOrigins []string
}

// SettingsFromConfig reads the bridge section of the loaded config. Env
// overrides were already applied by config.NewConfig.
func SettingsFromConfig(cfg *config.Config) Settings {
	var settings Settings
	if cfg != nil {
		raw := cfg.Bridge()
		settings = Settings{
			Enabled:        raw.Enabled,
			Host:           raw.Host,
			Port:           raw.Port,
			WriteTimeout:   raw.WriteTimeout,
			PingInterval:   raw.PingInterval,
			AllowedOrigins: append([]string(nil), raw.AllowedOrigins...),
		}
	}
	settings.normalize()
	return settings
}

func (s *Settings) normalize() {
	s.Host = strings.TrimSpace(s.Host)
	if s.Host == "" {
		s.Host = "127.0.0.1"
	}
	if s.Port < 0 || s.Port > 65535 {
		s.Port = 8766
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.PingInterval <= 0 {
		s.PingInterval = DefaultPingInterval
	}
}

// pongWait is how long a display may stay silent before it is dropped.
func (s Settings) pongWait() time.Duration {
	return 2 * s.PingInterval
}

func (s Settings) corsOrigins() []string {
	if len(s.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.AllowedOrigins
}

// checkOrigin gates websocket upgrades. Requests without an Origin header
// come from non-browser clients and are let through.
func (s Settings) checkOrigin(r *http.Request) bool {
	if len(s.AllowedOrigins) == 0 {
		return true
	}
	origin := strings.TrimRight(r.Header.Get("Origin"), "/")
	if origin == "" {
		return true
	}
	for _, allowed := range s.AllowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

// Address returns the TCP bind address in host:port form.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the HTTP base URL for the server.
func (s Settings) URL() string {
	return "http://" + s.Address()
}
