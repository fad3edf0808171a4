// internal/config/config.go
//
// This package handles configuration and the .doorprize directory structure.
// Every event folder the wheel runs in gets a .doorprize/ folder holding the
// registry, the winner queue, logs and config.yaml.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DoorprizeDir is the name of the directory we create in each event folder
	DoorprizeDir = ".doorprize"

	defaultPower         = 0.5
	defaultPowerStep     = 0.05
	defaultFrameInterval = 16 * time.Millisecond
	defaultPageSize      = 10
	defaultBridgeHost    = "127.0.0.1"
	defaultBridgePort    = 8766
	defaultWriteTimeout  = 10 * time.Second
	defaultPingInterval  = 20 * time.Second

	envDefaultPower  = "DOORPRIZE_DEFAULT_POWER"
	envPageSize      = "DOORPRIZE_PAGE_SIZE"
	envBridgeEnabled = "DOORPRIZE_BRIDGE_ENABLED"
	envBridgeHost    = "DOORPRIZE_BRIDGE_HOST"
	envBridgePort    = "DOORPRIZE_BRIDGE_PORT"
)

const defaultProjectConfigYAML = `# doorprize wheel configuration
version: 1

spin:
  # Power the lever starts at (0 = gentle, 1 = full). Longer and more turns with more power.
  default_power: 0.5
  # How much one press of up/down moves the lever.
  power_step: 0.05
  # Delay between animation frames.
  frame_interval: 16ms

list:
  page_size: 10

# Optional display bridge: streams frames and the reveal to a projector page over websocket.
bridge:
  enabled: false
  host: 127.0.0.1
  port: 8766
  # Deadline for each websocket frame sent to a display.
  write_timeout: 10s
  # Idle displays are pinged this often and dropped after two missed pongs.
  ping_interval: 20s
  # Pages allowed to connect, e.g. http://192.168.1.20:8080. Empty allows any.
  allowed_origins: []
`

// SpinConfig tunes the lever and the animation.
type SpinConfig struct {
	DefaultPower  float64       `yaml:"default_power"`
	PowerStep     float64       `yaml:"power_step"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// ListConfig tunes the participant list screen.
type ListConfig struct {
	PageSize int `yaml:"page_size"`
}

// BridgeConfig declares the display bridge server.
type BridgeConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// ProjectConfig models .doorprize/config.yaml.
type ProjectConfig struct {
	Version int          `yaml:"version"`
	Spin    SpinConfig   `yaml:"spin"`
	List    ListConfig   `yaml:"list"`
	Bridge  BridgeConfig `yaml:"bridge"`
}

// Config holds the runtime configuration for the wheel.
type Config struct {
	// ProjectDir is the directory where the user ran `doorprize` from
	ProjectDir string

	// DoorprizeProjectDir is ProjectDir/.doorprize
	DoorprizeProjectDir string

	Project ProjectConfig
}

// InitDoorprizeDir creates the .doorprize directory structure in the given
// project directory and writes a default config.yaml when none exists.
//
// Structure created:
// .doorprize/
// ├── logs/          <- draw.log
// ├── config.yaml
// ├── participants.json   (written on first change)
// └── winner-queue.json   (written on first change)
func InitDoorprizeDir(projectDir string) error {
	root := filepath.Join(projectDir, DoorprizeDir)
	if err := os.MkdirAll(filepath.Join(root, "logs"), 0o755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
// Variables from .doorprize/.env are loaded first without overriding the
// process environment, then DOORPRIZE_* variables override the file.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:          projectDir,
		DoorprizeProjectDir: filepath.Join(projectDir, DoorprizeDir),
		Project:             defaultProjectConfig(),
	}
	if err := cfg.loadEnvFile(); err != nil {
		return nil, err
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.DoorprizeProjectDir, "logs")
}

// LogPath returns the draw log file
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "draw.log")
}

// ParticipantsPath returns the participant registry file
func (c *Config) ParticipantsPath() string {
	return filepath.Join(c.DoorprizeProjectDir, "participants.json")
}

// QueuePath returns the forced-winner queue file
func (c *Config) QueuePath() string {
	return filepath.Join(c.DoorprizeProjectDir, "winner-queue.json")
}

// EnvPath returns the optional dotenv file
func (c *Config) EnvPath() string {
	return filepath.Join(c.DoorprizeProjectDir, ".env")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.DoorprizeProjectDir, "config.yaml")
}

func (c *Config) DefaultPower() float64        { return c.Project.Spin.DefaultPower }
func (c *Config) PowerStep() float64           { return c.Project.Spin.PowerStep }
func (c *Config) FrameInterval() time.Duration { return c.Project.Spin.FrameInterval }
func (c *Config) PageSize() int                { return c.Project.List.PageSize }
func (c *Config) Bridge() BridgeConfig         { return c.Project.Bridge }

// SetDefaultPower remembers the lever position and persists it back to
// .doorprize/config.yaml so the next session starts where this one left off.
// Only spin.default_power is rewritten; environment overrides stay out of
// the file and its comments survive.
func (c *Config) SetDefaultPower(power float64) error {
	if math.IsNaN(power) || power < 0 || power > 1 {
		return fmt.Errorf("config: power %v outside [0, 1]", power)
	}
	if err := c.saveProjectValue([]string{"spin", "default_power"}, strconv.FormatFloat(power, 'f', -1, 64)); err != nil {
		return err
	}
	c.Project.Spin.DefaultPower = power
	return nil
}

func (c *Config) loadEnvFile() error {
	path := c.EnvPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if raw := strings.TrimSpace(os.Getenv(envDefaultPower)); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", envDefaultPower, err)
		}
		c.Project.Spin.DefaultPower = value
	}
	if raw := strings.TrimSpace(os.Getenv(envPageSize)); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", envPageSize, err)
		}
		c.Project.List.PageSize = value
	}
	if raw := strings.TrimSpace(os.Getenv(envBridgeEnabled)); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", envBridgeEnabled, err)
		}
		c.Project.Bridge.Enabled = value
	}
	if raw := strings.TrimSpace(os.Getenv(envBridgeHost)); raw != "" {
		c.Project.Bridge.Host = raw
	}
	if raw := strings.TrimSpace(os.Getenv(envBridgePort)); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", envBridgePort, err)
		}
		c.Project.Bridge.Port = value
	}
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Spin: SpinConfig{
			DefaultPower:  defaultPower,
			PowerStep:     defaultPowerStep,
			FrameInterval: defaultFrameInterval,
		},
		List: ListConfig{PageSize: defaultPageSize},
		Bridge: BridgeConfig{
			Host:         defaultBridgeHost,
			Port:         defaultBridgePort,
			WriteTimeout: defaultWriteTimeout,
			PingInterval: defaultPingInterval,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Spin.PowerStep == 0 {
		pc.Spin.PowerStep = defaultPowerStep
	}
	if pc.Spin.FrameInterval == 0 {
		pc.Spin.FrameInterval = defaultFrameInterval
	}
	if pc.List.PageSize == 0 {
		pc.List.PageSize = defaultPageSize
	}
	if pc.Bridge.Port == 0 {
		pc.Bridge.Port = defaultBridgePort
	}
	if pc.Bridge.WriteTimeout == 0 {
		pc.Bridge.WriteTimeout = defaultWriteTimeout
	}
	if pc.Bridge.PingInterval == 0 {
		pc.Bridge.PingInterval = defaultPingInterval
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Bridge.Host = strings.TrimSpace(pc.Bridge.Host)
	if pc.Bridge.Host == "" {
		pc.Bridge.Host = defaultBridgeHost
	}
	origins := pc.Bridge.AllowedOrigins[:0]
	for _, origin := range pc.Bridge.AllowedOrigins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	pc.Bridge.AllowedOrigins = origins
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if math.IsNaN(pc.Spin.DefaultPower) || pc.Spin.DefaultPower < 0 || pc.Spin.DefaultPower > 1 {
		return fmt.Errorf("spin.default_power must be between 0 and 1")
	}
	if pc.Spin.PowerStep <= 0 || pc.Spin.PowerStep > 1 {
		return fmt.Errorf("spin.power_step must be in (0, 1]")
	}
	if pc.Spin.FrameInterval <= 0 {
		return fmt.Errorf("spin.frame_interval must be positive")
	}
	if pc.List.PageSize < 1 {
		return fmt.Errorf("list.page_size must be >= 1")
	}
	if pc.Bridge.Port < 0 || pc.Bridge.Port > 65535 {
		return fmt.Errorf("bridge.port must be between 0 and 65535")
	}
	if pc.Bridge.WriteTimeout <= 0 {
		return fmt.Errorf("bridge.write_timeout must be positive")
	}
	if pc.Bridge.PingInterval <= 0 {
		return fmt.Errorf("bridge.ping_interval must be positive")
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

// saveProjectValue sets one scalar in config.yaml through the YAML node tree,
// creating the default file first when it is missing.
func (c *Config) saveProjectValue(keys []string, value string) error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	if err := os.MkdirAll(c.DoorprizeProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure doorprize dir: %w", err)
	}
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = []byte(defaultProjectConfigYAML), nil
	}
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config: %s is not a mapping", path)
	}

	node := doc.Content[0]
	for _, key := range keys[:len(keys)-1] {
		child := mappingValue(node, key)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, child)
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("config: %s is not a mapping in %s", key, path)
		}
		node = child
	}
	last := keys[len(keys)-1]
	if leaf := mappingValue(node, last); leaf != nil {
		leaf.Kind, leaf.Tag, leaf.Style, leaf.Value, leaf.Content = yaml.ScalarNode, "", 0, value, nil
	} else {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: last},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}

	// Reject the edit if the result no longer loads.
	check := defaultProjectConfig()
	if err := yaml.Unmarshal(buf.Bytes(), &check); err != nil {
		return fmt.Errorf("config: re-parse config: %w", err)
	}
	check.applyDefaults()
	check.normalize()
	if err := check.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
