// Package config loads the YAML file shared by the greatwall binaries.
//
// Example:
//
//	topology:
//	  depth: 4
//	  arity: 3
//	  tlp_iterations: 12
//	tacit:
//	  kind: fractal
//	  fractal_function: burningship
//	artifacts:
//	  backend: badger
//	  path: ~/.cache/greatwall/artifacts
//	agent:
//	  listen: 127.0.0.1:7420
//	  metrics_listen: 127.0.0.1:9420
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Yuri-SVB/Great-Wall/greatwall"
	"github.com/Yuri-SVB/Great-Wall/logging"
	"github.com/Yuri-SVB/Great-Wall/passphrase"
	"github.com/Yuri-SVB/Great-Wall/storage"
	"github.com/Yuri-SVB/Great-Wall/storage/badgercas"
	"github.com/Yuri-SVB/Great-Wall/storage/localfs"
	"github.com/Yuri-SVB/Great-Wall/storage/memcas"
	"github.com/Yuri-SVB/Great-Wall/stretch"
	"github.com/Yuri-SVB/Great-Wall/tacit"
)

// Artifact backends.
const (
	BackendMemory  = "memory"
	BackendLocalFS = "localfs"
	BackendBadger  = "badger"
)

type Config struct {
	Topology   greatwall.Topology `yaml:"topology"`
	Tacit      Tacit              `yaml:"tacit"`
	Passphrase Passphrase         `yaml:"passphrase"`
	Stretch    Stretch            `yaml:"stretch"`
	Engine     Engine             `yaml:"engine"`
	Logging    logging.Config     `yaml:"logging"`
	Artifacts  Artifacts          `yaml:"artifacts"`
	Agent      Agent              `yaml:"agent"`
}

type Tacit struct {
	Kind            tacit.Kind            `yaml:"kind"`
	FractalFunction tacit.FractalFunction `yaml:"fractal_function"`
	// Theme is the Formosa word list name passed to the mnemonic encoder.
	Theme string      `yaml:"theme"`
	View  *tacit.View `yaml:"view,omitempty"`
}

type Passphrase struct {
	// Decoder is "raw" or "hex".
	Decoder string `yaml:"decoder"`
}

// Stretch overrides the protocol's Argon2i profiles. Leave both unset in
// production; overriding them changes every derived secret.
type Stretch struct {
	Quick *stretch.Params `yaml:"quick,omitempty"`
	Long  *stretch.Params `yaml:"long,omitempty"`
}

type Engine struct {
	Parallelism int `yaml:"parallelism"`
}

type Artifacts struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	// Cache keeps an in-memory copy in front of a persistent backend.
	Cache bool `yaml:"cache"`
}

type Agent struct {
	Listen        string `yaml:"listen"`
	MetricsListen string `yaml:"metrics_listen"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Topology:   greatwall.Topology{Depth: 3, Arity: 3, TLPIterations: 1},
		Tacit:      Tacit{Kind: tacit.KindFormosa, FractalFunction: tacit.Mandelbrot, Theme: "BIP39"},
		Passphrase: Passphrase{Decoder: "raw"},
		Engine:     Engine{Parallelism: 4},
		Logging:    logging.Config{Level: "info"},
		Artifacts:  Artifacts{Backend: BackendMemory},
		Agent:      Agent{Listen: "127.0.0.1:7420"},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config: empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(b)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default. Unknown keys are rejected.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if k, err := tacit.ParseKind(string(cfg.Tacit.Kind)); err == nil {
		cfg.Tacit.Kind = k
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := c.Topology.Validate(); err != nil {
		return err
	}
	if _, err := tacit.ParseKind(string(c.Tacit.Kind)); err != nil {
		return err
	}
	if c.Tacit.Kind == tacit.KindFractal {
		if err := c.Tacit.FractalFunction.Validate(); err != nil {
			return err
		}
	}
	if _, err := passphrase.ByName(c.Passphrase.Decoder); err != nil {
		return err
	}
	for name, p := range map[string]*stretch.Params{"quick": c.Stretch.Quick, "long": c.Stretch.Long} {
		if p == nil {
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("config: stretch.%s: %w", name, err)
		}
	}
	if c.Engine.Parallelism < 0 {
		return fmt.Errorf("config: engine.parallelism must be >= 0")
	}
	switch c.Artifacts.Backend {
	case "", BackendMemory:
	case BackendLocalFS, BackendBadger:
		if c.Artifacts.Path == "" {
			return fmt.Errorf("config: artifacts.path is required for backend %q", c.Artifacts.Backend)
		}
	default:
		return fmt.Errorf("config: unknown artifacts.backend %q", c.Artifacts.Backend)
	}
	return nil
}

// Stretcher returns the protocol stretcher with any overrides applied.
func (c Config) Stretcher() (*stretch.Stretcher, error) {
	quick, long := stretch.QuickParams, stretch.LongParams
	if c.Stretch.Quick != nil {
		quick = *c.Stretch.Quick
	}
	if c.Stretch.Long != nil {
		long = *c.Stretch.Long
	}
	return stretch.New(quick, long)
}

// Overridden reports whether the stretch profiles differ from the protocol's.
func (c Config) Overridden() bool {
	return c.Stretch.Quick != nil || c.Stretch.Long != nil
}

// Renderer builds the session's tacit renderer. enc may be nil.
func (c Config) Renderer(enc tacit.MnemonicEncoder) (tacit.Renderer, error) {
	return tacit.NewRenderer(c.Tacit.Kind, tacit.Options{
		Encoder:  enc,
		Theme:    c.Tacit.Theme,
		Function: c.Tacit.FractalFunction,
		View:     c.Tacit.View,
	})
}

// Decoder returns the configured passphrase decoder.
func (c Config) Decoder() (passphrase.Decoder, error) {
	return passphrase.ByName(c.Passphrase.Decoder)
}

// OpenArtifacts opens the artifact store. Close it with storage.Close.
func (c Config) OpenArtifacts(log *zap.Logger) (storage.CAS, error) {
	var backing storage.CAS
	switch c.Artifacts.Backend {
	case "", BackendMemory:
		return memcas.New(), nil
	case BackendLocalFS:
		fs, err := localfs.New(expandHome(c.Artifacts.Path))
		if err != nil {
			return nil, fmt.Errorf("config: open localfs artifacts: %w", err)
		}
		backing = fs
	case BackendBadger:
		db, err := badgercas.Open(badgercas.Config{Path: expandHome(c.Artifacts.Path), SyncWrites: true, Logger: log})
		if err != nil {
			return nil, err
		}
		backing = db
	default:
		return nil, fmt.Errorf("config: unknown artifacts.backend %q", c.Artifacts.Backend)
	}
	if c.Artifacts.Cache {
		return storage.Tiered{Cache: memcas.New(), Backing: backing}, nil
	}
	return backing, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
