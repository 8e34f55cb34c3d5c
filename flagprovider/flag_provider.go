// Package flagprovider serves identifier truth values to the evaluator,
// loaded from a yaml flag file:
//
//	flags:
//	  - name: isWindows
//	    value: true
//	  - name: isDebug
//	    value: false
package flagprovider

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/ozontech/condexpr/conf"
	"github.com/ozontech/condexpr/logger"
	"github.com/ozontech/condexpr/metric"
	"github.com/ozontech/condexpr/parser"
)

const defaultUpdatePeriod = 30 * time.Second

type Option func(*FlagProvider)

func WithUpdatePeriod(up time.Duration) Option {
	return func(p *FlagProvider) {
		p.updatePeriod = up
	}
}

// WithFlags seeds the provider with an in-memory flag set instead of a
// file; names go through the same validation as file entries.
func WithFlags(flags map[string]bool) Option {
	return func(p *FlagProvider) {
		p.flags = flags
	}
}

type FlagProvider struct {
	filePath     string
	updatePeriod time.Duration
	checksum     [sha256.Size]byte
	flags        map[string]bool
	mu           sync.RWMutex
}

func New(filePath string, opts ...Option) (*FlagProvider, error) {
	p := &FlagProvider{
		filePath:     filePath,
		updatePeriod: defaultUpdatePeriod,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.flags != nil {
		flags, err := validateFlags(p.flags)
		if err != nil {
			return nil, err
		}
		p.flags = flags
		return p, nil
	}

	if err := p.initFlags(); err != nil {
		return nil, err
	}

	return p, nil
}

// Resolver returns the identifier callback for the evaluator. It reads
// the snapshot current at call time, so a reload mid-expression can mix
// old and new values for different identifiers; absent names are false.
func (p *FlagProvider) Resolver() parser.Resolver {
	return func(name string) bool {
		if !conf.CaseSensitive {
			name = strings.ToLower(name)
		}
		p.mu.RLock()
		defer p.mu.RUnlock()
		return p.flags[name]
	}
}

// Set overrides a single flag, validating the name the same way file
// entries are validated.
func (p *FlagProvider) Set(name string, value bool) error {
	if err := validateName(name); err != nil {
		return err
	}
	if !conf.CaseSensitive {
		name = strings.ToLower(name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.flags == nil {
		p.flags = map[string]bool{}
	}
	p.flags[name] = value
	return nil
}

// WatchUpdates periodically re-reads the flag file and swaps the flag set
// when its contents change
func (p *FlagProvider) WatchUpdates(ctx context.Context) {
	logger.Info("starting flag file watcher", zap.String("file", p.filePath))

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("flag file watcher closed")
				return
			case <-time.After(p.updatePeriod):
				p.reloadFlags()
			}
		}
	}()
}

type flagEntry struct {
	Name  string `yaml:"name"`
	Value bool   `yaml:"value"`
}

type flagsYAML struct {
	Flags []flagEntry `yaml:"flags"`
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty flag name")
	}
	if len(name) > conf.MaxIdentLength-1 {
		return fmt.Errorf("flag name %q longer than %d bytes can never match", name, conf.MaxIdentLength-1)
	}
	if !isAlpha(name[0]) {
		return fmt.Errorf("flag name %q must start with an ASCII letter", name)
	}
	for i := 1; i < len(name); i++ {
		if !isAlnum(name[i]) {
			return fmt.Errorf("flag name %q must be ASCII alphanumeric", name)
		}
	}
	return nil
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9')
}

// readFlags parses and validates the yaml flag set. Invalid entries are
// collected and skipped; only a flag set with no valid entry at all fails
// the load.
func readFlags(data []byte) (map[string]bool, error) {
	var in flagsYAML
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing flags yaml: %w", err)
	}

	flags := make(map[string]bool, len(in.Flags))
	var errs error
	for _, entry := range in.Flags {
		if err := validateName(entry.Name); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		name := entry.Name
		if !conf.CaseSensitive {
			name = strings.ToLower(name)
		}
		if _, dup := flags[name]; dup {
			errs = multierr.Append(errs, fmt.Errorf("duplicate flag name %q", name))
			continue
		}
		flags[name] = entry.Value
	}

	if len(flags) == 0 && errs != nil {
		return nil, errs
	}
	for _, err := range multierr.Errors(errs) {
		logger.Warn("skipping invalid flag entry", zap.Error(err))
	}
	return flags, nil
}

func validateFlags(in map[string]bool) (map[string]bool, error) {
	flags := make(map[string]bool, len(in))
	var errs error
	for name, value := range in {
		if err := validateName(name); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !conf.CaseSensitive {
			name = strings.ToLower(name)
		}
		flags[name] = value
	}
	if errs != nil {
		return nil, errs
	}
	return flags, nil
}

func (p *FlagProvider) initFlags() error {
	data, err := os.ReadFile(p.filePath)
	if err != nil {
		return err
	}

	p.checksum = sha256.Sum256(data)

	flags, err := readFlags(data)
	if err != nil {
		return err
	}

	p.flags = flags
	return nil
}

func (p *FlagProvider) reloadFlags() {
	logger.Debug("checking flag file for updates...", zap.String("file", p.filePath))

	data, err := os.ReadFile(p.filePath)
	if err != nil {
		metric.FlagReloadsTotal.WithLabelValues("error").Inc()
		logger.Error("error opening flag file", zap.Error(err))
		return
	}

	newChecksum := sha256.Sum256(data)
	if newChecksum == p.checksum {
		logger.Debug("no flag updates")
		return
	}

	newFlags, err := readFlags(data)
	if err != nil {
		metric.FlagReloadsTotal.WithLabelValues("error").Inc()
		logger.Error("read new flags error", zap.Error(err))
		return
	}

	p.mu.Lock()
	p.flags = newFlags
	p.mu.Unlock()

	p.checksum = newChecksum
	metric.FlagReloadsTotal.WithLabelValues("ok").Inc()
	logger.Info("flags updated", zap.String("file", p.filePath))
}
