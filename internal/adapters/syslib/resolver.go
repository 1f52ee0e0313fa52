// Package syslib resolves external include tokens to linker flags.
package syslib

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/zerr"

	"github.com/alex-iam/smk/internal/core/domain"
	"github.com/alex-iam/smk/internal/core/ports"
)

const (
	cacheFileName = "libcache.json"
	memCacheSize  = 256
)

var _ ports.LibraryResolver = (*Resolver)(nil)

// Resolver implements ports.LibraryResolver. Strategies run in order:
// explicit hints, the well-known header registry, pkg-config, then a
// probe compile through the toolchain. Results are cached in memory
// and persisted under the project state directory, keyed by toolchain
// identity and link flags so a compiler change invalidates them.
type Resolver struct {
	factory   ports.ToolchainFactory
	hasher    ports.Hasher
	logger    ports.Logger
	pkgConfig string
	mem       *lru.Cache[string, domain.LibraryResolution]
}

// NewResolver creates a Resolver probing through factory-built toolchains.
func NewResolver(factory ports.ToolchainFactory, hasher ports.Hasher, logger ports.Logger) (*Resolver, error) {
	mem, err := lru.New[string, domain.LibraryResolution](memCacheSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create resolution cache")
	}
	return &Resolver{
		factory:   factory,
		hasher:    hasher,
		logger:    logger,
		pkgConfig: "pkg-config",
		mem:       mem,
	}, nil
}

// SetPkgConfigPath overrides the pkg-config executable.
func (r *Resolver) SetPkgConfigPath(path string) {
	r.pkgConfig = path
}

// cacheFile is the persisted resolution cache. Entries recorded under
// a different key belong to another toolchain or flag set and are
// discarded wholesale.
type cacheFile struct {
	Key     string                              `json:"key"`
	Entries map[string]domain.LibraryResolution `json:"entries"`
}

// Resolve produces one resolution per token, in token order.
func (r *Resolver) Resolve(ctx context.Context, project *domain.Project, tokens []string) ([]domain.LibraryResolution, error) {
	tc := r.factory.New(project.Compiler)
	key := r.hasher.HashStrings(append([]string{tc.Identity()}, project.LinkFlags...))

	persisted := r.loadCache(project, key)
	dirty := false

	resolutions := make([]domain.LibraryResolution, 0, len(tokens))
	for _, token := range tokens {
		if flags, ok := project.Hints[token]; ok {
			resolutions = append(resolutions, domain.LibraryResolution{
				Token:  token,
				Flags:  flags,
				Origin: domain.OriginHint,
			})
			continue
		}

		memKey := key + ":" + token
		if res, ok := r.mem.Get(memKey); ok {
			resolutions = append(resolutions, res)
			continue
		}
		if res, ok := persisted.Entries[token]; ok {
			res.Origin = domain.OriginCache
			r.mem.Add(memKey, res)
			resolutions = append(resolutions, res)
			continue
		}

		res := r.resolveToken(ctx, tc, token)
		if !res.Missing {
			r.mem.Add(memKey, res)
			persisted.Entries[token] = res
			dirty = true
		}
		resolutions = append(resolutions, res)
	}

	if dirty {
		if err := r.saveCache(project, persisted); err != nil {
			r.logger.Warn("failed to persist library resolution cache: " + err.Error())
		}
	}
	return resolutions, nil
}

// resolveToken runs the registry, pkg-config and probe strategies.
func (r *Resolver) resolveToken(ctx context.Context, tc ports.Toolchain, token string) domain.LibraryResolution {
	if entry, ok := registry[token]; ok {
		return r.resolveRegistered(ctx, tc, token, entry)
	}

	// No registry entry. The header may need no extra flags at all
	// (libc headers), so try the bare probe before guessing.
	if err := tc.Probe(ctx, ports.ProbeRequest{Header: token}); err == nil {
		return domain.LibraryResolution{Token: token, Origin: domain.OriginProbe}
	}

	guess := strings.ToLower(strings.TrimSuffix(filepath.Base(token), filepath.Ext(token)))
	if flags, ok := r.pkgConfigLibs(ctx, guess); ok {
		if err := tc.Probe(ctx, ports.ProbeRequest{Header: token, Flags: flags}); err == nil {
			return domain.LibraryResolution{Token: token, Flags: flags, Origin: domain.OriginPkgConfig}
		}
	}

	flags := []string{"-l" + guess}
	if err := tc.Probe(ctx, ports.ProbeRequest{Header: token, Flags: flags}); err == nil {
		return domain.LibraryResolution{Token: token, Flags: flags, Origin: domain.OriginProbe}
	}

	return domain.LibraryResolution{Token: token, Missing: true}
}

// resolveRegistered tries each registry candidate in order. With more
// than one candidate the first successful probe wins and the ambiguity
// is logged.
func (r *Resolver) resolveRegistered(ctx context.Context, tc ports.Toolchain, token string, entry registryEntry) domain.LibraryResolution {
	ambiguous := len(entry.Candidates) > 1
	for _, cand := range entry.Candidates {
		flags := cand.Flags
		origin := domain.OriginRegistry
		if cand.Pkg != "" {
			if pkgFlags, ok := r.pkgConfigLibs(ctx, cand.Pkg); ok {
				flags = pkgFlags
				origin = domain.OriginPkgConfig
			}
		}
		if len(flags) == 0 {
			continue
		}
		if !entry.Direct {
			if err := tc.Probe(ctx, ports.ProbeRequest{Header: token, Flags: flags}); err != nil {
				continue
			}
		}
		if ambiguous {
			r.logger.Warn("ambiguous library for " + token + ": using " + strings.Join(flags, " "))
		}
		return domain.LibraryResolution{
			Token:     token,
			Flags:     flags,
			Origin:    origin,
			Ambiguous: ambiguous,
		}
	}
	return domain.LibraryResolution{Token: token, Missing: true}
}

// pkgConfigLibs queries pkg-config for the link flags of pkg.
func (r *Resolver) pkgConfigLibs(ctx context.Context, pkg string) ([]string, bool) {
	if pkg == "" {
		return nil, false
	}
	out, err := exec.CommandContext(ctx, r.pkgConfig, "--libs", pkg).Output() //nolint:gosec // Package name comes from the registry or config
	if err != nil {
		return nil, false
	}
	flags := strings.Fields(string(out))
	if len(flags) == 0 {
		return nil, false
	}
	return flags, true
}

func (r *Resolver) cachePath(project *domain.Project) string {
	return filepath.Join(project.StateDir(), cacheFileName)
}

// loadCache reads the persisted cache, returning an empty one when
// the file is absent, unreadable or keyed for another configuration.
func (r *Resolver) loadCache(project *domain.Project, key string) *cacheFile {
	fresh := &cacheFile{Key: key, Entries: map[string]domain.LibraryResolution{}}

	data, err := os.ReadFile(r.cachePath(project))
	if err != nil {
		return fresh
	}
	var cached cacheFile
	if err := json.Unmarshal(data, &cached); err != nil || cached.Key != key || cached.Entries == nil {
		return fresh
	}
	return &cached
}

func (r *Resolver) saveCache(project *domain.Project, cache *cacheFile) error {
	dir := project.StateDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create state directory")
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode resolution cache")
	}

	tmp, err := os.CreateTemp(dir, cacheFileName+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp cache file")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to write resolution cache")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to close temp cache file")
	}
	if err := os.Rename(tmp.Name(), r.cachePath(project)); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to replace resolution cache")
	}
	return nil
}
