package commands

import (
	"sync"

	"srcpath/internal/pathconv"
	"srcpath/internal/state"
)

// persistedResolver forwards changes to a shared resolver and records them
// in its own copy of the on-disk profile, which it saves after each change.
// Rules added with --map and flag overrides live only in the resolver.
type persistedResolver struct {
	*pathconv.SyncResolver

	mu      sync.Mutex
	manager *state.Manager
	profile state.Profile
}

func newPersistedResolver(shared *pathconv.SyncResolver, manager *state.Manager, profile *state.Profile) *persistedResolver {
	p := &persistedResolver{
		SyncResolver: shared,
		manager:      manager,
		profile:      *profile,
	}
	p.profile.Sourcemaps = append([]state.Rule{}, profile.Sourcemaps...)
	return p
}

// AddSourcemap appends the rule to the resolver and the profile.
func (p *persistedResolver) AddSourcemap(server, client string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.SyncResolver.AddSourcemap(server, client)
	p.profile.Sourcemaps = append(p.profile.Sourcemaps, state.Rule{Server: server, Client: client})
	p.saveLocked()
}

// ClearSourcemap removes every rule from the resolver and the profile.
func (p *persistedResolver) ClearSourcemap() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.SyncResolver.ClearSourcemap()
	p.profile.Sourcemaps = []state.Rule{}
	p.saveLocked()
}

// SetCoding changes the coding of the resolver and the profile.
func (p *persistedResolver) SetCoding(c pathconv.Coding) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.SyncResolver.SetCoding(c)
	p.profile.Coding = c.String()
	p.saveLocked()
}

func (p *persistedResolver) saveLocked() {
	profile := p.profile
	profile.Sourcemaps = append([]state.Rule{}, p.profile.Sourcemaps...)
	if err := p.manager.SaveProfile(&profile); err != nil {
		logger.Error("Failed to save profile: %v", err)
		return
	}
	logger.Debug("Saved profile with %d sourcemap rules", len(profile.Sourcemaps))
}
