package session

import "github.com/sasha-s/go-deadlock"

// Preferences are the language choices shared by the models of one
// process. Both are empty until first set.
type Preferences struct {
	mu        deadlock.Mutex
	preferred string
	lastUsed  string
}

// Preferred returns the explicitly chosen language.
func (p *Preferences) Preferred() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.preferred
}

// SetPreferred sets the explicitly chosen language, which also becomes the
// last used one.
func (p *Preferences) SetPreferred(lang string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.preferred = lang
	if lang != "" {
		p.lastUsed = lang
	}
}

// LastUsed returns the language used last.
func (p *Preferences) LastUsed() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastUsed
}

// SetLastUsed records the language used last.
func (p *Preferences) SetLastUsed(lang string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastUsed = lang
}
