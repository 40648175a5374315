package player

import (
	"sync"

	"github.com/zavork/zavork/internal/repository"
)

// Manager owns one Player per guild. Sessions are created on demand and live
// for the process lifetime; there is no implicit process-wide session.
type Manager struct {
	resolver  Resolver
	transport Transport
	repo      *repository.Repo
	listeners func(guildID, channelID string) int

	mu      sync.Mutex
	players map[string]*Player
}

func NewManager(resolver Resolver, transport Transport, repo *repository.Repo, listeners func(guildID, channelID string) int) *Manager {
	return &Manager{
		resolver:  resolver,
		transport: transport,
		repo:      repo,
		listeners: listeners,
		players:   make(map[string]*Player),
	}
}

// Get returns the guild's player, creating it if needed.
func (m *Manager) Get(guildID string) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.players[guildID]; ok {
		return p
	}
	p := NewPlayer(m.resolver, m.transport, m.repo, guildID)
	if m.listeners != nil {
		p.Listeners = func(channelID string) int {
			return m.listeners(guildID, channelID)
		}
	}
	m.players[guildID] = p
	return p
}

// Peek returns the guild's player without creating one.
func (m *Manager) Peek(guildID string) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.players[guildID]
}
