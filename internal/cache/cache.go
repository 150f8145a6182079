// Package cache хранит результаты публичных и владельческих чтений в памяти процесса.
package cache

import (
	"Testify/internal/model"
	"sync"
	"time"
)

type wallItem struct {
	value     model.Wall
	ownerID   int64
	expiresAt time.Time
}

type spacesItem struct {
	value     []model.Space
	expiresAt time.Time
}

// InMemory — кэш стен (по spaceID) и списков пространств (по владельцу) с TTL.
// Просроченные записи удаляются лениво при чтении.
//
// Версии защищают от гонки "чтение из БД / инвалидация / запись в кэш":
// версия снимается до чтения, и Set* отбрасывает значение, если между ними был Invalidate.
type InMemory struct {
	mu     sync.RWMutex
	walls  map[string]wallItem
	owners map[int64]spacesItem
	now    func() time.Time

	seq      uint64
	purged   uint64 // последний Invalidate без spaceID
	wallGen  map[string]uint64
	ownerGen map[int64]uint64
}

func NewInMemory() *InMemory {
	return &InMemory{
		walls:    make(map[string]wallItem),
		owners:   make(map[int64]spacesItem),
		now:      time.Now,
		wallGen:  make(map[string]uint64),
		ownerGen: make(map[int64]uint64),
	}
}

// WallVersion — версия стены; передаётся в SetWall.
func (c *InMemory) WallVersion(spaceID string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.wallVersion(spaceID)
}

func (c *InMemory) wallVersion(spaceID string) uint64 {
	return max(c.wallGen[spaceID], c.purged)
}

// OwnerVersion — версия списка пространств владельца; передаётся в SetOwnerSpaces.
func (c *InMemory) OwnerVersion(ownerID int64) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ownerGen[ownerID]
}

func (c *InMemory) GetWall(spaceID string) (*model.Wall, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.walls[spaceID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.walls[spaceID]
		if ok && !item.expiresAt.After(now) {
			delete(c.walls, spaceID)
		}
		c.mu.Unlock()
		return nil, false
	}

	wall := item.value
	wall.Testimonials = append(make([]model.Testimonial, 0, len(item.value.Testimonials)), item.value.Testimonials...)
	return &wall, true
}

func (c *InMemory) SetWall(ownerID int64, wall *model.Wall, version uint64, ttl time.Duration) {
	if wall == nil || ttl <= 0 {
		return
	}
	value := *wall
	value.Testimonials = append(make([]model.Testimonial, 0, len(wall.Testimonials)), wall.Testimonials...)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wallVersion(wall.SpaceID) != version {
		return
	}
	c.walls[wall.SpaceID] = wallItem{value: value, ownerID: ownerID, expiresAt: c.now().Add(ttl)}
}

func (c *InMemory) GetOwnerSpaces(ownerID int64) ([]model.Space, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.owners[ownerID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.owners[ownerID]
		if ok && !item.expiresAt.After(now) {
			delete(c.owners, ownerID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneSpaces(item.value), true
}

func (c *InMemory) SetOwnerSpaces(ownerID int64, spaces []model.Space, version uint64, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	value := cloneSpaces(spaces)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ownerGen[ownerID] != version {
		return
	}
	c.owners[ownerID] = spacesItem{value: value, expiresAt: c.now().Add(ttl)}
}

// Invalidate сбрасывает кэш владельца и стену пространства.
// Пустой spaceID сбрасывает все стены владельца.
func (c *InMemory) Invalidate(ownerID int64, spaceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.ownerGen[ownerID] = c.seq
	delete(c.owners, ownerID)
	if spaceID != "" {
		c.wallGen[spaceID] = c.seq
		delete(c.walls, spaceID)
		return
	}
	c.purged = c.seq
	for id, item := range c.walls {
		if item.ownerID == ownerID {
			delete(c.walls, id)
		}
	}
}

func cloneSpaces(in []model.Space) []model.Space {
	out := make([]model.Space, len(in))
	for i, s := range in {
		out[i] = s
		out[i].Testimonials = append([]model.Testimonial(nil), s.Testimonials...)
	}
	return out
}
