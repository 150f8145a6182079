package service

import (
	"Testify/internal/model"
	"time"
)

// ReadCache — кэш чтений. Каждая мутация сбрасывает записи {владелец, пространство}.
// Версию нужно снять до чтения из хранилища: Set* с устаревшей версией ничего не пишет.
type ReadCache interface {
	GetWall(spaceID string) (*model.Wall, bool)
	WallVersion(spaceID string) uint64
	SetWall(ownerID int64, wall *model.Wall, version uint64, ttl time.Duration)
	GetOwnerSpaces(ownerID int64) ([]model.Space, bool)
	OwnerVersion(ownerID int64) uint64
	SetOwnerSpaces(ownerID int64, spaces []model.Space, version uint64, ttl time.Duration)
	Invalidate(ownerID int64, spaceID string)
}

type noopCache struct{}

func (noopCache) GetWall(string) (*model.Wall, bool) { return nil, false }

func (noopCache) WallVersion(string) uint64 { return 0 }

func (noopCache) SetWall(int64, *model.Wall, uint64, time.Duration) {}

func (noopCache) GetOwnerSpaces(int64) ([]model.Space, bool) { return nil, false }

func (noopCache) OwnerVersion(int64) uint64 { return 0 }

func (noopCache) SetOwnerSpaces(int64, []model.Space, uint64, time.Duration) {}

func (noopCache) Invalidate(int64, string) {}
