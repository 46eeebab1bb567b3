package command

import (
	"fmt"
	"os"

	"github.com/dominicmartinelli/pymud3/internal/game"
	"github.com/dominicmartinelli/pymud3/internal/storage"
	"github.com/pixil98/go-errors"
)

type StorageConfig struct {
	/* World definitions */
	Rooms   AssetConfig[*game.Room]   `json:"rooms"`
	Mobiles AssetConfig[*game.Mobile] `json:"mobiles"`
	Npcs    AssetConfig[*game.Mobile] `json:"npcs"`
	Objects AssetConfig[*game.Object] `json:"objects"`
	Spells  AssetConfig[*game.Spell]  `json:"spells"`

	/* Player saves, created on demand */
	Profiles AssetConfig[*game.PlayerRecord] `json:"profiles"`
}

func (c *StorageConfig) BuildDictionary() (*game.Dictionary, error) {
	rooms, err := c.Rooms.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating room store: %w", err)
	}
	mobiles, err := c.Mobiles.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating mobile store: %w", err)
	}
	npcs, err := c.Npcs.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating npc store: %w", err)
	}
	objects, err := c.Objects.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating object store: %w", err)
	}
	spells, err := c.Spells.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating spell store: %w", err)
	}

	dict := &game.Dictionary{
		Rooms:   rooms,
		Mobiles: mobiles,
		Npcs:    npcs,
		Objects: objects,
		Spells:  spells,
	}

	if err := dict.Resolve(); err != nil {
		return nil, fmt.Errorf("resolving references: %w", err)
	}

	return dict, nil
}

func (c *StorageConfig) BuildProfileStore() (*storage.FileStore[*game.PlayerRecord], error) {
	if err := os.MkdirAll(c.Profiles.Path, 0o755); err != nil {
		return nil, fmt.Errorf("creating profile directory: %w", err)
	}
	return c.Profiles.BuildFileStore()
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Rooms.Validate("rooms"))
	el.Add(c.Mobiles.Validate("mobiles"))
	el.Add(c.Npcs.Validate("npcs"))
	el.Add(c.Objects.Validate("objects"))
	el.Add(c.Spells.Validate("spells"))

	// The profile directory is created at startup, so only the path is
	// checked here.
	if c.Profiles.Path == "" {
		el.Add(fmt.Errorf("profiles: path is required"))
	}

	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
