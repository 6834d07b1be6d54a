package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ConfigStore persists the last imported version per source.
// An empty version means nothing is imported.
type ConfigStore interface {
	Get(name string) (string, error)
	Save(name string, version string) error
}

// FileWriter writes item sets where the game client picks them up
type FileWriter interface {
	Save(champion Champion, set ItemSet, version string, name string) error
	Delete(champion Champion, name string) error
}

// Provider ties a source to the stores its item sets are written to
type Provider struct {
	Name   string
	Source Source
	Config ConfigStore
	Files  FileWriter
	Logger *zap.Logger
	// Progress receives the user facing status lines
	Progress io.Writer
}

// NewProvider creates a provider writing progress to stdout
func NewProvider(name string, src Source, config ConfigStore, files FileWriter, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		Name:     name,
		Source:   src,
		Config:   config,
		Files:    files,
		Logger:   logger.With(zap.String("source", name)),
		Progress: os.Stdout,
	}
}

// ItemSets builds one item set per role of the champion, in the champion's role order
func (p *Provider) ItemSets(champion Champion) ([]ItemSet, error) {
	sets := make([]ItemSet, 0, len(champion.Roles))

	for _, rr := range champion.Roles {
		items, err := p.Source.Items(champion, rr.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to get items for %s %s: %w", champion.Name, rr.Role, err)
		}

		skills, err := p.Source.SkillOrder(champion, rr.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to get skill order for %s %s: %w", champion.Name, rr.Role, err)
		}

		sets = append(sets, ItemSet{
			Role: rr.Role,
			Rank: rr.Rank,
			Frequent: Build{
				Full:       items.Frequent.Full,
				Starters:   items.Frequent.Starters,
				SkillOrder: skills.Frequent,
			},
			Highest: Build{
				Full:       items.Highest.Full,
				Starters:   items.Highest.Starters,
				SkillOrder: skills.Highest,
			},
		})
	}

	return sets, nil
}

// Import replaces all item sets of this source with freshly fetched ones.
// Nothing is rolled back if writing fails halfway.
func (p *Provider) Import() error {
	if err := p.Delete(); err != nil {
		return err
	}

	champions, err := p.Source.Champions()
	if err != nil {
		return fmt.Errorf("failed to get champions: %w", err)
	}

	version, err := p.Source.Version()
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}

	if err := p.Config.Save(p.Name, version); err != nil {
		return fmt.Errorf("failed to save version: %w", err)
	}

	p.Logger.Info("Importing item sets",
		zap.String("version", version),
		zap.Int("champions", len(champions)),
	)

	out := p.Progress
	for _, champion := range champions {
		fmt.Fprintf(out, "Adding %s's item sets from %s...\r", champion.DisplayName, p.Name)

		sets, err := p.ItemSets(champion)
		if err != nil {
			return err
		}

		for _, set := range sets {
			if err := p.Files.Save(champion, set, version, p.Name); err != nil {
				return fmt.Errorf("failed to save %s %s: %w", champion.Name, set.Role, err)
			}
		}

		p.Logger.Debug("Imported champion",
			zap.String("champion", champion.Name),
			zap.Int("sets", len(sets)),
		)
		fmt.Fprint(out, strings.Repeat(" ", 80)+"\r")
	}

	return nil
}

// Delete removes the item sets of every champion in the current roster and
// clears the imported version. Champions that left the roster since the last
// import keep their files.
func (p *Provider) Delete() error {
	fmt.Fprintf(p.Progress, "Deleting item sets from %s\n", p.Name)

	if err := p.Config.Save(p.Name, ""); err != nil {
		return fmt.Errorf("failed to clear version: %w", err)
	}

	champions, err := p.Source.Champions()
	if err != nil {
		return fmt.Errorf("failed to get champions: %w", err)
	}

	for _, champion := range champions {
		if err := p.Files.Delete(champion, p.Name); err != nil {
			return fmt.Errorf("failed to delete %s: %w", champion.Name, err)
		}
	}

	p.Logger.Debug("Deleted item sets", zap.Int("champions", len(champions)))
	return nil
}
