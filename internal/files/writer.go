package files

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ghostsets/internal/source"
)

// ItemEntry is one item slot in a block
type ItemEntry struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Block is a titled group of items
type Block struct {
	Type  string      `json:"type"`
	Items []ItemEntry `json:"items"`
}

// ItemSetFile is the JSON document the League client reads from Recommended directories
type ItemSetFile struct {
	Title               string  `json:"title"`
	Type                string  `json:"type"`
	Map                 string  `json:"map"`
	Mode                string  `json:"mode"`
	Priority            bool    `json:"priority"`
	SortRank            int     `json:"sortrank"`
	AssociatedChampions []int   `json:"associatedChampions,omitempty"`
	Blocks              []Block `json:"blocks"`
}

// Writer writes item sets below <League>/Config/Champions
type Writer struct {
	leagueDir string
	logger    *zap.Logger
}

// NewWriter creates a writer for the League installation at leagueDir
func NewWriter(leagueDir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{leagueDir: leagueDir, logger: logger}
}

// Dir returns the Recommended directory of a champion
func (w *Writer) Dir(champion source.Champion) string {
	return filepath.Join(w.leagueDir, "Config", "Champions", champion.Name, "Recommended")
}

// FileName returns the file name used for a source and role
func FileName(name, role string) string {
	return fmt.Sprintf("%s_%s.json", name, role)
}

// Save writes one item set
func (w *Writer) Save(champion source.Champion, set source.ItemSet, version string, name string) error {
	dir := w.Dir(champion)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create champion directory: %w", err)
	}

	data, err := json.MarshalIndent(Render(champion, set, version, name), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode item set: %w", err)
	}

	path := filepath.Join(dir, FileName(name, set.Role))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write item set: %w", err)
	}

	w.logger.Debug("Wrote item set", zap.String("path", path))
	return nil
}

// Delete removes every item set file of a source for a champion
func (w *Writer) Delete(champion source.Champion, name string) error {
	dir := w.Dir(champion)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read champion directory: %w", err)
	}

	prefix := name + "_"
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete item set: %w", err)
		}
		w.logger.Debug("Deleted item set", zap.String("path", path))
	}

	return nil
}

// Render converts an item set to the client's file format
func Render(champion source.Champion, set source.ItemSet, version string, name string) ItemSetFile {
	file := ItemSetFile{
		Title:    fmt.Sprintf("%s %s %s", strings.ToUpper(name), set.Role, version),
		Type:     "custom",
		Map:      "any",
		Mode:     "any",
		SortRank: set.Rank,
	}

	if id, err := strconv.Atoi(champion.ID); err == nil {
		file.AssociatedChampions = []int{id}
	}

	file.Blocks = append(file.Blocks, buildBlocks("Most Frequent", set.Frequent)...)
	file.Blocks = append(file.Blocks, buildBlocks("Highest Win Rate", set.Highest)...)

	return file
}

// buildBlocks renders the starters and the full build of one variant.
// The skill order goes in the starters title since blocks only hold items.
func buildBlocks(label string, b source.Build) []Block {
	var blocks []Block

	starters := fmt.Sprintf("%s Starters", label)
	if len(b.SkillOrder) > 0 {
		starters = fmt.Sprintf("%s (Skills: %s)", starters, strings.Join(b.SkillOrder, ""))
	}
	if len(b.Starters) > 0 || len(b.SkillOrder) > 0 {
		blocks = append(blocks, Block{Type: starters, Items: countItems(b.Starters)})
	}

	if len(b.Full) > 0 {
		blocks = append(blocks, Block{Type: fmt.Sprintf("%s Build", label), Items: countItems(b.Full)})
	}

	return blocks
}

// countItems merges repeated ids into counts, keeping first-seen order
func countItems(ids []string) []ItemEntry {
	items := make([]ItemEntry, 0, len(ids))
	index := make(map[string]int)

	for _, id := range ids {
		if i, ok := index[id]; ok {
			items[i].Count++
			continue
		}
		index[id] = len(items)
		items = append(items, ItemEntry{ID: id, Count: 1})
	}

	return items
}
