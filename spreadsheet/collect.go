package spreadsheet

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"hostel-analytics/models"
	"hostel-analytics/utils"
)

// Collector flattens files and folders into spreadsheet blobs.
type Collector struct {
	logger *utils.Logger
	seen   *utils.StringSet
}

// NewCollector creates a Collector with the given logger.
func NewCollector(logger *utils.Logger) *Collector {
	return &Collector{logger: logger, seen: utils.NewStringSet()}
}

// Collect walks every path recursively and returns the spreadsheet files found,
// in walk order. Other files are ignored; a path reached twice is read once.
func (c *Collector) Collect(paths []string) ([]models.FileBlob, error) {
	var blobs []models.FileBlob

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !IsSpreadsheetName(d.Name()) {
				return nil
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			if !c.seen.Add(abs) {
				c.logger.Debug("[collect] Duplicate path skipped: %s", abs)
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("collect: read %q: %w", path, err)
			}
			blobs = append(blobs, models.FileBlob{Name: d.Name(), Data: data})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("collect: walk %q: %w", root, err)
		}
	}

	c.logger.Info("[collect] Found %d spreadsheet files under %d paths (%d unique paths seen)",
		len(blobs), len(paths), c.seen.Size())
	return blobs, nil
}
