// Package content loads operator-authored quiz content from YAML or XLSX
// workbooks.
package content

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Load picks the decoder by file extension.
func Load(path string) (*models.Content, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read content file")
		}
		return ParseYAML(data)
	case ".xlsx":
		return LoadXLSX(path)
	}
	return nil, errors.Errorf("unsupported content file %q, want .yaml or .xlsx", path)
}

func ParseYAML(data []byte) (*models.Content, error) {
	c := &models.Content{}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	normalize(c)
	return c, nil
}

func normalize(c *models.Content) {
	for i := range c.Questions {
		q := &c.Questions[i]
		for j := range q.Options {
			q.Options[j].QuestionNumber = q.Number
		}
		q.SortOptions()
	}
	sort.Slice(c.Questions, func(i, j int) bool { return c.Questions[i].Number < c.Questions[j].Number })
	sort.Slice(c.Results, func(i, j int) bool { return c.Results[i].Number < c.Results[j].Number })
}
