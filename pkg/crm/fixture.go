package crm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"growth-assistant-go/internal/model"
)

// LoadFixture 读取离线目录 YAML，在 Salesforce 不可用时作为数据来源。
func LoadFixture(path string) (*model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("crm: reading fixture %s: %w", path, err)
	}
	var c model.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("crm: parsing fixture %s: %w", path, err)
	}
	return &c, nil
}
